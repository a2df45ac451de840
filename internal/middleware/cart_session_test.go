package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func runWithSession(t *testing.T, req *http.Request) (string, *httptest.ResponseRecorder) {
	t.Helper()

	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var got string
	h := CartSession()(func(c echo.Context) error {
		token, ok := GetSessionToken(c)
		assert.True(t, ok)
		got = token
		return c.NoContent(http.StatusOK)
	})

	assert.NoError(t, h(c))
	return got, rec
}

// cookieが無ければ発行してSet-Cookieする
func TestCartSession_MintsTokenWhenMissing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)

	token, rec := runWithSession(t, req)
	assert.NotEmpty(t, token)

	cookies := rec.Result().Cookies()
	var found *http.Cookie
	for _, cookie := range cookies {
		if cookie.Name == SessionCookieName {
			found = cookie
		}
	}
	if assert.NotNil(t, found) {
		assert.Equal(t, token, found.Value)
		assert.True(t, found.HttpOnly)
	}
}

// cookieがあればそのトークンを使い回す
func TestCartSession_ReusesExistingToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/cart", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookieName, Value: "existing-token"})

	token, rec := runWithSession(t, req)
	assert.Equal(t, "existing-token", token)
	assert.Empty(t, rec.Result().Cookies())
}
