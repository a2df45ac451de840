package middleware

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

const (
	// cookie名
	SessionCookieName = "cart_session"
	// echo.Contextに入れるキー（string）
	CtxSessionTokenKey = "session_token"
)

// CartSession はcookieのセッショントークンをcontextに載せるミドルウェア。
// cookieが無ければ新しいトークンを発行してSet-Cookieする。
// トークン→カートの紐付け自体はusecase側で永続化する。
func CartSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := ""

			if cookie, err := c.Cookie(SessionCookieName); err == nil && cookie.Value != "" {
				token = cookie.Value
			}

			if token == "" {
				token = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     SessionCookieName,
					Value:    token,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(CtxSessionTokenKey, token)
			return next(c)
		}
	}
}

// handler側でトークンを取り出す
func GetSessionToken(c echo.Context) (string, bool) {
	v := c.Get(CtxSessionTokenKey)
	token, ok := v.(string)
	if !ok || token == "" {
		return "", false
	}
	return token, true
}
