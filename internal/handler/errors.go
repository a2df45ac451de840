package handler

import (
	"errors"
	"net/http"

	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

var errInvalidQuantity = errors.New("quantity must be an integer")

type ErrorResponse struct {
	Error string `json:"error"`
}

// usecaseのHTTPErrorをレスポンスに変換する
func writeError(c echo.Context, err error) error {
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}
