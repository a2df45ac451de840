package server

import (
	"app/internal/handler"

	"github.com/labstack/echo/v4"
)

func RegisterRoutes(e *echo.Echo, cartH *handler.CartHandler, productH *handler.ProductHandler) {
	cartH.RegisterRoutes(e)
	productH.RegisterRoutes(e)
}
