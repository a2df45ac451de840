package server

import (
	"app/internal/handler"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

func New(cartH *handler.CartHandler, productH *handler.ProductHandler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())

	RegisterRoutes(e, cartH, productH)
	return e
}

func Start(e *echo.Echo, addr string) error {
	return e.Start(addr)
}
