package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// /cartのHTTP
type CartHandler struct {
	uc *usecase.CartUsecase
}

// DI
func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

// quantityはクライアントによって数値でも文字列でも来るのでRawMessageで受ける
type CartItemRequest struct {
	ProductID int64           `json:"product_id"`
	Quantity  json.RawMessage `json:"quantity"`
}

// ルート登録。パスは参照実装と同じ
func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/cart")
	g.Use(middleware.CartSession())

	g.GET("", h.getCart)
	g.POST("", h.addItem)
	g.PUT("/add_item", h.updateItem)
	g.DELETE("/:product_id", h.removeItem)
}

func (h *CartHandler) getCart(c echo.Context) error {
	token, ok := middleware.GetSessionToken(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing session"})
	}

	out, err := h.uc.GetCart(c.Request().Context(), token)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addItem(c echo.Context) error {
	token, ok := middleware.GetSessionToken(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing session"})
	}

	var req CartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	qty, err := parseQuantity(req.Quantity)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "quantity must be an integer"})
	}

	out, created, err := h.uc.AddItem(c.Request().Context(), token, usecase.CartItemInput{
		ProductID: req.ProductID,
		Quantity:  qty,
	})
	if err != nil {
		return writeError(c, err)
	}

	//新規明細なら201
	if created {
		return c.JSON(http.StatusCreated, out)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) updateItem(c echo.Context) error {
	token, ok := middleware.GetSessionToken(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing session"})
	}

	var req CartItemRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}

	qty, err := parseQuantity(req.Quantity)
	if err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "quantity must be an integer"})
	}

	out, err := h.uc.UpdateItem(c.Request().Context(), token, usecase.CartItemInput{
		ProductID: req.ProductID,
		Quantity:  qty,
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) removeItem(c echo.Context) error {
	token, ok := middleware.GetSessionToken(c)
	if !ok {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing session"})
	}

	productID, err := strconv.ParseInt(c.Param("product_id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid product_id"})
	}

	out, err := h.uc.RemoveItem(c.Request().Context(), token, productID)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusOK, out)
}

// quantityを明示的にパースする。
// 数値か数値文字列は受け付け、欠落/nullは0として扱う（参照実装の挙動）。
// 数値以外の文字列はエラー。
func parseQuantity(raw json.RawMessage) (int64, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return 0, nil
	}

	var n int64
	if err := json.Unmarshal(raw, &n); err == nil {
		return n, nil
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return 0, errInvalidQuantity
	}

	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}

	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errInvalidQuantity
	}
	return n, nil
}
