package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mobi/cms-console/internal/core/ports"
)

// OrderHandler serves the read-only order and cart sections.
type OrderHandler struct {
	catalog ports.CatalogGateway
}

func NewOrderHandler(catalog ports.CatalogGateway) *OrderHandler {
	return &OrderHandler{catalog: catalog}
}

// List handles GET /orders.
func (h *OrderHandler) List(c echo.Context) error {
	orders, err := h.catalog.ListOrders(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, orders)
}

// Get handles GET /orders/:id.
func (h *OrderHandler) Get(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	order, err := h.catalog.GetOrder(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, order)
}

// Carts handles GET /carts.
func (h *OrderHandler) Carts(c echo.Context) error {
	items, err := h.catalog.ListCartItems(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, items)
}
