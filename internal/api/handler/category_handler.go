package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mobi/cms-console/internal/core/ports"
)

type CategoryHandler struct {
	catalog ports.CatalogGateway
}

func NewCategoryHandler(catalog ports.CatalogGateway) *CategoryHandler {
	return &CategoryHandler{catalog: catalog}
}

// List handles GET /categories.
func (h *CategoryHandler) List(c echo.Context) error {
	categories, err := h.catalog.ListCategories(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categories)
}
