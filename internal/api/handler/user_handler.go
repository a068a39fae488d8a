package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/mobi/cms-console/internal/core/ports"
)

// UserHandler serves the user administration section. Routes are expected
// behind the admin role guard.
type UserHandler struct {
	catalog ports.CatalogGateway
	session ports.SessionReader
}

func NewUserHandler(catalog ports.CatalogGateway, session ports.SessionReader) *UserHandler {
	return &UserHandler{catalog: catalog, session: session}
}

// List handles GET /users.
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.catalog.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Get handles GET /users/:id.
func (h *UserHandler) Get(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	user, err := h.catalog.GetUser(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// Delete handles DELETE /users/:id. Operators cannot delete their own account
// from the console.
func (h *UserHandler) Delete(c echo.Context) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	ctx := c.Request().Context()
	if me := h.session.CurrentUser(ctx); me != nil && me.ID == id {
		return echo.NewHTTPError(http.StatusConflict, "cannot delete the signed-in operator")
	}
	if err := h.catalog.DeleteUser(ctx, id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

