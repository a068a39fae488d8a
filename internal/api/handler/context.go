package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
)

// paramID parses the :id path parameter. Backend ids are positive int64s.
func paramID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return id, nil
}
