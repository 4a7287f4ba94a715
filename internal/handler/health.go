package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health answers the liveness probe with a plain "ok".
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}
