package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health is the liveness check.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// Root answers GET /api/ with the service banner.
func Root(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"message": "FleetEase API", "version": "1.0"})
}
