package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

// Health reports liveness for load balancers and uptime probes. It
// answers as soon as the process can serve HTTP; it does not touch the
// database, Redis or the broker, so a degraded dependency never takes
// the whole instance out of rotation.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}
