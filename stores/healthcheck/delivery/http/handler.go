package http

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/goguard/base/delivery"
	hcdomain "github.com/x-xyz/goguard/domain/healthcheck"
)

// ResponseError represent the reseponse error struct
type ResponseError struct {
	Message string `json:"message"`
}

type healthCheckHandler struct {
	healthCheck hcdomain.HealthCheckUsecase
}

// New registers GET /health
func New(e *echo.Echo, us hcdomain.HealthCheckUsecase) {
	handler := &healthCheckHandler{
		healthCheck: us,
	}
	g := e.Group("/health")
	g.GET("", handler.check)
}

// check answers 200 while the counter answers a Load in time and 503 with the
// Load error otherwise.
func (h *healthCheckHandler) check(c echo.Context) error {
	context := delivery.Ctx(c)
	if err := h.healthCheck.Check(context); err != nil {
		return c.JSON(http.StatusServiceUnavailable, ResponseError{
			Message: err.Error(),
		})
	}
	return c.JSON(http.StatusOK, map[string]string{
		"healthy": "ok",
	})
}
