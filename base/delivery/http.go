package delivery

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/x-xyz/goguard/base/ctx"
	"github.com/x-xyz/goguard/domain"
)

type JsonResponseStatus string

const (
	JsonResponseStatusSuccess JsonResponseStatus = "success"
	JsonResponseStatusFail    JsonResponseStatus = "fail"
)

type JsonResponse struct {
	Data   interface{}        `json:"data"`
	Status JsonResponseStatus `json:"status"`
}

// MakeJsonResp writes data wrapped in a JsonResponse. An error as data is
// rendered as its message, with the status derived from known domain errors.
func MakeJsonResp(c echo.Context, status int, data interface{}) error {
	if err, ok := data.(error); ok {
		switch {
		case errors.Is(err, domain.ErrNotFound):
			status = http.StatusNotFound
		case errors.Is(err, domain.ErrInvalidReference), errors.Is(err, domain.ErrBadParamInput):
			status = http.StatusBadRequest
		}
		data = err.Error()
	}

	if status >= 400 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusFail})
	}

	if status >= 200 && status < 300 {
		return c.JSON(status, JsonResponse{data, JsonResponseStatusSuccess})
	}

	return c.JSON(status, data)
}

// Ctx returns the request ctx set by the AddContext middleware, or a fresh
// one wrapping the request context.
func Ctx(c echo.Context) ctx.Ctx {
	if cont, ok := c.Get("ctx").(ctx.Ctx); ok {
		return cont
	}
	return ctx.From(c.Request().Context())
}
