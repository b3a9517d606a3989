package middleware

import (
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/x-xyz/goguard/base/ctx"
	"github.com/x-xyz/goguard/base/delivery"
	"github.com/x-xyz/goguard/base/log"
	"github.com/x-xyz/goguard/base/metrics"
)

// GoMiddleware represent the data-struct for middleware
type GoMiddleware struct {
	met metrics.Service
}

// InitMiddleware initialize the middleware
func InitMiddleware() *GoMiddleware {
	// request metrics are tagged per path, a pod tag on top multiplies them
	return &GoMiddleware{met: metrics.New("http", metrics.WithoutPodName())}
}

// AddContext puts a ctx.Ctx carrying the request id into echo's context
func (m *GoMiddleware) AddContext() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) (err error) {
			requestID := c.Response().Header().Get(echo.HeaderXRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
				c.Response().Header().Set(echo.HeaderXRequestID, requestID)
			}
			base := ctx.WithContext(ctx.Background(), c.Request().Context())
			c.Set("ctx", ctx.WithValue(base, "requestID", requestID))
			return next(c)
		}
	}
}

// ResponseLogger logs response for every request
func (m *GoMiddleware) ResponseLogger() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			defer m.met.BumpTime("request.time", "method", c.Request().Method, "path", c.Path()).End()

			start := time.Now()

			err := next(c)
			if err != nil {
				c.Error(err)
			}

			req := c.Request()
			res := c.Response()

			fields := log.Fields{
				"ms":         time.Since(start).Seconds() * 1000,
				"httpStatus": res.Status,
				"host":       req.Host,
				"remoteIP":   c.RealIP(),
				"uri":        req.URL.Path,
				"httpMethod": req.Method,
				"size":       res.Size,
				"userAgent":  req.UserAgent(),
			}

			if res.Status >= 400 {
				fields["nextErr"] = err
			}

			delivery.Ctx(c).WithFields(fields).Info("response")
			return nil
		}
	}
}
