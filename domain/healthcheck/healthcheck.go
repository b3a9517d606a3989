package healthcheck

import (
	"github.com/x-xyz/goguard/base/ctx"
)

// HealthCheckUsecase represents the healthCheck's usecases
type HealthCheckUsecase interface {
	Check(context ctx.Ctx) error
}

// HealthCheckRepo is the dependency checked by a health check
type HealthCheckRepo interface {
	PingCounter(context ctx.Ctx) error
}
