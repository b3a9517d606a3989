package usecase

import (
	"github.com/x-xyz/goguard/base/ctx"
	hcdomain "github.com/x-xyz/goguard/domain/healthcheck"
)

type impl struct {
	repo hcdomain.HealthCheckRepo
}

// New creates new healthCheckUsecase object representation of HealthCheckUsecase interface
func New(repo hcdomain.HealthCheckRepo) hcdomain.HealthCheckUsecase {
	return &impl{
		repo: repo,
	}
}

// Check reports the service unhealthy when the guarded counter can not be
// loaded before the repository deadline, e.g. when its lock is never released.
func (im *impl) Check(context ctx.Ctx) error {
	return im.repo.PingCounter(context)
}
