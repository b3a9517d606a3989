package harness

import (
	"time"

	"github.com/x-xyz/goguard/base/ctx"
	"github.com/x-xyz/goguard/domain/counter"
)

// Params of a harness run.
type Params struct {
	Initial int64 `json:"initial"`
	Workers int   `json:"workers" validate:"gte=0"`
}

// Report of a finished run.
type Report struct {
	Initial int64 `json:"initial"`
	Final   int64 `json:"final"`
	Workers int   `json:"workers"`
	// MaxOccupancy is the peak number of workers seen inside the critical
	// section at once, 0 when the service does not report it.
	MaxOccupancy int           `json:"maxOccupancy"`
	Elapsed      time.Duration `json:"elapsed"`
}

// Usecase is the concurrent invocation harness.
type Usecase interface {
	// Run creates a counter seeded with p.Initial and decrements it from
	// p.Workers concurrent workers, once each.
	Run(c ctx.Ctx, p Params) (*Report, error)
	// RunAgainst does the same against an existing counter service, taking
	// the initial value from it.
	RunAgainst(c ctx.Ctx, svc counter.Usecase, workers int) (*Report, error)
}
