package usecase

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/viney-shih/goroutines"
	"golang.org/x/xerrors"

	"github.com/x-xyz/goguard/base/ctx"
	"github.com/x-xyz/goguard/base/goroutine"
	"github.com/x-xyz/goguard/base/irq"
	"github.com/x-xyz/goguard/base/log"
	"github.com/x-xyz/goguard/base/metrics"
	"github.com/x-xyz/goguard/base/validator"
	"github.com/x-xyz/goguard/domain"
	"github.com/x-xyz/goguard/domain/counter"
	"github.com/x-xyz/goguard/domain/harness"
)

const (
	defaultSpawnTimeout = 3 * time.Second
)

// Config of the harness
type Config struct {
	Factory counter.Factory
	// MaxWorkers bounds Params.Workers, unbounded if 0
	MaxWorkers int
	// PoolSize caps the worker pool, one goroutine per worker if 0
	PoolSize int
	// SpawnTimeout is how long scheduling one worker may wait for the pool
	SpawnTimeout time.Duration
	Metrics      metrics.Service
}

type impl struct {
	factory      counter.Factory
	maxWorkers   int
	poolSize     int
	spawnTimeout time.Duration
	met          metrics.Service
}

// New creates the harness usecase
func New(cfg *Config) harness.Usecase {
	if cfg.Factory == nil {
		panic("Factory can not be nil")
	}
	if cfg.SpawnTimeout == 0 {
		cfg.SpawnTimeout = defaultSpawnTimeout
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.New("harness")
	}

	return &impl{
		factory:      cfg.Factory,
		maxWorkers:   cfg.MaxWorkers,
		poolSize:     cfg.PoolSize,
		spawnTimeout: cfg.SpawnTimeout,
		met:          cfg.Metrics,
	}
}

func (im *impl) validate(c ctx.Ctx, workers int) error {
	if err := validator.Struct(harness.Params{Workers: workers}); err != nil {
		c.WithFields(log.Fields{"err": err, "workers": workers}).Warn("invalid params")
		return xerrors.Errorf("workers %d: %w", workers, domain.ErrBadParamInput)
	}
	if im.maxWorkers > 0 && workers > im.maxWorkers {
		c.WithFields(log.Fields{"workers": workers, "maxWorkers": im.maxWorkers}).Warn("too many workers")
		return xerrors.Errorf("workers %d exceeds %d: %w", workers, im.maxWorkers, domain.ErrBadParamInput)
	}
	return nil
}

func (im *impl) Run(c ctx.Ctx, p harness.Params) (*harness.Report, error) {
	if err := im.validate(c, p.Workers); err != nil {
		return nil, err
	}

	svc, err := im.factory(c, p.Initial)
	if err != nil {
		c.WithField("err", err).Error("counter factory failed")
		return nil, err
	}
	return im.RunAgainst(c, svc, p.Workers)
}

func (im *impl) RunAgainst(c ctx.Ctx, svc counter.Usecase, workers int) (*harness.Report, error) {
	if err := im.validate(c, workers); err != nil {
		return nil, err
	}
	defer im.met.BumpTime("run.time").End()

	start := time.Now()
	ref := svc.Ref()
	initial, err := svc.Load(c, ref)
	if err != nil {
		c.WithField("err", err).Error("counter.Load failed")
		return nil, err
	}

	if workers > 0 {
		if err := im.spawnAndJoin(c, svc, ref, workers); err != nil {
			return nil, err
		}
	}

	final, err := svc.Load(c, ref)
	if err != nil {
		c.WithField("err", err).Error("counter.Load failed")
		return nil, err
	}

	report := &harness.Report{
		Initial: initial,
		Final:   final,
		Workers: workers,
		Elapsed: time.Since(start),
	}
	if obs, ok := svc.(counter.Observer); ok {
		_, report.MaxOccupancy = obs.Occupancy()
	}

	im.met.BumpSum("run.workers", float64(workers))
	c.WithFields(log.Fields{
		"initial":      report.Initial,
		"final":        report.Final,
		"workers":      report.Workers,
		"maxOccupancy": report.MaxOccupancy,
		"elapsed":      report.Elapsed.String(),
	}).Info("run finished")
	return report, nil
}

// spawnAndJoin starts one worker per decrement and waits for every started
// worker. A worker that could not be started aborts spawning; the ones
// already running are still joined before the error is returned.
func (im *impl) spawnAndJoin(c ctx.Ctx, svc counter.Usecase, ref *counter.Ref, workers int) error {
	var pool *goroutines.Pool
	if im.poolSize > 0 && im.poolSize < workers {
		// bounded pool: scheduling waits for a free goroutine
		pool = goroutines.NewPool(im.poolSize)
	} else {
		pool = goroutines.NewPool(workers, goroutines.WithTaskQueueLength(workers))
	}
	defer pool.Release()

	spawner := func(task func()) error {
		return pool.ScheduleWithTimeout(im.spawnTimeout, task)
	}

	joins := make([]chan *goroutine.PanicEvent, 0, workers)
	errs := make([]error, workers)

	var panicked int32
	countPanic := func(interface{}, []byte) {
		atomic.AddInt32(&panicked, 1)
	}

	var spawnErr error
	for i := 0; i < workers; i++ {
		idx := i
		wc := irq.NewContext(ctx.WithValues(c, map[string]interface{}{
			"workerID": uuid.NewString(),
			"worker":   idx,
		}), &irq.Unit{})

		join, err := goroutine.RecoverableGo(func() {
			errs[idx] = svc.Decrement(wc, ref)
		}, goroutine.WithSpawner(spawner), goroutine.WithAfterRecovered(countPanic))
		if err != nil {
			c.WithFields(log.Fields{
				"err":     err,
				"worker":  idx,
				"spawned": len(joins),
			}).Error("spawn worker failed")
			spawnErr = xerrors.Errorf("worker %d of %d: %v: %w", idx, workers, err, domain.ErrSpawnFailed)
			break
		}
		joins = append(joins, join)
	}

	for _, join := range joins {
		<-join
	}

	if spawnErr != nil {
		return spawnErr
	}
	if n := atomic.LoadInt32(&panicked); n > 0 {
		return xerrors.Errorf("%d workers panicked: %w", n, domain.ErrWorkerFailed)
	}
	for i, err := range errs {
		if err != nil {
			c.WithFields(log.Fields{"err": err, "worker": i}).Error("counter.Decrement failed")
			return xerrors.Errorf("worker %d: %v: %w", i, err, domain.ErrWorkerFailed)
		}
	}
	return nil
}
