package usecase

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/xerrors"

	"github.com/x-xyz/goguard/base/ctx"
	bCounter "github.com/x-xyz/goguard/base/counter"
	"github.com/x-xyz/goguard/base/lock"
	"github.com/x-xyz/goguard/base/log"
	"github.com/x-xyz/goguard/base/metrics"
	"github.com/x-xyz/goguard/domain"
	"github.com/x-xyz/goguard/domain/counter"
)

// Config of a guarded counter
type Config struct {
	Initial int64
	// Mode is the lock's execution-context requirement, ModeThread if empty
	Mode      lock.Mode
	SpinStart int
	SpinLimit int
	Metrics   metrics.Service
}

type impl struct {
	id    string
	value int64

	cfg      Config
	lock     lock.Locker
	initOnce sync.Once
	initErr  error

	occupancy *bCounter.Counter
	met       metrics.Service
}

// New creates the guarded counter service. The service owns exactly one lock
// for its whole lifetime.
func New(c ctx.Ctx, cfg *Config) (counter.Usecase, error) {
	im := &impl{
		id:        uuid.NewString(),
		value:     cfg.Initial,
		cfg:       *cfg,
		occupancy: bCounter.NewCounter(),
		met:       cfg.Metrics,
	}
	if im.met == nil {
		im.met = metrics.New("counter")
	}

	if err := im.init(); err != nil {
		c.WithFields(log.Fields{
			"err":  err,
			"mode": cfg.Mode,
		}).Error("init counter lock failed")
		return nil, err
	}

	c.WithFields(log.Fields{
		"counterID": im.id,
		"initial":   cfg.Initial,
		"mode":      im.lock.Mode(),
	}).Info("counter created")
	return im, nil
}

// NewFactory returns a counter.Factory creating services with cfg's lock
// settings and the requested initial value.
func NewFactory(cfg Config) counter.Factory {
	return func(c ctx.Ctx, initial int64) (counter.Usecase, error) {
		cfg := cfg
		cfg.Initial = initial
		return New(c, &cfg)
	}
}

// init creates the lock. Calling it again is a no-op and returns the first
// result, so all callers always share the same lock instance.
func (im *impl) init() error {
	im.initOnce.Do(func() {
		mode := im.cfg.Mode
		if mode == "" {
			mode = lock.ModeThread
		}
		l, err := lock.New(mode, lock.WithSpin(im.cfg.SpinStart, im.cfg.SpinLimit))
		if err != nil {
			im.initErr = xerrors.Errorf("lock.New: %w", err)
			return
		}
		im.lock = l
	})
	return im.initErr
}

func (im *impl) Ref() *counter.Ref {
	return counter.BindRef(im.id, &im.value)
}

func (im *impl) check(c ctx.Ctx, ref *counter.Ref) error {
	if !ref.Resolves(im.id, &im.value) {
		c.WithFields(log.Fields{
			"counterID": im.id,
			"refID":     ref.ID(),
		}).Warn("reference does not resolve to this counter")
		return xerrors.Errorf("counter %q: %w", ref.ID(), domain.ErrInvalidReference)
	}
	return nil
}

func (im *impl) Decrement(c ctx.Ctx, ref *counter.Ref) error {
	if err := im.check(c, ref); err != nil {
		return err
	}
	defer im.met.BumpTime("decrement.time", "mode", string(im.lock.Mode())).End()

	start := time.Now()
	g := im.lock.Acquire(c)
	waited := time.Since(start)

	im.occupancy.Add(1)
	c.Info("entering critical section")
	im.value = im.value - 1
	v := im.value
	im.occupancy.Add(-1)

	im.lock.Release(g)
	c.Info("exiting critical section")
	c.WithField("value", v).Info("new value after decrement")

	im.met.BumpSum("decrement.count", 1, "mode", string(im.lock.Mode()))
	im.met.BumpHistogram("lock.wait", float64(waited)/float64(time.Millisecond), "mode", string(im.lock.Mode()))
	return nil
}

func (im *impl) Load(c ctx.Ctx, ref *counter.Ref) (int64, error) {
	if err := im.check(c, ref); err != nil {
		return 0, err
	}

	g := im.lock.Acquire(c)
	v := im.value
	im.lock.Release(g)
	return v, nil
}

func (im *impl) Occupancy() (int, int) {
	return im.occupancy.Count(), im.occupancy.Peak()
}
