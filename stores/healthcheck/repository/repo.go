package repository

import (
	"sync"
	"time"

	"golang.org/x/xerrors"

	"github.com/x-xyz/goguard/base/ctx"
	"github.com/x-xyz/goguard/domain/counter"
	hcdomain "github.com/x-xyz/goguard/domain/healthcheck"
)

// ErrCounterStuck is returned when the counter does not answer in time
var ErrCounterStuck = xerrors.New("counter did not answer before deadline")

type pendingLoad struct {
	done chan struct{}
	err  error
}

type impl struct {
	counter counter.Usecase
	timeout time.Duration

	mu       sync.Mutex
	inflight *pendingLoad
}

// New creates the health check repository pinging the counter service
func New(counter counter.Usecase, timeout time.Duration) hcdomain.HealthCheckRepo {
	if timeout == 0 {
		timeout = 2 * time.Second
	}
	return &impl{
		counter: counter,
		timeout: timeout,
	}
}

// start returns the running Load, or starts one. Load can not be cancelled
// once it waits for the lock, so a Load that outlives its deadline is left
// running and later pings wait on it instead of piling up more Loads.
func (im *impl) start(c ctx.Ctx) *pendingLoad {
	im.mu.Lock()
	defer im.mu.Unlock()
	if im.inflight != nil {
		return im.inflight
	}

	p := &pendingLoad{done: make(chan struct{})}
	im.inflight = p
	go func() {
		_, p.err = im.counter.Load(ctx.WithContext(c, ctx.Background()), im.counter.Ref())
		im.mu.Lock()
		im.inflight = nil
		im.mu.Unlock()
		close(p.done)
	}()
	return p
}

// PingCounter loads the counter value, giving up at the deadline.
func (im *impl) PingCounter(context ctx.Ctx) error {
	timer := time.NewTimer(im.timeout)
	defer timer.Stop()

	p := im.start(context)
	select {
	case <-p.done:
		if p.err != nil {
			context.WithField("err", p.err).Error("counter.Load failed")
		}
		return p.err
	case <-context.Done():
		return context.Err()
	case <-timer.C:
		context.WithField("timeout", im.timeout.String()).Error("ping counter timed out")
		return ErrCounterStuck
	}
}
