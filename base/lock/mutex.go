package lock

import (
	"sync"
	"sync/atomic"

	"github.com/x-xyz/goguard/base/ctx"
	"github.com/x-xyz/goguard/base/irq"
)

// Mutex is the ModeThread lock. The zero value is Free.
type Mutex struct {
	mu   sync.Mutex
	held uint32
}

func (m *Mutex) Acquire(c ctx.Ctx) Guard {
	m.mu.Lock()
	atomic.StoreUint32(&m.held, 1)
	return Guard{flags: irq.Enabled}
}

func (m *Mutex) Release(g Guard) {
	atomic.StoreUint32(&m.held, 0)
	m.mu.Unlock()
}

func (m *Mutex) Held() bool {
	return atomic.LoadUint32(&m.held) == 1
}

func (m *Mutex) Mode() Mode {
	return ModeThread
}
