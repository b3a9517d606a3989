package lock

import (
	"sync/atomic"

	"github.com/x-xyz/goguard/base/backoff"
	"github.com/x-xyz/goguard/base/ctx"
	"github.com/x-xyz/goguard/base/irq"
)

const (
	stateFree uint32 = 0
	stateHeld uint32 = 1
)

// Spinlock is the ModeAtomic lock. Waiters busy-wait instead of parking, and
// the holder's execution unit has interrupts masked for the whole time the
// lock is held.
type Spinlock struct {
	state     uint32
	spinStart int
	spinLimit int
}

func NewSpinlock(spinStart, spinLimit int) *Spinlock {
	if spinStart <= 0 {
		spinStart = 4
	}
	if spinLimit < spinStart {
		spinLimit = spinStart
	}
	return &Spinlock{spinStart: spinStart, spinLimit: spinLimit}
}

// Acquire masks interrupts on the caller's execution unit, then spins until
// the lock is taken. Callers without a unit in c get a fresh enabled one.
func (l *Spinlock) Acquire(c ctx.Ctx) Guard {
	unit, ok := irq.FromContext(c)
	if !ok {
		unit = &irq.Unit{}
	}

	g := Guard{unit: unit, flags: unit.SaveAndDisable()}
	if l.TryAcquire() {
		return g
	}

	b := backoff.NewExponential(l.spinStart, l.spinLimit)
	free := func() bool {
		return atomic.LoadUint32(&l.state) == stateFree
	}
	for !l.TryAcquire() {
		b.Wait(free)
	}
	return g
}

// TryAcquire takes the lock if it is free. It does not touch interrupt state.
func (l *Spinlock) TryAcquire() bool {
	return atomic.CompareAndSwapUint32(&l.state, stateFree, stateHeld)
}

// Release frees the lock, then restores the interrupt state saved in g.
// Releasing a free lock is a programming error and panics.
func (l *Spinlock) Release(g Guard) {
	if atomic.SwapUint32(&l.state, stateFree) != stateHeld {
		panic("lock: release of unlocked spinlock")
	}
	if g.unit != nil {
		g.unit.Restore(g.flags)
	}
}

func (l *Spinlock) Held() bool {
	return atomic.LoadUint32(&l.state) == stateHeld
}

func (l *Spinlock) Mode() Mode {
	return ModeAtomic
}
