// Package irq models the interrupt-enable state of an execution unit.
//
// Go programs cannot mask hardware interrupts, so a Unit stands in for one
// CPU's interrupt flag. Code that must not be preempted while holding a lock
// calls SaveAndDisable before acquiring it and Restore with the returned
// Flags after releasing it. Restore puts back exactly the saved state, so
// nested sections and sections entered with interrupts already disabled keep
// their state.
//
// Raise delivers a simulated interrupt: the handler runs at once while the
// unit is enabled and is held pending while it is disabled. Pending handlers
// run, in order, from the Restore that re-enables the unit.
package irq

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/x-xyz/goguard/base/ctx"
)

// Flags is the interrupt state captured by SaveAndDisable.
type Flags uint32

const (
	// Disabled means interrupts were masked.
	Disabled Flags = 0
	// Enabled means interrupts were deliverable.
	Enabled Flags = 1
)

func (f Flags) String() string {
	if f == Enabled {
		return "enabled"
	}
	return "disabled"
}

// Unit is one execution unit's interrupt flag. The zero value has interrupts
// enabled.
type Unit struct {
	masked uint32
	depth  int32

	mu      sync.Mutex
	pending []func()
}

// NewUnit returns a unit in the given state.
func NewUnit(state Flags) *Unit {
	u := &Unit{}
	if state == Disabled {
		u.masked = 1
	}
	return u
}

// State reports the current interrupt state.
func (u *Unit) State() Flags {
	if atomic.LoadUint32(&u.masked) == 1 {
		return Disabled
	}
	return Enabled
}

// Enabled reports whether interrupts are currently deliverable.
func (u *Unit) Enabled() bool {
	return u.State() == Enabled
}

// Depth is the number of SaveAndDisable calls not yet restored.
func (u *Unit) Depth() int {
	return int(atomic.LoadInt32(&u.depth))
}

// SaveAndDisable masks interrupts and returns the state they were in.
func (u *Unit) SaveAndDisable() Flags {
	atomic.AddInt32(&u.depth, 1)
	u.mu.Lock()
	defer u.mu.Unlock()
	if atomic.SwapUint32(&u.masked, 1) == 1 {
		return Disabled
	}
	return Enabled
}

// Restore puts the interrupt state back to flags. Restoring to Enabled runs
// the handlers raised while the unit was disabled.
func (u *Unit) Restore(flags Flags) {
	atomic.AddInt32(&u.depth, -1)
	if flags == Disabled {
		atomic.StoreUint32(&u.masked, 1)
		return
	}

	u.mu.Lock()
	atomic.StoreUint32(&u.masked, 0)
	pending := u.pending
	u.pending = nil
	u.mu.Unlock()

	for _, h := range pending {
		h()
	}
}

// Raise delivers an interrupt to the unit. It reports whether handler ran
// immediately; otherwise it is pending until interrupts are re-enabled.
func (u *Unit) Raise(handler func()) bool {
	u.mu.Lock()
	if atomic.LoadUint32(&u.masked) == 1 {
		u.pending = append(u.pending, handler)
		u.mu.Unlock()
		return false
	}
	u.mu.Unlock()

	handler()
	return true
}

type unitKey struct{}

// NewContext returns c carrying u as the caller's execution unit.
func NewContext(c ctx.Ctx, u *Unit) ctx.Ctx {
	return ctx.WithContext(c, context.WithValue(c.Context, unitKey{}, u))
}

// FromContext returns the execution unit carried by c, if any.
func FromContext(c context.Context) (*Unit, bool) {
	u, ok := c.Value(unitKey{}).(*Unit)
	return u, ok && u != nil
}
