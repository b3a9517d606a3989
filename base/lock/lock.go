// Package lock provides the mutual-exclusion primitive guarding a critical
// section.
//
// Two execution-context requirements are supported:
//
//   - ModeThread: callers are ordinary goroutines. Waiters park on a mutex.
//   - ModeAtomic: callers may run where they must not be preempted. Acquire
//     saves and masks the caller's interrupt state (see package irq) and
//     busy-waits; Release drops the lock and restores exactly the saved state.
//
// A Locker is created once and shared by every caller. Neither mode supports
// re-acquiring a lock already held by the same caller.
package lock

import (
	"fmt"
	"strings"

	"github.com/x-xyz/goguard/base/ctx"
	"github.com/x-xyz/goguard/base/irq"
)

// Mode selects the execution-context requirement of a Locker.
type Mode string

const (
	ModeThread Mode = "thread"
	ModeAtomic Mode = "atomic"
)

// ParseMode converts a config value into a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeThread, "":
		return ModeThread, nil
	case ModeAtomic:
		return ModeAtomic, nil
	}
	return "", fmt.Errorf("unknown lock mode %q", s)
}

// Guard is returned by Acquire and must be handed back to Release.
type Guard struct {
	unit  *irq.Unit
	flags irq.Flags
}

// Flags is the interrupt state saved on acquire. Always irq.Enabled in
// ModeThread.
func (g Guard) Flags() irq.Flags {
	return g.flags
}

// Locker guards a critical section.
type Locker interface {
	// Acquire blocks until the caller holds the lock. It never fails.
	Acquire(c ctx.Ctx) Guard
	// Release frees the lock taken by the matching Acquire.
	Release(g Guard)
	// Held reports whether some caller currently holds the lock.
	Held() bool
	Mode() Mode
}

// Option is functional parameter for lock options
type Option func(*opt)

type opt struct {
	spinStart int
	spinLimit int
}

// WithSpin sets the initial and maximum busy-wait rounds between attempts of
// an atomic-mode lock.
func WithSpin(start, limit int) Option {
	return func(o *opt) {
		if start > 0 {
			o.spinStart = start
		}
		if limit > 0 {
			o.spinLimit = limit
		}
	}
}

// New creates the lock for the given mode.
func New(mode Mode, options ...Option) (Locker, error) {
	o := opt{
		spinStart: 4,
		spinLimit: 1024,
	}
	for _, option := range options {
		option(&o)
	}

	switch mode {
	case ModeThread:
		return &Mutex{}, nil
	case ModeAtomic:
		return NewSpinlock(o.spinStart, o.spinLimit), nil
	}
	return nil, fmt.Errorf("unknown lock mode %q", mode)
}
