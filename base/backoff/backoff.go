// Package backoff paces busy-waiting loops.
//
// A Backoff spins for an exponentially growing number of rounds between
// attempts and yields the processor once the per-wait budget reaches its
// limit. It never sleeps and never fails, so it is usable from code that must
// not block.
package backoff

import (
	"math"
	"runtime"
)

type BackoffStrategy interface {
	GetBackoffSpins(count int, start int, last int) int
}

type Backoff struct {
	LastSpins int
	NextSpins int
	start     int
	limit     int
	count     int
	strategy  BackoffStrategy
}

func NewBackoff(strategy BackoffStrategy, start int, limit int) *Backoff {
	backoff := Backoff{strategy: strategy, start: start, limit: limit}
	backoff.Reset()
	return &backoff
}

func (b *Backoff) Reset() {
	b.count = 0
	b.LastSpins = 0
	b.NextSpins = b.getNextSpins()
}

// Wait spins up to NextSpins rounds, returning early as soon as ready reports
// true. Once the spin budget has hit the limit the goroutine also yields.
func (b *Backoff) Wait(ready func() bool) {
	for i := 0; i < b.NextSpins; i++ {
		if ready() {
			break
		}
	}

	if b.limit > 0 && b.NextSpins >= b.limit {
		runtime.Gosched()
	}

	b.count++
	b.LastSpins = b.NextSpins
	b.NextSpins = b.getNextSpins()
}

func (b *Backoff) getNextSpins() int {
	spins := b.strategy.GetBackoffSpins(b.count, b.start, b.LastSpins)
	if b.limit > 0 && (spins > b.limit || spins < 0) {
		spins = b.limit
	}
	return spins
}

type exponential struct{}

func (exponential) GetBackoffSpins(backoffCount int, start int, lastSpins int) int {
	if backoffCount > 30 {
		return math.MaxInt32
	}
	return int(math.Pow(2, float64(backoffCount))) * start
}

func NewExponential(start int, limit int) *Backoff {
	return NewBackoff(exponential{}, start, limit)
}
