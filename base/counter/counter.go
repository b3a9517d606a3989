// Package counter implements a threadsafe gauge that remembers its peak.
//
// It is guarded by its own lock, independent of whatever it is measuring, so
// it can observe how many callers are inside a critical section at once.
package counter

import "sync"

type Counter struct {
	count int
	peak  int
	mu    sync.RWMutex
}

func NewCounter() *Counter {
	return &Counter{}
}

// Add adds val to the counter and returns the new count.
func (c *Counter) Add(val int) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count += val
	if c.count > c.peak {
		c.peak = c.count
	}
	return c.count
}

func (c *Counter) Count() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.count
}

// Peak is the highest count observed since creation or the last Reset.
func (c *Counter) Peak() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.peak
}

func (c *Counter) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.count = 0
	c.peak = 0
}
