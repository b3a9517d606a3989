package counter

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	numberOfThreads     int = 50
	operationsPerThread int = 1000
)

func TestCounter(t *testing.T) {
	t.Run("Provides thread-safe adding", func(t *testing.T) {
		c := NewCounter()

		var waitGroup sync.WaitGroup
		for i := 0; i < numberOfThreads; i++ {
			waitGroup.Add(1)
			go func() {
				for n := 0; n < operationsPerThread; n++ {
					c.Add(1)
				}
				waitGroup.Done()
			}()
		}
		waitGroup.Wait()

		assert.Equal(t, numberOfThreads*operationsPerThread, c.Count())
		assert.Equal(t, numberOfThreads*operationsPerThread, c.Peak())
	})
	t.Run("Remembers the peak after decreasing", func(t *testing.T) {
		c := NewCounter()
		assert.Equal(t, 1, c.Add(1))
		assert.Equal(t, 2, c.Add(1))
		assert.Equal(t, 0, c.Add(-2))

		assert.Equal(t, 0, c.Count())
		assert.Equal(t, 2, c.Peak())

		c.Reset()
		assert.Equal(t, 0, c.Peak())
	})
}

func BenchmarkCounter(b *testing.B) {
	c := NewCounter()
	for i := 0; i < b.N; i++ {
		c.Add(1)
		c.Add(-1)
	}
}
