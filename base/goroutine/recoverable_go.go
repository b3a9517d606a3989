package goroutine

import (
	"runtime/debug"

	"github.com/x-xyz/goguard/base/log"
)

var (
	logger = log.Log()
)

type PanicEvent struct {
	Panic interface{}
	Stack []byte
}

// Spawner starts task on some goroutine. It returns an error when the task
// could not be started.
type Spawner func(task func()) error

type RecoverableGoOptions struct {
	afterRecovered *func(panic interface{}, stack []byte)
	spawner        Spawner
}

type RecoverableGoOptionsFunc = func(*RecoverableGoOptions) error

func getRecoverableGoOptions(fns ...RecoverableGoOptionsFunc) RecoverableGoOptions {
	opts := RecoverableGoOptions{}
	for _, fn := range fns {
		fn(&opts)
	}
	return opts
}

func WithAfterRecovered(f func(panic interface{}, stack []byte)) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) error {
		options.afterRecovered = &f
		return nil
	}
}

// WithSpawner runs the task through s (a worker pool, for instance) instead
// of a bare go statement.
func WithSpawner(s Spawner) RecoverableGoOptionsFunc {
	return func(options *RecoverableGoOptions) error {
		options.spawner = s
		return nil
	}
}

func goSpawner(task func()) error {
	go task()
	return nil
}

// RecoverableGo runs f on another goroutine and recovers any panic it raises.
// The returned channel is closed when f returns normally, or receives one
// PanicEvent if f panicked, so receiving from it joins the goroutine.
// If the spawner fails, f never runs, the channel is nil and the spawner's
// error is returned.
func RecoverableGo(f func(), fns ...RecoverableGoOptionsFunc) (chan *PanicEvent, error) {
	opts := getRecoverableGoOptions(fns...)
	if opts.spawner == nil {
		opts.spawner = goSpawner
	}

	panicChan := make(chan *PanicEvent, 1)

	task := func() {
		defer func() {
			if p := recover(); p != nil {
				stack := debug.Stack()

				logger.WithFields(log.Fields{
					"err":   p,
					"stack": string(stack),
				}).Error("panic")

				if opts.afterRecovered != nil {
					(*opts.afterRecovered)(p, stack)
				}

				panicChan <- &PanicEvent{p, stack}
			} else {
				close(panicChan)
			}
		}()

		f()
	}

	if err := opts.spawner(task); err != nil {
		return nil, err
	}
	return panicChan, nil
}
