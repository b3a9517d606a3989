package ctx

import (
	"context"
	"time"

	log "github.com/x-xyz/goguard/base/log"
)

// Ctx carries a context.Context together with a field logger so that every
// call site can log with the request's fields attached.
type Ctx struct {
	context.Context
	log.Logger
}

func Background() Ctx {
	return Ctx{
		Context: context.Background(),
		Logger:  log.Log(),
	}
}

// From wraps a plain context with an empty field logger.
func From(parent context.Context) Ctx {
	if c, ok := parent.(Ctx); ok {
		return c
	}
	return Ctx{
		Context: parent,
		Logger:  log.Log(),
	}
}

// WithValue stores val under key and also adds it as a log field.
func WithValue(parent Ctx, key string, val interface{}) Ctx {
	return Ctx{
		Context: context.WithValue(parent.Context, key, val),
		Logger:  parent.Logger.WithField(key, val),
	}
}

func WithValues(parent Ctx, kvs map[string]interface{}) Ctx {
	c := parent
	for k, v := range kvs {
		c = WithValue(c, k, v)
	}
	return c
}

// WithContext replaces the underlying context and keeps the logger fields.
func WithContext(parent Ctx, c context.Context) Ctx {
	return Ctx{
		Context: c,
		Logger:  parent.Logger,
	}
}

func WithCancel(parent Ctx) (Ctx, context.CancelFunc) {
	c, cancel := context.WithCancel(parent.Context)
	return WithContext(parent, c), cancel
}

func WithTimeout(parent Ctx, timeout time.Duration) (Ctx, context.CancelFunc) {
	c, cancel := context.WithTimeout(parent.Context, timeout)
	return WithContext(parent, c), cancel
}
