package log

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Fields to be added to a logger
type Fields map[string]interface{}

// Logger contains logger and fields
type Logger struct {
	fields []interface{}
}

var (
	mu               sync.RWMutex
	zapSugaredLogger *zap.SugaredLogger
)

func init() {
	zapLogger, _ := zap.NewProduction(zap.AddCallerSkip(1))
	zapSugaredLogger = zapLogger.Sugar()
}

// Setup rebuilds the process logger. level is one of zap's level names
// ("debug", "info", ...); an unknown level falls back to info.
func Setup(level string, development bool) error {
	cfg := zap.NewProductionConfig()
	if development {
		cfg = zap.NewDevelopmentConfig()
	}

	lvl := zapcore.InfoLevel
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = zapcore.InfoLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	zapLogger, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return err
	}
	Use(zapLogger)
	return nil
}

// Use replaces the process logger with l
func Use(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	zapSugaredLogger = l.Sugar()
}

// Sync flushes buffered entries
func Sync() error {
	return sugared().Sync()
}

func sugared() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return zapSugaredLogger
}

// Log returns an empty field logger
func Log() Logger {
	return Logger{
		fields: []interface{}{},
	}
}

// WithField add a key/value pair to its fields
func (l Logger) WithField(key string, value interface{}) Logger {
	fields := make([]interface{}, len(l.fields), len(l.fields)+2)
	copy(fields, l.fields)
	l.fields = append(fields, key, value)
	return l
}

// WithField add multiple key/value pairs to its fields
func (l Logger) WithFields(kvs Fields) Logger {
	for k, v := range kvs {
		l = l.WithField(k, v)
	}
	return l
}

// Debug log
func (l Logger) Debug(args ...interface{}) {
	sugared().With(l.fields...).Debug(args...)
}

// Info log
func (l Logger) Info(args ...interface{}) {
	sugared().With(l.fields...).Info(args...)
}

// Warn log
func (l Logger) Warn(args ...interface{}) {
	sugared().With(l.fields...).Warn(args...)
}

// Error log
func (l Logger) Error(args ...interface{}) {
	sugared().With(l.fields...).Error(args...)
}

// Pance log
func (l Logger) Panic(args ...interface{}) {
	sugared().With(l.fields...).Panic(args...)
}
