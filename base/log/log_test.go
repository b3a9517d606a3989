package log

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type logSuite struct {
	suite.Suite
	logs *observer.ObservedLogs
}

func TestLogSuite(t *testing.T) {
	suite.Run(t, new(logSuite))
}

func (s *logSuite) SetupTest() {
	core, logs := observer.New(zapcore.DebugLevel)
	Use(zap.New(core))
	s.logs = logs
}

func (s *logSuite) TearDownTest() {
	s.NoError(Setup("info", false))
}

func (s *logSuite) TestWithFields() {
	Log().WithFields(Fields{"a": 1, "b": "two"}).Info("hello")

	entries := s.logs.FilterMessage("hello").All()
	s.Require().Len(entries, 1)
	ctxMap := entries[0].ContextMap()
	s.Equal(int64(1), ctxMap["a"])
	s.Equal("two", ctxMap["b"])
}

func (s *logSuite) TestDerivedLoggersDoNotShareFields() {
	base := Log().WithField("base", true)

	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			base.WithField("worker", i).Debug("derived")
		}(i)
	}
	wg.Wait()

	entries := s.logs.FilterMessage("derived").All()
	s.Len(entries, 32)
	for _, e := range entries {
		s.Len(e.Context, 2)
	}
}

func (s *logSuite) TestSetupUnknownLevel() {
	s.NoError(Setup("not-a-level", true))
}
