package repository

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/x-xyz/goguard/base/ctx"
	"github.com/x-xyz/goguard/base/log"
	"github.com/x-xyz/goguard/domain/counter"
	"github.com/x-xyz/goguard/domain/counter/mocks"
)

var (
	mockCtx = ctx.Background()
)

type repoSuite struct {
	suite.Suite
	ref *counter.Ref
	m   *mocks.Usecase
}

func TestRepoSuite(t *testing.T) {
	suite.Run(t, new(repoSuite))
}

func (s *repoSuite) SetupTest() {
	log.Use(zap.NewNop())
	s.ref = counter.NewRef("c-1")
	s.m = mocks.NewUsecase(s.T())
	s.m.On("Ref").Return(s.ref)
}

func (s *repoSuite) TestHealthy() {
	s.m.On("Load", mock.Anything, s.ref).Return(int64(3), nil).Once()
	s.NoError(New(s.m, time.Second).PingCounter(mockCtx))
}

func (s *repoSuite) TestLoadError() {
	errLoad := errors.New("load failed")
	s.m.On("Load", mock.Anything, s.ref).Return(int64(0), errLoad).Once()
	s.ErrorIs(New(s.m, time.Second).PingCounter(mockCtx), errLoad)
}

func (s *repoSuite) TestStuckCounterKeepsOneLoadInFlight() {
	release := make(chan struct{})
	s.m.On("Load", mock.Anything, s.ref).Run(func(mock.Arguments) {
		<-release
	}).Return(int64(0), nil).Once()

	repo := New(s.m, 10*time.Millisecond)
	for i := 0; i < 5; i++ {
		s.ErrorIs(repo.PingCounter(mockCtx), ErrCounterStuck)
	}
	s.m.AssertNumberOfCalls(s.T(), "Load", 1)

	close(release)
	s.Eventually(func() bool {
		im := repo.(*impl)
		im.mu.Lock()
		defer im.mu.Unlock()
		return im.inflight == nil
	}, time.Second, time.Millisecond)
}

func (s *repoSuite) TestFreshLoadAfterRecovery() {
	s.m.On("Load", mock.Anything, s.ref).Return(int64(1), nil).Twice()

	repo := New(s.m, time.Second)
	s.NoError(repo.PingCounter(mockCtx))
	s.NoError(repo.PingCounter(mockCtx))
	s.m.AssertNumberOfCalls(s.T(), "Load", 2)
}
