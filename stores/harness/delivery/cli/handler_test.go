package cli

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/x-xyz/goguard/base/ctx"
	"github.com/x-xyz/goguard/base/lock"
	"github.com/x-xyz/goguard/base/log"
	"github.com/x-xyz/goguard/domain"
	"github.com/x-xyz/goguard/domain/harness"
	counterUsecase "github.com/x-xyz/goguard/stores/counter/usecase"
	harnessUsecase "github.com/x-xyz/goguard/stores/harness/usecase"
)

var (
	mockCtx = ctx.Background()
)

type cliSuite struct {
	suite.Suite
	harness harness.Usecase
}

func TestCliSuite(t *testing.T) {
	suite.Run(t, new(cliSuite))
}

func (s *cliSuite) SetupTest() {
	log.Use(zap.NewNop())
	s.harness = harnessUsecase.New(&harnessUsecase.Config{
		Factory: counterUsecase.NewFactory(counterUsecase.Config{Mode: lock.ModeAtomic}),
	})
}

func (s *cliSuite) TestPromptAndExecute() {
	out := &bytes.Buffer{}
	h := New(s.harness, strings.NewReader("100\n50\n"), out)

	p, err := h.Prompt(mockCtx)
	s.Require().NoError(err)
	s.Equal(harness.Params{Initial: 100, Workers: 50}, p)

	s.Require().NoError(h.Execute(mockCtx, p))
	s.Equal(
		"Enter the value of x: Enter the number of threads: "+
			"Initial value of x: 100\nFinal value of x: 50\n",
		out.String(),
	)
}

func (s *cliSuite) TestPromptTrimsWhitespace() {
	h := New(s.harness, strings.NewReader("  -7 \r\n 0\n"), &bytes.Buffer{})
	p, err := h.Prompt(mockCtx)
	s.Require().NoError(err)
	s.Equal(harness.Params{Initial: -7, Workers: 0}, p)
}

func (s *cliSuite) TestParamsPromptsOnlyForMissingFields() {
	value, workers := int64(100), 50

	cases := []struct {
		Desc    string
		Initial *int64
		Workers *int
		Input   string
		Prompts string
		Want    harness.Params
	}{
		{"both given", &value, &workers, "", "", harness.Params{Initial: 100, Workers: 50}},
		{"value given", &value, nil, "5\n", "Enter the number of threads: ", harness.Params{Initial: 100, Workers: 5}},
		{"workers given", nil, &workers, "-3\n", "Enter the value of x: ", harness.Params{Initial: -3, Workers: 50}},
		{"none given", nil, nil, "7\n2\n", "Enter the value of x: Enter the number of threads: ", harness.Params{Initial: 7, Workers: 2}},
	}
	for _, c := range cases {
		out := &bytes.Buffer{}
		h := New(s.harness, strings.NewReader(c.Input), out)

		p, err := h.Params(mockCtx, c.Initial, c.Workers)
		s.Require().NoError(err, c.Desc)
		s.Equal(c.Want, p, c.Desc)
		s.Equal(c.Prompts, out.String(), c.Desc)
	}
}

func (s *cliSuite) TestGivenValueIsKeptWhenWorkersArePrompted() {
	value := int64(100)
	out := &bytes.Buffer{}
	h := New(s.harness, strings.NewReader("5\n"), out)

	p, err := h.Params(mockCtx, &value, nil)
	s.Require().NoError(err)
	s.Require().NoError(h.Execute(mockCtx, p))
	s.Equal("Enter the number of threads: Initial value of x: 100\nFinal value of x: 95\n", out.String())
}

func (s *cliSuite) TestParamsMissingInput() {
	workers := 3
	h := New(s.harness, strings.NewReader(""), &bytes.Buffer{})
	_, err := h.Params(mockCtx, nil, &workers)
	s.ErrorIs(err, domain.ErrBadParamInput)
}

func (s *cliSuite) TestMalformedInput() {
	cases := []struct {
		Desc  string
		Input string
	}{
		{"not a number", "abc\n3\n"},
		{"float", "1.5\n3\n"},
		{"bad worker count", "10\nmany\n"},
		{"missing worker count", "10\n"},
		{"empty input", ""},
		{"overflow", "99999999999999999999\n1\n"},
	}
	for _, c := range cases {
		h := New(s.harness, strings.NewReader(c.Input), &bytes.Buffer{})
		_, err := h.Prompt(mockCtx)
		s.ErrorIs(err, domain.ErrBadParamInput, c.Desc)
	}
}

func (s *cliSuite) TestNegativeWorkersAreRejected() {
	out := &bytes.Buffer{}
	h := New(s.harness, strings.NewReader("10\n-2\n"), out)

	p, err := h.Prompt(mockCtx)
	s.Require().NoError(err)

	err = h.Execute(mockCtx, p)
	s.ErrorIs(err, domain.ErrBadParamInput)
	s.NotContains(out.String(), "Final value of x")
}

func (s *cliSuite) TestExecuteAgainst() {
	svc, err := counterUsecase.New(mockCtx, &counterUsecase.Config{Initial: 3})
	s.Require().NoError(err)

	out := &bytes.Buffer{}
	h := New(s.harness, strings.NewReader("5\n"), out)
	workers, err := h.PromptWorkers(mockCtx)
	s.Require().NoError(err)

	s.Require().NoError(h.ExecuteAgainst(mockCtx, svc, workers))
	s.Contains(out.String(), "Initial value of x: 3\nFinal value of x: -2\n")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("closed")
}

func TestExecuteWriteFailure(t *testing.T) {
	log.Use(zap.NewNop())
	h := New(harnessUsecase.New(&harnessUsecase.Config{
		Factory: counterUsecase.NewFactory(counterUsecase.Config{}),
	}), strings.NewReader(""), failingWriter{})

	err := h.Execute(mockCtx, harness.Params{Initial: 1, Workers: 1})
	require.Error(t, err)
	assert.Equal(t, "closed", err.Error())
}
