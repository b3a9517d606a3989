// Package cli is the line-oriented text front end of the harness.
package cli

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/xerrors"

	"github.com/x-xyz/goguard/base/ctx"
	"github.com/x-xyz/goguard/base/log"
	"github.com/x-xyz/goguard/domain"
	"github.com/x-xyz/goguard/domain/counter"
	"github.com/x-xyz/goguard/domain/harness"
)

const (
	promptValue   = "Enter the value of x: "
	promptWorkers = "Enter the number of threads: "
)

type Handler struct {
	harness harness.Usecase
	in      *bufio.Scanner
	out     io.Writer
}

func New(us harness.Usecase, in io.Reader, out io.Writer) *Handler {
	return &Handler{
		harness: us,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

// Prompt asks for the initial value and then the worker count, one integer
// per line.
func (h *Handler) Prompt(c ctx.Ctx) (harness.Params, error) {
	return h.Params(c, nil, nil)
}

// PromptValue asks only for the initial value.
func (h *Handler) PromptValue(c ctx.Ctx) (int64, error) {
	initial, err := h.readInt(promptValue, 64)
	if err != nil {
		c.WithField("err", err).Warn("read initial value failed")
		return 0, err
	}
	return initial, nil
}

// Params completes the run parameters. A nil field was not given on the
// command line and is prompted for; given fields are used as is.
func (h *Handler) Params(c ctx.Ctx, initial *int64, workers *int) (harness.Params, error) {
	var (
		p   harness.Params
		err error
	)
	if initial != nil {
		p.Initial = *initial
	} else if p.Initial, err = h.PromptValue(c); err != nil {
		return harness.Params{}, err
	}

	if workers != nil {
		p.Workers = *workers
	} else if p.Workers, err = h.PromptWorkers(c); err != nil {
		return harness.Params{}, err
	}
	return p, nil
}

// PromptWorkers asks only for the worker count.
func (h *Handler) PromptWorkers(c ctx.Ctx) (int, error) {
	workers, err := h.readInt(promptWorkers, strconv.IntSize)
	if err != nil {
		c.WithField("err", err).Warn("read worker count failed")
		return 0, err
	}
	return int(workers), nil
}

func (h *Handler) readInt(prompt string, bitSize int) (int64, error) {
	fmt.Fprint(h.out, prompt)
	if !h.in.Scan() {
		if err := h.in.Err(); err != nil {
			return 0, xerrors.Errorf("read input: %v: %w", err, domain.ErrBadParamInput)
		}
		return 0, xerrors.Errorf("unexpected end of input: %w", domain.ErrBadParamInput)
	}

	text := strings.TrimSpace(h.in.Text())
	v, err := strconv.ParseInt(text, 10, bitSize)
	if err != nil {
		return 0, xerrors.Errorf("%q is not an integer: %w", text, domain.ErrBadParamInput)
	}
	return v, nil
}

// Execute runs the harness and prints the before and after values.
func (h *Handler) Execute(c ctx.Ctx, p harness.Params) error {
	report, err := h.harness.Run(c, p)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "initial": p.Initial, "workers": p.Workers}).Error("harness.Run failed")
		return err
	}
	return h.print(report)
}

// ExecuteAgainst runs the harness against an existing counter service.
func (h *Handler) ExecuteAgainst(c ctx.Ctx, svc counter.Usecase, workers int) error {
	report, err := h.harness.RunAgainst(c, svc, workers)
	if err != nil {
		c.WithFields(log.Fields{"err": err, "workers": workers}).Error("harness.RunAgainst failed")
		return err
	}
	return h.print(report)
}

func (h *Handler) print(report *harness.Report) error {
	if _, err := fmt.Fprintf(h.out, "Initial value of x: %d\n", report.Initial); err != nil {
		return err
	}
	_, err := fmt.Fprintf(h.out, "Final value of x: %d\n", report.Final)
	return err
}
