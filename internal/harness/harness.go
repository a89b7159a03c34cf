package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/roach88/onoff/internal/engine"
	"github.com/roach88/onoff/internal/store"
	"github.com/roach88/onoff/internal/testutil"
)

// Harness executes one scenario against a private engine.
type Harness struct {
	scenario *Scenario
	store    *store.MemoryStore
	engine   *engine.Engine
	seq      *testutil.Sequence
	logger   *slog.Logger
}

// Option configures Run.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger routes engine and harness logs to l. Default: discarded.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// Run executes a test scenario and returns the result.
//
// Each scenario runs in a fresh memory store with a fixed clock and
// sequential record ids. A step or assertion that does not hold marks the
// result failed; the returned error is reserved for scenarios that cannot
// run at all.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	o := options{logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
	for _, opt := range opts {
		opt(&o)
	}

	now := scenario.Now
	if now == "" {
		now = scenario.Day + "T12:00:00Z"
	}
	at, err := time.Parse(time.RFC3339, now)
	if err != nil {
		return nil, fmt.Errorf("scenario clock: %w", err)
	}

	st := store.NewMemory()
	defer st.Close()

	engOpts := []engine.Option{
		engine.WithClock(testutil.NewFixedClock(at)),
		engine.WithIDGenerator(testutil.NewSequentialIDGenerator("rec")),
		engine.WithLogger(o.logger),
	}
	if scenario.Namespace != "" {
		engOpts = append(engOpts, engine.WithNamespace(scenario.Namespace))
	}
	eng, err := engine.New(st, engOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}

	h := &Harness{
		scenario: scenario,
		store:    st,
		engine:   eng,
		seq:      &testutil.Sequence{},
		logger:   o.logger.With("scenario", scenario.Name),
	}

	ctx := context.Background()
	result := NewResult()
	for i, step := range scenario.Steps {
		h.executeStep(ctx, i, step, result)
	}

	actx := &AssertionContext{Engine: eng, Scenario: scenario, Ctx: ctx}
	for _, errMsg := range EvaluateAssertions(result, scenario.Assertions, actx) {
		result.AddError(errMsg)
	}

	h.logger.Info("scenario finished",
		"pass", result.Pass,
		"writes", len(result.Trace),
		"errors", len(result.Errors),
	)
	return result, nil
}

// executeStep performs one step, appending a trace event per engine call
// and recording any mismatch against the step's expect_error.
func (h *Harness) executeStep(ctx context.Context, index int, step Step, result *Result) {
	day := h.scenario.dayOr(step.Day)

	var errs []error
	switch step.Op {
	case OpRecord:
		counts := step.Counts
		if step.Count != nil {
			counts = []int64{*step.Count}
		}
		for offset, count := range counts {
			hour := step.Hour + offset
			rec, err := h.engine.RecordSignal(ctx, step.Base, count, hour, day)
			h.traceRecord(result, step.Op, day, hour, rec, err)
			errs = append(errs, err)
		}
	case OpRecordASCII:
		rec, err := h.engine.RecordASCII(ctx, step.Clones, step.Views, step.Hour, day)
		h.traceRecord(result, step.Op, day, step.Hour, rec, err)
		errs = append(errs, err)
	case OpClear:
		err := h.engine.ClearDay(ctx, day)
		result.addTrace(TraceEvent{Seq: h.seq.Next(), Op: step.Op, Day: day, Error: errString(err)})
		errs = append(errs, err)
	case OpClearAll:
		err := h.engine.ClearAll(ctx)
		result.addTrace(TraceEvent{Seq: h.seq.Next(), Op: step.Op, Error: errString(err)})
		errs = append(errs, err)
	}

	h.checkStepErrors(index, step, errs, result)
}

func (h *Harness) traceRecord(result *Result, op, day string, hour int, rec store.Record, err error) {
	ev := TraceEvent{
		Seq:   h.seq.Next(),
		Op:    op,
		Day:   day,
		Hour:  &hour,
		Error: errString(err),
	}
	if err == nil {
		ev.ID = rec.ID
		ev.Symbol = rec.Symbol
		ev.Checksum = rec.Checksum
	}
	result.addTrace(ev)
}

// checkStepErrors compares what the engine returned with expect_error.
func (h *Harness) checkStepErrors(index int, step Step, errs []error, result *Result) {
	var failed error
	for _, err := range errs {
		if err != nil {
			failed = err
			break
		}
	}

	switch {
	case step.ExpectError == "" && failed != nil:
		result.AddError(fmt.Sprintf("steps[%d] %s: unexpected error: %v", index, step.Op, failed))
	case step.ExpectError != "" && failed == nil:
		result.AddError(fmt.Sprintf("steps[%d] %s: expected error containing %q, got none", index, step.Op, step.ExpectError))
	case step.ExpectError != "" && !strings.Contains(failed.Error(), step.ExpectError):
		result.AddError(fmt.Sprintf("steps[%d] %s: expected error containing %q, got %q", index, step.Op, step.ExpectError, failed.Error()))
	}

	h.logger.Debug("step completed", "step", index, "op", step.Op, "error", errString(failed))
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}
