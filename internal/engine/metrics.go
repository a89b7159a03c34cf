package engine

import (
	"context"
	"time"
)

// MetricsRecorder observes the outcome and latency of engine operations.
type MetricsRecorder interface {
	Observe(ctx context.Context, op string, success bool, duration time.Duration)
}

// Operation names passed to MetricsRecorder.
const (
	OpRecord           = "record"
	OpRecordASCII      = "record_ascii"
	OpReconstruct      = "reconstruct"
	OpReconstructASCII = "reconstruct_ascii"
	OpVerify           = "verify"
	OpClearDay         = "clear_day"
	OpClearAll         = "clear_all"
	OpLookup           = "lookup"
)

type noopMetrics struct{}

func (noopMetrics) Observe(context.Context, string, bool, time.Duration) {}

// observe reports op to the recorder. Call as
// defer e.observe(ctx, op, time.Now(), &err).
func (e *Engine) observe(ctx context.Context, op string, start time.Time, err *error) {
	e.metrics.Observe(ctx, op, *err == nil, time.Since(start))
}
