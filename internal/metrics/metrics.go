// Package metrics exports engine operation metrics to Prometheus.
package metrics

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

const namespace = "onoff"

// Recorder implements engine.MetricsRecorder with a counter of operation
// outcomes and a latency histogram.
type Recorder struct {
	ops      *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewRecorder creates the collectors and registers them on reg.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	r := &Recorder{
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Engine operations by outcome.",
		}, []string{"operation", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Engine operation latency.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10),
		}, []string{"operation"}),
	}
	for _, c := range []prometheus.Collector{r.ops, r.duration} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("register metrics: %w", err)
		}
	}
	return r, nil
}

// Observe records one operation outcome.
func (r *Recorder) Observe(_ context.Context, op string, success bool, duration time.Duration) {
	if op == "" {
		return
	}
	status := "error"
	if success {
		status = "success"
	}
	r.ops.WithLabelValues(op, status).Inc()
	r.duration.WithLabelValues(op).Observe(duration.Seconds())
}

// WriteText writes every family gathered from g in the Prometheus text
// exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
