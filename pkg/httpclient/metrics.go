package httpclient

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles Prometheus collectors for executor calls.
type Metrics struct {
	Registry        *prometheus.Registry
	RequestsTotal   *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics constructs and registers the executor metrics on a dedicated registry.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "statistics_api_requests_total",
			Help: "Total requests issued to the statistics API by path and outcome.",
		},
		[]string{"method", "path", "outcome"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "statistics_api_request_duration_seconds",
			Help:    "Latency of statistics API requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	registry.MustRegister(requests, duration)

	return &Metrics{
		Registry:        registry,
		RequestsTotal:   requests,
		RequestDuration: duration,
	}
}

// InstrumentedExecutor records metrics around another Executor.
type InstrumentedExecutor struct {
	next    Executor
	metrics *Metrics
}

// NewInstrumentedExecutor wraps next. A nil metrics value disables recording.
func NewInstrumentedExecutor(next Executor, metrics *Metrics) *InstrumentedExecutor {
	return &InstrumentedExecutor{next: next, metrics: metrics}
}

// Do forwards to the wrapped executor and returns its error untouched.
func (i *InstrumentedExecutor) Do(ctx context.Context, method, path string, opts RequestOptions, out any) error {
	start := time.Now()
	err := i.next.Do(ctx, method, path, opts, out)
	if i.metrics != nil {
		i.metrics.RequestDuration.WithLabelValues(method, path).Observe(time.Since(start).Seconds())
		i.metrics.RequestsTotal.WithLabelValues(method, path, outcomeLabel(err)).Inc()
	}
	return err
}

func outcomeLabel(err error) string {
	if err == nil {
		return "ok"
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return strconv.Itoa(statusErr.StatusCode)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "timeout"
	}
	return "error"
}
