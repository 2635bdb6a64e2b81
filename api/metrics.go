package api

import (
	"context"
	"strconv"
	"time"

	"github.com/fulldump/box"
	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	registry *prometheus.Registry
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

func newMetrics() *metrics {

	m := &metrics{
		registry: prometheus.NewRegistry(),
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "jsontable_operations_total",
				Help: "Total number of forwarded table operations",
			},
			[]string{"operation", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "jsontable_operation_duration_seconds",
				Help:    "Duration of forwarded table operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}

	m.registry.MustRegister(m.calls, m.duration)

	return m
}

func (m *metrics) Interceptor(next box.H) box.H {
	return func(ctx context.Context) {
		now := time.Now()

		next(ctx)

		operation := box.GetUrlParameter(ctx, "operation")
		status := 200
		if err := box.GetError(ctx); err != nil {
			status, _ = describeError(err)
		}

		m.calls.WithLabelValues(operation, strconv.Itoa(status)).Inc()
		m.duration.WithLabelValues(operation).Observe(time.Since(now).Seconds())
	}
}
