// Package metrics exports segment operation metrics to Prometheus.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/vecseg"
)

// Compile-time check to ensure PrometheusCollector satisfies the collector interface.
var _ vecseg.MetricsCollector = (*PrometheusCollector)(nil)

// PrometheusCollector implements vecseg.MetricsCollector with Prometheus metrics.
type PrometheusCollector struct {
	opLatency *prometheus.HistogramVec
	ops       *prometheus.CounterVec
	rows      *prometheus.CounterVec
	k         prometheus.Histogram
}

// NewPrometheusCollector creates the collector and registers its metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func NewPrometheusCollector(reg prometheus.Registerer, namespace string) (*PrometheusCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	c := &PrometheusCollector{
		opLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_latency_seconds",
			Help:      "Latency of segment operations",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op", "status"}),
		ops: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Total segment operations",
		}, []string{"op", "status"}),
		rows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rows_total",
			Help:      "Vectors processed by successful operations",
		}, []string{"op"}),
		k: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_k",
			Help:      "Requested result width of searches",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}

	for _, col := range []prometheus.Collector{c.opLatency, c.ops, c.rows, c.k} {
		if err := reg.Register(col); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordTrain implements vecseg.MetricsCollector.
func (c *PrometheusCollector) RecordTrain(rows int, d time.Duration, err error) {
	c.record("train", rows, d, err)
}

// RecordInsert implements vecseg.MetricsCollector.
func (c *PrometheusCollector) RecordInsert(rows int, d time.Duration, err error) {
	c.record("insert", rows, d, err)
}

// RecordSearch implements vecseg.MetricsCollector.
func (c *PrometheusCollector) RecordSearch(queries, k int, d time.Duration, err error) {
	c.record("search", queries, d, err)
	c.k.Observe(float64(k))
}

// RecordDelete implements vecseg.MetricsCollector.
func (c *PrometheusCollector) RecordDelete(count int, d time.Duration, err error) {
	c.record("delete", count, d, err)
}

func (c *PrometheusCollector) record(op string, rows int, d time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}
	c.opLatency.WithLabelValues(op, status).Observe(d.Seconds())
	c.ops.WithLabelValues(op, status).Inc()
	if err == nil {
		c.rows.WithLabelValues(op).Add(float64(rows))
	}
}
