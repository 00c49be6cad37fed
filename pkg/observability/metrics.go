// Copyright 2026 CICD AI Toolkit. All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");

package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "itms_publisher"

// Metrics collects per-run publishing metrics in its own registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	matched   prometheus.Counter
	outcomes  *prometheus.CounterVec
	duration  prometheus.Histogram
	lastRunAt prometheus.Gauge
}

// NewMetrics creates a new metrics collector.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		matched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_files_matched_total",
			Help:      "Report files matching the selected format.",
		}),
		outcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "report_outcomes_total",
			Help:      "Per-file publishing outcomes.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "submission_duration_seconds",
			Help:      "Time spent posting a report to iTMS.",
			Buckets:   prometheus.DefBuckets,
		}),
		lastRunAt: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "last_run_timestamp_seconds",
			Help:      "Unix time the last publishing run finished.",
		}),
	}

	m.registry.MustRegister(m.matched, m.outcomes, m.duration, m.lastRunAt)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordMatched counts a report file that matched the format.
func (m *Metrics) RecordMatched() {
	if m == nil {
		return
	}
	m.matched.Inc()
}

// RecordOutcome counts a per-file outcome.
func (m *Metrics) RecordOutcome(outcome string) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(outcome).Inc()
}

// RecordSubmission observes how long a POST took.
func (m *Metrics) RecordSubmission(d time.Duration) {
	if m == nil {
		return
	}
	m.duration.Observe(d.Seconds())
}

// RecordRunFinished stamps the end of a run.
func (m *Metrics) RecordRunFinished(t time.Time) {
	if m == nil {
		return
	}
	m.lastRunAt.Set(float64(t.Unix()))
}

// WriteTextfile writes the metrics in the node exporter textfile format.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
