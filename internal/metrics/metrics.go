// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics instruments provider fetches and verification outcomes
// with Prometheus collectors. A nil *Metrics is valid and records nothing.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "eventcheck"

// Fetch outcomes recorded per provider call.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
	OutcomeTimeout = "timeout"
	OutcomePanic   = "panic"
)

// Metrics holds the collectors registered for one verifier process.
type Metrics struct {
	registry *prometheus.Registry

	fetchTotal      *prometheus.CounterVec
	fetchDuration   *prometheus.HistogramVec
	eventsReturned  *prometheus.CounterVec
	activeProviders prometheus.Gauge
	statusTotal     *prometheus.CounterVec
	confidence      prometheus.Histogram
	fallbackTotal   *prometheus.CounterVec
}

// New creates and registers all collectors on a fresh registry.
func New() *Metrics {
	m := &Metrics{registry: prometheus.NewRegistry()}

	m.fetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_fetch_total",
		Help:      "Provider fetches by outcome",
	}, []string{"provider", "outcome"})
	m.fetchDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "provider_fetch_duration_seconds",
		Help:      "Time spent in a single provider fetch",
		Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
	}, []string{"provider"})
	m.eventsReturned = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "provider_events_total",
		Help:      "Real events returned by each provider",
	}, []string{"provider"})
	m.activeProviders = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "active_providers",
		Help:      "Providers with credentials at the last aggregation",
	})
	m.statusTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "verification_status_total",
		Help:      "Verified candidates by final status",
	}, []string{"status"})
	m.confidence = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "verification_confidence",
		Help:      "Confidence percentage assigned to candidates",
		Buckets:   prometheus.LinearBuckets(10, 10, 10),
	})
	m.fallbackTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "fallback_lookups_total",
		Help:      "Fallback searches for low-scoring candidates by result",
	}, []string{"result"})

	m.registry.MustRegister(
		m.fetchTotal,
		m.fetchDuration,
		m.eventsReturned,
		m.activeProviders,
		m.statusTotal,
		m.confidence,
		m.fallbackTotal,
	)
	return m
}

// Registry exposes the underlying registry for gathering.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// ObserveFetch records one provider call.
func (m *Metrics) ObserveFetch(provider, outcome string, elapsed time.Duration, events int) {
	if m == nil {
		return
	}
	m.fetchTotal.WithLabelValues(provider, outcome).Inc()
	m.fetchDuration.WithLabelValues(provider).Observe(elapsed.Seconds())
	if events > 0 {
		m.eventsReturned.WithLabelValues(provider).Add(float64(events))
	}
}

// SetActiveProviders records how many providers took part in a fan-out.
func (m *Metrics) SetActiveProviders(n int) {
	if m == nil {
		return
	}
	m.activeProviders.Set(float64(n))
}

// ObserveVerification records a finalized candidate.
func (m *Metrics) ObserveVerification(status string, confidence int) {
	if m == nil {
		return
	}
	m.statusTotal.WithLabelValues(status).Inc()
	m.confidence.Observe(float64(confidence))
}

// ObserveFallback records the result of a fallback lookup: "upgraded",
// "rejected", or "miss".
func (m *Metrics) ObserveFallback(result string) {
	if m == nil {
		return
	}
	m.fallbackTotal.WithLabelValues(result).Inc()
}

// WriteTextfile writes all metrics to path in the Prometheus text format,
// for pickup by a node_exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil {
		return fmt.Errorf("metrics not enabled")
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
