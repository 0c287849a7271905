// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package verify classifies candidate events against real events gathered
// from listing providers. Each candidate is scored, classified, optionally
// re-scored through a fallback lookup, and finalized independently of the
// others; only the aggregated fetch is shared across the batch.
package verify

import (
	"context"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/eventcheck/internal/match"
	"github.com/pdiddy/eventcheck/internal/metrics"
	"github.com/pdiddy/eventcheck/internal/provider"
	"github.com/pdiddy/eventcheck/pkg/types"
)

// DefaultMinConfidence is the trust threshold used when none is given.
const DefaultMinConfidence = 60

// DefaultConcurrency bounds how many candidates are finalized at once.
const DefaultConcurrency = 4

// Fallback results recorded in metrics.
const (
	fallbackUpgraded = "upgraded"
	fallbackRejected = "rejected"
	fallbackMiss     = "miss"
)

// EventSource supplies real events. *aggregate.Aggregator satisfies it.
type EventSource interface {
	GetAllEvents(ctx context.Context, q provider.Query) []types.RealEvent
	FindEvent(ctx context.Context, name, location string, date time.Time) *types.RealEvent
}

// Verifier runs the per-candidate classification over one EventSource.
type Verifier struct {
	source       EventSource
	logger       *slog.Logger
	metrics      *metrics.Metrics
	concurrency  int
	tieBreakByID bool
}

// Option configures a Verifier.
type Option func(*Verifier)

// WithLogger sets the logger for per-candidate decisions.
func WithLogger(l *slog.Logger) Option {
	return func(v *Verifier) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithMetrics records verification outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(v *Verifier) { v.metrics = m }
}

// WithConcurrency sets how many candidates may be finalized in parallel.
// Values below 1 are ignored.
func WithConcurrency(n int) Option {
	return func(v *Verifier) {
		if n >= 1 {
			v.concurrency = n
		}
	}
}

// WithTieBreakByID makes equal best-match scores prefer the smaller real
// event ID instead of the first one encountered.
func WithTieBreakByID(on bool) Option {
	return func(v *Verifier) { v.tieBreakByID = on }
}

// New returns a Verifier reading real events from source.
func New(source EventSource, opts ...Option) *Verifier {
	v := &Verifier{
		source:      source,
		logger:      slog.Default(),
		concurrency: DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// VerifyEvents fetches real events once for the location, genre, and window,
// then finalizes every candidate. Events in the result keep the order of
// candidates. Provider failures never surface here; at worst every candidate
// ends unverified.
func (v *Verifier) VerifyEvents(ctx context.Context, candidates []types.CandidateEvent, location, genre string, start, end time.Time) types.VerificationResult {
	q := provider.Query{Location: location, Keyword: genre, Start: start, End: end}
	real := v.source.GetAllEvents(ctx, q)
	v.logger.Info("verifying candidates", "candidates", len(candidates), "real_events", len(real), "location", location)

	out := make([]types.VerifiedEvent, len(candidates))
	var g errgroup.Group
	g.SetLimit(v.concurrency)
	for i, c := range candidates {
		g.Go(func() error {
			out[i] = v.verifyOne(ctx, c, real, location)
			return nil
		})
	}
	_ = g.Wait()

	return types.VerificationResult{Events: out, Stats: ComputeStats(out)}
}

// verifyOne takes a candidate from scored through classified and, when the
// score is low, through one fallback re-score, to a finalized VerifiedEvent.
func (v *Verifier) verifyOne(ctx context.Context, c types.CandidateEvent, real []types.RealEvent, location string) types.VerifiedEvent {
	best := match.BestMatch(c, real)
	if v.tieBreakByID {
		best = match.BestMatchByID(c, real)
	}

	ev := types.VerifiedEvent{CandidateEvent: c}
	matched, score := best.Event, best.Score

	switch {
	case score >= match.VerifiedThreshold:
		ev.Status = types.StatusVerified
	case score >= match.PartialThreshold:
		ev.Status = types.StatusPartial
		ev.Discrepancies = match.FindDiscrepancies(c, *matched)
	default:
		ev.Status = types.StatusUnverified
		if fb := v.source.FindEvent(ctx, c.Title, location, c.Start); fb != nil {
			matched, score = fb, match.Score(c, *fb)
			if score >= match.PartialThreshold {
				ev.Status = types.StatusPartial
				ev.Discrepancies = match.FindDiscrepancies(c, *fb)
				v.metrics.ObserveFallback(fallbackUpgraded)
			} else {
				v.metrics.ObserveFallback(fallbackRejected)
			}
		} else {
			v.metrics.ObserveFallback(fallbackMiss)
		}
	}
	ev.Confidence = match.Confidence(score)

	if matched != nil {
		ev.Source = &types.MatchedSource{Name: matched.Name, Origin: matched.Origin, URL: matched.URL}
		if ev.URL == "" && matched.URL != "" {
			ev.URL = matched.URL
		}
	}

	v.logger.Debug("candidate classified",
		"uid", c.UID, "title", c.Title, "status", ev.Status, "confidence", ev.Confidence,
		"discrepancies", len(ev.Discrepancies))
	v.metrics.ObserveVerification(string(ev.Status), ev.Confidence)
	return ev
}

// ComputeStats counts statuses and averages confidence, rounded to the
// nearest integer. An empty batch yields all zeros.
func ComputeStats(events []types.VerifiedEvent) types.Stats {
	s := types.Stats{TotalEvents: len(events)}
	if len(events) == 0 {
		return s
	}
	sum := 0
	for _, e := range events {
		switch e.Status {
		case types.StatusVerified:
			s.VerifiedCount++
		case types.StatusPartial:
			s.PartialCount++
		default:
			s.UnverifiedCount++
		}
		sum += e.Confidence
	}
	s.AverageConfidence = int(math.Round(float64(sum) / float64(len(events))))
	return s
}

// ConfidenceDescription maps a confidence percentage to a display label.
func ConfidenceDescription(confidence int) string {
	switch {
	case confidence >= 90:
		return "Very High"
	case confidence >= 75:
		return "High"
	case confidence >= 60:
		return "Moderate"
	case confidence >= 40:
		return "Low"
	default:
		return "Very Low"
	}
}

// ShouldTrust reports whether ev is confident enough to present as real.
// Unverified events are never trusted.
func ShouldTrust(ev types.VerifiedEvent, minConfidence int) bool {
	return ev.Confidence >= minConfidence && ev.Status != types.StatusUnverified
}

// Trusted returns the events that pass ShouldTrust, in order.
func Trusted(events []types.VerifiedEvent, minConfidence int) []types.VerifiedEvent {
	var out []types.VerifiedEvent
	for _, e := range events {
		if ShouldTrust(e, minConfidence) {
			out = append(out, e)
		}
	}
	return out
}
