// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package aggregate fans a query out to every active provider concurrently
// and merges the results. A failing, slow, or panicking provider contributes
// an empty list; it never fails the aggregation.
package aggregate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pdiddy/eventcheck/internal/metrics"
	"github.com/pdiddy/eventcheck/internal/provider"
	"github.com/pdiddy/eventcheck/pkg/types"
)

// DefaultTimeout bounds each provider call when none is configured.
const DefaultTimeout = 15 * time.Second

// FindWindow is how far either side of a date FindEvent searches.
const FindWindow = 24 * time.Hour

// Aggregator holds the configured providers in registration order.
type Aggregator struct {
	providers []provider.Provider
	timeout   time.Duration
	radius    int
	logger    *slog.Logger
	metrics   *metrics.Metrics
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithTimeout sets the per-provider call timeout.
func WithTimeout(d time.Duration) Option {
	return func(a *Aggregator) {
		if d > 0 {
			a.timeout = d
		}
	}
}

// WithRadius sets the radius applied to queries that do not set one.
func WithRadius(miles int) Option {
	return func(a *Aggregator) { a.radius = miles }
}

// WithLogger sets the logger used for provider failures.
func WithLogger(l *slog.Logger) Option {
	return func(a *Aggregator) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithMetrics records fetch outcomes on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Aggregator) { a.metrics = m }
}

// New returns an Aggregator over providers. Nil entries are dropped.
func New(providers []provider.Provider, opts ...Option) *Aggregator {
	a := &Aggregator{
		timeout: DefaultTimeout,
		logger:  slog.Default(),
	}
	for _, p := range providers {
		if p != nil {
			a.providers = append(a.providers, p)
		}
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Providers returns the active provider tags in registration order.
func (a *Aggregator) Providers() []types.Origin {
	return provider.Names(a.providers)
}

// GetAllEvents queries every provider concurrently, waits for all of them,
// and returns their events concatenated in registration order. With no
// providers it returns an empty list immediately.
func (a *Aggregator) GetAllEvents(ctx context.Context, q provider.Query) []types.RealEvent {
	if len(a.providers) == 0 {
		a.logger.Warn("no event providers configured; all candidates will be unverified")
		a.metrics.SetActiveProviders(0)
		return []types.RealEvent{}
	}
	a.metrics.SetActiveProviders(len(a.providers))
	if q.Radius <= 0 {
		q.Radius = a.radius
	}

	// Each goroutine owns one slot, so no locking is needed.
	results := make([][]types.RealEvent, len(a.providers))
	var wg sync.WaitGroup
	for i, p := range a.providers {
		wg.Add(1)
		go func(i int, p provider.Provider) {
			defer wg.Done()
			results[i] = a.fetchOne(ctx, p, q)
		}(i, p)
	}
	wg.Wait()

	total := 0
	for _, r := range results {
		total += len(r)
	}
	all := make([]types.RealEvent, 0, total)
	for _, r := range results {
		all = append(all, r...)
	}
	a.logger.Debug("aggregated real events", "providers", len(a.providers), "events", total)
	return all
}

// fetchOne runs a single provider under the per-call timeout and converts
// any failure into an empty result.
func (a *Aggregator) fetchOne(ctx context.Context, p provider.Provider, q provider.Query) []types.RealEvent {
	name := string(p.Name())
	start := time.Now()

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	events, err := fetchWithDeadline(ctx, p, q)
	if err != nil {
		outcome := metrics.OutcomeError
		var pe *panicError
		switch {
		case errors.As(err, &pe):
			outcome = metrics.OutcomePanic
		case errors.Is(err, context.DeadlineExceeded):
			outcome = metrics.OutcomeTimeout
		}
		a.logger.Warn("provider fetch failed", "provider", name, "outcome", outcome, "error", err)
		a.metrics.ObserveFetch(name, outcome, time.Since(start), 0)
		return nil
	}
	a.metrics.ObserveFetch(name, metrics.OutcomeSuccess, time.Since(start), len(events))
	return events
}

type panicError struct {
	value any
}

func (e *panicError) Error() string {
	return fmt.Sprintf("provider panicked: %v", e.value)
}

type fetchResult struct {
	events []types.RealEvent
	err    error
}

// fetchWithDeadline returns when the provider does or when ctx expires,
// whichever is first, so a provider that ignores its context cannot hold up
// the barrier. A panic inside the provider is returned as an error.
func fetchWithDeadline(ctx context.Context, p provider.Provider, q provider.Query) ([]types.RealEvent, error) {
	ch := make(chan fetchResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				ch <- fetchResult{err: &panicError{value: r}}
			}
		}()
		events, err := p.Fetch(ctx, q)
		ch <- fetchResult{events: events, err: err}
	}()

	select {
	case res := <-ch:
		return res.events, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// FindEvent is a looser second-chance lookup. It searches with name as the
// keyword, within FindWindow of date when date is non-zero, and returns the
// first event whose name contains, or is contained in, name ignoring case.
func (a *Aggregator) FindEvent(ctx context.Context, name, location string, date time.Time) *types.RealEvent {
	q := provider.Query{Location: location, Keyword: name}
	if !date.IsZero() {
		q.Start = date.Add(-FindWindow)
		q.End = date.Add(FindWindow)
	}

	want := strings.ToLower(strings.TrimSpace(name))
	if want == "" {
		return nil
	}
	for _, e := range a.GetAllEvents(ctx, q) {
		got := strings.ToLower(strings.TrimSpace(e.Name))
		if got == "" {
			continue
		}
		if strings.Contains(got, want) || strings.Contains(want, got) {
			return &e
		}
	}
	return nil
}
