// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package provider translates a generic event query into each listing
// provider's request shape and normalizes responses into types.RealEvent.
// Each provider is independent; the aggregate package fans out across them.
package provider

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/pdiddy/eventcheck/pkg/types"
)

// DefaultRadius is the search radius in miles used when a query sets none.
const DefaultRadius = 50

const defaultPageSize = 50

// Provider fetches events from a single listing source. Implementations
// return an error for any transport or payload failure; the aggregator is
// responsible for turning that into an empty contribution.
type Provider interface {
	Name() types.Origin
	Fetch(ctx context.Context, q Query) ([]types.RealEvent, error)
}

// Query holds the provider-agnostic search parameters.
type Query struct {
	// Location is the city or area to search (required).
	Location string
	// Keyword is an optional genre or search term.
	Keyword string
	// Start and End bound the date filter; zero values mean unbounded.
	Start time.Time
	End   time.Time
	// Radius is the search radius in miles; 0 means DefaultRadius.
	Radius int
}

// radius returns the effective search radius.
func (q Query) radius() int {
	if q.Radius <= 0 {
		return DefaultRadius
	}
	return q.Radius
}

// Options carries the shared settings every provider needs.
type Options struct {
	Client     *http.Client
	UserAgent  string
	MaxRetries int
	PageSize   int
}

func (o Options) pageSize() int {
	if o.PageSize <= 0 {
		return defaultPageSize
	}
	return o.PageSize
}

// Registry returns the providers that have credentials configured, in fixed
// registration order: Ticketmaster, SeatGeek, Meetup, Google Places.
// Providers without credentials are skipped without error.
func Registry(cfg types.ProvidersConfig, opts Options, logger *slog.Logger) []Provider {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.PageSize <= 0 {
		opts.PageSize = cfg.PageSize
	}

	var active []Provider
	add := func(origin types.Origin, credential string, p Provider) {
		if strings.TrimSpace(credential) == "" {
			logger.Debug("provider inactive: no credentials", "provider", origin)
			return
		}
		active = append(active, p)
	}

	add(types.OriginTicketmaster, cfg.Ticketmaster.APIKey,
		&Ticketmaster{Options: opts, APIKey: cfg.Ticketmaster.APIKey})
	add(types.OriginSeatGeek, cfg.SeatGeek.ClientID,
		&SeatGeek{Options: opts, ClientID: cfg.SeatGeek.ClientID})
	add(types.OriginMeetup, cfg.Meetup.Token,
		&Meetup{Options: opts, Token: cfg.Meetup.Token})
	add(types.OriginGooglePlaces, cfg.GooglePlaces.APIKey,
		&GooglePlaces{Options: opts, APIKey: cfg.GooglePlaces.APIKey})

	return active
}

// Names returns the origin tags of providers, in order.
func Names(providers []Provider) []types.Origin {
	names := make([]types.Origin, len(providers))
	for i, p := range providers {
		names[i] = p.Name()
	}
	return names
}

// newRequest builds a GET request with the shared User-Agent.
func newRequest(ctx context.Context, opts Options, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if opts.UserAgent != "" {
		req.Header.Set("User-Agent", opts.UserAgent)
	}
	req.Header.Set("Accept", "application/json")
	return req, nil
}

// formatPrice renders a provider price as free text that the match package
// can parse back, e.g. "$25.00" or "EUR 18.50".
func formatPrice(amount float64, currency string) string {
	if amount < 0 {
		return ""
	}
	switch strings.ToUpper(currency) {
	case "", "USD":
		return fmt.Sprintf("$%.2f", amount)
	default:
		return fmt.Sprintf("%s %.2f", strings.ToUpper(currency), amount)
	}
}

// parseTimeFlexible parses timestamps in the layouts providers emit. Values
// without a zone are taken as UTC.
func parseTimeFlexible(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time")
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04Z07:00", "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unsupported time: %q", s)
}

// joinNonEmpty joins the non-empty parts with sep.
func joinNonEmpty(sep string, parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, sep)
}
