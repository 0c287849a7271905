// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"github.com/pdiddy/eventcheck/internal/aggregate"
	"github.com/pdiddy/eventcheck/internal/httputil"
	"github.com/pdiddy/eventcheck/internal/metrics"
	"github.com/pdiddy/eventcheck/internal/provider"
	"github.com/pdiddy/eventcheck/pkg/types"
)

// activeProviders builds the credentialed providers from cfg.
func activeProviders(cfg types.Config) []provider.Provider {
	opts := provider.Options{
		Client:     httputil.NewClient(cfg.HTTP.Timeout),
		UserAgent:  cfg.HTTP.UserAgent,
		MaxRetries: cfg.HTTP.MaxRetries,
		PageSize:   cfg.Providers.PageSize,
	}
	return provider.Registry(cfg.Providers, opts, logger)
}

// newAggregator wires the active providers into an Aggregator.
func newAggregator(cfg types.Config, m *metrics.Metrics) *aggregate.Aggregator {
	return aggregate.New(activeProviders(cfg),
		aggregate.WithTimeout(cfg.Providers.Timeout),
		aggregate.WithRadius(cfg.Providers.Radius),
		aggregate.WithLogger(logger),
		aggregate.WithMetrics(m),
	)
}
