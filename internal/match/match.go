// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package match scores how closely a candidate event corresponds to a real
// event and explains the differences. Every function here is pure.
package match

import (
	"fmt"
	"math"
	"time"

	"github.com/pdiddy/eventcheck/pkg/types"
)

// Attribute weights. They sum to 1.0.
const (
	NameWeight     = 0.40
	TimeWeight     = 0.30
	LocationWeight = 0.20
	PriceWeight    = 0.10
)

// Classification thresholds on the overall score.
const (
	VerifiedThreshold = 0.8
	PartialThreshold  = 0.5
)

const (
	// TimeWindow is the start-time gap beyond which events are unrelated.
	TimeWindow = 48 * time.Hour

	// PriceTolerance is the largest price gap that still earns credit.
	PriceTolerance = 10.0

	// priceScale converts a price gap into a score penalty.
	priceScale = 100.0

	// UnknownCredit is awarded when an attribute is missing on either side.
	UnknownCredit = 0.5
)

// Discrepancy detection limits.
const (
	nameDiscrepancyBelow  = 0.9
	timeDiscrepancyAbove  = 2 * time.Hour
	venueDiscrepancyBelow = 0.8
)

// scorePrecision is the granularity scores are rounded to, so an exact
// match on every attribute sums to exactly 1.0 rather than 0.9999999999999999.
const scorePrecision = 1e9

// Score returns the weighted similarity of candidate c and real event r in [0, 1].
func Score(c types.CandidateEvent, r types.RealEvent) float64 {
	s := NameWeight*nameScore(c, r) +
		TimeWeight*timeScore(c, r) +
		LocationWeight*locationScore(c, r) +
		PriceWeight*priceScore(c, r)
	return clamp01(math.Round(s*scorePrecision) / scorePrecision)
}

// Result is the best match for a candidate. Event is nil when there was
// nothing to match against.
type Result struct {
	Event *types.RealEvent
	Score float64
}

// BestMatch scores c against every real event and returns the highest
// scorer. On equal scores the first event in input order wins. An empty
// list yields a nil event and score 0.
func BestMatch(c types.CandidateEvent, events []types.RealEvent) Result {
	return bestMatch(c, events, false)
}

// BestMatchByID is BestMatch with equal scores broken by the
// lexicographically smaller real-event ID, so the outcome does not depend
// on provider ordering.
func BestMatchByID(c types.CandidateEvent, events []types.RealEvent) Result {
	return bestMatch(c, events, true)
}

func bestMatch(c types.CandidateEvent, events []types.RealEvent, byID bool) Result {
	var best Result
	for i := range events {
		s := Score(c, events[i])
		switch {
		case best.Event == nil, s > best.Score:
			best = Result{Event: &events[i], Score: s}
		case byID && s == best.Score && events[i].ID < best.Event.ID:
			best = Result{Event: &events[i], Score: s}
		}
	}
	return best
}

// FindDiscrepancies lists human-readable attribute mismatches between c and
// r. Each check is independent, so zero to four messages may be returned.
func FindDiscrepancies(c types.CandidateEvent, r types.RealEvent) []string {
	var out []string

	if Similarity(c.Title, r.Name) < nameDiscrepancyBelow {
		out = append(out, fmt.Sprintf("name differs: %q vs %q", c.Title, r.Name))
	}

	if !r.Start.IsZero() && !c.Start.IsZero() {
		gap := absDuration(c.Start.Sub(r.Start))
		if gap > timeDiscrepancyAbove {
			out = append(out, fmt.Sprintf("time differs by %d hours: %s vs %s",
				int(math.Round(gap.Hours())),
				c.Start.UTC().Format(time.RFC3339), r.Start.UTC().Format(time.RFC3339)))
		}
	}

	if venue := r.VenueText(); c.Location != "" && venue != "" {
		if Similarity(c.Location, venue) < venueDiscrepancyBelow {
			out = append(out, fmt.Sprintf("venue differs: %q vs %q", c.Location, venue))
		}
	}

	cp, cok := ParsePrice(c.Price)
	rp, rok := ParsePrice(r.Price)
	if cok && rok && math.Abs(cp-rp) > PriceTolerance {
		out = append(out, fmt.Sprintf("price differs: %s vs %s", c.Price, r.Price))
	}

	return out
}

// Confidence converts a score into an integer percentage in [0, 100].
func Confidence(score float64) int {
	return int(math.Round(clamp01(score) * 100))
}

func nameScore(c types.CandidateEvent, r types.RealEvent) float64 {
	return Similarity(c.Title, r.Name)
}

// timeScore decays linearly from 1 at identical starts to 0 at TimeWindow.
// A real event without a start time earns nothing.
func timeScore(c types.CandidateEvent, r types.RealEvent) float64 {
	if r.Start.IsZero() || c.Start.IsZero() {
		return 0
	}
	gap := absDuration(c.Start.Sub(r.Start))
	if gap > TimeWindow {
		return 0
	}
	return 1 - gap.Hours()/TimeWindow.Hours()
}

func locationScore(c types.CandidateEvent, r types.RealEvent) float64 {
	venue := r.VenueText()
	if c.Location == "" || venue == "" {
		return UnknownCredit
	}
	return Similarity(c.Location, venue)
}

func priceScore(c types.CandidateEvent, r types.RealEvent) float64 {
	cp, cok := ParsePrice(c.Price)
	rp, rok := ParsePrice(r.Price)
	if !cok || !rok {
		return UnknownCredit
	}
	diff := math.Abs(cp - rp)
	if diff > PriceTolerance {
		return 0
	}
	return 1 - diff/priceScale
}

func absDuration(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}

func clamp01(f float64) float64 {
	switch {
	case math.IsNaN(f), f < 0:
		return 0
	case f > 1:
		return 1
	default:
		return f
	}
}
