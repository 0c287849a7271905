// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the eventcheck verifier:
// candidate events proposed upstream, real events normalized from listing
// providers, and the per-candidate verification outcome.
package types

import "time"

// Origin identifies the listing provider a RealEvent came from.
type Origin string

const (
	OriginTicketmaster Origin = "ticketmaster"
	OriginSeatGeek     Origin = "seatgeek"
	OriginMeetup       Origin = "meetup"
	OriginGooglePlaces Origin = "google_places"
)

// IDPrefix returns the prefix prepended to provider-local identifiers so
// that RealEvent IDs are unique across providers.
func (o Origin) IDPrefix() string {
	switch o {
	case OriginTicketmaster:
		return "tm-"
	case OriginSeatGeek:
		return "sg-"
	case OriginMeetup:
		return "mu-"
	case OriginGooglePlaces:
		return "gp-"
	default:
		return string(o) + "-"
	}
}

// CandidateEvent is an event proposed by the upstream generator. It is
// treated as immutable input.
type CandidateEvent struct {
	// UID is the stable identifier assigned upstream.
	UID string `json:"uid" yaml:"uid"`

	// Title is the event summary line.
	Title string `json:"title" yaml:"title"`

	Description string `json:"description,omitempty" yaml:"description,omitempty"`

	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`

	// Location is free-form venue text, e.g. "Blue Note, NYC".
	Location string `json:"location,omitempty" yaml:"location,omitempty"`

	// Price is free-form price text, e.g. "$20" or "Free".
	Price string `json:"price,omitempty" yaml:"price,omitempty"`

	// URL is an optional link proposed for the event.
	URL string `json:"url,omitempty" yaml:"url,omitempty"`
}

// RealEvent is an event (or, for directory providers, a venue) obtained from
// an independent listing provider. Only ID, Origin, and Name are always set;
// Start is zero when the provider has no scheduled time.
type RealEvent struct {
	ID          string    `json:"id" yaml:"id"`
	Origin      Origin    `json:"origin" yaml:"origin"`
	Name        string    `json:"name" yaml:"name"`
	Description string    `json:"description,omitempty" yaml:"description,omitempty"`
	Start       time.Time `json:"start" yaml:"start"`
	End         time.Time `json:"end,omitempty" yaml:"end,omitempty"`
	Location    string    `json:"location,omitempty" yaml:"location,omitempty"`
	Venue       string    `json:"venue,omitempty" yaml:"venue,omitempty"`
	Address     string    `json:"address,omitempty" yaml:"address,omitempty"`
	URL         string    `json:"url,omitempty" yaml:"url,omitempty"`
	Price       string    `json:"price,omitempty" yaml:"price,omitempty"`
	ImageURL    string    `json:"image_url,omitempty" yaml:"image_url,omitempty"`
	Categories  []string  `json:"categories,omitempty" yaml:"categories,omitempty"`
	Organizer   string    `json:"organizer,omitempty" yaml:"organizer,omitempty"`
}

// VenueText returns the text used to compare against a candidate's location:
// the venue name when known, otherwise the free-text location.
func (e RealEvent) VenueText() string {
	if e.Venue != "" {
		return e.Venue
	}
	return e.Location
}

// Status is the verification tier assigned to a candidate.
type Status string

const (
	StatusVerified   Status = "verified"
	StatusPartial    Status = "partial"
	StatusUnverified Status = "unverified"
)

// MatchedSource summarizes the real event a candidate was matched to.
type MatchedSource struct {
	Name   string `json:"name" yaml:"name"`
	Origin Origin `json:"origin" yaml:"origin"`
	URL    string `json:"url,omitempty" yaml:"url,omitempty"`
}

// VerifiedEvent is a candidate annotated with its verification outcome.
type VerifiedEvent struct {
	CandidateEvent `yaml:",inline"`

	// Confidence is round(score*100), always within [0, 100].
	Confidence int    `json:"confidence" yaml:"confidence"`
	Status     Status `json:"status" yaml:"status"`

	Source *MatchedSource `json:"source,omitempty" yaml:"source,omitempty"`

	// Discrepancies is only populated for partial matches.
	Discrepancies []string `json:"discrepancies,omitempty" yaml:"discrepancies,omitempty"`
}

// Stats aggregates verification outcomes over a batch.
type Stats struct {
	TotalEvents       int `json:"total_events" yaml:"total_events"`
	VerifiedCount     int `json:"verified_count" yaml:"verified_count"`
	PartialCount      int `json:"partial_count" yaml:"partial_count"`
	UnverifiedCount   int `json:"unverified_count" yaml:"unverified_count"`
	AverageConfidence int `json:"average_confidence" yaml:"average_confidence"`
}

// VerificationResult holds per-candidate outcomes in input order plus stats.
type VerificationResult struct {
	Events []VerifiedEvent `json:"events" yaml:"events"`
	Stats  Stats           `json:"stats" yaml:"stats"`
}
