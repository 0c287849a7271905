package types

import "time"

// HTTPConfig holds shared HTTP settings used by every provider.
type HTTPConfig struct {
	// Timeout is the transport-level HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "eventcheck/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds retries on HTTP 429/503 responses.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`
}

// TicketmasterConfig holds Ticketmaster Discovery API credentials.
type TicketmasterConfig struct {
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// SeatGeekConfig holds SeatGeek platform credentials.
type SeatGeekConfig struct {
	ClientID string `json:"client_id,omitempty" yaml:"client_id,omitempty" mapstructure:"client_id"`
}

// MeetupConfig holds the Meetup GraphQL bearer token.
type MeetupConfig struct {
	Token string `json:"token,omitempty" yaml:"token,omitempty" mapstructure:"token"`
}

// GooglePlacesConfig holds the Google Places API key.
type GooglePlacesConfig struct {
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// ProvidersConfig holds settings for the listing providers. A provider whose
// credential is empty is not activated.
type ProvidersConfig struct {
	// Timeout bounds each individual provider call. A provider that exceeds
	// it contributes no events.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// Radius is the default search radius in miles (default 50).
	Radius int `json:"radius" yaml:"radius" mapstructure:"radius"`

	// PageSize caps the number of events requested from each provider.
	PageSize int `json:"page_size" yaml:"page_size" mapstructure:"page_size"`

	Ticketmaster TicketmasterConfig `json:"ticketmaster" yaml:"ticketmaster" mapstructure:"ticketmaster"`
	SeatGeek     SeatGeekConfig     `json:"seatgeek" yaml:"seatgeek" mapstructure:"seatgeek"`
	Meetup       MeetupConfig       `json:"meetup" yaml:"meetup" mapstructure:"meetup"`
	GooglePlaces GooglePlacesConfig `json:"google_places" yaml:"google_places" mapstructure:"google_places"`
}

// VerifyConfig holds settings for the verification stage.
type VerifyConfig struct {
	// Concurrency is the number of candidates scored in parallel (default 4).
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`

	// MinConfidence is the default trust threshold (default 60).
	MinConfidence int `json:"min_confidence" yaml:"min_confidence" mapstructure:"min_confidence"`

	// TieBreakByID makes equal best-match scores prefer the lexicographically
	// smaller real-event ID instead of the first one encountered.
	TieBreakByID bool `json:"tie_break_by_id" yaml:"tie_break_by_id" mapstructure:"tie_break_by_id"`
}

// HistoryConfig holds settings for the verification run store.
type HistoryConfig struct {
	// Path is the SQLite database file.
	Path string `json:"path" yaml:"path" mapstructure:"path"`
}

// LoggingConfig selects log verbosity and handler format.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level" mapstructure:"level"`
	Format string `json:"format" yaml:"format" mapstructure:"format"`
}

// Config groups all configuration for eventcheck.
type Config struct {
	HTTP      HTTPConfig      `json:"http" yaml:"http" mapstructure:"http"`
	Providers ProvidersConfig `json:"providers" yaml:"providers" mapstructure:"providers"`
	Verify    VerifyConfig    `json:"verify" yaml:"verify" mapstructure:"verify"`
	History   HistoryConfig   `json:"history" yaml:"history" mapstructure:"history"`
	Logging   LoggingConfig   `json:"logging" yaml:"logging" mapstructure:"logging"`
}
