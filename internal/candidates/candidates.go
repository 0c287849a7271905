// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package candidates reads candidate-event files handed over by the upstream
// generator and writes verification reports, both as YAML.
package candidates

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/eventcheck/pkg/types"
)

// File is the on-disk batch of candidates plus the search context they were
// generated for.
type File struct {
	Location string                 `yaml:"location"`
	Genre    string                 `yaml:"genre,omitempty"`
	From     string                 `yaml:"from,omitempty"`
	To       string                 `yaml:"to,omitempty"`
	Events   []types.CandidateEvent `yaml:"events"`
}

// Report is the on-disk record of one verification run.
type Report struct {
	RunID       string                   `yaml:"run_id,omitempty"`
	Location    string                   `yaml:"location"`
	Genre       string                   `yaml:"genre,omitempty"`
	From        string                   `yaml:"from,omitempty"`
	To          string                   `yaml:"to,omitempty"`
	Providers   []types.Origin           `yaml:"providers"`
	GeneratedAt time.Time                `yaml:"generated_at"`
	Result      types.VerificationResult `yaml:"result"`
}

const dateFmt = "2006-01-02"

// Read loads a candidate file. Candidates without a UID are assigned one so
// every result row can be traced back.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading candidate file: %w", err)
	}
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing candidate file: %w", err)
	}
	for i := range f.Events {
		if strings.TrimSpace(f.Events[i].UID) == "" {
			f.Events[i].UID = uuid.NewString()
		}
	}
	return &f, nil
}

// Write saves a candidate file.
func Write(path string, f *File) error {
	data, err := yaml.Marshal(f)
	if err != nil {
		return fmt.Errorf("marshaling candidate file: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Window parses the optional From/To bounds. A bare date for To covers the
// whole day.
func (f *File) Window() (from, to time.Time, err error) {
	if from, err = ParseBound(f.From, false); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid from %q: %w", f.From, err)
	}
	if to, err = ParseBound(f.To, true); err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid to %q: %w", f.To, err)
	}
	if !from.IsZero() && !to.IsZero() && to.Before(from) {
		return time.Time{}, time.Time{}, fmt.Errorf("window ends before it starts: %s > %s", f.From, f.To)
	}
	return from, to, nil
}

// ParseBound parses an RFC 3339 instant or a YYYY-MM-DD date in UTC. When
// endOfDay is set a bare date resolves to the last second of that day. An
// empty string yields the zero time.
func ParseBound(s string, endOfDay bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(dateFmt, s)
	if err != nil {
		return time.Time{}, err
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Second)
	}
	return t, nil
}

// WriteReport saves a verification report as YAML.
func WriteReport(path string, r Report) error {
	if r.GeneratedAt.IsZero() {
		r.GeneratedAt = time.Now().UTC()
	}
	data, err := yaml.Marshal(&r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// ReadReport loads a report written by WriteReport.
func ReadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading report: %w", err)
	}
	var r Report
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing report: %w", err)
	}
	return &r, nil
}
