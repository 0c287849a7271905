// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history persists verification runs in SQLite so past results can
// be listed and inspected without re-querying providers.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/eventcheck/pkg/types"
)

// DefaultPath is used when no database path is configured.
const DefaultPath = "eventcheck.db"

const defaultListLimit = 20

// timeFmt has a fixed-width fraction so stored instants sort as text.
const timeFmt = "2006-01-02T15:04:05.000000000Z07:00"

// ErrNotFound is returned when no run matches an ID.
var ErrNotFound = errors.New("run not found")

// Run is one saved verification run.
type Run struct {
	ID        string
	CreatedAt time.Time
	Location  string
	Genre     string
	From      time.Time
	To        time.Time
	Providers []types.Origin
	Result    types.VerificationResult
}

// RunSummary is a row of the run listing.
type RunSummary struct {
	ID        string
	CreatedAt time.Time
	Location  string
	Genre     string
	Stats     types.Stats
}

// Store manages the history SQLite database.
type Store struct {
	db *sql.DB
}

// NewStore opens or creates the history database at cfg.Path and creates
// the schema if it does not exist.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = DefaultPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating history directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{db: db}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS runs (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			location TEXT NOT NULL,
			genre TEXT,
			window_start TEXT,
			window_end TEXT,
			providers TEXT,
			total INTEGER NOT NULL,
			verified INTEGER NOT NULL,
			partial INTEGER NOT NULL,
			unverified INTEGER NOT NULL,
			average_confidence INTEGER NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS events (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			run_id TEXT NOT NULL REFERENCES runs(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			uid TEXT,
			title TEXT,
			description TEXT,
			start_at TEXT,
			end_at TEXT,
			location TEXT,
			price TEXT,
			url TEXT,
			status TEXT NOT NULL,
			confidence INTEGER NOT NULL,
			source_name TEXT,
			source_origin TEXT,
			source_url TEXT,
			discrepancies TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_events_run_id ON events(run_id)`,
		`CREATE INDEX IF NOT EXISTS idx_runs_created_at ON runs(created_at)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Save stores run and returns its ID. A run without an ID or creation time
// gets a fresh UUID and the current time.
func (s *Store) Save(ctx context.Context, run Run) (string, error) {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	providersJSON, _ := json.Marshal(run.Providers)
	st := run.Result.Stats

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return "", fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO runs (id, created_at, location, genre, window_start, window_end, providers,
			total, verified, partial, unverified, average_confidence)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, formatTime(run.CreatedAt), run.Location, run.Genre,
		formatTime(run.From), formatTime(run.To), string(providersJSON),
		st.TotalEvents, st.VerifiedCount, st.PartialCount, st.UnverifiedCount, st.AverageConfidence,
	)
	if err != nil {
		return "", fmt.Errorf("inserting run: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO events (run_id, position, uid, title, description, start_at, end_at, location, price, url,
			status, confidence, source_name, source_origin, source_url, discrepancies)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return "", fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range run.Result.Events {
		var srcName, srcOrigin, srcURL string
		if e.Source != nil {
			srcName, srcOrigin, srcURL = e.Source.Name, string(e.Source.Origin), e.Source.URL
		}
		discJSON, _ := json.Marshal(e.Discrepancies)
		_, err := stmt.ExecContext(ctx,
			run.ID, i, e.UID, e.Title, e.Description, formatTime(e.Start), formatTime(e.End),
			e.Location, e.Price, e.URL, string(e.Status), e.Confidence,
			srcName, srcOrigin, srcURL, string(discJSON),
		)
		if err != nil {
			return "", fmt.Errorf("inserting event %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("committing run: %w", err)
	}
	return run.ID, nil
}

// List returns up to limit run summaries, newest first. A non-positive
// limit uses the default of 20.
func (s *Store) List(ctx context.Context, limit int) ([]RunSummary, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, location, genre, total, verified, partial, unverified, average_confidence
		 FROM runs ORDER BY created_at DESC, id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var r RunSummary
		var created string
		var genre sql.NullString
		if err := rows.Scan(&r.ID, &created, &r.Location, &genre,
			&r.Stats.TotalEvents, &r.Stats.VerifiedCount, &r.Stats.PartialCount,
			&r.Stats.UnverifiedCount, &r.Stats.AverageConfidence); err != nil {
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.CreatedAt = parseTime(created)
		r.Genre = genre.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// Get loads a run by ID or by a unique ID prefix.
func (s *Store) Get(ctx context.Context, id string) (*Run, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrNotFound
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, created_at, location, genre, window_start, window_end, providers,
			total, verified, partial, unverified, average_confidence
		 FROM runs WHERE substr(id, 1, length(?)) = ? ORDER BY id = ? DESC LIMIT 2`,
		id, id, id)
	if err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}
	var runs []*Run
	for rows.Next() {
		r := &Run{}
		var created, start, end, providers string
		var genre sql.NullString
		st := &r.Result.Stats
		if err := rows.Scan(&r.ID, &created, &r.Location, &genre, &start, &end, &providers,
			&st.TotalEvents, &st.VerifiedCount, &st.PartialCount, &st.UnverifiedCount, &st.AverageConfidence); err != nil {
			rows.Close()
			return nil, fmt.Errorf("scanning run: %w", err)
		}
		r.Genre = genre.String
		r.CreatedAt, r.From, r.To = parseTime(created), parseTime(start), parseTime(end)
		_ = json.Unmarshal([]byte(providers), &r.Providers)
		runs = append(runs, r)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("querying run: %w", err)
	}

	switch {
	case len(runs) == 0:
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	case len(runs) > 1 && runs[0].ID != id:
		return nil, fmt.Errorf("run ID prefix %q is ambiguous", id)
	}
	run := runs[0]

	events, err := s.loadEvents(ctx, run.ID)
	if err != nil {
		return nil, err
	}
	run.Result.Events = events
	return run, nil
}

func (s *Store) loadEvents(ctx context.Context, runID string) ([]types.VerifiedEvent, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT uid, title, description, start_at, end_at, location, price, url, status, confidence,
			source_name, source_origin, source_url, discrepancies
		 FROM events WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	events := []types.VerifiedEvent{}
	for rows.Next() {
		var e types.VerifiedEvent
		var start, end, status, srcName, srcOrigin, srcURL, disc string
		if err := rows.Scan(&e.UID, &e.Title, &e.Description, &start, &end, &e.Location,
			&e.Price, &e.URL, &status, &e.Confidence, &srcName, &srcOrigin, &srcURL, &disc); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		e.Start, e.End = parseTime(start), parseTime(end)
		e.Status = types.Status(status)
		if srcName != "" || srcOrigin != "" {
			e.Source = &types.MatchedSource{Name: srcName, Origin: types.Origin(srcOrigin), URL: srcURL}
		}
		_ = json.Unmarshal([]byte(disc), &e.Discrepancies)
		events = append(events, e)
	}
	return events, rows.Err()
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(timeFmt)
}

func parseTime(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
