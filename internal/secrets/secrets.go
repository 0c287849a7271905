// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets loads provider credentials from a directory of plain-text
// files and from a .env file. Each file in the directory represents one
// secret: the filename is the key name and the file contents (trimmed) are
// the value.
//
// Supported key files: ticketmaster-api-key, seatgeek-client-id, meetup-token, google-places-api-key.
package secrets

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/pdiddy/eventcheck/pkg/types"
)

// Key file names.
const (
	TicketmasterAPIKey = "ticketmaster-api-key"
	SeatGeekClientID   = "seatgeek-client-id"
	MeetupToken        = "meetup-token"
	GooglePlacesAPIKey = "google-places-api-key"
)

// envNames maps each key to the plain environment variable consulted last.
var envNames = map[string]string{
	TicketmasterAPIKey: "TICKETMASTER_API_KEY",
	SeatGeekClientID:   "SEATGEEK_CLIENT_ID",
	MeetupToken:        "MEETUP_TOKEN",
	GooglePlacesAPIKey: "GOOGLE_PLACES_API_KEY",
}

// Load reads all files in dir and returns a map of filename to trimmed contents.
// A missing directory or missing files are not errors; Load returns an empty map.
// Unreadable files are logged and skipped.
func Load(dir string) (map[string]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	secrets := make(map[string]string)
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			slog.Warn("could not read secret", "name", name, "error", err)
			continue
		}

		value := strings.TrimSpace(string(data))
		if value != "" {
			secrets[name] = value
		}
	}

	return secrets, nil
}

// LoadDotEnv populates the process environment from a .env file without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Apply fills every empty credential in cfg, first from files (as returned
// by Load) and then from the plain environment variable for that key.
// Credentials already set are left alone.
func Apply(cfg *types.ProvidersConfig, files map[string]string) {
	fill := func(dst *string, key string) {
		if strings.TrimSpace(*dst) != "" {
			return
		}
		if v := files[key]; v != "" {
			*dst = v
			return
		}
		*dst = strings.TrimSpace(os.Getenv(envNames[key]))
	}
	fill(&cfg.Ticketmaster.APIKey, TicketmasterAPIKey)
	fill(&cfg.SeatGeek.ClientID, SeatGeekClientID)
	fill(&cfg.Meetup.Token, MeetupToken)
	fill(&cfg.GooglePlaces.APIKey, GooglePlacesAPIKey)
}
