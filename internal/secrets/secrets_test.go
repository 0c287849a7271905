// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package secrets

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/eventcheck/pkg/types"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name   string
		setup  func(t *testing.T) string
		want   map[string]string
		errMsg string
	}{
		{
			name: "reads key files and trims whitespace",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, TicketmasterAPIKey, "  tm_abc123  \n")
				writeFile(t, dir, SeatGeekClientID, "sg_xyz789")
				writeFile(t, dir, MeetupToken, "mu-token\n")
				return dir
			},
			want: map[string]string{
				TicketmasterAPIKey: "tm_abc123",
				SeatGeekClientID:   "sg_xyz789",
				MeetupToken:        "mu-token",
			},
		},
		{
			name: "returns empty map for nonexistent directory",
			setup: func(t *testing.T) string {
				return filepath.Join(t.TempDir(), "does-not-exist")
			},
			want: map[string]string{},
		},
		{
			name: "skips empty files",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, GooglePlacesAPIKey, "valid-key")
				writeFile(t, dir, "empty-key", "")
				writeFile(t, dir, "whitespace-only", "   \n\t  ")
				return dir
			},
			want: map[string]string{
				GooglePlacesAPIKey: "valid-key",
			},
		},
		{
			name: "skips dotfiles",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, ".gitkeep", "")
				writeFile(t, dir, ".hidden-key", "secret")
				writeFile(t, dir, TicketmasterAPIKey, "tm_real")
				return dir
			},
			want: map[string]string{
				TicketmasterAPIKey: "tm_real",
			},
		},
		{
			name: "skips subdirectories",
			setup: func(t *testing.T) string {
				dir := t.TempDir()
				writeFile(t, dir, MeetupToken, "mu_123")
				require.NoError(t, os.Mkdir(filepath.Join(dir, "subdir"), 0o755))
				return dir
			},
			want: map[string]string{
				MeetupToken: "mu_123",
			},
		},
		{
			name: "returns empty map for empty directory",
			setup: func(t *testing.T) string {
				return t.TempDir()
			},
			want: map[string]string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := tt.setup(t)
			got, err := Load(dir)
			if tt.errMsg != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestLoadUnreadableFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good-key", "value123")

	// Create a file then remove read permission.
	badPath := filepath.Join(dir, "bad-key")
	require.NoError(t, os.WriteFile(badPath, []byte("secret"), 0o000))
	t.Cleanup(func() { os.Chmod(badPath, 0o644) })

	got, err := Load(dir)
	require.NoError(t, err)
	// The good file should still be returned; the bad file is skipped with a warning.
	assert.Equal(t, "value123", got["good-key"])
	_, hasBad := got["bad-key"]
	assert.False(t, hasBad, "unreadable file should not appear in result")
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadDotEnv(t *testing.T) {
	t.Setenv("SEATGEEK_CLIENT_ID", "already-set")
	t.Setenv("MEETUP_TOKEN", "")
	os.Unsetenv("MEETUP_TOKEN")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("MEETUP_TOKEN=from-dotenv\nSEATGEEK_CLIENT_ID=from-dotenv\n"), 0o644))

	require.NoError(t, LoadDotEnv(path))
	assert.Equal(t, "from-dotenv", os.Getenv("MEETUP_TOKEN"))
	assert.Equal(t, "already-set", os.Getenv("SEATGEEK_CLIENT_ID"), "existing variables win")
}

func TestLoadDotEnvMissingFile(t *testing.T) {
	assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), ".env")))
}

func TestApply(t *testing.T) {
	t.Setenv("GOOGLE_PLACES_API_KEY", "gp-from-env")
	t.Setenv("SEATGEEK_CLIENT_ID", "sg-from-env")
	t.Setenv("MEETUP_TOKEN", "")

	cfg := types.ProvidersConfig{
		Ticketmaster: types.TicketmasterConfig{APIKey: "tm-from-config"},
	}
	files := map[string]string{
		TicketmasterAPIKey: "tm-from-file",
		SeatGeekClientID:   "sg-from-file",
	}
	Apply(&cfg, files)

	assert.Equal(t, "tm-from-config", cfg.Ticketmaster.APIKey, "configured value wins")
	assert.Equal(t, "sg-from-file", cfg.SeatGeek.ClientID, "secret file beats environment")
	assert.Equal(t, "gp-from-env", cfg.GooglePlaces.APIKey)
	assert.Empty(t, cfg.Meetup.Token, "missing everywhere stays inactive")
}
