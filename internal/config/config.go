// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package config loads eventcheck configuration through viper: defaults,
// then an optional YAML file, then EVENTCHECK_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/pdiddy/eventcheck/pkg/types"
)

// EnvPrefix is prepended to every environment override, e.g.
// EVENTCHECK_PROVIDERS_TIMEOUT.
const EnvPrefix = "EVENTCHECK"

// Name is the config file base name searched for when no file is given.
const Name = "eventcheck"

const maxPageSize = 200

// New returns a viper instance wired for eventcheck: it reads path when set,
// otherwise looks for eventcheck.yaml in the working directory and in
// ~/.config/eventcheck. A missing config file is not an error.
func New(path string) (*viper.Viper, error) {
	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(Name)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", Name))
		}
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}
	return v, nil
}

// SetDefaults registers a default for every key. Registering credentials
// with empty defaults lets AutomaticEnv see them during Unmarshal.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("http.timeout", "10s")
	v.SetDefault("http.user_agent", "eventcheck/0.1")
	v.SetDefault("http.max_retries", 2)

	v.SetDefault("providers.timeout", "15s")
	v.SetDefault("providers.radius", 50)
	v.SetDefault("providers.page_size", 50)
	v.SetDefault("providers.ticketmaster.api_key", "")
	v.SetDefault("providers.seatgeek.client_id", "")
	v.SetDefault("providers.meetup.token", "")
	v.SetDefault("providers.google_places.api_key", "")

	v.SetDefault("verify.concurrency", 4)
	v.SetDefault("verify.min_confidence", 60)
	v.SetDefault("verify.tie_break_by_id", false)

	v.SetDefault("history.path", "eventcheck.db")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Load unmarshals v into a Config and validates it.
func Load(v *viper.Viper) (types.Config, error) {
	SetDefaults(v)

	var cfg types.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return types.Config{}, fmt.Errorf("unmarshaling config: %w", err)
	}
	if err := Validate(cfg); err != nil {
		return types.Config{}, err
	}
	return cfg, nil
}

// Validate checks that all configuration values are usable. Missing
// provider credentials are not errors.
func Validate(c types.Config) error {
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive")
	}
	if c.HTTP.MaxRetries < 0 {
		return fmt.Errorf("http.max_retries must not be negative")
	}

	if c.Providers.Timeout <= 0 {
		return fmt.Errorf("providers.timeout must be positive")
	}
	if c.Providers.Radius < 1 {
		return fmt.Errorf("providers.radius must be at least 1")
	}
	if c.Providers.PageSize < 1 || c.Providers.PageSize > maxPageSize {
		return fmt.Errorf("providers.page_size must be between 1 and %d", maxPageSize)
	}

	if c.Verify.Concurrency < 1 {
		return fmt.Errorf("verify.concurrency must be at least 1")
	}
	if c.Verify.MinConfidence < 0 || c.Verify.MinConfidence > 100 {
		return fmt.Errorf("verify.min_confidence must be between 0 and 100")
	}

	if strings.TrimSpace(c.History.Path) == "" {
		return fmt.Errorf("history.path is required")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.Logging.Level)] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}
	return nil
}
