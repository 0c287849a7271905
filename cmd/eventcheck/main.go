// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the eventcheck CLI, which verifies
// candidate events against independent listing providers.
package main

import (
	"log/slog"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/pdiddy/eventcheck/internal/config"
	"github.com/pdiddy/eventcheck/internal/logging"
	"github.com/pdiddy/eventcheck/internal/secrets"
	"github.com/pdiddy/eventcheck/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

const (
	secretsDir = ".secrets/"
	dotEnvFile = ".env"
)

// appConfig is the validated configuration, populated before any
// subcommand runs.
var appConfig types.Config

// logger is the process logger, set up from appConfig.Logging.
var logger = slog.Default()

// rootCmd is the base command for the eventcheck CLI.
var rootCmd = &cobra.Command{
	Use:   "eventcheck",
	Short: "Verify generated events against real event listings",
	Long: `eventcheck cross-checks candidate events (for example, events proposed
by a text generator) against independent listing providers: Ticketmaster,
SeatGeek, Meetup, and Google Places. Each candidate is scored against the
real events found for the location and classified as verified, partial, or
unverified with a confidence percentage.

Providers are activated by credentials, supplied through the config file,
EVENTCHECK_* environment variables, files in .secrets/, or a .env file.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "config file (default: ./eventcheck.yaml or ~/.config/eventcheck/eventcheck.yaml)")
	rootCmd.PersistentFlags().String("log-level", "", "log level: debug, info, warn, error (overrides config)")
}

// loadConfig reads .env, .secrets/, and the viper config, then sets up
// logging. It runs before every subcommand.
func loadConfig(cmd *cobra.Command, args []string) error {
	if err := secrets.LoadDotEnv(dotEnvFile); err != nil {
		return err
	}
	files, err := secrets.Load(secretsDir)
	if err != nil {
		return err
	}

	cfgFile, _ := cmd.Flags().GetString("config")
	v, err := config.New(cfgFile)
	if err != nil {
		return err
	}
	if f := cmd.Flags().Lookup("log-level"); f != nil && f.Changed {
		if err := v.BindPFlag("logging.level", f); err != nil {
			return err
		}
	}

	cfg, err := config.Load(v)
	if err != nil {
		return err
	}
	secrets.Apply(&cfg.Providers, files)
	appConfig = cfg

	logger = logging.Init(cfg.Logging.Level, cfg.Logging.Format)
	if used := v.ConfigFileUsed(); used != "" {
		logger.Debug("using config file", "path", used)
	}
	if len(files) > 0 {
		keys := make([]string, 0, len(files))
		for k := range files {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		logger.Debug("loaded secrets", "keys", keys)
	}
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
