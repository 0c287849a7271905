//go:build mage

package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/magefile/mage/mg"
	"github.com/magefile/mage/sh"
)

const sampleCandidates = "testdata/candidates.yaml"

// Providers builds the CLI and lists which providers have credentials.
func Providers() error {
	mg.Deps(Build)
	return sh.RunV(filepath.Join(binDir, binName), "providers")
}

// Verify builds the CLI and verifies the sample candidate file, writing a
// YAML report and a metrics textfile under reports/.
// Set EVENTCHECK_CANDIDATES to verify a different file.
func Verify() error {
	mg.Deps(Build, Init)

	in := os.Getenv("EVENTCHECK_CANDIDATES")
	if in == "" {
		in = sampleCandidates
	}
	if _, err := os.Stat(in); err != nil {
		return fmt.Errorf("candidate file: %w", err)
	}
	return sh.RunV(filepath.Join(binDir, binName), "verify",
		"--candidates", in,
		"--out", filepath.Join("reports", "report.yaml"),
		"--metrics-file", filepath.Join("reports", "eventcheck.prom"),
		"--save",
	)
}
