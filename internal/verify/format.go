// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package verify

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pdiddy/eventcheck/pkg/types"
)

// FormatTable writes a human-readable table of verification results to w.
func FormatTable(res types.VerificationResult, w io.Writer) {
	if len(res.Events) == 0 {
		fmt.Fprintln(w, "No candidate events.")
		return
	}

	fmt.Fprintf(w, "%-3s  %-40s  %-16s  %-10s  %-4s  %-9s  %s\n",
		"#", "Title", "Start", "Status", "Conf", "Label", "Source")
	fmt.Fprintln(w, strings.Repeat("-", 110))

	for i, e := range res.Events {
		start := ""
		if !e.Start.IsZero() {
			start = e.Start.UTC().Format("2006-01-02 15:04")
		}
		source := ""
		if e.Source != nil {
			source = fmt.Sprintf("%s (%s)", truncate(e.Source.Name, 30), e.Source.Origin)
		}
		fmt.Fprintf(w, "%-3d  %-40s  %-16s  %-10s  %3d%%  %-9s  %s\n",
			i+1, truncate(e.Title, 40), start, e.Status, e.Confidence, ConfidenceDescription(e.Confidence), source)
		for _, d := range e.Discrepancies {
			fmt.Fprintf(w, "     ! %s\n", d)
		}
	}

	s := res.Stats
	fmt.Fprintf(w, "\n%d events: %d verified, %d partial, %d unverified (average confidence %d%%)\n",
		s.TotalEvents, s.VerifiedCount, s.PartialCount, s.UnverifiedCount, s.AverageConfidence)
}

// FormatJSON writes the full result as indented JSON to w.
func FormatJSON(res types.VerificationResult, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(res)
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
