// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/eventcheck/internal/candidates"
	"github.com/pdiddy/eventcheck/internal/history"
	"github.com/pdiddy/eventcheck/internal/metrics"
	"github.com/pdiddy/eventcheck/internal/verify"
	"github.com/pdiddy/eventcheck/pkg/types"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify candidate events against listing providers",
	Long: `Verify reads a YAML file of candidate events, fetches real events for the
location from every active provider, and classifies each candidate:

  verified    best match scores at least 0.80
  partial     best match scores at least 0.50, with discrepancies listed
  unverified  no match at or above 0.50, even after a fallback name search

Flags override the location, genre, and date window stored in the file.`,
	RunE: runVerify,
}

func init() {
	verifyCmd.Flags().String("candidates", "", "YAML file of candidate events (required)")
	verifyCmd.Flags().String("location", "", "location to search (overrides the file)")
	verifyCmd.Flags().String("genre", "", "genre or keyword filter (overrides the file)")
	verifyCmd.Flags().String("from", "", "window start, YYYY-MM-DD or RFC 3339 (overrides the file)")
	verifyCmd.Flags().String("to", "", "window end, YYYY-MM-DD or RFC 3339 (overrides the file)")
	verifyCmd.Flags().Bool("json", false, "output results as JSON")
	verifyCmd.Flags().String("out", "", "also write the report as YAML to this file")
	verifyCmd.Flags().Bool("save", false, "save the run to the history database")
	verifyCmd.Flags().String("metrics-file", "", "write Prometheus metrics in textfile format to this path")
	verifyCmd.Flags().Int("min-confidence", -1, "list only trusted events at or above this confidence (default from config)")
	verifyCmd.Flags().Bool("trusted", false, "list only trusted events")
	_ = verifyCmd.MarkFlagRequired("candidates")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("candidates")
	file, err := candidates.Read(path)
	if err != nil {
		return err
	}
	applyStringFlag(cmd, "location", &file.Location)
	applyStringFlag(cmd, "genre", &file.Genre)
	applyStringFlag(cmd, "from", &file.From)
	applyStringFlag(cmd, "to", &file.To)

	if strings.TrimSpace(file.Location) == "" {
		return fmt.Errorf("location is required: set it in %s or pass --location", path)
	}
	from, to, err := file.Window()
	if err != nil {
		return err
	}

	m := metrics.New()
	agg := newAggregator(appConfig, m)
	v := verify.New(agg,
		verify.WithLogger(logger),
		verify.WithMetrics(m),
		verify.WithConcurrency(appConfig.Verify.Concurrency),
		verify.WithTieBreakByID(appConfig.Verify.TieBreakByID),
	)

	ctx := cmd.Context()
	res := v.VerifyEvents(ctx, file.Events, file.Location, file.Genre, from, to)

	minConf := appConfig.Verify.MinConfidence
	trustedOnly, _ := cmd.Flags().GetBool("trusted")
	if f := cmd.Flags().Lookup("min-confidence"); f != nil && f.Changed {
		minConf, _ = cmd.Flags().GetInt("min-confidence")
		trustedOnly = true
	}
	shown := res
	if trustedOnly {
		shown.Events = verify.Trusted(res.Events, minConf)
	}

	asJSON, _ := cmd.Flags().GetBool("json")
	if asJSON {
		if err := verify.FormatJSON(shown, os.Stdout); err != nil {
			return err
		}
	} else {
		verify.FormatTable(shown, os.Stdout)
		if trustedOnly {
			fmt.Printf("%d of %d events trusted at confidence >= %d\n", len(shown.Events), len(res.Events), minConf)
		}
	}

	var runID string
	if save, _ := cmd.Flags().GetBool("save"); save {
		store, err := history.NewStore(appConfig.History)
		if err != nil {
			return err
		}
		defer store.Close()
		runID, err = store.Save(ctx, history.Run{
			Location:  file.Location,
			Genre:     file.Genre,
			From:      from,
			To:        to,
			Providers: agg.Providers(),
			Result:    res,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Saved run %s\n", runID)
	}

	if out, _ := cmd.Flags().GetString("out"); out != "" {
		report := candidates.Report{
			RunID:       runID,
			Location:    file.Location,
			Genre:       file.Genre,
			From:        file.From,
			To:          file.To,
			Providers:   agg.Providers(),
			GeneratedAt: time.Now().UTC(),
			Result:      res,
		}
		if err := candidates.WriteReport(out, report); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Wrote report to %s\n", out)
	}

	if mf, _ := cmd.Flags().GetString("metrics-file"); mf != "" {
		if err := m.WriteTextfile(mf); err != nil {
			return err
		}
	}
	return nil
}

// applyStringFlag overwrites *dst with the flag value when the flag was set.
func applyStringFlag(cmd *cobra.Command, name string, dst *string) {
	if f := cmd.Flags().Lookup(name); f != nil && f.Changed {
		*dst = f.Value.String()
	}
}

// statusCounts renders stats on one line for listings.
func statusCounts(s types.Stats) string {
	return fmt.Sprintf("%d/%d/%d", s.VerifiedCount, s.PartialCount, s.UnverifiedCount)
}
