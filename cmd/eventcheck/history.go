// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/eventcheck/internal/history"
	"github.com/pdiddy/eventcheck/internal/verify"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect saved verification runs",
	Long: `History reads runs saved with verify --save from the SQLite database
configured by history.path.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved runs, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	limit, _ := cmd.Flags().GetInt("limit")

	store, err := history.NewStore(appConfig.History)
	if err != nil {
		return err
	}
	defer store.Close()

	runs, err := store.List(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No saved runs.")
		return nil
	}

	fmt.Printf("%-36s  %-16s  %-20s  %-6s  %-8s  %s\n", "Run", "Created", "Location", "Events", "V/P/U", "Avg")
	fmt.Println(strings.Repeat("-", 104))
	for _, r := range runs {
		fmt.Printf("%-36s  %-16s  %-20s  %-6d  %-8s  %d%%\n",
			r.ID, r.CreatedAt.Local().Format("2006-01-02 15:04"), truncate(r.Location, 20),
			r.Stats.TotalEvents, statusCounts(r.Stats), r.Stats.AverageConfidence)
	}
	return nil
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show <run-id>",
	Short: "Show the results of a saved run",
	Long:  `Show prints a saved run. The run ID may be abbreviated to any unique prefix.`,
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := history.NewStore(appConfig.History)
	if err != nil {
		return err
	}
	defer store.Close()

	run, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return verify.FormatJSON(run.Result, os.Stdout)
	}

	fmt.Printf("Run:       %s\n", run.ID)
	fmt.Printf("Created:   %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Printf("Location:  %s\n", run.Location)
	if run.Genre != "" {
		fmt.Printf("Genre:     %s\n", run.Genre)
	}
	if len(run.Providers) > 0 {
		names := make([]string, len(run.Providers))
		for i, p := range run.Providers {
			names[i] = string(p)
		}
		fmt.Printf("Providers: %s\n", strings.Join(names, ", "))
	}
	fmt.Println()
	verify.FormatTable(run.Result, os.Stdout)
	return nil
}

func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}

func init() {
	historyListCmd.Flags().Int("limit", 20, "maximum number of runs to list")
	historyShowCmd.Flags().Bool("json", false, "output results as JSON")

	historyCmd.AddCommand(historyListCmd, historyShowCmd)
	rootCmd.AddCommand(historyCmd)
}
