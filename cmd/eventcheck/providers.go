// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/eventcheck/internal/provider"
	"github.com/pdiddy/eventcheck/pkg/types"
)

var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "List listing providers and whether they are active",
	Long: `Providers shows every supported listing provider in registration order
and whether credentials were found for it. Only active providers are queried
by verify; with none active, every candidate ends unverified.`,
	RunE: runProviders,
}

func init() {
	rootCmd.AddCommand(providersCmd)
}

var allOrigins = []types.Origin{
	types.OriginTicketmaster,
	types.OriginSeatGeek,
	types.OriginMeetup,
	types.OriginGooglePlaces,
}

func runProviders(cmd *cobra.Command, args []string) error {
	active := map[types.Origin]bool{}
	for _, name := range provider.Names(activeProviders(appConfig)) {
		active[name] = true
	}

	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "%-14s  %-6s  %s\n", "Provider", "Prefix", "Status")
	n := 0
	for _, o := range allOrigins {
		status := "inactive (no credentials)"
		if active[o] {
			status = "active"
			n++
		}
		fmt.Fprintf(w, "%-14s  %-6s  %s\n", o, o.IDPrefix(), status)
	}
	fmt.Fprintf(w, "\n%d of %d providers active\n", n, len(allOrigins))
	return nil
}
