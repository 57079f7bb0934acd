package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run the configured seed searches sequentially",
	Long: `Run the bootstrap sequence: each configured seed keyword is searched in
order with the configured delay between steps. Failed seeds are skipped.
Prints the final collection size.`,
	Example: `  deal-service seed
  deal-service seed --config ./config/config.yaml`,
	RunE: runSeed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	if cfg == nil || len(cfg.Feed.Seeds) == 0 {
		return fmt.Errorf("no seed keywords configured (feed.seeds)")
	}

	ctrl := newController()
	defer ctrl.Dispose()

	ctrl.Bootstrap(cmd.Context())

	status := ctrl.Status()
	fmt.Printf("Seeded %d keywords, %d deals aggregated\n", status.BootstrapTotal, status.TotalDeals)
	if status.LastError != "" {
		fmt.Printf("Last error: %s\n", status.LastError)
	}
	return nil
}
