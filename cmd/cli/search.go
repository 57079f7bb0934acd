package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	searchPages  int
	searchOutput string
)

// searchCmd represents the search command
var searchCmd = &cobra.Command{
	Use:   "search <keyword>",
	Short: "Run a deal search and print the aggregated collection",
	Long: `Run a fresh search for the given keyword against the configured search
endpoint, then follow pagination for the requested number of pages. Duplicate
results across pages are dropped; the remaining collection is printed in
arrival order.`,
	Example: `  deal-service search "gaming laptop"
  deal-service search headphones --pages 3 --output json`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	searchCmd.Flags().IntVar(&searchPages, "pages", 1, "Maximum number of pages to fetch")
	searchCmd.Flags().StringVar(&searchOutput, "output", "table", "Output format: table or json")
}

func runSearch(cmd *cobra.Command, args []string) error {
	keyword := args[0]
	ctx := cmd.Context()

	ctrl := newController()
	defer ctrl.Dispose()

	merged, err := ctrl.StartSearch(ctx, keyword)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	logger.Info().Str("keyword", keyword).Int("unique", merged).Msg("Fetched page 1")

	for page := 2; page <= searchPages; page++ {
		status := ctrl.Status()
		if status.Exhausted {
			logger.Info().Int("page", page-1).Msg("Results exhausted")
			break
		}
		merged, err = ctrl.FetchNext(ctx)
		if err != nil {
			return fmt.Errorf("page %d failed: %w", page, err)
		}
		logger.Info().Int("page", page).Int("unique", merged).Msg("Fetched page")
	}

	deals := ctrl.Snapshot()

	if searchOutput == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(deals)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "LOCAL ID\tASIN\tDISCOUNT\tPRICE\tCOUPON\tTITLE")
	for _, d := range deals {
		fmt.Fprintf(w, "%s\t%s\t%d%%\t%.2f\t%s\t%s\n",
			d.LocalID, d.ASIN, d.Discount, d.CurrentPrice, d.ResolveCoupon(), d.Title)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\n%d deals aggregated\n", len(deals))
	return nil
}
