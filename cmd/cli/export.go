package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dealhawk/deal-service/internal/export"
)

var (
	exportPages  int
	exportXLSX   string
	exportCharts string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export <keyword>...",
	Short: "Aggregate searches and export the snapshot",
	Long: `Run searches for one or more keywords, aggregate the deduplicated
collection and export it as an xlsx workbook and/or an HTML chart page.`,
	Example: `  deal-service export "gaming laptop" --xlsx deals.xlsx
  deal-service export headphones monitors --pages 2 --charts deals.html`,
	Args: cobra.MinimumNArgs(1),
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().IntVar(&exportPages, "pages", 1, "Maximum number of pages per keyword")
	exportCmd.Flags().StringVar(&exportXLSX, "xlsx", "", "Write an xlsx workbook to this path")
	exportCmd.Flags().StringVar(&exportCharts, "charts", "", "Write an HTML chart page to this path")
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportXLSX == "" && exportCharts == "" {
		return fmt.Errorf("nothing to do: pass --xlsx and/or --charts")
	}

	ctx := cmd.Context()
	ctrl := newController()
	defer ctrl.Dispose()

	for _, keyword := range args {
		if _, err := ctrl.StartSearch(ctx, keyword); err != nil {
			logger.Warn().Err(err).Str("keyword", keyword).Msg("Search failed, skipping keyword")
			continue
		}
		for page := 2; page <= exportPages; page++ {
			if ctrl.Status().Exhausted {
				break
			}
			if _, err := ctrl.FetchNext(ctx); err != nil {
				logger.Warn().Err(err).Str("keyword", keyword).Int("page", page).Msg("Fetch failed")
				break
			}
		}
	}

	deals := ctrl.Snapshot()
	if len(deals) == 0 {
		return fmt.Errorf("no deals aggregated, nothing to export")
	}

	if exportXLSX != "" {
		if err := export.SaveXLSX(deals, exportXLSX); err != nil {
			return err
		}
		fmt.Printf("Wrote %d deals to %s\n", len(deals), exportXLSX)
	}

	if exportCharts != "" {
		f, err := os.Create(exportCharts)
		if err != nil {
			return fmt.Errorf("failed to create chart file: %w", err)
		}
		defer f.Close()

		if err := export.RenderCharts(deals, f); err != nil {
			return err
		}
		fmt.Printf("Wrote charts for %d deals to %s\n", len(deals), exportCharts)
	}

	return nil
}
