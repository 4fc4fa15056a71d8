package cmd

import (
	"context"
	"fmt"

	"pxf-manager/core/config"
	"pxf-manager/core/history"

	"github.com/spf13/cobra"
)

var historyLimit int

// historyCmd lists recent merge runs from the local history database.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent merge runs",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&historyLimit, "limit", 20, "Maximum number of runs to list")
	RootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("merge history is disabled in configuration")
	}

	store, err := history.Open(cfg.History)
	if err != nil {
		return err
	}

	runs, err := store.Recent(context.Background(), historyLimit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("no merge runs recorded")
		return nil
	}

	for _, run := range runs {
		fmt.Printf("%s  %-8s policy=%-6s glyphs=%d +%d -%d ~%d !%d  %s -> %s\n",
			run.CreatedAt.Format("2006-01-02 15:04:05"),
			run.Source,
			run.Policy,
			run.GlyphCount,
			run.Added,
			run.Removed,
			run.ChangedSingleSide,
			run.ChangedBothSides,
			run.Base,
			run.Out,
		)
	}
	return nil
}
