package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"pxf-manager/core/config"
	"pxf-manager/core/history"
	"pxf-manager/core/logger"
	"pxf-manager/core/storage"
	"pxf-manager/feature/merge"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for the merge command
	mergePolicy   string
	mergeChoices  string
	mergeReport   string
	mergeSummary  bool
	mergeBucket   string
	mergeNoRecord bool
)

// mergeCmd performs a three-way glyph merge of .pxf revisions.
var mergeCmd = &cobra.Command{
	Use:   "merge BASE OURS THEIRS OUT [CHOICES]",
	Short: "Three-way merge of .pxf font revisions at glyph granularity",
	Long: `Merge two divergent revisions (OURS, THEIRS) of a .pxf font against
their common ancestor (BASE) and write the result to OUT.

Each glyph is merged as a unit. A glyph changed on one side keeps that
side's version; a glyph changed on both sides is a conflict, decided by
an explicit per-glyph choice or by the default policy (theirs).

Missing or unreadable inputs are treated as empty revisions, never as
errors: an empty side simply contributes no glyphs.

CHOICES is an optional JSON file mapping codepoints to resolution tokens:

  {"33": "ours", "34": "theirs", "35": "drop"}

Recognized tokens are ours, theirs, base, keep, and drop. Anything else
resolves to deletion.

Examples:
  # Plain merge, conflicts default to theirs
  pxf-manager merge base.pxf ours.pxf theirs.pxf merged.pxf

  # Resolve conflicts from a choices file and print the summary
  pxf-manager merge base.pxf ours.pxf theirs.pxf merged.pxf choices.json --summary

  # Keep our side on conflicts, write the JSON report
  pxf-manager merge base.pxf ours.pxf theirs.pxf merged.pxf --policy ours --report report.json

  # Merge revisions stored as objects in the configured bucket
  pxf-manager merge fonts/base.pxf fonts/ours.pxf fonts/theirs.pxf fonts/merged.pxf --bucket fonts`,
	Args: func(cmd *cobra.Command, args []string) error {
		if len(args) < 4 || len(args) > 5 {
			return fmt.Errorf("%w: expected BASE OURS THEIRS OUT [CHOICES], got %d argument(s)", ErrUsage, len(args))
		}
		return nil
	},
	RunE: runMerge,
}

func init() {
	mergeCmd.Flags().StringVar(&mergePolicy, "policy", "", "Default conflict policy (theirs, ours, base); overrides configuration")
	mergeCmd.Flags().StringVar(&mergeChoices, "choices", "", "Choices JSON file (alternative to the positional CHOICES argument)")
	mergeCmd.Flags().StringVar(&mergeReport, "report", "", "Write the JSON change report to this path")
	mergeCmd.Flags().BoolVar(&mergeSummary, "summary", false, "Print the human-readable markdown summary to stdout")
	mergeCmd.Flags().StringVar(&mergeBucket, "bucket", "", "Treat the paths as object names in this storage bucket")
	mergeCmd.Flags().BoolVar(&mergeNoRecord, "no-history", false, "Skip recording this run in the merge history")

	RootCmd.AddCommand(mergeCmd)
}

func runMerge(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.LoadConfig(".")
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer l.Sync()

	policy := cfg.Merge.Policy()
	if mergePolicy != "" {
		if p := merge.Policy(mergePolicy); p.Valid() {
			policy = p
		} else {
			l.Warn("Unknown policy flag value, using configured default",
				zap.String("policy", mergePolicy))
		}
	}

	store := openHistory(cfg, l, mergeNoRecord)
	svc := merge.NewService(l, policy, store)

	choicesPath := mergeChoices
	if len(args) == 5 {
		choicesPath = args[4]
	}

	var report *merge.Report
	if mergeBucket != "" {
		client, err := storage.NewClient(cfg.Storage)
		if err != nil {
			return fmt.Errorf("failed to connect to storage: %w", err)
		}
		report, err = svc.MergeObjects(ctx, client, mergeBucket, args[0], args[1], args[2], args[3], choicesPath)
		if err != nil {
			return err
		}
	} else {
		report, err = svc.MergeFiles(ctx, args[0], args[1], args[2], args[3], choicesPath)
		if err != nil {
			return err
		}
	}

	l.Info("Merge completed",
		zap.String("out", args[3]),
		zap.String("policy", string(policy)),
		zap.Int("glyph_count", report.Summary.GlyphCount),
		zap.Int("added", report.Summary.Added),
		zap.Int("removed", report.Summary.Removed),
		zap.Int("changed_single_side", report.Summary.ChangedSingleSide),
		zap.Int("changed_both_sides", report.Summary.ChangedBothSides),
	)

	if mergeReport != "" {
		if err := writeReportJSON(mergeReport, report); err != nil {
			return err
		}
		l.Info("Wrote change report", zap.String("path", mergeReport))
	}

	if mergeSummary {
		fmt.Print(merge.RenderMarkdown(report))
	}

	return nil
}

// openHistory opens the history store when enabled. Failures degrade to "no
// history" with a warning; history must never block a merge.
func openHistory(cfg *config.Config, l *zap.Logger, disabled bool) *history.Store {
	if disabled || !cfg.History.Enabled {
		return nil
	}
	store, err := history.Open(cfg.History)
	if err != nil {
		l.Warn("Merge history unavailable", zap.Error(err))
		return nil
	}
	return store
}

func writeReportJSON(path string, report *merge.Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	data = append(data, '\n')
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
