package cmd

import (
	"errors"
	"fmt"
	"os"

	"pxf-manager/core/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// ErrUsage marks invocation errors (wrong argument count). They exit with a
// distinct code so pipeline scripts can tell a bad call from a failed merge.
var ErrUsage = errors.New("usage")

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "pxf-manager",
	Short: "PixelForge Font Tooling",
	Long: `pxf-manager maintains PixelForge .pxf bitmap-font sources.
It merges divergent revisions at glyph granularity, inspects font files,
keeps a local merge history, and can serve the merge as an HTTP API.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	if err := RootCmd.Execute(); err != nil {
		// Use the application's standard logger for error reporting.
		// Console format with "debug" level gives ISO8601 timestamps
		// (DevConfig) instead of Epoch (ProdConfig) for CLI use.
		cfg := &logger.Config{
			Level:  "debug",
			Format: "console",
		}

		l, logErr := logger.New(cfg)
		if logErr == nil {
			l.Error("command failed", zap.Error(err))
			_ = l.Sync()
		} else {
			// Absolute fallback if logger creation fails (rare)
			fmt.Println(err)
		}

		if errors.Is(err, ErrUsage) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
