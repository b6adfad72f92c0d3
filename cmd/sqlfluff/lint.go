package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alanmcruickshank/sqlfluff/internal/linter"
	"github.com/alanmcruickshank/sqlfluff/internal/report"
)

var lintCmd = &cobra.Command{
	Use:   "lint [flags] <file.sql|directory>...",
	Short: "Lint SQL files against the configured rules",
	Long:  "Parse each SQL file, evaluate every enabled rule, and report violations with their positions.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runLint,
}

func init() {
	lintCmd.Flags().Bool("show-source", false, "print the offending line with a caret under the span")
	lintCmd.Flags().String("ui", "auto", "live progress display (auto|on|off)")
}

func runLint(cmd *cobra.Command, args []string) error {
	useColor, err := setupColor(cmd)
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	showSource, err := cmd.Flags().GetBool("show-source")
	if err != nil {
		return err
	}
	uiValue, err := cmd.Flags().GetString("ui")
	if err != nil {
		return err
	}
	uiMode, err := readUIMode(uiValue)
	if err != nil {
		return err
	}

	cfg, err := loadConfigFor(cmd, args)
	if err != nil {
		return err
	}
	files, err := linter.ExpandPaths(args, statDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return nil
	}

	l, err := buildLinter(cmd, cfg, linter.Options{})
	if err != nil {
		return err
	}

	var results []linter.FileResult
	if shouldUseTUI(uiMode) && !quiet && len(files) > 1 {
		results, err = runWithUI(cmd.Context(), "linting", files, l)
	} else {
		results, err = l.Run(cmd.Context(), files, nil)
	}
	if err != nil {
		return err
	}

	printer := report.NewPrinter(os.Stdout, report.Options{
		Color:      useColor,
		ShowSource: showSource,
	})
	var violations, failed int
	for _, res := range results {
		if err := printer.File(res); err != nil {
			return err
		}
		violations += len(res.Findings)
		if res.Err != nil {
			failed++
		}
	}
	if !quiet {
		if err := printer.Summary(results); err != nil {
			return err
		}
	}

	if violations > 0 || failed > 0 {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("lint: %d violation(s), %d file(s) failed", violations, failed)
	}
	return nil
}
