package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/alanmcruickshank/sqlfluff/internal/linter"
	"github.com/alanmcruickshank/sqlfluff/internal/report"
	"github.com/alanmcruickshank/sqlfluff/internal/source"
)

var fixCmd = &cobra.Command{
	Use:   "fix [flags] <file.sql|directory>...",
	Short: "Apply safe automatic fixes to SQL files",
	Long:  "Run the lint rules, apply every non-conflicting fix, re-lint until stable, and write the result back.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runFix,
}

func init() {
	fixCmd.Flags().Bool("all", false, "re-lint and fix until stable (default)")
	fixCmd.Flags().Bool("once", false, "apply a single fix pass")
	fixCmd.Flags().String("id", "", "apply fixes from a single rule code only")
	fixCmd.Flags().Bool("dry-run", false, "show what would change without writing files")
	fixCmd.Flags().String("ui", "auto", "live progress display (auto|on|off)")
}

func runFix(cmd *cobra.Command, args []string) error {
	useColor, err := setupColor(cmd)
	if err != nil {
		return err
	}
	quiet, err := cmd.Root().PersistentFlags().GetBool("quiet")
	if err != nil {
		return err
	}
	dryRun, err := cmd.Flags().GetBool("dry-run")
	if err != nil {
		return err
	}
	applyAll, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	applyOnce, err := cmd.Flags().GetBool("once")
	if err != nil {
		return err
	}
	targetID, err := cmd.Flags().GetString("id")
	if err != nil {
		return err
	}
	if applyAll && applyOnce {
		return fmt.Errorf("--all and --once are mutually exclusive")
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

	opts := linter.Options{
		Fix:   true,
		Once:  applyOnce,
		Write: !dryRun,
	}
	if targetID != "" {
		opts.Rules = []string{targetID}
	}
	l, err := buildLinter(cmd, cfg, opts)
	if err != nil {
		return err
	}

	var results []linter.FileResult
	if shouldUseTUI(uiMode) && !quiet && len(files) > 1 {
		results, err = runWithUI(cmd.Context(), "fixing", files, l)
	} else {
		results, err = l.Run(cmd.Context(), files, nil)
	}
	if err != nil {
		return err
	}

	if err := printApplyReport(results, dryRun); err != nil {
		return err
	}

	// Остаточные нарушения (нефиксируемые) печатаются как при lint.
	printer := report.NewPrinter(os.Stdout, report.Options{Color: useColor})
	var remaining, failed int
	for _, res := range results {
		if err := printer.File(res); err != nil {
			return err
		}
		remaining += len(res.Findings)
		if res.Err != nil {
			failed++
		}
	}
	if !quiet {
		if err := printer.Summary(results); err != nil {
			return err
		}
	}

	if failed > 0 {
		cmd.SilenceUsage = true
		cmd.SilenceErrors = true
		return fmt.Errorf("fix: %d file(s) failed", failed)
	}
	return nil
}

func printApplyReport(results []linter.FileResult, dryRun bool) error {
	var applied int
	for _, res := range results {
		applied += len(res.Applied)
	}
	if applied == 0 {
		_, err := fmt.Fprintln(os.Stdout, "No fixes applied.")
		return err
	}

	if _, err := fmt.Fprintf(os.Stdout, "Applied %d fix(es):\n", applied); err != nil {
		return err
	}
	for _, res := range results {
		for _, item := range res.Applied {
			line := lineOf(res.Set, item.Span)
			if _, err := fmt.Fprintf(os.Stdout, "  [%s] %s:%d — %s (%s)\n",
				item.Rule, res.Path, line, item.Description, item.EditType); err != nil {
				return err
			}
		}
		for _, skip := range res.Skipped {
			if _, err := fmt.Fprintf(os.Stdout, "  [%s] skipped: %s\n", skip.Rule, skip.Reason); err != nil {
				return err
			}
		}
	}

	verb := "Updated"
	if dryRun {
		verb = "Would update"
	}
	if _, err := fmt.Fprintf(os.Stdout, "%s files:\n", verb); err != nil {
		return err
	}
	for _, res := range results {
		if !res.Fixed || res.Err != nil {
			continue
		}
		if _, err := fmt.Fprintf(os.Stdout, "  %s (%d fix(es))\n", res.Path, len(res.Applied)); err != nil {
			return err
		}
	}
	return nil
}

// lineOf резолвит начало спана в номер строки исходной версии файла.
func lineOf(set *source.FileSet, span source.Span) uint32 {
	if set == nil || int(span.File) >= set.Len() {
		return 0
	}
	start, _ := set.Resolve(span)
	return start.Line
}
