package main

import (
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/alanmcruickshank/sqlfluff/internal/version"
)

var rootCmd = &cobra.Command{
	Use:   "sqlfluff",
	Short: "SQL linter and auto-fixer",
	Long:  `sqlfluff lints SQL files against configurable rules and applies safe automatic fixes`,
}

// main initializes the CLI by setting the command version, registering subcommands and persistent flags, and then executes the root command.
// If command execution returns an error, the process exits with status code 1.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	// Добавляем команды
	rootCmd.AddCommand(lintCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(versionCmd)

	// Глобальные флаги
	rootCmd.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	rootCmd.PersistentFlags().Bool("quiet", false, "suppress non-essential output")
	rootCmd.PersistentFlags().Int("jobs", 0, "number of files processed in parallel (0 = all CPUs)")
	rootCmd.PersistentFlags().Int("max-results", 1000, "maximum number of lint results to show per file")
	rootCmd.PersistentFlags().String("config", "", "path to a .sqlfluff.toml configuration file")
	rootCmd.PersistentFlags().Bool("no-cache", false, "disable the on-disk lint result cache")
	rootCmd.PersistentFlags().Bool("clear-cache", false, "drop the on-disk lint result cache before running")

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
