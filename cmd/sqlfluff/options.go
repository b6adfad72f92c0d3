package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/alanmcruickshank/sqlfluff/internal/config"
	"github.com/alanmcruickshank/sqlfluff/internal/linter"
)

type colorMode string

const (
	colorModeAuto colorMode = "auto"
	colorModeOn   colorMode = "on"
	colorModeOff  colorMode = "off"
)

func readColorMode(value string) (colorMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return colorModeAuto, nil
	case "on":
		return colorModeOn, nil
	case "off":
		return colorModeOff, nil
	default:
		return "", fmt.Errorf("invalid --color value %q (expected auto|on|off)", value)
	}
}

func shouldColor(mode colorMode) bool {
	switch mode {
	case colorModeOn:
		return true
	case colorModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

// setupColor читает --color и синхронизирует глобальное состояние пакета color.
func setupColor(cmd *cobra.Command) (bool, error) {
	value, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, err
	}
	mode, err := readColorMode(value)
	if err != nil {
		return false, err
	}
	useColor := shouldColor(mode)
	color.NoColor = !useColor
	return useColor, nil
}

// loadConfigFor resolves configuration: the explicit --config path wins,
// otherwise the nearest .sqlfluff.toml upwards from the first target.
func loadConfigFor(cmd *cobra.Command, targets []string) (*config.Config, error) {
	explicit, err := cmd.Root().PersistentFlags().GetString("config")
	if err != nil {
		return nil, err
	}
	if explicit != "" {
		return config.LoadFile(explicit)
	}

	startDir := "."
	if len(targets) > 0 {
		info, err := os.Stat(targets[0])
		if err == nil && !info.IsDir() {
			startDir = filepath.Dir(targets[0])
		} else if err == nil {
			startDir = targets[0]
		}
	}
	return config.Discover(startDir)
}

// buildLinter собирает Linter из глобальных флагов поверх базовых опций.
func buildLinter(cmd *cobra.Command, cfg *config.Config, base linter.Options) (*linter.Linter, error) {
	jobs, err := cmd.Root().PersistentFlags().GetInt("jobs")
	if err != nil {
		return nil, err
	}
	maxResults, err := cmd.Root().PersistentFlags().GetInt("max-results")
	if err != nil {
		return nil, err
	}
	noCache, err := cmd.Root().PersistentFlags().GetBool("no-cache")
	if err != nil {
		return nil, err
	}
	clearCache, err := cmd.Root().PersistentFlags().GetBool("clear-cache")
	if err != nil {
		return nil, err
	}
	if clearCache {
		if cache, cerr := linter.OpenDiskCache("sqlfluff"); cerr == nil {
			if derr := cache.DropAll(); derr != nil {
				return nil, fmt.Errorf("clear cache: %w", derr)
			}
		}
	}

	base.Config = cfg
	base.Jobs = jobs
	base.MaxResults = maxResults
	if !noCache && !base.Fix {
		// Недоступный кэш не мешает прогону.
		base.Cache, _ = linter.OpenDiskCache("sqlfluff")
	}
	return linter.New(base)
}

func statDir(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
