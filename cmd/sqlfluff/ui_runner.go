package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/alanmcruickshank/sqlfluff/internal/linter"
	"github.com/alanmcruickshank/sqlfluff/internal/ui"
)

type uiMode string

const (
	uiModeAuto uiMode = "auto"
	uiModeOn   uiMode = "on"
	uiModeOff  uiMode = "off"
)

func readUIMode(value string) (uiMode, error) {
	switch strings.TrimSpace(strings.ToLower(value)) {
	case "", "auto":
		return uiModeAuto, nil
	case "on":
		return uiModeOn, nil
	case "off":
		return uiModeOff, nil
	default:
		return "", fmt.Errorf("invalid --ui value %q (expected auto|on|off)", value)
	}
}

func shouldUseTUI(mode uiMode) bool {
	switch mode {
	case uiModeOn:
		return true
	case uiModeOff:
		return false
	default:
		return isTerminal(os.Stdout)
	}
}

type runOutcome struct {
	results []linter.FileResult
	err     error
}

// runWithUI прогоняет линтер в фоне и рисует прогресс, пока канал событий
// не закроется.
func runWithUI(ctx context.Context, title string, files []string, l *linter.Linter) ([]linter.FileResult, error) {
	events := make(chan ui.Event, 256)
	outcomeCh := make(chan runOutcome, 1)

	go func() {
		results, err := l.Run(ctx, files, func(res linter.FileResult) {
			events <- ui.Event{Path: res.Path, Status: statusOf(res), Findings: len(res.Findings)}
		})
		outcomeCh <- runOutcome{results: results, err: err}
		close(events)
	}()

	model := ui.NewProgressModel(title, files, events)
	program := tea.NewProgram(model, tea.WithOutput(os.Stdout))
	_, uiErr := program.Run()
	outcome := <-outcomeCh
	if uiErr != nil {
		return outcome.results, uiErr
	}
	return outcome.results, outcome.err
}

func statusOf(res linter.FileResult) string {
	switch {
	case res.Err != nil:
		return "error"
	case res.Fixed:
		return "fixed"
	case len(res.Findings) == 0:
		return "clean"
	default:
		return "done"
	}
}
