// Package report renders lint findings for humans: one location line per
// finding plus an optional source preview with a caret under the span.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"github.com/alanmcruickshank/sqlfluff/internal/lint"
	"github.com/alanmcruickshank/sqlfluff/internal/linter"
)

// PathMode specifies how file paths are displayed.
type PathMode uint8

const (
	// PathModeAuto keeps paths exactly as they were passed in.
	PathModeAuto PathMode = iota
	PathModeBasename
)

// Options configures rendering.
type Options struct {
	Color      bool
	ShowSource bool
	PathMode   PathMode
}

// Printer renders findings to a writer. Не потокобезопасен: печатает
// из одной горутины после завершения прогона.
type Printer struct {
	w    io.Writer
	opts Options

	sevError *color.Color
	sevWarn  *color.Color
	sevInfo  *color.Color
	ruleCode *color.Color
	location *color.Color
}

// NewPrinter builds a printer with the severity palette.
func NewPrinter(w io.Writer, opts Options) *Printer {
	p := &Printer{
		w:        w,
		opts:     opts,
		sevError: color.New(color.FgRed, color.Bold),
		sevWarn:  color.New(color.FgYellow),
		sevInfo:  color.New(color.FgCyan),
		ruleCode: color.New(color.FgBlue, color.Bold),
		location: color.New(color.Bold),
	}
	if !opts.Color {
		for _, c := range []*color.Color{p.sevError, p.sevWarn, p.sevInfo, p.ruleCode, p.location} {
			c.DisableColor()
		}
	}
	return p
}

func (p *Printer) severityColor(sev lint.Severity) *color.Color {
	switch sev {
	case lint.SevError:
		return p.sevError
	case lint.SevWarning:
		return p.sevWarn
	default:
		return p.sevInfo
	}
}

func (p *Printer) displayPath(path string) string {
	if p.opts.PathMode == PathModeBasename {
		if i := strings.LastIndexByte(path, '/'); i >= 0 {
			return path[i+1:]
		}
	}
	return path
}

// File prints every finding of one file result.
// Формат: <path>:<line>:<col>: <SEV> [CODE] <описание>
func (p *Printer) File(res linter.FileResult) error {
	if res.Err != nil {
		_, err := fmt.Fprintf(p.w, "%s: %s %v\n",
			p.location.Sprint(p.displayPath(res.Path)),
			p.sevError.Sprint("ERROR"),
			res.Err)
		return err
	}

	for _, f := range res.Findings {
		start, _ := res.Set.Resolve(f.Span)
		if _, err := fmt.Fprintf(p.w, "%s: %s %s %s\n",
			p.location.Sprintf("%s:%d:%d", p.displayPath(res.Path), start.Line, start.Col),
			p.severityColor(f.Severity).Sprint(f.Severity.String()),
			p.ruleCode.Sprintf("[%s]", f.Rule),
			f.Description,
		); err != nil {
			return err
		}
		if p.opts.ShowSource {
			if err := p.preview(res, f); err != nil {
				return err
			}
		}
	}
	return nil
}

// preview prints the offending line and a caret row underneath. Ширина
// каретки считается в экранных колонках, не в байтах.
func (p *Printer) preview(res linter.FileResult, f linter.Finding) error {
	file := res.Set.Get(f.Span.File)
	start, _ := res.Set.Resolve(f.Span)
	line := file.GetLine(start.Line)
	if line == "" && f.Span.Start > 0 {
		return nil
	}

	prefixBytes := int(start.Col) - 1
	if prefixBytes > len(line) {
		prefixBytes = len(line)
	}
	pad := runewidth.StringWidth(line[:prefixBytes])

	// Каретка покрывает спан в пределах первой строки; вставки — один символ.
	mark := string(res.Set.Slice(f.Span))
	if i := strings.IndexByte(mark, '\n'); i >= 0 {
		mark = mark[:i]
	}
	markWidth := runewidth.StringWidth(mark)
	if markWidth < 1 {
		markWidth = 1
	}

	if _, err := fmt.Fprintf(p.w, "    %s\n", line); err != nil {
		return err
	}
	caret := "^" + strings.Repeat("~", markWidth-1)
	_, err := fmt.Fprintf(p.w, "    %s%s\n",
		strings.Repeat(" ", pad),
		p.severityColor(f.Severity).Sprint(caret))
	return err
}

// Summary prints run totals: files, violations, fixes, failures.
func (p *Printer) Summary(results []linter.FileResult) error {
	var files, violations, fixable, fixed, failed int
	for _, res := range results {
		files++
		if res.Err != nil {
			failed++
			continue
		}
		violations += len(res.Findings)
		for _, f := range res.Findings {
			if f.Fixable {
				fixable++
			}
		}
		if res.Fixed {
			fixed++
		}
	}

	parts := []string{
		fmt.Sprintf("%d file(s)", files),
		fmt.Sprintf("%d violation(s)", violations),
	}
	if fixable > 0 {
		parts = append(parts, fmt.Sprintf("%d fixable", fixable))
	}
	if fixed > 0 {
		parts = append(parts, fmt.Sprintf("%d file(s) fixed", fixed))
	}
	if failed > 0 {
		parts = append(parts, p.sevError.Sprintf("%d failed", failed))
	}
	_, err := fmt.Fprintln(p.w, strings.Join(parts, ", "))
	return err
}
