package rules

import (
	"github.com/alanmcruickshank/sqlfluff/internal/lint"
	"github.com/alanmcruickshank/sqlfluff/internal/reflow"
	"github.com/alanmcruickshank/sqlfluff/internal/segment"
)

// ConventionTerminator (CV06): statements must end with a semi-colon, placed
// according to the configured layout.
//
// С multiline_newline терминатор многострочного statement обязан стоять на
// своей строке сразу после последнего кода; иначе — вплотную на той же строке.
type ConventionTerminator struct{}

func (*ConventionTerminator) Code() string { return "CV06" }

func (*ConventionTerminator) Name() string { return "convention.terminator" }

func (*ConventionTerminator) CrawlTags() segment.TagSet {
	return segment.NewTagSet(segment.TagStatement)
}

func (*ConventionTerminator) ConfigKeywords() []Keyword {
	return []Keyword{
		{Name: "multiline_newline", Kind: "bool"},
		{Name: "require_final_semicolon", Kind: "bool"},
	}
}

func (r *ConventionTerminator) Evaluate(ctx Context) []lint.LintResult {
	cfg := ctx.Config
	multilineNewline := cfg.GetBool(false, "rules", "CV06", "multiline_newline")
	requireFinal := cfg.GetBool(false, "rules", "CV06", "require_final_semicolon")

	stmt := ctx.Segment
	root := ctx.Root()
	parent := ctx.Parent()
	if parent == nil {
		return nil
	}

	pos := stmt.Pos()
	isMultiline := pos.Start.Line != pos.WorkingLocAfter().Line

	// Многострочный statement со включённой политикой получает scoped-копию
	// конфига: терминатору назначается позиция "alone" только на эту оценку.
	forceOwnLine := multilineNewline && isMultiline
	if forceOwnLine {
		cfg = cfg.DeriveOverride("alone",
			"layout", "type", "statement_terminator", "line_position")
	}

	nextCode := segment.FirstAfter(parent, stmt, func(s *segment.Segment) bool {
		return s.IsCode()
	})

	switch {
	case nextCode != nil && nextCode.IsType(segment.TagStatementTerminator):
		seq := reflow.FromAroundTarget(nextCode, root, cfg, reflow.SideBoth)

		if forceOwnLine {
			lastCode := segment.LastCodeLeaf(stmt)
			if lastCode == nil {
				return nil
			}
			// Терминатор должен стоять на следующей строке после последнего
			// кода. Если нет — переносим его за ближайший перенос строки.
			if nextCode.Pos().WorkingLine() != lastCode.Pos().WorkingLine()+1 {
				nextNl := segment.FirstAfter(parent, stmt, func(s *segment.Segment) bool {
					return s.IsType(segment.TagNewline)
				})
				if nextNl != nil {
					seq = seq.Without(nextCode).Insert(nextCode, nextNl, reflow.PosAfter)
				}
			}
		}

		// Reflow терминатора: интервалы и позиция строки.
		fixes := seq.Rebreak().GetFixes()
		if len(fixes) == 0 {
			return nil
		}
		description := "Semi-colon follow statement immediately on the same line."
		if forceOwnLine {
			description = "Semi-colon should be on its own line immediately after multiline statement."
		}
		return []lint.LintResult{{
			Rule:        r.Code(),
			Severity:    lint.SevWarning,
			Anchor:      nextCode,
			Fixes:       fixes,
			Description: description,
		}}

	case requireFinal:
		// Терминатора нет, а он обязателен: синтезируем и вставляем сразу
		// после последнего листа statement.
		fixes := reflow.FromAroundTarget(segment.LastLeaf(stmt), root, ctx.Config, reflow.SideAfter).
			Insert(segment.NewTerminator(), stmt, reflow.PosAfter).
			Rebreak().
			GetFixes()
		return []lint.LintResult{{
			Rule:        r.Code(),
			Severity:    lint.SevWarning,
			Anchor:      stmt,
			Fixes:       fixes,
			Description: "Statement is missing a required semi-colon.",
		}}
	}
	return nil
}
