package rules

import (
	"github.com/alanmcruickshank/sqlfluff/internal/lint"
	"github.com/alanmcruickshank/sqlfluff/internal/segment"
)

// TrailingWhitespace (WS01): no whitespace at the end of a line or file.
type TrailingWhitespace struct{}

func (*TrailingWhitespace) Code() string { return "WS01" }

func (*TrailingWhitespace) Name() string { return "whitespace.trailing" }

func (*TrailingWhitespace) CrawlTags() segment.TagSet {
	return segment.NewTagSet(segment.TagWhitespace)
}

func (*TrailingWhitespace) ConfigKeywords() []Keyword {
	return nil
}

func (r *TrailingWhitespace) Evaluate(ctx Context) []lint.LintResult {
	next := segment.NextSibling(ctx.Segment)
	// Хвостовой пробел: перед переносом строки или в самом конце файла.
	if next != nil && !next.IsType(segment.TagNewline, segment.TagEndOfFile) {
		return nil
	}

	return []lint.LintResult{{
		Rule:        r.Code(),
		Severity:    lint.SevWarning,
		Anchor:      ctx.Segment,
		Fixes:       []lint.Fix{{Type: lint.Delete, Anchor: ctx.Segment}},
		Description: "Trailing whitespace.",
	}}
}
