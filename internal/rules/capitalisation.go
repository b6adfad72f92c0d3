package rules

import (
	"fmt"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/alanmcruickshank/sqlfluff/internal/lint"
	"github.com/alanmcruickshank/sqlfluff/internal/segment"
)

// CapitalisationKeywords (CP01): keywords follow the configured
// capitalisation policy ("upper" or "lower").
type CapitalisationKeywords struct{}

var (
	upperCaser = cases.Upper(language.English)
	lowerCaser = cases.Lower(language.English)
)

func (*CapitalisationKeywords) Code() string { return "CP01" }

func (*CapitalisationKeywords) Name() string { return "capitalisation.keywords" }

func (*CapitalisationKeywords) CrawlTags() segment.TagSet {
	return segment.NewTagSet(segment.TagKeyword)
}

func (*CapitalisationKeywords) ConfigKeywords() []Keyword {
	return []Keyword{{Name: "capitalisation_policy", Kind: "string"}}
}

func (r *CapitalisationKeywords) Evaluate(ctx Context) []lint.LintResult {
	policy := ctx.Config.GetString("upper", "rules", "CP01", "capitalisation_policy")

	raw := ctx.Segment.Raw()
	var want string
	switch policy {
	case "upper":
		want = upperCaser.String(raw)
	case "lower":
		want = lowerCaser.String(raw)
	default:
		return nil
	}
	if raw == want {
		return nil
	}

	return []lint.LintResult{{
		Rule:     r.Code(),
		Severity: lint.SevWarning,
		Anchor:   ctx.Segment,
		Fixes: []lint.Fix{{
			Type:    lint.EditRaw,
			Anchor:  ctx.Segment,
			NewText: want,
		}},
		Description: fmt.Sprintf("Keywords must be %s case.", policy),
	}}
}
