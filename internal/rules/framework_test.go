package rules

import (
	"strings"
	"testing"

	"github.com/alanmcruickshank/sqlfluff/internal/config"
	"github.com/alanmcruickshank/sqlfluff/internal/lint"
	"github.com/alanmcruickshank/sqlfluff/internal/parser"
	"github.com/alanmcruickshank/sqlfluff/internal/segment"
	"github.com/alanmcruickshank/sqlfluff/internal/source"
)

func parseSQL(t *testing.T, sql string) *segment.Tree {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sql", []byte(sql))
	return parser.Parse(fs.Get(id))
}

type badKeywordRule struct{ ConventionTerminator }

func (*badKeywordRule) Code() string { return "XX01" }
func (*badKeywordRule) ConfigKeywords() []Keyword {
	return []Keyword{{Name: "no_such_keyword", Kind: "bool"}}
}

func TestRegisterValidatesKeywords(t *testing.T) {
	reg := NewRegistry()
	err := reg.Register(&badKeywordRule{}, config.Default())
	if err == nil {
		t.Fatal("expected registration error for undeclared keyword")
	}
	if !strings.Contains(err.Error(), "no_such_keyword") {
		t.Errorf("error does not name the keyword: %v", err)
	}
}

func TestRegisterRejectsDuplicateCodes(t *testing.T) {
	cfg := config.Default()
	reg := NewRegistry()
	if err := reg.Register(&ConventionTerminator{}, cfg); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(&ConventionTerminator{}, cfg); err == nil {
		t.Fatal("expected duplicate code error")
	}
}

type panicRule struct{}

func (*panicRule) Code() string                  { return "PR99" }
func (*panicRule) Name() string                  { return "test.panic" }
func (*panicRule) CrawlTags() segment.TagSet     { return segment.NewTagSet(segment.TagStatement) }
func (*panicRule) ConfigKeywords() []Keyword     { return nil }
func (*panicRule) Evaluate(Context) []lint.LintResult {
	panic("boom")
}

func TestRuleFaultIsIsolated(t *testing.T) {
	cfg := config.Default()
	reg := NewRegistry()
	if err := reg.Register(&panicRule{}, cfg); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(&ConventionTerminator{}, cfg); err != nil {
		t.Fatal(err)
	}

	tree := parseSQL(t, "SELECT b FROM bar  ;")
	bag := lint.NewBag(100)
	reg.LintTree(tree, cfg, bag)

	var internalErrors, violations int
	for _, res := range bag.Items() {
		switch {
		case res.Severity == lint.SevError:
			internalErrors++
			if !strings.Contains(res.Description, "PR99") {
				t.Errorf("internal error does not name the rule: %q", res.Description)
			}
		case res.Rule == "CV06":
			violations++
		}
	}
	if internalErrors != 1 {
		t.Errorf("expected 1 internal error, got %d", internalErrors)
	}
	// Сбой одного правила не мешает другим.
	if violations != 1 {
		t.Errorf("expected CV06 to keep running, got %d violations", violations)
	}
}

func TestDefaultRegistry(t *testing.T) {
	reg, err := Default(config.Default())
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if len(reg.Rules()) != 3 {
		t.Errorf("expected 3 built-in rules, got %d", len(reg.Rules()))
	}
}

func TestDisabledRuleSkipped(t *testing.T) {
	cfg := config.New(map[string]any{"rules.WS01.enabled": false})
	reg, err := Default(cfg)
	if err != nil {
		t.Fatal(err)
	}
	tree := parseSQL(t, "SELECT a FROM foo;   \n")
	bag := lint.NewBag(100)
	reg.LintTree(tree, cfg, bag)
	for _, res := range bag.Items() {
		if res.Rule == "WS01" {
			t.Error("disabled rule still produced results")
		}
	}
}

func TestCapitalisationKeywords(t *testing.T) {
	cfg := config.Default() // policy: upper
	reg := NewRegistry()
	if err := reg.Register(&CapitalisationKeywords{}, cfg); err != nil {
		t.Fatal(err)
	}

	tree := parseSQL(t, "select a FROM foo;")
	bag := lint.NewBag(100)
	reg.LintTree(tree, cfg, bag)

	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 result for lowercase select, got %d", len(items))
	}
	fix := items[0].Fixes[0]
	if fix.Type != lint.EditRaw || fix.NewText != "SELECT" {
		t.Errorf("fix = %v %q", fix.Type, fix.NewText)
	}
}

func TestTrailingWhitespaceRule(t *testing.T) {
	cfg := config.Default()
	reg := NewRegistry()
	if err := reg.Register(&TrailingWhitespace{}, cfg); err != nil {
		t.Fatal(err)
	}

	tree := parseSQL(t, "SELECT a FROM foo;  \nSELECT b FROM bar;")
	bag := lint.NewBag(100)
	reg.LintTree(tree, cfg, bag)

	items := bag.Items()
	if len(items) != 1 {
		t.Fatalf("expected 1 trailing whitespace result, got %d", len(items))
	}
	if items[0].Fixes[0].Type != lint.Delete {
		t.Errorf("fix type = %v", items[0].Fixes[0].Type)
	}
}
