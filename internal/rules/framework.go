// Package rules binds rule declarations (crawl tags, config keywords) to the
// crawler and collects every rule's results for a file. Evaluation functions
// are pure: they read the tree and config and return results, never mutating
// either.
package rules

import (
	"fmt"

	"github.com/alanmcruickshank/sqlfluff/internal/config"
	"github.com/alanmcruickshank/sqlfluff/internal/crawler"
	"github.com/alanmcruickshank/sqlfluff/internal/lint"
	"github.com/alanmcruickshank/sqlfluff/internal/segment"
)

// Context is the ephemeral per-match evaluation input.
// Живёт один вызов Evaluate и никогда не сохраняется.
type Context struct {
	Segment     *segment.Segment
	ParentStack []*segment.Segment
	Config      *config.Config
}

// Root returns the tree root the crawl started from.
func (c Context) Root() *segment.Segment {
	if len(c.ParentStack) == 0 {
		return c.Segment
	}
	return c.ParentStack[0]
}

// Parent returns the direct parent of the matched segment.
func (c Context) Parent() *segment.Segment {
	if len(c.ParentStack) == 0 {
		return nil
	}
	return c.ParentStack[len(c.ParentStack)-1]
}

// Keyword declares one configuration key a rule consumes, with its expected
// type for fail-fast validation at registration.
type Keyword struct {
	Name string
	Kind string // "bool" | "string" | "int"
}

// Rule is the contract exposed to rule authors.
type Rule interface {
	// Code is the stable rule identifier, e.g. "CV06".
	Code() string
	// Name is the human-readable dotted name, e.g. "convention.terminator".
	Name() string
	// CrawlTags declares which segment types the rule wants to see.
	CrawlTags() segment.TagSet
	// ConfigKeywords declares the config keys bound under rules.<code>.
	ConfigKeywords() []Keyword
	// Evaluate inspects one crawl match and returns zero or more results.
	Evaluate(ctx Context) []lint.LintResult
}

// Registry holds registered rules in registration order.
type Registry struct {
	rules []Rule
	codes map[string]struct{}
}

func NewRegistry() *Registry {
	return &Registry{codes: make(map[string]struct{})}
}

// Register validates the rule's declared keywords against the configuration
// and adds it. Ошибка конфигурации всплывает здесь, до обработки файлов.
func (r *Registry) Register(rule Rule, cfg *config.Config) error {
	if _, dup := r.codes[rule.Code()]; dup {
		return fmt.Errorf("rules: duplicate rule code %q", rule.Code())
	}
	for _, kw := range rule.ConfigKeywords() {
		if err := cfg.TypedErr(kw.Kind, "rules", rule.Code(), kw.Name); err != nil {
			return fmt.Errorf("rules: %s (%s): %w", rule.Code(), rule.Name(), err)
		}
	}
	r.codes[rule.Code()] = struct{}{}
	r.rules = append(r.rules, rule)
	return nil
}

// Rules returns the registered rules in registration order.
func (r *Registry) Rules() []Rule {
	return r.rules
}

// Default builds the registry with every built-in rule.
func Default(cfg *config.Config) (*Registry, error) {
	reg := NewRegistry()
	for _, rule := range []Rule{
		&ConventionTerminator{},
		&CapitalisationKeywords{},
		&TrailingWhitespace{},
	} {
		if err := reg.Register(rule, cfg); err != nil {
			return nil, err
		}
	}
	return reg, nil
}

// LintTree runs every enabled rule over the tree and fills the bag.
// Правила не мутируют дерево: они только описывают правки через Fix.
func (r *Registry) LintTree(tree *segment.Tree, cfg *config.Config, bag *lint.Bag) {
	for _, rule := range r.rules {
		if !cfg.GetBool(true, "rules", rule.Code(), "enabled") {
			continue
		}
		c := crawler.New(rule.CrawlTags())
		c.Crawl(tree.Root(), func(m crawler.Match) bool {
			ctx := Context{Segment: m.Segment, ParentStack: m.ParentStack, Config: cfg}
			for _, res := range evaluateSafe(rule, ctx) {
				if !bag.Add(res) {
					return false
				}
			}
			return true
		})
	}
}

// evaluateSafe isolates a faulting rule at the match boundary: other matches
// and other rules continue.
func evaluateSafe(rule Rule, ctx Context) (results []lint.LintResult) {
	defer func() {
		if rec := recover(); rec != nil {
			results = []lint.LintResult{{
				Rule:        rule.Code(),
				Severity:    lint.SevError,
				Anchor:      ctx.Segment,
				Description: fmt.Sprintf("rule %s internal error: %v", rule.Code(), rec),
			}}
		}
	}()
	return rule.Evaluate(ctx)
}
