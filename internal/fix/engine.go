// Package fix applies proposed lint fixes to a segment tree: gathering
// candidates from results, ordering them deterministically, rejecting
// conflicting edits, and patching the tree for re-rendering.
package fix

import (
	"errors"
	"fmt"
	"sort"

	"github.com/alanmcruickshank/sqlfluff/internal/lint"
	"github.com/alanmcruickshank/sqlfluff/internal/segment"
	"github.com/alanmcruickshank/sqlfluff/internal/source"
)

// ErrNoFixes is returned when no fixes were applied.
var ErrNoFixes = errors.New("no applicable fixes found")

// AppliedFix records a successfully applied fix.
type AppliedFix struct {
	Rule        string
	Description string
	EditType    lint.EditType
	Span        source.Span
}

// SkippedFix captures a skipped or failed fix with a reason.
type SkippedFix struct {
	Rule   string
	Reason string
}

// Outcome aggregates applied fixes, skipped ones, and the re-rendered text.
type Outcome struct {
	Applied []AppliedFix
	Skipped []SkippedFix
	Text    string
}

type candidate struct {
	result lint.LintResult
	fix    lint.Fix
	span   source.Span
	order  int
}

// Apply collects fixes from results, orders them, drops conflicting ones and
// patches the tree. Дерево после этого перерендеривается и позиции
// пересчитываются; вызывающий обязан проверить round-trip перед записью.
func Apply(tree *segment.Tree, results []lint.LintResult) (*Outcome, error) {
	out := &Outcome{
		Applied: make([]AppliedFix, 0),
		Skipped: make([]SkippedFix, 0),
	}
	if tree == nil {
		return out, fmt.Errorf("fix: tree is nil")
	}

	candidates := gatherCandidates(results)
	if len(candidates) == 0 {
		out.Text = tree.Render()
		return out, ErrNoFixes
	}
	sortCandidates(candidates)

	selected := rejectConflicts(candidates, out)
	if len(selected) == 0 {
		out.Text = tree.Render()
		return out, ErrNoFixes
	}

	for _, cand := range selected {
		if err := applyOne(tree, cand.fix); err != nil {
			// Структурная ошибка fatal для файла: откат на diagnostics-only
			// решает вызывающий, текст не трогаем.
			return out, err
		}
		out.Applied = append(out.Applied, AppliedFix{
			Rule:        cand.result.Rule,
			Description: cand.result.Description,
			EditType:    cand.fix.Type,
			Span:        cand.span,
		})
	}

	tree.ComputePositions()
	out.Text = tree.Render()
	return out, nil
}

// gatherCandidates разворачивает результаты в плоский список фиксов,
// присваивая каждому монотонный order для стабильной сортировки.
func gatherCandidates(results []lint.LintResult) []candidate {
	cands := make([]candidate, 0)
	order := 0
	for _, res := range results {
		for _, f := range res.Fixes {
			cands = append(cands, candidate{
				result: res,
				fix:    f,
				span:   f.Span(),
				order:  order,
			})
			order++
		}
	}
	return cands
}

// sortCandidates sorts the candidate slice in-place to produce a
// deterministic application order: file, span start, span end, insertion
// order, rule code.
func sortCandidates(candidates []candidate) {
	sort.SliceStable(candidates, func(i, j int) bool {
		si, sj := candidates[i].span, candidates[j].span
		if si.File != sj.File {
			return si.File < sj.File
		}
		if si.Start != sj.Start {
			return si.Start < sj.Start
		}
		if si.End != sj.End {
			return si.End < sj.End
		}
		if candidates[i].order != candidates[j].order {
			return candidates[i].order < candidates[j].order
		}
		return candidates[i].result.Rule < candidates[j].result.Rule
	})
}

// rejectConflicts keeps the first fix touching any region and skips later
// overlapping ones with an explicit reason. Fixes of the same result never
// conflict with each other — they были скомпонованы одним reflow-проходом.
func rejectConflicts(candidates []candidate, out *Outcome) []candidate {
	selected := make([]candidate, 0, len(candidates))
	for _, cand := range candidates {
		conflicting := false
		for _, prev := range selected {
			if sameResult(prev, cand) {
				continue
			}
			if prev.span.Overlaps(cand.span) {
				conflicting = true
				break
			}
		}
		if conflicting {
			out.Skipped = append(out.Skipped, SkippedFix{
				Rule:   cand.result.Rule,
				Reason: fmt.Sprintf("%s edit at %s conflicts with an earlier fix", cand.fix.Type, cand.span),
			})
			continue
		}
		selected = append(selected, cand)
	}
	return selected
}

func sameResult(a, b candidate) bool {
	return a.result.Anchor == b.result.Anchor && a.result.Rule == b.result.Rule
}

// applyOne patches the tree with a single identity-addressed edit.
func applyOne(tree *segment.Tree, f lint.Fix) error {
	switch f.Type {
	case lint.CreateBefore, lint.CreateAfter:
		parent := f.Anchor.Parent()
		if parent == nil {
			return fmt.Errorf("%w: insert anchor has no parent", segment.ErrBadTree)
		}
		at := segment.IndexOfChild(parent, f.Anchor)
		if at < 0 {
			return fmt.Errorf("%w: insert anchor not under its parent", segment.ErrBadTree)
		}
		if f.Type == lint.CreateAfter {
			at++
		}
		return tree.SpliceChildren(parent, at, 0, f.Edits...)
	case lint.Delete:
		return tree.ReplaceSubtree(f.Anchor)
	case lint.Replace:
		return tree.ReplaceSubtree(f.Anchor, f.Edits...)
	case lint.EditRaw:
		return tree.SetRaw(f.Anchor, f.NewText)
	default:
		return fmt.Errorf("fix: unknown edit type %d", f.Type)
	}
}
