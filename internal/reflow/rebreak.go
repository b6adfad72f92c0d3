package reflow

import (
	"sort"

	"github.com/alanmcruickshank/sqlfluff/internal/lint"
	"github.com/alanmcruickshank/sqlfluff/internal/segment"
)

// Rebreak walks the element boundaries of the desired arrangement and emits
// the minimal fix set reconciling it with the current arrangement: structural
// moves first, then per-boundary spacing and line-position corrections.
// Детерминировано: только порядок слева направо, никаких map-итераций.
func (s *Sequence) Rebreak() *Sequence {
	next := s.clone()

	next.emitStructural()
	next.emitSpacing()
	return next
}

// emitStructural turns removals and insertions into identity-addressed fixes.
func (s *Sequence) emitStructural() {
	for i := range s.elems {
		e := s.elems[i]
		switch {
		case e.removed:
			s.fixes = append(s.fixes, lint.Fix{Type: lint.Delete, Anchor: e.seg})
		case e.inserted:
			if anchor := s.nearestExisting(i, -1); anchor != nil {
				s.fixes = append(s.fixes, lint.Fix{
					Type:   lint.CreateAfter,
					Anchor: anchor,
					Edits:  []*segment.Segment{e.seg},
				})
			} else if anchor := s.nearestExisting(i, +1); anchor != nil {
				s.fixes = append(s.fixes, lint.Fix{
					Type:   lint.CreateBefore,
					Anchor: anchor,
					Edits:  []*segment.Segment{e.seg},
				})
			}
		}
	}
}

// nearestExisting ищет ближайший сосед, который есть в текущем дереве и не
// помечен к удалению — на него можно заякорить вставку.
func (s *Sequence) nearestExisting(from, dir int) *segment.Segment {
	for i := from + dir; i >= 0 && i < len(s.elems); i += dir {
		if !s.elems[i].inserted && !s.elems[i].removed {
			return s.elems[i].seg
		}
	}
	return nil
}

// boundary is the point run between two adjacent code leaves of the desired
// arrangement.
type boundary struct {
	prev  elem   // code leaf A
	next  elem   // code leaf B
	point []elem // whitespace/newline elems between A and B
}

func (s *Sequence) boundaries() []boundary {
	var out []boundary
	var prev *elem
	var point []elem

	for i := range s.elems {
		e := s.elems[i]
		if e.removed {
			continue
		}
		if !e.seg.IsCode() {
			if prev != nil {
				point = append(point, e)
			}
			continue
		}
		if prev != nil {
			out = append(out, boundary{prev: *prev, next: e, point: point})
		}
		prev = &s.elems[i]
		point = nil
	}
	return out
}

func (s *Sequence) emitSpacing() {
	for _, b := range s.boundaries() {
		typeName := primaryTypeName(b.next.seg)
		if s.cfg.LinePosition(typeName) == "alone" {
			s.emitAlone(b)
			continue
		}
		switch s.cfg.SpacingBefore(typeName) {
		case "touch":
			s.emitTouch(b)
		case "single":
			s.emitSingle(b)
		case "any":
			// нет ограничения
		}
	}
}

// emitAlone forces B onto its own line: a line break in the point, no
// trailing whitespace between the break and B.
func (s *Sequence) emitAlone(b boundary) {
	lastNewline := -1
	for i, e := range b.point {
		if e.seg.IsType(segment.TagNewline) {
			lastNewline = i
		}
	}

	if lastNewline < 0 {
		// Переносим B на новую строку.
		if !b.next.inserted {
			s.fixes = append(s.fixes, lint.Fix{
				Type:   lint.CreateBefore,
				Anchor: b.next.seg,
				Edits:  []*segment.Segment{segment.NewNewline("\n")},
			})
		} else if !b.prev.inserted {
			s.fixes = append(s.fixes, lint.Fix{
				Type:   lint.CreateAfter,
				Anchor: b.prev.seg,
				Edits:  []*segment.Segment{segment.NewNewline("\n")},
			})
		}
		s.deletePoint(b.point)
		return
	}

	// Строка уже своя: убираем хвостовые пробелы перед B.
	for _, e := range b.point[lastNewline+1:] {
		if !e.inserted {
			s.fixes = append(s.fixes, lint.Fix{Type: lint.Delete, Anchor: e.seg})
		}
	}
}

// emitTouch enforces immediate same-line adjacency: the point must be empty.
func (s *Sequence) emitTouch(b boundary) {
	s.deletePoint(b.point)
}

// emitSingle enforces exactly one space, leaving existing line breaks alone.
func (s *Sequence) emitSingle(b boundary) {
	for _, e := range b.point {
		if e.seg.IsType(segment.TagNewline) {
			return
		}
	}

	if len(b.point) == 0 {
		if !b.next.inserted {
			s.fixes = append(s.fixes, lint.Fix{
				Type:   lint.CreateBefore,
				Anchor: b.next.seg,
				Edits:  []*segment.Segment{segment.NewWhitespace(" ")},
			})
		} else if !b.prev.inserted {
			s.fixes = append(s.fixes, lint.Fix{
				Type:   lint.CreateAfter,
				Anchor: b.prev.seg,
				Edits:  []*segment.Segment{segment.NewWhitespace(" ")},
			})
		}
		return
	}

	fixedFirst := false
	for _, e := range b.point {
		if e.inserted {
			continue
		}
		if !fixedFirst {
			fixedFirst = true
			if e.seg.Raw() != " " {
				s.fixes = append(s.fixes, lint.Fix{Type: lint.EditRaw, Anchor: e.seg, NewText: " "})
			}
			continue
		}
		s.fixes = append(s.fixes, lint.Fix{Type: lint.Delete, Anchor: e.seg})
	}
}

func (s *Sequence) deletePoint(point []elem) {
	for _, e := range point {
		if !e.inserted {
			s.fixes = append(s.fixes, lint.Fix{Type: lint.Delete, Anchor: e.seg})
		}
	}
}

// primaryTypeName maps a leaf to the layout-config type name it is keyed by.
func primaryTypeName(seg *segment.Segment) string {
	switch {
	case seg.IsType(segment.TagStatementTerminator):
		return "statement_terminator"
	case seg.IsType(segment.TagComment):
		return "comment"
	default:
		return "code"
	}
}

// sortFixes orders fixes by the affected source region, left to right.
// Стабильная сортировка сохраняет порядок появления при равных спанах.
func sortFixes(fixes []lint.Fix) {
	sort.SliceStable(fixes, func(i, j int) bool {
		si, sj := fixes[i].Span(), fixes[j].Span()
		if si.File != sj.File {
			return si.File < sj.File
		}
		if si.Start != sj.Start {
			return si.Start < sj.Start
		}
		return si.End < sj.End
	})
}
