// Package reflow computes whitespace, line-break and repositioning edits for
// a focal region of the segment tree. A Sequence is a transient, ordered view
// over the flattened leaf stream; Rebreak reconciles the desired arrangement
// against the current one and emits the minimal fix set.
package reflow

import (
	"github.com/alanmcruickshank/sqlfluff/internal/config"
	"github.com/alanmcruickshank/sqlfluff/internal/lint"
	"github.com/alanmcruickshank/sqlfluff/internal/segment"
)

// Side selects which neighbourhood of the target the sequence covers.
type Side uint8

const (
	SideBoth Side = iota
	SideBefore
	SideAfter
)

// InsertPos places a segment relative to its anchor.
type InsertPos uint8

const (
	PosBefore InsertPos = iota
	PosAfter
)

// elem is one leaf of the desired arrangement. removed-элементы остаются в
// списке (их нужно удалить из дерева), inserted — есть только в desired.
type elem struct {
	seg      *segment.Segment
	inserted bool
	removed  bool
}

// Sequence is a transient ordered view of a contiguous leaf slice plus the
// structural intent (insertions, removals) accumulated by the caller.
// Sequences are value-chained: every operation returns a new Sequence.
type Sequence struct {
	cfg   *config.Config
	elems []elem
	fixes []lint.Fix
}

// FromAroundTarget builds a sequence covering the leaf run around target:
// the whitespace run on each requested side widened up to and including the
// nearest code leaf (a statement or line boundary stabilises the slice).
func FromAroundTarget(target, root *segment.Segment, cfg *config.Config, sides Side) *Sequence {
	leaves := root.RawSegments()
	targetLeaves := target.RawSegments()
	if len(targetLeaves) == 0 {
		return &Sequence{cfg: cfg}
	}

	first := indexOfLeaf(leaves, targetLeaves[0])
	last := indexOfLeaf(leaves, targetLeaves[len(targetLeaves)-1])
	if first < 0 || last < 0 {
		panic("reflow: target is not part of the given root")
	}

	start, end := first, last
	if sides == SideBoth || sides == SideBefore {
		start = widenLeft(leaves, first)
	}
	if sides == SideBoth || sides == SideAfter {
		end = widenRight(leaves, last)
	}

	elems := make([]elem, 0, end-start+1)
	for _, leaf := range leaves[start : end+1] {
		elems = append(elems, elem{seg: leaf})
	}
	return &Sequence{cfg: cfg, elems: elems}
}

func indexOfLeaf(leaves []*segment.Segment, target *segment.Segment) int {
	for i, leaf := range leaves {
		if leaf == target {
			return i
		}
	}
	return -1
}

// widenLeft пропускает whitespace/newline влево и захватывает ближайший
// кодовый лист — он и есть стабильная граница среза.
func widenLeft(leaves []*segment.Segment, from int) int {
	i := from - 1
	for i >= 0 && !leaves[i].IsCode() {
		i--
	}
	if i < 0 {
		return 0
	}
	return i
}

func widenRight(leaves []*segment.Segment, from int) int {
	i := from + 1
	for i < len(leaves) && !leaves[i].IsCode() {
		i++
	}
	if i >= len(leaves) {
		return len(leaves) - 1
	}
	return i
}

// clone returns a value copy so chained operations never mutate the receiver.
func (s *Sequence) clone() *Sequence {
	next := &Sequence{
		cfg:   s.cfg,
		elems: make([]elem, len(s.elems)),
		fixes: make([]lint.Fix, len(s.fixes)),
	}
	copy(next.elems, s.elems)
	copy(next.fixes, s.fixes)
	return next
}

// Without returns a sequence with seg logically removed from the desired
// arrangement. No fix is emitted yet; Rebreak reconciles the removal.
func (s *Sequence) Without(seg *segment.Segment) *Sequence {
	next := s.clone()
	for i := range next.elems {
		if next.elems[i].seg == seg {
			next.elems[i].removed = true
			return next
		}
	}
	panic("reflow: Without target is not part of the sequence")
}

// Insert returns a sequence with seg logically placed relative to anchor.
// The anchor may be a container: вставка идёт после его последнего листа
// (или перед первым). A segment already attached to a tree is cloned, so the
// removal of the old instance and the insertion compose safely.
func (s *Sequence) Insert(seg, anchor *segment.Segment, pos InsertPos) *Sequence {
	next := s.clone()

	anchorLeaf := anchor
	if pos == PosAfter {
		anchorLeaf = segment.LastLeaf(anchor)
	} else if raws := anchor.RawSegments(); len(raws) > 0 {
		anchorLeaf = raws[0]
	}

	at := -1
	for i := range next.elems {
		if next.elems[i].seg == anchorLeaf {
			at = i
			break
		}
	}
	if at < 0 {
		panic("reflow: Insert anchor is not part of the sequence")
	}

	if seg.HasPos() || seg.Parent() != nil {
		seg = seg.Clone()
	}
	ins := elem{seg: seg, inserted: true}

	if pos == PosAfter {
		at++
	}
	next.elems = append(next.elems[:at], append([]elem{ins}, next.elems[at:]...)...)
	return next
}

// GetFixes extracts the accumulated fixes ordered left-to-right by the source
// position of the affected boundary, keeping rendering deterministic.
func (s *Sequence) GetFixes() []lint.Fix {
	out := make([]lint.Fix, len(s.fixes))
	copy(out, s.fixes)
	sortFixes(out)
	return out
}
