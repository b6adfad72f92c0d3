package segment

import (
	"errors"
	"fmt"

	"fortio.org/safecast"

	"github.com/alanmcruickshank/sqlfluff/internal/source"
)

// ErrBadTree reports a violated tree invariant (structural error).
// Применение фиксов для файла при этой ошибке прекращается.
var ErrBadTree = errors.New("segment: tree invariant violated")

// Tree owns the segment tree of one file version. A Tree is exclusively owned
// by the linting pass of that file; rules see it read-only.
type Tree struct {
	root *Segment
	file source.FileID
}

// NewTree wraps a root segment and computes working positions from offset zero.
func NewTree(root *Segment, file source.FileID) *Tree {
	t := &Tree{root: root, file: file}
	t.ComputePositions()
	return t
}

// Root returns the file root segment.
func (t *Tree) Root() *Segment {
	return t.root
}

// FileID returns the source file this tree was parsed from.
func (t *Tree) FileID() source.FileID {
	return t.file
}

// Render reconstructs the full source text from the leaves.
func (t *Tree) Render() string {
	return t.root.Raw()
}

// ComputePositions assigns working positions to every segment from the parent
// chain down. Идём по листьям слева направо, контейнеры получают cover-спан.
func (t *Tree) ComputePositions() {
	loc := source.LineCol{Line: 1, Col: 1}
	var off uint32
	assignPositions(t.root, t.file, &off, &loc)
}

func assignPositions(seg *Segment, file source.FileID, off *uint32, loc *source.LineCol) {
	start := *loc
	startOff := *off

	if len(seg.children) == 0 {
		rawLen, err := safecast.Conv[uint32](len(seg.raw))
		if err != nil {
			panic(fmt.Errorf("segment raw length overflow: %w", err))
		}
		end := locAfter(start, seg.raw)
		span := source.Span{File: file, Start: startOff, End: startOff + rawLen}
		seg.pos = PositionMarker{Span: span, TemplatedSpan: span, Start: start, End: end}
		seg.hasPos = true
		*off += rawLen
		*loc = end
		return
	}

	for _, child := range seg.children {
		assignPositions(child, file, off, loc)
	}
	span := source.Span{File: file, Start: startOff, End: *off}
	seg.pos = PositionMarker{Span: span, TemplatedSpan: span, Start: start, End: *loc}
	seg.hasPos = true
}

// invalidatePositions drops positions for the whole subtree.
func invalidatePositions(seg *Segment) {
	seg.hasPos = false
	for _, child := range seg.children {
		invalidatePositions(child)
	}
}

// SpliceChildren replaces children [at, at+deleteCount) of parent with the
// given segments. Edit surface of the tree: only the fix applier calls this.
// Positions of the whole tree are invalidated; call ComputePositions after
// the last splice of a pass.
func (t *Tree) SpliceChildren(parent *Segment, at, deleteCount int, insert ...*Segment) error {
	if at < 0 || deleteCount < 0 || at+deleteCount > len(parent.children) {
		return fmt.Errorf("%w: splice [%d:%d] out of range (len %d)",
			ErrBadTree, at, at+deleteCount, len(parent.children))
	}
	for _, seg := range insert {
		seg.parent = parent
	}
	next := make([]*Segment, 0, len(parent.children)-deleteCount+len(insert))
	next = append(next, parent.children[:at]...)
	next = append(next, insert...)
	next = append(next, parent.children[at+deleteCount:]...)
	parent.children = next
	invalidatePositions(t.root)
	return nil
}

// ReplaceSubtree swaps one child of parent for a sequence of segments.
func (t *Tree) ReplaceSubtree(old *Segment, with ...*Segment) error {
	parent := old.parent
	if parent == nil {
		return fmt.Errorf("%w: cannot replace the root segment", ErrBadTree)
	}
	idx := indexOfChild(parent, old)
	if idx < 0 {
		return fmt.Errorf("%w: segment not found under its parent", ErrBadTree)
	}
	return t.SpliceChildren(parent, idx, 1, with...)
}

// SetRaw rewrites the raw text of a leaf segment.
func (t *Tree) SetRaw(leaf *Segment, raw string) error {
	if !leaf.IsLeaf() {
		return fmt.Errorf("%w: SetRaw on a container segment", ErrBadTree)
	}
	leaf.raw = raw
	invalidatePositions(t.root)
	return nil
}

// Validate checks the leaf-concatenation invariant against the expected text.
func (t *Tree) Validate(expected string) error {
	got := t.Render()
	if got != expected {
		return fmt.Errorf("%w: rendered text differs from source (%d vs %d bytes)",
			ErrBadTree, len(got), len(expected))
	}
	return nil
}

func indexOfChild(parent *Segment, child *Segment) int {
	for i, c := range parent.children {
		if c == child {
			return i
		}
	}
	return -1
}

// IndexOfChild exposes identity lookup of a child position, -1 if absent.
func IndexOfChild(parent, child *Segment) int {
	return indexOfChild(parent, child)
}

// Path returns the ancestor chain from root down to (excluding) target,
// located by identity. ok=false если target не в этом дереве.
func Path(root, target *Segment) (path []*Segment, ok bool) {
	if root == target {
		return nil, true
	}
	for _, child := range root.children {
		if sub, found := Path(child, target); found {
			return append([]*Segment{root}, sub...), true
		}
	}
	return nil, false
}

// NextSibling returns the segment immediately after s under its parent.
func NextSibling(s *Segment) *Segment {
	parent := s.parent
	if parent == nil {
		return nil
	}
	idx := indexOfChild(parent, s)
	if idx < 0 || idx+1 >= len(parent.children) {
		return nil
	}
	return parent.children[idx+1]
}

// FirstAfter scans siblings of start's child chain under parent for the first
// segment (after start) satisfying pred. Used for "next code" style queries.
func FirstAfter(parent, start *Segment, pred func(*Segment) bool) *Segment {
	idx := indexOfChild(parent, start)
	if idx < 0 {
		return nil
	}
	for _, seg := range parent.children[idx+1:] {
		if pred(seg) {
			return seg
		}
	}
	return nil
}

// LastLeaf returns the last raw descendant of s, or s itself for leaves.
func LastLeaf(s *Segment) *Segment {
	raws := s.RawSegments()
	if len(raws) == 0 {
		return s
	}
	return raws[len(raws)-1]
}

// LastCodeLeaf returns the last code-bearing raw descendant, nil if none.
func LastCodeLeaf(s *Segment) *Segment {
	raws := s.RawSegments()
	for i := len(raws) - 1; i >= 0; i-- {
		if raws[i].IsCode() {
			return raws[i]
		}
	}
	return nil
}
