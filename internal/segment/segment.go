// Package segment implements the position-aware syntax tree the linter
// evaluates and rewrites. Segments are identified by tag sets rather than by a
// fixed type hierarchy; rules read the tree through Children/RawSegments/IsType
// and never mutate it — structural edits go through the fix applier only.
package segment

import (
	"strings"
)

// Segment is one node of the parsed tree: a leaf owning a slice of source
// text, or a container whose raw text is the concatenation of its children.
type Segment struct {
	tags     TagSet
	raw      string // только для листьев
	children []*Segment
	parent   *Segment

	pos    PositionMarker
	hasPos bool
}

// NewRaw creates a leaf segment owning the given source text.
func NewRaw(raw string, tags ...Tag) *Segment {
	all := append([]Tag{TagRaw}, tags...)
	return &Segment{tags: NewTagSet(all...), raw: raw}
}

// NewNode creates a container segment over the given children.
// Родительские ссылки проставляются здесь же.
func NewNode(tags []Tag, children ...*Segment) *Segment {
	seg := &Segment{tags: NewTagSet(tags...), children: children}
	for _, child := range children {
		child.parent = seg
	}
	return seg
}

// NewWhitespace creates a run of spaces/tabs.
func NewWhitespace(raw string) *Segment {
	return NewRaw(raw, TagWhitespace)
}

// NewNewline creates a line break segment.
func NewNewline(raw string) *Segment {
	return NewRaw(raw, TagNewline)
}

// NewTerminator creates a statement terminator symbol.
func NewTerminator() *Segment {
	return NewRaw(";", TagStatementTerminator)
}

// Clone returns a detached copy of a leaf segment (same raw text and tags,
// no parent, no position). Используется при переносе сегмента: старый
// экземпляр удаляется по identity, на новом месте появляется копия.
func (s *Segment) Clone() *Segment {
	if len(s.children) != 0 {
		clones := make([]*Segment, len(s.children))
		for i, child := range s.children {
			clones[i] = child.Clone()
		}
		out := &Segment{tags: s.tags, children: clones}
		for _, c := range clones {
			c.parent = out
		}
		return out
	}
	return &Segment{tags: s.tags, raw: s.raw}
}

// Tags returns the full (implied-expanded) tag set.
func (s *Segment) Tags() TagSet {
	return s.tags
}

// IsType reports whether the segment satisfies any of the given tags,
// honouring "is-a" implication. Unknown tags are simply false.
func (s *Segment) IsType(tags ...Tag) bool {
	for _, t := range tags {
		if t != TagInvalid && s.tags.Has(t) {
			return true
		}
	}
	return false
}

// IsCode reports whether the segment carries code (not whitespace/comment).
func (s *Segment) IsCode() bool {
	return s.tags.Has(TagCode)
}

// IsLeaf reports whether the segment owns raw text directly.
func (s *Segment) IsLeaf() bool {
	return len(s.children) == 0 && s.tags.Has(TagRaw)
}

// Children returns the ordered child list. Callers must not modify it.
func (s *Segment) Children() []*Segment {
	return s.children
}

// Parent returns the enclosing segment, or nil for the root.
func (s *Segment) Parent() *Segment {
	return s.parent
}

// Raw reconstructs the exact source slice this segment spans.
func (s *Segment) Raw() string {
	if len(s.children) == 0 {
		return s.raw
	}
	var sb strings.Builder
	for _, child := range s.children {
		sb.WriteString(child.Raw())
	}
	return sb.String()
}

// RawSegments returns the flattened leaf view in source order.
func (s *Segment) RawSegments() []*Segment {
	if len(s.children) == 0 {
		return []*Segment{s}
	}
	out := make([]*Segment, 0, len(s.children))
	for _, child := range s.children {
		out = append(out, child.RawSegments()...)
	}
	return out
}

// Pos returns the position marker. Calling Pos on a segment that is not
// attached to a positioned tree is a programming error and panics.
func (s *Segment) Pos() PositionMarker {
	if !s.hasPos {
		panic("segment: position requested on detached segment")
	}
	return s.pos
}

// HasPos reports whether positions have been computed for this segment.
func (s *Segment) HasPos() bool {
	return s.hasPos
}

// String renders a short debug form.
func (s *Segment) String() string {
	raw := s.Raw()
	if len(raw) > 20 {
		raw = raw[:17] + "..."
	}
	return "<" + s.tags.String() + ": " + quoteRaw(raw) + ">"
}

func quoteRaw(raw string) string {
	r := strings.NewReplacer("\n", `\n`, "\t", `\t`)
	return "'" + r.Replace(raw) + "'"
}
