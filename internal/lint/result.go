// Package lint defines the common result currency: a located diagnostic plus
// zero or more structural edits, produced by rules and consumed by reporting
// and by the fix applier.
package lint

import (
	"github.com/alanmcruickshank/sqlfluff/internal/segment"
	"github.com/alanmcruickshank/sqlfluff/internal/source"
)

// Severity defines the importance of a lint result.
type Severity uint8

const (
	// SevInfo is for informational results.
	SevInfo Severity = iota
	// SevWarning is for ordinary policy violations.
	SevWarning
	// SevError is for rule-internal failures and structural errors.
	SevError
)

func (s Severity) String() string {
	switch s {
	case SevInfo:
		return "INFO"
	case SevWarning:
		return "WARNING"
	case SevError:
		return "ERROR"
	}
	return "UNKNOWN"
}

// EditType enumerates the structural edit kinds.
type EditType uint8

const (
	// CreateBefore inserts Edits immediately before Anchor.
	CreateBefore EditType = iota
	// CreateAfter inserts Edits immediately after Anchor.
	CreateAfter
	// Delete removes Anchor from its parent.
	Delete
	// Replace swaps Anchor for Edits.
	Replace
	// EditRaw rewrites the raw text of the Anchor leaf.
	EditRaw
)

func (e EditType) String() string {
	switch e {
	case CreateBefore:
		return "create_before"
	case CreateAfter:
		return "create_after"
	case Delete:
		return "delete"
	case Replace:
		return "replace"
	case EditRaw:
		return "edit_raw"
	}
	return "unknown"
}

// Fix is one structural edit. Сегменты адресуются по identity, не по
// смещениям: несколько фиксов компонуются до единого пересчёта позиций.
type Fix struct {
	Type    EditType
	Anchor  *segment.Segment
	Edits   []*segment.Segment // для вставки/замены
	NewText string             // для EditRaw
}

// Span returns the source region the fix touches. Insertions are zero-width
// spans at the insertion point; удаления и замены покрывают якорь целиком.
func (f Fix) Span() source.Span {
	pos := f.Anchor.Pos()
	switch f.Type {
	case CreateBefore:
		return source.Span{File: pos.Span.File, Start: pos.Span.Start, End: pos.Span.Start}
	case CreateAfter:
		return source.Span{File: pos.Span.File, Start: pos.Span.End, End: pos.Span.End}
	default:
		return pos.Span
	}
}

// LintResult is a diagnostic with optional proposed fixes. A zero LintResult
// (nil anchor) means "no violation, no action".
type LintResult struct {
	Rule        string // stable rule code, e.g. "CV06"
	Severity    Severity
	Anchor      *segment.Segment
	Fixes       []Fix
	Description string
}

// Empty reports whether the result is "no finding".
func (r LintResult) Empty() bool {
	return r.Anchor == nil
}

// HasFixes reports whether the result proposes an autofix.
func (r LintResult) HasFixes() bool {
	return len(r.Fixes) > 0
}

// Span returns the anchor's working span.
func (r LintResult) Span() source.Span {
	return r.Anchor.Pos().Span
}
