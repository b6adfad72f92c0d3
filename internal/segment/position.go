package segment

import (
	"github.com/alanmcruickshank/sqlfluff/internal/source"
)

// PositionMarker carries the working source coordinates of a segment.
// Working координаты считаются по тексту после всех предыдущих переписываний;
// templated-спан сохраняет исходное (до раскрытия) положение для отчётов.
type PositionMarker struct {
	// Span is the working byte span of the segment's raw text.
	Span source.Span
	// TemplatedSpan is the pre-expansion span. Equals Span when the file
	// went through no source-level rewriting.
	TemplatedSpan source.Span
	// Start is the working line/column of the first byte.
	Start source.LineCol
	// End is the working line/column immediately after the raw text.
	// Нужен для проверки "на той же строке сразу после".
	End source.LineCol
}

// WorkingLine returns the working line number of the segment start.
func (m PositionMarker) WorkingLine() uint32 {
	return m.Start.Line
}

// WorkingLocAfter returns the line/column immediately after the raw text.
func (m PositionMarker) WorkingLocAfter() source.LineCol {
	return m.End
}

// locAfter advances a position over raw text, tracking newlines.
func locAfter(start source.LineCol, raw string) source.LineCol {
	line, col := start.Line, start.Col
	for i := 0; i < len(raw); i++ {
		if raw[i] == '\n' {
			line++
			col = 1
		} else {
			col++
		}
	}
	return source.LineCol{Line: line, Col: col}
}
