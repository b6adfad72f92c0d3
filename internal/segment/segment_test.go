package segment

import (
	"testing"

	"github.com/alanmcruickshank/sqlfluff/internal/source"
)

// buildStatement собирает дерево для "SELECT a FROM foo;"-подобных запросов.
func buildStatement(words ...string) *Segment {
	var parts []*Segment
	for i, w := range words {
		if i > 0 {
			parts = append(parts, NewWhitespace(" "))
		}
		parts = append(parts, NewRaw(w, TagKeyword))
	}
	return NewNode([]Tag{TagStatement}, parts...)
}

func TestTagImplication(t *testing.T) {
	tests := []struct {
		name string
		seg  *Segment
		tag  Tag
		want bool
	}{
		{"terminator is code", NewTerminator(), TagCode, true},
		{"terminator is symbol", NewTerminator(), TagSymbol, true},
		{"terminator is terminator", NewTerminator(), TagStatementTerminator, true},
		{"whitespace is not code", NewWhitespace(" "), TagCode, false},
		{"newline is not code", NewNewline("\n"), TagCode, false},
		{"keyword is word", NewRaw("SELECT", TagKeyword), TagWord, true},
		{"statement is code", buildStatement("SELECT"), TagCode, true},
		{"unknown tag is false", NewTerminator(), TagInvalid, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.seg.IsType(tt.tag); got != tt.want {
				t.Errorf("IsType(%s) = %v, want %v", tt.tag, got, tt.want)
			}
		})
	}
}

func TestTagSetWithoutImplied(t *testing.T) {
	tests := []struct {
		name string
		set  TagSet
		want TagSet
	}{
		{"statement drops code", NewTagSet(TagStatement), 1 << TagStatement},
		{"keyword drops word and code", NewTagSet(TagKeyword), 1 << TagKeyword},
		{"terminator drops symbol and code", NewTagSet(TagStatementTerminator), 1 << TagStatementTerminator},
		{"code alone is stable", NewTagSet(TagCode), 1 << TagCode},
		{"whitespace is stable", NewTagSet(TagWhitespace), 1 << TagWhitespace},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.set.WithoutImplied(); got != tt.want {
				t.Errorf("WithoutImplied() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestParseTag(t *testing.T) {
	if got := ParseTag("statement_terminator"); got != TagStatementTerminator {
		t.Errorf("ParseTag(statement_terminator) = %v", got)
	}
	if got := ParseTag("no_such_tag"); got != TagInvalid {
		t.Errorf("ParseTag(no_such_tag) = %v, want TagInvalid", got)
	}
}

func TestRenderInvariant(t *testing.T) {
	stmt := buildStatement("SELECT", "a", "FROM", "foo")
	root := NewNode([]Tag{TagFile},
		stmt,
		NewTerminator(),
		NewNewline("\n"),
		NewRaw("", TagEndOfFile),
	)
	tree := NewTree(root, 0)

	want := "SELECT a FROM foo;\n"
	if got := tree.Render(); got != want {
		t.Fatalf("Render() = %q, want %q", got, want)
	}
	if err := tree.Validate(want); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestComputePositionsMultiline(t *testing.T) {
	// SELECT\n    a\nFROM foo ;
	stmt := NewNode([]Tag{TagStatement},
		NewRaw("SELECT", TagKeyword),
		NewNewline("\n"),
		NewWhitespace("    "),
		NewRaw("a", TagWord),
		NewNewline("\n"),
		NewRaw("FROM", TagKeyword),
		NewWhitespace(" "),
		NewRaw("foo", TagWord),
	)
	term := NewTerminator()
	root := NewNode([]Tag{TagFile}, stmt, NewWhitespace(" "), term)
	NewTree(root, 3)

	pos := stmt.Pos()
	if pos.Span != (source.Span{File: 3, Start: 0, End: 21}) {
		t.Errorf("statement span = %v", pos.Span)
	}
	if pos.Start != (source.LineCol{Line: 1, Col: 1}) {
		t.Errorf("statement start = %+v", pos.Start)
	}
	// Конец statement — сразу после "foo" на третьей строке.
	if pos.End != (source.LineCol{Line: 3, Col: 9}) {
		t.Errorf("statement end = %+v", pos.End)
	}

	tpos := term.Pos()
	if tpos.Start != (source.LineCol{Line: 3, Col: 10}) {
		t.Errorf("terminator start = %+v", tpos.Start)
	}
	if tpos.Span.Start != 22 || tpos.Span.End != 23 {
		t.Errorf("terminator span = %v", tpos.Span)
	}

	// multiline проверка как в правиле расстановки точек с запятой
	if pos.Start.Line == pos.End.Line {
		t.Error("expected statement to be multiline")
	}
}

func TestDetachedPositionPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for detached segment position")
		}
	}()
	seg := NewRaw("SELECT", TagKeyword)
	_ = seg.Pos()
}

func TestSpliceChildren(t *testing.T) {
	stmt := buildStatement("SELECT", "a")
	root := NewNode([]Tag{TagFile}, stmt)
	tree := NewTree(root, 0)

	// Вставляем терминатор после statement.
	if err := tree.SpliceChildren(root, 1, 0, NewTerminator()); err != nil {
		t.Fatalf("SpliceChildren: %v", err)
	}
	if got := tree.Render(); got != "SELECT a;" {
		t.Fatalf("Render after splice = %q", got)
	}

	// Позиции инвалидированы до пересчёта.
	if stmt.HasPos() {
		t.Error("expected positions to be invalidated after splice")
	}
	tree.ComputePositions()
	if !stmt.HasPos() {
		t.Fatal("expected positions after ComputePositions")
	}
	term := root.Children()[1]
	if term.Pos().Span.Start != 8 {
		t.Errorf("terminator offset = %d, want 8", term.Pos().Span.Start)
	}
}

func TestSpliceOutOfRange(t *testing.T) {
	root := NewNode([]Tag{TagFile}, buildStatement("SELECT"))
	tree := NewTree(root, 0)
	if err := tree.SpliceChildren(root, 2, 1); err == nil {
		t.Fatal("expected error for out-of-range splice")
	}
}

func TestReplaceSubtree(t *testing.T) {
	ws := NewWhitespace("  ")
	root := NewNode([]Tag{TagFile}, buildStatement("SELECT"), ws, NewTerminator())
	tree := NewTree(root, 0)

	if err := tree.ReplaceSubtree(ws, NewWhitespace(" ")); err != nil {
		t.Fatalf("ReplaceSubtree: %v", err)
	}
	if got := tree.Render(); got != "SELECT ;" {
		t.Fatalf("Render = %q", got)
	}
}

func TestSetRaw(t *testing.T) {
	leaf := NewWhitespace("   ")
	root := NewNode([]Tag{TagFile}, leaf)
	tree := NewTree(root, 0)

	if err := tree.SetRaw(leaf, " "); err != nil {
		t.Fatalf("SetRaw: %v", err)
	}
	if got := tree.Render(); got != " " {
		t.Fatalf("Render = %q", got)
	}
	if err := tree.SetRaw(root, "x"); err == nil {
		t.Fatal("expected error for SetRaw on container")
	}
}

func TestPathAndSiblings(t *testing.T) {
	stmt := buildStatement("SELECT", "a")
	term := NewTerminator()
	root := NewNode([]Tag{TagFile}, stmt, term)
	NewTree(root, 0)

	path, ok := Path(root, term)
	if !ok || len(path) != 1 || path[0] != root {
		t.Fatalf("Path = %v, ok=%v", path, ok)
	}

	kw := stmt.Children()[0]
	path, ok = Path(root, kw)
	if !ok || len(path) != 2 || path[1] != stmt {
		t.Fatalf("nested Path = %v, ok=%v", path, ok)
	}

	if NextSibling(stmt) != term {
		t.Error("NextSibling(stmt) != terminator")
	}
	if NextSibling(term) != nil {
		t.Error("NextSibling(last) should be nil")
	}

	next := FirstAfter(root, stmt, func(s *Segment) bool { return s.IsCode() })
	if next != term {
		t.Errorf("FirstAfter = %v", next)
	}
}

func TestRawSegmentsAndLastCode(t *testing.T) {
	stmt := NewNode([]Tag{TagStatement},
		NewRaw("SELECT", TagKeyword),
		NewWhitespace(" "),
		NewRaw("a", TagWord),
		NewNewline("\n"),
	)
	raws := stmt.RawSegments()
	if len(raws) != 4 {
		t.Fatalf("RawSegments len = %d", len(raws))
	}
	last := LastCodeLeaf(stmt)
	if last == nil || last.Raw() != "a" {
		t.Fatalf("LastCodeLeaf = %v", last)
	}
	if LastLeaf(stmt).Raw() != "\n" {
		t.Errorf("LastLeaf = %v", LastLeaf(stmt))
	}
}
