package lexer

import (
	"strings"
	"testing"

	"github.com/alanmcruickshank/sqlfluff/internal/dialect"
	"github.com/alanmcruickshank/sqlfluff/internal/segment"
	"github.com/alanmcruickshank/sqlfluff/internal/source"
)

func lexString(t *testing.T, sql string) []*segment.Segment {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sql", []byte(sql))
	return Lex(fs.Get(id))
}

func TestLexRoundTrip(t *testing.T) {
	inputs := []string{
		"SELECT a FROM foo;",
		"SELECT\n    a,\n    b\nFROM foo\nWHERE a = 1;\n",
		"-- comment\nSELECT 1;",
		"/* block\ncomment */ SELECT 'it''s';",
		"SELECT \"квоты\" FROM t;",
		"",
		"   \t  ",
	}
	for _, sql := range inputs {
		leaves := lexString(t, sql)
		var sb strings.Builder
		for _, leaf := range leaves {
			sb.WriteString(leaf.Raw())
		}
		if sb.String() != sql {
			t.Errorf("round trip failed:\n in: %q\nout: %q", sql, sb.String())
		}
		last := leaves[len(leaves)-1]
		if !last.IsType(segment.TagEndOfFile) {
			t.Errorf("stream for %q does not end with end_of_file", sql)
		}
	}
}

func TestLexTags(t *testing.T) {
	leaves := lexString(t, "SELECT a2 FROM foo WHERE x = 'str' -- c\n;")

	type want struct {
		raw string
		tag segment.Tag
	}
	wants := []want{
		{"SELECT", segment.TagKeyword},
		{" ", segment.TagWhitespace},
		{"a2", segment.TagWord},
		{" ", segment.TagWhitespace},
		{"FROM", segment.TagKeyword},
		{" ", segment.TagWhitespace},
		{"foo", segment.TagWord},
		{" ", segment.TagWhitespace},
		{"WHERE", segment.TagKeyword},
		{" ", segment.TagWhitespace},
		{"x", segment.TagWord},
		{" ", segment.TagWhitespace},
		{"=", segment.TagSymbol},
		{" ", segment.TagWhitespace},
		{"'str'", segment.TagLiteral},
		{" ", segment.TagWhitespace},
		{"-- c", segment.TagComment},
		{"\n", segment.TagNewline},
		{";", segment.TagStatementTerminator},
		{"", segment.TagEndOfFile},
	}

	if len(leaves) != len(wants) {
		t.Fatalf("got %d segments, want %d", len(leaves), len(wants))
	}
	for i, w := range wants {
		if leaves[i].Raw() != w.raw {
			t.Errorf("segment %d raw = %q, want %q", i, leaves[i].Raw(), w.raw)
		}
		if !leaves[i].IsType(w.tag) {
			t.Errorf("segment %d (%q) is not %s", i, w.raw, w.tag)
		}
	}
}

func TestLexKeywordCaseInsensitive(t *testing.T) {
	leaves := lexString(t, "select A from B")
	if !leaves[0].IsType(segment.TagKeyword) {
		t.Error("lowercase select should be a keyword")
	}
	if leaves[2].IsType(segment.TagKeyword) {
		t.Error("identifier A tagged as keyword")
	}
}

func TestLexDialectKeywords(t *testing.T) {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.sql", []byte("SELECT x QUALIFY y"))

	bq, ok := dialect.Lookup("bigquery")
	if !ok {
		t.Fatal("bigquery dialect missing")
	}
	leaves := LexWith(fs.Get(id), bq)
	if !leaves[4].IsType(segment.TagKeyword) {
		t.Errorf("QUALIFY must be a keyword in bigquery, got %v", leaves[4])
	}

	leaves = Lex(fs.Get(id))
	if leaves[4].IsType(segment.TagKeyword) {
		t.Errorf("QUALIFY must not be a keyword in ansi, got %v", leaves[4])
	}
}

func TestLexNumber(t *testing.T) {
	leaves := lexString(t, "SELECT 3.14")
	if !leaves[2].IsType(segment.TagNumber) || leaves[2].Raw() != "3.14" {
		t.Errorf("number segment = %v", leaves[2])
	}
}
