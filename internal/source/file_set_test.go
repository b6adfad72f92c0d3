package source

import (
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("query.sql", []byte("SELECT a FROM foo;"), 0)
	if id1 != 0 {
		t.Errorf("Expected first FileID to be 0, got %d", id1)
	}

	latestID, exists := fs.GetLatest("query.sql")
	if !exists {
		t.Error("Expected file to exist after Add")
	}
	if latestID != id1 {
		t.Errorf("Expected latest ID to be %d, got %d", id1, latestID)
	}

	// Повторное добавление того же пути (после применения фиксов)
	id2 := fs.Add("query.sql", []byte("SELECT b FROM bar;"), 0)
	if id2 != 1 {
		t.Errorf("Expected second FileID to be 1, got %d", id2)
	}

	latestID, exists = fs.GetLatest("query.sql")
	if !exists {
		t.Error("Expected file to exist after second Add")
	}
	if latestID != id2 {
		t.Errorf("Expected latest ID to be %d, got %d", id2, latestID)
	}

	// Старая версия остаётся доступной
	file1 := fs.Get(id1)
	if string(file1.Content) != "SELECT a FROM foo;" {
		t.Errorf("Unexpected first file content: %q", string(file1.Content))
	}
	file2 := fs.Get(id2)
	if string(file2.Content) != "SELECT b FROM bar;" {
		t.Errorf("Unexpected second file content: %q", string(file2.Content))
	}
}

func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	id := fs.AddVirtual("a.sql", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3} // позиции символов \n
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}

	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("q.sql", []byte("SELECT\n    a\nFROM foo;\n"))

	tests := []struct {
		name  string
		span  Span
		start LineCol
		end   LineCol
	}{
		{"start of file", Span{File: id, Start: 0, End: 6}, LineCol{1, 1}, LineCol{1, 7}},
		{"second line", Span{File: id, Start: 11, End: 12}, LineCol{2, 5}, LineCol{2, 6}},
		{"terminator", Span{File: id, Start: 21, End: 22}, LineCol{3, 9}, LineCol{3, 10}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := fs.Resolve(tt.span)
			if start != tt.start {
				t.Errorf("start = %+v, want %+v", start, tt.start)
			}
			if end != tt.end {
				t.Errorf("end = %+v, want %+v", end, tt.end)
			}
		})
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("q.sql", []byte("SELECT\n    a\nFROM foo;"))
	file := fs.Get(id)

	if got := file.GetLine(1); got != "SELECT" {
		t.Errorf("GetLine(1) = %q", got)
	}
	if got := file.GetLine(2); got != "    a" {
		t.Errorf("GetLine(2) = %q", got)
	}
	if got := file.GetLine(3); got != "FROM foo;" {
		t.Errorf("GetLine(3) = %q", got)
	}
	if got := file.GetLine(4); got != "" {
		t.Errorf("GetLine(4) = %q, want empty", got)
	}
}

func TestLoadNormalizesCRLF(t *testing.T) {
	content, changed := normalizeCRLF([]byte("SELECT 1;\r\nSELECT 2;\r\n"))
	if !changed {
		t.Fatal("expected CRLF normalization")
	}
	if string(content) != "SELECT 1;\nSELECT 2;\n" {
		t.Errorf("unexpected content: %q", string(content))
	}
}

func TestSpanOverlaps(t *testing.T) {
	tests := []struct {
		name string
		a, b Span
		want bool
	}{
		{"disjoint", Span{0, 0, 5}, Span{0, 5, 10}, false},
		{"touching is disjoint", Span{0, 0, 5}, Span{0, 4, 10}, true},
		{"nested", Span{0, 0, 10}, Span{0, 3, 4}, true},
		{"different files", Span{0, 0, 10}, Span{1, 0, 10}, false},
		{"insertion inside", Span{0, 3, 3}, Span{0, 0, 10}, true},
		{"insertion at boundary", Span{0, 10, 10}, Span{0, 0, 10}, false},
		{"two insertions same point", Span{0, 3, 3}, Span{0, 3, 3}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.a.Overlaps(tt.b); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v", tt.a, tt.b, got, tt.want)
			}
			if got := tt.b.Overlaps(tt.a); got != tt.want {
				t.Errorf("Overlaps(%v, %v) = %v, want %v (symmetry)", tt.b, tt.a, got, tt.want)
			}
		})
	}
}
