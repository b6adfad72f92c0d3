package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaults(t *testing.T) {
	cfg := Default()

	if got := cfg.SpacingBefore("statement_terminator"); got != "touch" {
		t.Errorf("SpacingBefore(statement_terminator) = %q", got)
	}
	if got := cfg.SpacingBefore("keyword"); got != "single" {
		t.Errorf("SpacingBefore(keyword) = %q, want global default", got)
	}
	if got := cfg.LinePosition("statement_terminator"); got != "" {
		t.Errorf("LinePosition = %q, want unset", got)
	}
	if got := cfg.GetInt(0, "linting", "fix_iterations"); got != 10 {
		t.Errorf("fix_iterations = %d", got)
	}
}

func TestDeriveOverrideDoesNotLeak(t *testing.T) {
	shared := Default()
	derived := shared.DeriveOverride("alone", "layout", "type", "statement_terminator", "line_position")

	if got := derived.LinePosition("statement_terminator"); got != "alone" {
		t.Errorf("derived LinePosition = %q", got)
	}
	// Общий экземпляр не изменился.
	if got := shared.LinePosition("statement_terminator"); got != "" {
		t.Errorf("shared LinePosition mutated: %q", got)
	}
}

func TestTypedErr(t *testing.T) {
	cfg := Default()

	if err := cfg.TypedErr("bool", "rules", "CV06", "multiline_newline"); err != nil {
		t.Errorf("expected bool key to validate: %v", err)
	}
	if err := cfg.TypedErr("bool", "rules", "CV06", "no_such_keyword"); err == nil {
		t.Error("expected error for missing key")
	}
	if err := cfg.TypedErr("bool", "rules", "CP01", "capitalisation_policy"); err == nil {
		t.Error("expected error for wrong type")
	}
}

func TestHashStable(t *testing.T) {
	a := Default()
	b := Default()
	if a.Hash() != b.Hash() {
		t.Error("identical configs must hash equally")
	}
	c := a.DeriveOverride(true, "rules", "CV06", "multiline_newline")
	if a.Hash() == c.Hash() {
		t.Error("override must change the hash")
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ConfigFileName)
	content := `
[rules.CV06]
multiline_newline = true
require_final_semicolon = true

[layout.type.statement_terminator]
spacing_before = "touch"
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if !cfg.GetBool(false, "rules", "CV06", "multiline_newline") {
		t.Error("multiline_newline not loaded")
	}
	if !cfg.GetBool(false, "rules", "CV06", "require_final_semicolon") {
		t.Error("require_final_semicolon not loaded")
	}
	// Значения по умолчанию сохраняются.
	if got := cfg.GetInt(0, "linting", "fix_iterations"); got != 10 {
		t.Errorf("fix_iterations = %d", got)
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}
	content := "[rules.CV06]\nrequire_final_semicolon = true\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Discover(nested)
	if err != nil {
		t.Fatalf("Discover: %v", err)
	}
	if !cfg.GetBool(false, "rules", "CV06", "require_final_semicolon") {
		t.Error("expected config from ancestor directory")
	}
}
