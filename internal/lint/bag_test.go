package lint

import (
	"math"
	"testing"

	"github.com/alanmcruickshank/sqlfluff/internal/segment"
)

func sampleResult(rule string) LintResult {
	return LintResult{
		Rule:        rule,
		Severity:    SevWarning,
		Anchor:      segment.NewTerminator(),
		Description: "sample",
	}
}

func TestBagLimit(t *testing.T) {
	b := NewBag(2)
	if !b.Add(sampleResult("CV06")) || !b.Add(sampleResult("CV06")) {
		t.Fatal("adds under the limit must succeed")
	}
	if b.Add(sampleResult("CV06")) {
		t.Error("add over the limit must be rejected")
	}
	if b.Len() != 2 {
		t.Errorf("Len() = %d, want 2", b.Len())
	}
}

func TestBagLimitClamped(t *testing.T) {
	// Запрошенный лимит шире uint16: зажимается к максимуму, а не
	// усекается к нулю.
	b := NewBag(math.MaxUint16 + 1)
	if b.Cap() != math.MaxUint16 {
		t.Fatalf("Cap() = %d, want %d", b.Cap(), math.MaxUint16)
	}
	if !b.Add(sampleResult("CV06")) {
		t.Error("clamped bag must accept results")
	}
	if b.Len() != 1 {
		t.Errorf("Len() = %d, want 1", b.Len())
	}

	if got := NewBag(-5).Cap(); got != 0 {
		t.Errorf("negative limit Cap() = %d, want 0", got)
	}
}

func TestBagIgnoresEmptyResults(t *testing.T) {
	b := NewBag(1)
	if !b.Add(LintResult{}) {
		t.Error("empty result must be accepted as a no-op")
	}
	if b.Len() != 0 {
		t.Errorf("Len() = %d, want 0", b.Len())
	}
}
