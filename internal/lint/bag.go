package lint

import (
	"fmt"
	"math"
	"sort"
)

// Bag collects lint results for one file, with an upper bound.
type Bag struct {
	items []LintResult
	max   uint16
}

// NewBag строит пустой Bag с лимитом результатов. Лимит хранится в uint16:
// значения вне диапазона зажимаются, а не усекаются — запрос с перекосом
// вверх означает «практически без лимита», а не нулевую ёмкость.
func NewBag(max int) *Bag {
	if max < 0 {
		max = 0
	}
	if max > math.MaxUint16 {
		max = math.MaxUint16
	}
	return &Bag{
		items: make([]LintResult, 0, min(max, 64)),
		max:   uint16(max),
	}
}

// Add добавляет результат, учитывая лимит. Пустые результаты игнорируются.
// Возвращает false, если результат не добавлен (достигнут лимит).
func (b *Bag) Add(r LintResult) bool {
	if r.Empty() {
		return true
	}
	if len(b.items) >= int(b.max) {
		return false
	}
	b.items = append(b.items, r)
	return true
}

func (b *Bag) Cap() uint16 {
	return b.max
}

func (b *Bag) Len() int {
	return len(b.items)
}

// HasErrors reports whether any result is SevError (rule-internal failures).
func (b *Bag) HasErrors() bool {
	for i := range b.items {
		if b.items[i].Severity >= SevError {
			return true
		}
	}
	return false
}

// HasFixes reports whether any result proposes an autofix.
func (b *Bag) HasFixes() bool {
	for i := range b.items {
		if b.items[i].HasFixes() {
			return true
		}
	}
	return false
}

// Items возвращает read-only slice результатов.
// ВАЖНО: не модифицируйте возвращаемый срез!
func (b *Bag) Items() []LintResult {
	return b.items
}

// Sort сортирует результаты по span якоря, затем по коду правила —
// стабильный и детерминированный порядок вывода.
func (b *Bag) Sort() {
	sort.SliceStable(b.items, func(i, j int) bool {
		si, sj := b.items[i].Span(), b.items[j].Span()
		if si.File != sj.File {
			return si.File < sj.File
		}
		if si.Start != sj.Start {
			return si.Start < sj.Start
		}
		if si.End != sj.End {
			return si.End < sj.End
		}
		return b.items[i].Rule < b.items[j].Rule
	})
}

// Summary renders a one-line count for CLI output.
func (b *Bag) Summary() string {
	fixable := 0
	for i := range b.items {
		if b.items[i].HasFixes() {
			fixable++
		}
	}
	return fmt.Sprintf("%d violations (%d fixable)", len(b.items), fixable)
}
