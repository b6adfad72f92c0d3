// Package crawler провожает правила по дереву сегментов: обход в глубину,
// pre-order, с предикатом по тегам и цепочкой предков для каждого совпадения.
package crawler

import (
	"github.com/alanmcruickshank/sqlfluff/internal/segment"
)

// Match is one crawl hit: the matched segment plus its ancestor chain from the
// root down to (excluding) the segment itself. The slice is only valid for the
// duration of the callback; callers that keep it must copy.
type Match struct {
	Segment     *segment.Segment
	ParentStack []*segment.Segment
}

// Crawler yields segments satisfying a target tag set. One Crawler value is
// reusable: every Crawl call restarts from the given root.
type Crawler struct {
	target segment.TagSet
}

// New builds a crawler matching segments that are one of the target types.
// Импликация "is-a" работает только со стороны сегмента: предикат хранится
// без производных тегов, иначе {statement} совпадал бы с любым кодовым
// листом через общий тег code.
func New(target segment.TagSet) *Crawler {
	return &Crawler{target: target.WithoutImplied()}
}

// Crawl walks the tree depth-first pre-order and invokes visit for every
// matching segment. Контейнер и его потомок могут совпасть независимо — оба
// отдаются наружу, дедупликация не здесь. Traversal never mutates the tree.
// visit returning false stops the crawl early.
func (c *Crawler) Crawl(root *segment.Segment, visit func(Match) bool) {
	stack := make([]*segment.Segment, 0, 8)
	c.crawl(root, stack, visit)
}

func (c *Crawler) crawl(seg *segment.Segment, stack []*segment.Segment, visit func(Match) bool) bool {
	if seg.Tags().Intersects(c.target) {
		if !visit(Match{Segment: seg, ParentStack: stack}) {
			return false
		}
	}
	stack = append(stack, seg)
	for _, child := range seg.Children() {
		if !c.crawl(child, stack, visit) {
			return false
		}
	}
	return true
}

// Collect materializes all matches, copying each ancestor chain.
func (c *Crawler) Collect(root *segment.Segment) []Match {
	var out []Match
	c.Crawl(root, func(m Match) bool {
		path := make([]*segment.Segment, len(m.ParentStack))
		copy(path, m.ParentStack)
		out = append(out, Match{Segment: m.Segment, ParentStack: path})
		return true
	})
	return out
}
