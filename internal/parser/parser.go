// Package parser groups the lexer's leaf stream into the segment tree the
// rules crawl: statement containers, sibling terminators and the end_of_file
// marker under a single file root.
package parser

import (
	"github.com/alanmcruickshank/sqlfluff/internal/dialect"
	"github.com/alanmcruickshank/sqlfluff/internal/lexer"
	"github.com/alanmcruickshank/sqlfluff/internal/segment"
	"github.com/alanmcruickshank/sqlfluff/internal/source"
)

// Parse builds the positioned tree for one file with the ANSI dialect.
func Parse(file *source.File) *segment.Tree {
	return ParseWith(file, nil)
}

// ParseWith builds the positioned tree using an explicit dialect.
func ParseWith(file *source.File, dia *dialect.Dialect) *segment.Tree {
	root := Group(lexer.LexWith(file, dia))
	return segment.NewTree(root, file.ID)
}

// Group собирает листовой поток в дерево: statement — это срез от первого до
// последнего кодового листа, всё между statement'ами (пробелы, переносы,
// комментарии) и сами терминаторы остаются siblings на уровне корня.
func Group(leaves []*segment.Segment) *segment.Segment {
	var children []*segment.Segment
	var pending []*segment.Segment

	flush := func() {
		if len(pending) == 0 {
			return
		}
		stmt, leading, trailing := trimStatement(pending)
		children = append(children, leading...)
		if stmt != nil {
			children = append(children, stmt)
		}
		children = append(children, trailing...)
		pending = nil
	}

	for _, leaf := range leaves {
		switch {
		case leaf.IsType(segment.TagStatementTerminator), leaf.IsType(segment.TagEndOfFile):
			flush()
			children = append(children, leaf)
		default:
			pending = append(pending, leaf)
		}
	}
	flush()

	return segment.NewNode([]segment.Tag{segment.TagFile}, children...)
}

// trimStatement отделяет некодовую кромку: она не входит в statement.
func trimStatement(leaves []*segment.Segment) (stmt *segment.Segment, leading, trailing []*segment.Segment) {
	first, last := -1, -1
	for i, leaf := range leaves {
		if leaf.IsCode() {
			if first < 0 {
				first = i
			}
			last = i
		}
	}
	if first < 0 {
		// Только пробелы/комментарии — statement не образуется.
		return nil, leaves, nil
	}
	return segment.NewNode([]segment.Tag{segment.TagStatement}, leaves[first:last+1]...),
		leaves[:first], leaves[last+1:]
}
