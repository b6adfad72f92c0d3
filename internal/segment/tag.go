package segment

import "strings"

// Tag identifies one hierarchical segment type.
// Сегмент несёт набор тегов; "is-a" — это проверка принадлежности к набору.
type Tag uint8

const (
	TagInvalid Tag = iota
	// TagRaw marks leaf segments that own a slice of source text.
	TagRaw
	// TagFile is the root container of a parsed file.
	TagFile
	// TagStatement is a single SQL statement container.
	TagStatement
	// TagStatementTerminator is the ';' symbol closing a statement.
	TagStatementTerminator
	// TagCode marks code-bearing segments (not whitespace, not comments).
	TagCode
	TagWhitespace
	TagNewline
	TagComment
	TagKeyword
	TagWord
	TagLiteral
	TagNumber
	TagSymbol
	// TagEndOfFile is the zero-width meta segment closing the file.
	TagEndOfFile

	tagCount
)

var tagNames = [tagCount]string{
	TagInvalid:             "invalid",
	TagRaw:                 "raw",
	TagFile:                "file",
	TagStatement:           "statement",
	TagStatementTerminator: "statement_terminator",
	TagCode:                "code",
	TagWhitespace:          "whitespace",
	TagNewline:             "newline",
	TagComment:             "comment",
	TagKeyword:             "keyword",
	TagWord:                "word",
	TagLiteral:             "literal",
	TagNumber:              "number",
	TagSymbol:              "symbol",
	TagEndOfFile:           "end_of_file",
}

func (t Tag) String() string {
	if t >= tagCount {
		return "invalid"
	}
	return tagNames[t]
}

// ParseTag resolves a tag by its configuration name.
// Unknown names yield TagInvalid; IsType on TagInvalid is always false.
func ParseTag(name string) Tag {
	for i, n := range tagNames {
		if i != 0 && n == name {
			return Tag(i)
		}
	}
	return TagInvalid
}

// TagSet is a capability bitset over Tag values.
type TagSet uint32

// NewTagSet builds a set from explicit tags, expanding implied ones
// (statement_terminator is-a symbol is-a code, and so on).
func NewTagSet(tags ...Tag) TagSet {
	var s TagSet
	for _, t := range tags {
		s |= 1 << t
	}
	return s.withImplied()
}

// implied "is-a" relations; применяются транзитивно в withImplied.
var impliedTags = map[Tag]TagSet{
	TagStatement:           1 << TagCode,
	TagStatementTerminator: 1<<TagSymbol | 1<<TagCode,
	TagKeyword:             1<<TagWord | 1<<TagCode,
	TagWord:                1 << TagCode,
	TagLiteral:             1 << TagCode,
	TagNumber:              1 << TagCode,
	TagSymbol:              1 << TagCode,
}

func (s TagSet) withImplied() TagSet {
	for {
		next := s
		for t := Tag(1); t < tagCount; t++ {
			if s.Has(t) {
				next |= impliedTags[t]
			}
		}
		if next == s {
			return s
		}
		s = next
	}
}

// WithoutImplied strips tags that are implied by other members, recovering
// the explicit tags the set was built from. Предикаты обхода строятся так:
// {statement} не должен разворачиваться до {statement, code}, иначе под
// предикат попадёт каждый кодовый лист.
func (s TagSet) WithoutImplied() TagSet {
	var implied TagSet
	for t := Tag(1); t < tagCount; t++ {
		if s.Has(t) {
			implied |= TagSet(1<<t).withImplied() &^ (1 << t)
		}
	}
	return s &^ implied
}

// Has reports raw set membership without implication.
func (s TagSet) Has(t Tag) bool {
	return s&(1<<t) != 0
}

// Intersects reports whether the two sets share any tag.
func (s TagSet) Intersects(other TagSet) bool {
	return s&other != 0
}

func (s TagSet) Empty() bool {
	return s == 0
}

func (s TagSet) String() string {
	var names []string
	for t := Tag(1); t < tagCount; t++ {
		if s.Has(t) {
			names = append(names, t.String())
		}
	}
	return strings.Join(names, ",")
}
