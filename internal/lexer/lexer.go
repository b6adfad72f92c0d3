// Package lexer turns SQL source text into the flat raw-segment stream the
// parser groups into statements. Это внешний коллаборатор ядра: сегменты
// выходят отсюда уже со стабильными тегами для предикатов обхода.
package lexer

import (
	"github.com/alanmcruickshank/sqlfluff/internal/dialect"
	"github.com/alanmcruickshank/sqlfluff/internal/segment"
	"github.com/alanmcruickshank/sqlfluff/internal/source"
)

// Lexer scans one source file into raw segments.
type Lexer struct {
	input []byte
	pos   int
	dia   *dialect.Dialect
}

// New creates a lexer over normalized file content.
func New(file *source.File, dia *dialect.Dialect) *Lexer {
	if dia == nil {
		dia = dialect.ANSI()
	}
	return &Lexer{input: file.Content, dia: dia}
}

// Lex scans the whole input with the ANSI dialect and returns the leaf
// stream, terminated by a zero-width end_of_file segment. Конкатенация
// raw-текста листьев равна входу байт-в-байт — инвариант дерева держится
// с самого начала.
func Lex(file *source.File) []*segment.Segment {
	return New(file, nil).All()
}

// LexWith scans the whole input with an explicit dialect.
func LexWith(file *source.File, dia *dialect.Dialect) []*segment.Segment {
	return New(file, dia).All()
}

// All scans every remaining segment including the end_of_file marker.
func (lx *Lexer) All() []*segment.Segment {
	var out []*segment.Segment
	for {
		seg := lx.Next()
		out = append(out, seg)
		if seg.IsType(segment.TagEndOfFile) {
			return out
		}
	}
}

// Next scans one raw segment.
func (lx *Lexer) Next() *segment.Segment {
	if lx.pos >= len(lx.input) {
		return segment.NewRaw("", segment.TagEndOfFile)
	}

	ch := lx.input[lx.pos]
	switch {
	case ch == '\n':
		lx.pos++
		return segment.NewNewline("\n")
	case ch == ' ' || ch == '\t' || ch == '\r':
		return lx.scanWhile(isBlank, segment.TagWhitespace)
	case ch == '-' && lx.peek(1) == '-':
		return lx.scanLineComment()
	case ch == '/' && lx.peek(1) == '*':
		return lx.scanBlockComment()
	case ch == '\'' || ch == '"':
		return lx.scanQuoted(ch)
	case isDigit(ch):
		return lx.scanWhile(isNumeric, segment.TagNumber)
	case isLetter(ch):
		return lx.scanWord()
	case ch == ';':
		lx.pos++
		return segment.NewRaw(";", segment.TagStatementTerminator)
	default:
		lx.pos++
		return segment.NewRaw(string(ch), segment.TagSymbol)
	}
}

func (lx *Lexer) peek(n int) byte {
	if lx.pos+n >= len(lx.input) {
		return 0
	}
	return lx.input[lx.pos+n]
}

func (lx *Lexer) scanWhile(pred func(byte) bool, tag segment.Tag) *segment.Segment {
	start := lx.pos
	for lx.pos < len(lx.input) && pred(lx.input[lx.pos]) {
		lx.pos++
	}
	return segment.NewRaw(string(lx.input[start:lx.pos]), tag)
}

// scanLineComment захватывает "--" до конца строки, не включая \n.
func (lx *Lexer) scanLineComment() *segment.Segment {
	start := lx.pos
	for lx.pos < len(lx.input) && lx.input[lx.pos] != '\n' {
		lx.pos++
	}
	return segment.NewRaw(string(lx.input[start:lx.pos]), segment.TagComment)
}

func (lx *Lexer) scanBlockComment() *segment.Segment {
	start := lx.pos
	lx.pos += 2
	for lx.pos < len(lx.input) {
		if lx.input[lx.pos] == '*' && lx.peek(1) == '/' {
			lx.pos += 2
			break
		}
		lx.pos++
	}
	// Незакрытый комментарий дотягивается до конца файла: текст сохраняем.
	return segment.NewRaw(string(lx.input[start:lx.pos]), segment.TagComment)
}

// scanQuoted scans a string literal or quoted identifier. Удвоенная кавычка
// внутри — экранирование.
func (lx *Lexer) scanQuoted(quote byte) *segment.Segment {
	start := lx.pos
	lx.pos++
	for lx.pos < len(lx.input) {
		if lx.input[lx.pos] == quote {
			if lx.peek(1) == quote {
				lx.pos += 2
				continue
			}
			lx.pos++
			break
		}
		lx.pos++
	}
	tag := segment.TagLiteral
	if quote == '"' {
		tag = segment.TagWord // quoted identifier
	}
	return segment.NewRaw(string(lx.input[start:lx.pos]), tag)
}

func (lx *Lexer) scanWord() *segment.Segment {
	start := lx.pos
	for lx.pos < len(lx.input) && isWordPart(lx.input[lx.pos]) {
		lx.pos++
	}
	raw := string(lx.input[start:lx.pos])
	if lx.dia.IsKeyword(raw) {
		return segment.NewRaw(raw, segment.TagKeyword)
	}
	return segment.NewRaw(raw, segment.TagWord)
}

func isBlank(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\r'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isNumeric(ch byte) bool {
	return isDigit(ch) || ch == '.'
}

func isLetter(ch byte) bool {
	return (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z') || ch == '_'
}

func isWordPart(ch byte) bool {
	return isLetter(ch) || isDigit(ch)
}
