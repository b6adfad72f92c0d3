// Package dialect defines the supported SQL dialects and their keyword sets.
// Ядро диалект-агностично: лексер получает готовый Dialect и не знает,
// откуда взялся список ключевых слов.
package dialect

import "strings"

// Kind identifies one supported dialect.
type Kind uint8

const (
	KindUnknown Kind = iota
	KindANSI
	KindPostgres
	KindMySQL
	KindBigQuery

	kindCount
)

var kindNames = [kindCount]string{
	KindUnknown:  "unknown",
	KindANSI:     "ansi",
	KindPostgres: "postgres",
	KindMySQL:    "mysql",
	KindBigQuery: "bigquery",
}

func (k Kind) String() string {
	if k >= kindCount {
		return "unknown"
	}
	return kindNames[k]
}

// Dialect bundles everything dialect-specific the scanner needs.
type Dialect struct {
	kind     Kind
	keywords map[string]struct{}
}

// Kind returns the dialect identifier.
func (d *Dialect) Kind() Kind {
	return d.kind
}

// Name returns the configuration name of the dialect.
func (d *Dialect) Name() string {
	return d.kind.String()
}

// IsKeyword reports whether a word is a reserved keyword of the dialect.
// Сравнение регистронезависимое.
func (d *Dialect) IsKeyword(word string) bool {
	_, ok := d.keywords[strings.ToUpper(word)]
	return ok
}

var registry = map[string]*Dialect{}

func register(kind Kind, extra ...string) *Dialect {
	kw := make(map[string]struct{}, len(coreKeywords)+len(extra))
	for _, w := range coreKeywords {
		kw[w] = struct{}{}
	}
	for _, w := range extra {
		kw[w] = struct{}{}
	}
	d := &Dialect{kind: kind, keywords: kw}
	registry[kind.String()] = d
	return d
}

var (
	ansi     = register(KindANSI)
	postgres = register(KindPostgres, postgresKeywords...)
	mysql    = register(KindMySQL, mysqlKeywords...)
	bigquery = register(KindBigQuery, bigqueryKeywords...)
)

// ANSI returns the default dialect.
func ANSI() *Dialect { return ansi }

// Lookup resolves a dialect by its configuration name.
func Lookup(name string) (*Dialect, bool) {
	d, ok := registry[strings.ToLower(strings.TrimSpace(name))]
	return d, ok
}

// Names returns the configuration names of all registered dialects.
func Names() []string {
	return []string{
		KindANSI.String(),
		KindPostgres.String(),
		KindMySQL.String(),
		KindBigQuery.String(),
	}
}
