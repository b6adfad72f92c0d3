// Package config holds the layout and rule configuration as an immutable
// path-keyed store. Derived scoped copies are cheap and never leak back into
// the shared instance, so per-file workers can share one Config read-only.
package config

import (
	"crypto/sha256"
	"fmt"
	"maps"
	"sort"
	"strings"
)

// Config is an immutable key-path → value store. Ключи — пути через точку:
// "layout.type.statement_terminator.line_position".
type Config struct {
	values map[string]any
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{values: defaultValues()}
}

func defaultValues() map[string]any {
	return map[string]any{
		// Диалект SQL для лексера.
		"core.dialect": "ansi",

		// Политики размещения по типам сегментов.
		"layout.type.statement_terminator.spacing_before": "touch",
		"layout.type.statement_terminator.line_position":  "",
		"layout.type.comment.spacing_before":              "single",
		"layout.default.spacing":                          "single",

		// Правила и их ключи.
		"rules.CV06.enabled":                 true,
		"rules.CV06.multiline_newline":       false,
		"rules.CV06.require_final_semicolon": false,
		"rules.CP01.enabled":                 true,
		"rules.CP01.capitalisation_policy":   "upper",
		"rules.WS01.enabled":                 true,

		"linting.fix_iterations": int64(10),
	}
}

// New builds a Config from explicit values on top of the defaults.
// Используется тестами и загрузчиком TOML.
func New(overrides map[string]any) *Config {
	values := defaultValues()
	for k, v := range overrides {
		values[k] = v
	}
	return &Config{values: values}
}

func joinPath(path []string) string {
	return strings.Join(path, ".")
}

// Get returns the raw value at the key path.
func (c *Config) Get(path ...string) (any, bool) {
	v, ok := c.values[joinPath(path)]
	return v, ok
}

// Has reports whether a key path is configured at all.
func (c *Config) Has(path ...string) bool {
	_, ok := c.values[joinPath(path)]
	return ok
}

// GetString returns a string value, or def when the key is absent.
func (c *Config) GetString(def string, path ...string) string {
	if v, ok := c.values[joinPath(path)]; ok {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return def
}

// GetBool returns a bool value, or def when the key is absent.
func (c *Config) GetBool(def bool, path ...string) bool {
	if v, ok := c.values[joinPath(path)]; ok {
		if b, ok := v.(bool); ok {
			return b
		}
	}
	return def
}

// GetInt returns an integer value, or def when the key is absent.
// TOML декодирует числа как int64.
func (c *Config) GetInt(def int, path ...string) int {
	if v, ok := c.values[joinPath(path)]; ok {
		switch n := v.(type) {
		case int64:
			return int(n)
		case int:
			return n
		}
	}
	return def
}

// TypedErr surfaces a missing/wrong-type key as a contract violation.
// Вызывается при регистрации правила, до обработки файлов.
func (c *Config) TypedErr(kind string, path ...string) error {
	key := joinPath(path)
	v, ok := c.values[key]
	if !ok {
		return fmt.Errorf("config: key %q is not defined", key)
	}
	switch kind {
	case "bool":
		if _, ok := v.(bool); !ok {
			return fmt.Errorf("config: key %q is %T, want bool", key, v)
		}
	case "string":
		if _, ok := v.(string); !ok {
			return fmt.Errorf("config: key %q is %T, want string", key, v)
		}
	case "int":
		switch v.(type) {
		case int, int64:
		default:
			return fmt.Errorf("config: key %q is %T, want int", key, v)
		}
	default:
		return fmt.Errorf("config: unknown kind %q for key %q", kind, key)
	}
	return nil
}

// DeriveOverride returns a new Config with one value replaced. The receiver
// is left untouched; the copy is exclusively owned by the caller.
func (c *Config) DeriveOverride(value any, path ...string) *Config {
	values := maps.Clone(c.values)
	values[joinPath(path)] = value
	return &Config{values: values}
}

// Hash returns a stable digest of the configuration, used as part of the
// lint-result cache key.
func (c *Config) Hash() [32]byte {
	keys := make([]string, 0, len(c.values))
	for k := range c.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	for _, k := range keys {
		fmt.Fprintf(&sb, "%s=%v\n", k, c.values[k])
	}
	return sha256.Sum256([]byte(sb.String()))
}

// SpacingBefore returns the spacing policy before segments of the given type
// name: "touch", "single" or "any". Falls back to the global default.
func (c *Config) SpacingBefore(typeName string) string {
	if s := c.GetString("", "layout", "type", typeName, "spacing_before"); s != "" {
		return s
	}
	return c.GetString("single", "layout", "default", "spacing")
}

// LinePosition returns the forced line position for segments of the given
// type name: "alone", "inline" or "" (no constraint).
func (c *Config) LinePosition(typeName string) string {
	return c.GetString("", "layout", "type", typeName, "line_position")
}
