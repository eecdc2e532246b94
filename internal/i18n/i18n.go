// Package i18n serves the flat key-to-string locale tables consumed by the
// rendering layer. Lookup is a plain map access with a fallback that returns
// the key itself; interpolation of {field} placeholders stays with the caller.
package i18n

import (
	"embed"
	"encoding/json"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"sort"
	"strings"
)

//go:embed locales/*.json
var localeFS embed.FS

// DefaultLocale is used when a request carries no locale preference.
const DefaultLocale = "ru"

// Translator holds all bundled locale tables.
type Translator struct {
	tables map[string]map[string]string
	log    *slog.Logger
}

// New loads every bundled locale table. The logger is used to warn about
// missing translation keys at lookup time.
func New(log *slog.Logger) (*Translator, error) {
	entries, err := fs.ReadDir(localeFS, "locales")
	if err != nil {
		return nil, fmt.Errorf("i18n: read locales: %w", err)
	}
	tables := make(map[string]map[string]string, len(entries))
	for _, e := range entries {
		locale := strings.TrimSuffix(e.Name(), path.Ext(e.Name()))
		data, err := localeFS.ReadFile(path.Join("locales", e.Name()))
		if err != nil {
			return nil, fmt.Errorf("i18n: read %s: %w", e.Name(), err)
		}
		var table map[string]string
		if err := json.Unmarshal(data, &table); err != nil {
			return nil, fmt.Errorf("i18n: decode %s: %w", e.Name(), err)
		}
		tables[locale] = table
	}
	return &Translator{tables: tables, log: log}, nil
}

// Locales returns the supported locale codes, sorted.
func (t *Translator) Locales() []string {
	out := make([]string, 0, len(t.tables))
	for locale := range t.tables {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Supported reports whether a table exists for the locale.
func (t *Translator) Supported(locale string) bool {
	_, ok := t.tables[locale]
	return ok
}

// Table returns the whole table for a locale, for clients that render strings
// themselves.
func (t *Translator) Table(locale string) (map[string]string, bool) {
	table, ok := t.tables[locale]
	return table, ok
}

// T returns the translation for key in the given locale. A missing key is
// logged and returned verbatim so the UI shows something traceable instead of
// a blank.
func (t *Translator) T(locale, key string) string {
	table, ok := t.tables[locale]
	if !ok {
		table, ok = t.tables[DefaultLocale]
		if !ok {
			return key
		}
	}
	translation, ok := table[key]
	if !ok {
		t.log.Warn("translation key not found", "locale", locale, "key", key)
		return key
	}
	return translation
}
