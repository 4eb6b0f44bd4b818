package extraction

import (
	"regexp"
	"strings"

	"github.com/jonathan/specsense/internal/types"
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// Extractor applies a Grammar to recognized text.
// It holds only read-only state and is safe for concurrent use.
type Extractor struct {
	grammar    Grammar
	locales    map[string]bool
	preprocess bool
}

// Option configures an Extractor
type Option func(*Extractor)

// WithLocales restricts matching to patterns of the given locales.
// Patterns are still tried in grammar order.
func WithLocales(locales ...string) Option {
	return func(e *Extractor) {
		if len(locales) == 0 {
			return
		}
		e.locales = make(map[string]bool, len(locales))
		for _, l := range locales {
			e.locales[l] = true
		}
	}
}

// WithoutPreprocessing skips noise canonicalization. Used when the caller
// has already cleaned the text.
func WithoutPreprocessing() Option {
	return func(e *Extractor) {
		e.preprocess = false
	}
}

// New creates an Extractor over grammar. A nil grammar uses DefaultGrammar.
func New(grammar Grammar, opts ...Option) *Extractor {
	if grammar == nil {
		grammar = DefaultGrammar()
	}
	e := &Extractor{
		grammar:    grammar,
		locales:    map[string]bool{DefaultLocale: true},
		preprocess: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract returns a record with every field either set to its first match or absent.
// Missing data is never an error.
func (e *Extractor) Extract(rawText string) types.SpecRecord {
	rec := types.NewSpecRecord()

	text := rawText
	if e.preprocess {
		text = Preprocess(rawText)
	}
	if strings.TrimSpace(text) == "" {
		return rec
	}

	for _, key := range types.FieldKeys() {
		if value, ok := e.match(key, text); ok {
			rec.Set(key, value)
		}
	}
	return rec
}

// match tries the field's patterns in order and returns the first non-empty capture
func (e *Extractor) match(key types.FieldKey, text string) (string, bool) {
	for _, p := range e.grammar[key] {
		if !e.locales[p.Locale] {
			continue
		}
		m := p.Expr.FindStringSubmatch(text)
		if m == nil || p.Group >= len(m) {
			continue
		}
		value := strings.TrimSpace(whitespaceRun.ReplaceAllString(m[p.Group], " "))
		if value != "" {
			return value, true
		}
	}
	return "", false
}
