package extraction

import (
	"fmt"
	"regexp"

	"github.com/jonathan/specsense/internal/types"
)

// DefaultLocale is the pattern set shipped with the extractor
const DefaultLocale = "en"

// PatternDef is the declarative, uncompiled form of one recognition pattern
type PatternDef struct {
	Field  types.FieldKey `json:"field" yaml:"field"`
	Locale string         `json:"locale" yaml:"locale"`
	Expr   string         `json:"expr" yaml:"expr"`
	Group  int            `json:"group,omitempty" yaml:"group,omitempty"` // capture group holding the value; 0 is the whole match
}

// Pattern is a compiled recognition pattern
type Pattern struct {
	Locale string
	Expr   *regexp.Regexp
	Group  int
}

// Grammar maps each field to its ordered list of patterns.
// A Grammar is built once and must not be modified after it is handed to an Extractor.
type Grammar map[types.FieldKey][]Pattern

// defaultPatterns is the English recognition grammar. Order within a field matters:
// the first pattern that matches wins.
var defaultPatterns = []PatternDef{
	{Field: types.FieldCableType, Locale: DefaultLocale, Expr: `(?i)\b(c[o0]pp[ \t]?[e3]r|cu|alumin(?:i)?um|al)\b`, Group: 1},

	{Field: types.FieldVoltage, Locale: DefaultLocale, Expr: `(?i)\b(\d+(?:\.\d+)?\s*(?:/\s*\d+(?:\.\d+)?\s*)?k?v(?:[ \t]*(?:ac|dc)(?:[ \t]*/[ \t]*(?:ac|dc))?)?)\b`, Group: 1},

	{Field: types.FieldCurrentRating, Locale: DefaultLocale, Expr: `(?i)\b(\d+(?:\.\d+)?\s*(?:amps?|a))\b`, Group: 1},

	{Field: types.FieldInsulation, Locale: DefaultLocale, Expr: `(?i)\b(xlpe|pvc)[ \t]*insulat`, Group: 1},
	{Field: types.FieldInsulation, Locale: DefaultLocale, Expr: `(?i)insulation[ \t]*[:\-]?[ \t]*(xlpe|pvc)\b`, Group: 1},
	{Field: types.FieldInsulation, Locale: DefaultLocale, Expr: `(?i)\b(xlpe|pvc)\b`, Group: 1},

	{Field: types.FieldConductorCount, Locale: DefaultLocale, Expr: `(?i)\b(\d+)\s*(?:cores?\b|[x×]\s*\d)`, Group: 1},

	{Field: types.FieldConductorSize, Locale: DefaultLocale, Expr: `(?i)\b((?:\d+\s*[x×]\s*)?\d+(?:\.\d+)?\s*m\s*m(?:\s*[2²h?])?)`, Group: 1},

	{Field: types.FieldSheath, Locale: DefaultLocale, Expr: `(?i)\b(pvc|hdpe|ldpe|lead|lsoh|mdpe|epr|pur|tpu|neoprene|rubber|lszh)[ \t]*(?:sheath|jacket)`, Group: 1},
	{Field: types.FieldSheath, Locale: DefaultLocale, Expr: `(?i)(?:sheath|jacket)[ \t]*[:\-]?[ \t]*(pvc|hdpe|ldpe|lead|lsoh|mdpe|epr|pur|tpu|neoprene|rubber|lszh)\b`, Group: 1},
	{Field: types.FieldSheath, Locale: DefaultLocale, Expr: `(?i)\b(pvc|hdpe|ldpe|lead|lsoh|mdpe|epr|pur|tpu|neoprene|rubber|lszh)\b`, Group: 1},

	// The value must start a token, so the exponent of "16mm2 90C" is never read as a digit.
	// Digits split by OCR are joined only as single digits ("4 0 C").
	{Field: types.FieldOperatingTemperature, Locale: DefaultLocale, Expr: `(?i)(?:^|[^\w.])(-?(?:\d(?:[ \t]\d)+|\d+)\s*(?:°|º|\*|deg(?:rees)?)?\s*c)\b`, Group: 1},

	{Field: types.FieldInsulationResistance, Locale: DefaultLocale, Expr: `(?i)\b(\d+(?:\.\d+)?\s*m\s*(?:Ω|ohms?|o|0)\s*[.·]?\s*k\s*m)\b`, Group: 1},

	{Field: types.FieldArmor, Locale: DefaultLocale, Expr: `(?i)\b(gswa|gsta|swa|sta|awa|ata|cwa|bwa)\b`, Group: 1},
	{Field: types.FieldArmor, Locale: DefaultLocale, Expr: `(?i)\b(st[e3][e3][l1][ \t]*(?:w[i1l]r[e3]|t[a@]p[e3])[ \t]*arm[o0]u?[r0x])`, Group: 1},
}

// DefaultPatterns returns a copy of the built-in pattern definitions
func DefaultPatterns() []PatternDef {
	defs := make([]PatternDef, len(defaultPatterns))
	copy(defs, defaultPatterns)
	return defs
}

// Compile builds a Grammar from pattern definitions, preserving their order per field
func Compile(defs []PatternDef) (Grammar, error) {
	grammar := make(Grammar)
	for i, def := range defs {
		if !def.Field.Valid() {
			return nil, &PatternError{
				Index:   i,
				Field:   def.Field,
				Message: "unknown field",
			}
		}
		if def.Locale == "" {
			def.Locale = DefaultLocale
		}

		re, err := regexp.Compile(def.Expr)
		if err != nil {
			return nil, &PatternError{
				Index:   i,
				Field:   def.Field,
				Message: "invalid expression",
				Cause:   err,
			}
		}
		if def.Group < 0 || def.Group > re.NumSubexp() {
			return nil, &PatternError{
				Index:   i,
				Field:   def.Field,
				Message: fmt.Sprintf("group %d out of range (expression has %d)", def.Group, re.NumSubexp()),
			}
		}

		grammar[def.Field] = append(grammar[def.Field], Pattern{
			Locale: def.Locale,
			Expr:   re,
			Group:  def.Group,
		})
	}
	return grammar, nil
}

// DefaultGrammar compiles the built-in grammar. It panics on a bad built-in pattern.
func DefaultGrammar() Grammar {
	grammar, err := Compile(defaultPatterns)
	if err != nil {
		panic(err)
	}
	return grammar
}

// Locales returns the distinct locales present in the grammar
func (g Grammar) Locales() []string {
	seen := make(map[string]bool)
	var out []string
	for _, key := range types.FieldKeys() {
		for _, p := range g[key] {
			if !seen[p.Locale] {
				seen[p.Locale] = true
				out = append(out, p.Locale)
			}
		}
	}
	return out
}
