// Package extraction locates candidate cable specification values inside noisy recognized text.
package extraction

import (
	"regexp"
	"strings"
)

// domainWords are repaired to their canonical spelling before any field search
var domainWords = []string{
	"Cable",
	"Voltage",
	"Current",
	"Copper",
	"Power",
	"Steel",
	"Wire",
	"Armor",
	"Rating",
	"Insulation",
	"Conductor",
	"Sheath",
	"Operating",
	"Temperature",
	"Resistance",
}

// confusables maps a letter to the characters recognition noise swaps it with
var confusables = map[rune]string{
	'o': "o0",
	'l': "l1",
	'i': "i1",
	'e': "e3",
	's': "s5",
}

type wordFix struct {
	pattern   *regexp.Regexp
	canonical string
}

// digitFix rewrites a letter that sits next to digits back into a digit
type digitFix struct {
	pattern     *regexp.Regexp
	replacement string
}

var (
	wordFixes = buildWordFixes(domainWords)

	digitFixes = []digitFix{
		{regexp.MustCompile(`(\d)[Oo](\d)`), "${1}0${2}"},
		{regexp.MustCompile(`(\d)[Ss](\d)`), "${1}5${2}"},
		{regexp.MustCompile(`(\d)O([ \t]*[kK]?[vV]\b)`), "${1}0${2}"},
		{regexp.MustCompile(`(\d)S([ \t]*[kK]?[vV]\b)`), "${1}5${2}"},
		{regexp.MustCompile(`(\d)O([ \t]*/[ \t]*\d)`), "${1}0${2}"},
		{regexp.MustCompile(`(\d)S([ \t]*/[ \t]*\d)`), "${1}5${2}"},
		{regexp.MustCompile(`\bO(\d)`), "0${1}"},
		{regexp.MustCompile(`\bS(\d)`), "5${1}"},
	}

	splitAmperage = regexp.MustCompile(`\b(\d)[ \t]+(\d)[ \t]*A\b`)
)

// buildWordFixes compiles one tolerant pattern per domain word.
// Each letter accepts its confusable characters and may be followed by stray spaces.
func buildWordFixes(words []string) []wordFix {
	fixes := make([]wordFix, 0, len(words))
	for _, word := range words {
		var sb strings.Builder
		sb.WriteString(`(?i)\b`)
		for i, r := range strings.ToLower(word) {
			if i > 0 {
				sb.WriteString(`[ \t]*`)
			}
			if class, ok := confusables[r]; ok {
				sb.WriteString("[" + class + "]")
			} else {
				sb.WriteString(regexp.QuoteMeta(string(r)))
			}
		}
		fixes = append(fixes, wordFix{
			pattern:   regexp.MustCompile(sb.String()),
			canonical: word,
		})
	}
	return fixes
}

// Preprocess canonicalizes systematic recognition noise in raw text.
// It repairs known domain words, resolves O/S misreads next to digits,
// and joins amperages split by a stray space ("3 2 A" → "32A").
func Preprocess(text string) string {
	if strings.TrimSpace(text) == "" {
		return ""
	}

	for _, fix := range wordFixes {
		text = fix.pattern.ReplaceAllString(text, fix.canonical)
	}

	// Adjacent misreads ("1O2O3") overlap and need more than one pass
	for range 3 {
		before := text
		for _, fix := range digitFixes {
			text = fix.pattern.ReplaceAllString(text, fix.replacement)
		}
		if text == before {
			break
		}
	}

	return splitAmperage.ReplaceAllString(text, "${1}${2}A")
}
