// Package tagging derives keyword groups, frequent terms and a product category from datasheet text.
package tagging

import (
	"regexp"
	"sort"
	"strings"

	"github.com/jonathan/specsense/internal/extraction"
)

// KeywordGroup is a named family of technical keywords
type KeywordGroup struct {
	Name    string
	Pattern *regexp.Regexp
}

// DefaultGroups are the keyword families reported for every document
var DefaultGroups = []KeywordGroup{
	{Name: "Voltage", Pattern: regexp.MustCompile(`(?i)\b\d+(?:[.,/]\d+)*\s*k?V\b`)},
	{Name: "Current", Pattern: regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*A\b`)},
	{Name: "Cross Section", Pattern: regexp.MustCompile(`(?i)\b\d+(?:\.\d+)?\s*mm(?:2|²)`)},
	{Name: "Cores", Pattern: regexp.MustCompile(`(?i)\b\d{1,2}C\b|\b\d+\s*Cores?\b`)},
	{Name: "Material", Pattern: regexp.MustCompile(`(?i)\b(?:Copper|Aluminum|Aluminium|XLPE|PVC|LSZH|LSOH|EPR|HDPE|SWA|AWA)\b`)},
	{Name: "Conductor Type", Pattern: regexp.MustCompile(`(?i)\b(?:ACSR|AAAC|AAC|ACCC|ACSS|HTLS|HTSL)\b`)},
}

// stopwords are common English and generic datasheet words that never make good tags
var stopwords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "that": true, "this": true,
	"from": true, "are": true, "was": true, "were": true, "but": true, "not": true,
	"has": true, "have": true, "had": true, "will": true, "would": true, "can": true,
	"could": true, "should": true, "data": true, "sheet": true, "spec": true,
	"specification": true, "type": true, "rated": true, "nominal": true, "cable": true,
	"conductor": true,
}

var wordPattern = regexp.MustCompile(`\b[a-zA-Z]{3,}\b`)

// KeywordExtractor finds keyword groups and frequent terms in text
type KeywordExtractor struct {
	groups []KeywordGroup
	topN   int
}

// NewKeywordExtractor creates an extractor over groups. Nil groups uses DefaultGroups.
func NewKeywordExtractor(groups []KeywordGroup, topN int) *KeywordExtractor {
	if groups == nil {
		groups = DefaultGroups
	}
	if topN <= 0 {
		topN = 5
	}
	return &KeywordExtractor{groups: groups, topN: topN}
}

// Keywords returns the unique matches of each group in first-seen order.
// Groups without matches are left out.
func (k *KeywordExtractor) Keywords(text string) map[string][]string {
	text = extraction.Preprocess(text)
	out := make(map[string][]string)
	for _, g := range k.groups {
		seen := make(map[string]bool)
		for _, m := range g.Pattern.FindAllString(text, -1) {
			m = strings.TrimSpace(m)
			if m == "" || seen[m] {
				continue
			}
			seen[m] = true
			out[g.Name] = append(out[g.Name], m)
		}
	}
	return out
}

// FrequentWords returns the most common non-stopword terms, most frequent first.
// Ties keep first-seen order.
func (k *KeywordExtractor) FrequentWords(text string) []string {
	counts := make(map[string]int)
	var order []string
	text = strings.ToLower(extraction.Preprocess(text))
	for _, w := range wordPattern.FindAllString(text, -1) {
		if stopwords[w] {
			continue
		}
		if counts[w] == 0 {
			order = append(order, w)
		}
		counts[w]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	if len(order) > k.topN {
		order = order[:k.topN]
	}
	return order
}
