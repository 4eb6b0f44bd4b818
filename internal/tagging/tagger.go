package tagging

import (
	"strings"

	"github.com/jonathan/specsense/internal/types"
)

// Tagger produces the enrichment attached to a report
type Tagger struct {
	keywords   *KeywordExtractor
	classifier *Classifier
}

// NewTagger creates a Tagger with the default keyword groups
func NewTagger() *Tagger {
	return &Tagger{
		keywords:   NewKeywordExtractor(nil, 5),
		classifier: NewClassifier(),
	}
}

// Enrich tags the corrected record together with the full document text.
// Corrected values come first, so a snapped rating such as "600/1000V" is
// tagged even when the raw text only carries a noisy form of it.
func (t *Tagger) Enrich(rec types.SpecRecord, text string) *types.Enrichment {
	input := tagInput(rec, text)
	return &types.Enrichment{
		Keywords:      t.keywords.Keywords(input),
		FrequentWords: t.keywords.FrequentWords(input),
		Category:      t.classifier.Classify(input),
	}
}

// tagInput joins the present corrected values and the text, one per line.
// UNVERIFIABLE markers carry no information and are left out.
func tagInput(rec types.SpecRecord, text string) string {
	var parts []string
	for _, key := range types.FieldKeys() {
		if v, ok := rec.Get(key); ok && v != types.Unverifiable {
			parts = append(parts, v)
		}
	}
	return strings.Join(append(parts, text), "\n")
}
