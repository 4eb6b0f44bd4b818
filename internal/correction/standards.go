package correction

import (
	"math"
	"slices"
	"strings"
)

// VoltagePair is a standard dual voltage rating (phase-to-earth / phase-to-phase).
// A voltage value snaps to Label when it contains every Requires token and,
// if AnyOf is set, at least one AnyOf token. Tokens are matched against the
// lowercased value.
type VoltagePair struct {
	Label    string   `json:"label" yaml:"label" validate:"required"`
	Low      float64  `json:"low" yaml:"low" validate:"gt=0"`
	High     float64  `json:"high" yaml:"high" validate:"gtfield=Low"`
	Requires []string `json:"requires" yaml:"requires" validate:"min=1"`
	AnyOf    []string `json:"any_of,omitempty" yaml:"any_of,omitempty"`
}

// StandardVoltagePairs are the anchor ratings snapped by the corrector.
// The first matching pair wins.
var StandardVoltagePairs = []VoltagePair{
	{Label: "450/750V", Low: 450, High: 750, Requires: []string{"450", "750"}},
	{Label: "600/1000V", Low: 600, High: 1000, Requires: []string{"6", "v"}, AnyOf: []string{"1000", "1k"}},
}

// ArmorExpansions maps armor abbreviations to their descriptive names
var ArmorExpansions = map[string]string{
	"AWA": "Aluminum Wire Armor",
	"SWA": "Steel Wire Armor",
	"STA": "Steel Tape Armor",
	"ATA": "Aluminum Tape Armor",
}

// Tables holds the read-only lookup data used by a Corrector
type Tables struct {
	VoltagePairs []VoltagePair     `json:"voltage_pairs" yaml:"voltage_pairs" validate:"dive"`
	Armor        map[string]string `json:"armor" yaml:"armor"`
}

// DefaultTables returns a copy of the built-in tables
func DefaultTables() Tables {
	t := Tables{
		VoltagePairs: StandardVoltagePairs,
		Armor:        ArmorExpansions,
	}
	return t.clone()
}

func (t Tables) clone() Tables {
	out := Tables{
		VoltagePairs: make([]VoltagePair, len(t.VoltagePairs)),
		Armor:        make(map[string]string, len(t.Armor)),
	}
	for i, p := range t.VoltagePairs {
		p.Requires = slices.Clone(p.Requires)
		p.AnyOf = slices.Clone(p.AnyOf)
		out.VoltagePairs[i] = p
	}
	for k, v := range t.Armor {
		out.Armor[strings.ToUpper(k)] = v
	}
	return out
}

// Matches reports whether value snaps to the pair by substring containment
func (p VoltagePair) Matches(value string) bool {
	lower := strings.ToLower(value)
	for _, token := range p.Requires {
		if !strings.Contains(lower, strings.ToLower(token)) {
			return false
		}
	}
	if len(p.AnyOf) == 0 {
		return true
	}
	for _, token := range p.AnyOf {
		if strings.Contains(lower, strings.ToLower(token)) {
			return true
		}
	}
	return false
}

// Snap returns the label of the first pair value matches
func (t Tables) Snap(value string) (string, bool) {
	for _, p := range t.VoltagePairs {
		if p.Matches(value) {
			return p.Label, true
		}
	}
	return "", false
}

// NearestPair returns the standard pair closest to low/high when both ends lie
// within the relative tolerance (0.1 = 10%). It never changes a record; callers
// use it to explain why a rating did not snap.
func (t Tables) NearestPair(low, high, tolerance float64) (VoltagePair, bool) {
	var best VoltagePair
	bestDist := math.Inf(1)
	found := false
	for _, p := range t.VoltagePairs {
		dl := relativeDistance(low, p.Low)
		dh := relativeDistance(high, p.High)
		if dl > tolerance || dh > tolerance {
			continue
		}
		if d := dl + dh; d < bestDist {
			best, bestDist, found = p, d, true
		}
	}
	return best, found
}

func relativeDistance(v, ref float64) float64 {
	if ref == 0 {
		return math.Inf(1)
	}
	return math.Abs(v-ref) / ref
}
