package tagging

import (
	"regexp"
	"strconv"
	"strings"
)

// Product categories
const (
	CategoryHTLS          = "HTLS Conductors"
	CategoryOverhead      = "Overhead Conductors"
	CategoryHighVoltage   = "High & Extra High Voltage Cables"
	CategoryMediumVoltage = "Medium Voltage Cables"
	CategoryLowVoltage    = "Low Voltage Cables"
	CategoryUncategorized = "Uncategorized"
)

// Voltage class limits in volts (maximum rated voltage)
const (
	LowVoltageLimit    = 3000
	MediumVoltageLimit = 30000
)

var categoryKeywords = map[string][]string{
	CategoryHTLS:          {"htls", "htsl", "high temperature low sag", "accc", "acss", "tacsr", "stacir", "gap type", "invar"},
	CategoryOverhead:      {"overhead", "bare copper", "aac", "aaac", "acsr", "abc", "aerial bundled", "transmission line"},
	CategoryHighVoltage:   {"high voltage", "extra high voltage", "ehv", "hv cable", "66kv", "132kv", "220kv", "400kv", "500kv"},
	CategoryMediumVoltage: {"medium voltage", "mv cable", "6.6kv", "11kv", "22kv", "33kv"},
	CategoryLowVoltage:    {"low voltage", "lv cable", "0.6/1kv", "1.8/3kv", "pvc insulated"},
}

var (
	conductorCategories = []string{CategoryHTLS, CategoryOverhead}
	voltageCategories   = []string{CategoryHighVoltage, CategoryMediumVoltage, CategoryLowVoltage}

	ratingPattern = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(?:/\s*(\d+(?:\.\d+)?))?\s*(k?V)\b`)
	digitOFix     = regexp.MustCompile(`(\d)O(\d)`)
	digitSFix     = regexp.MustCompile(`(\d)S(\d)`)
)

// Classifier assigns a single product category to a datasheet
type Classifier struct{}

// NewClassifier creates a Classifier
func NewClassifier() *Classifier {
	return &Classifier{}
}

// Classify picks the category in priority order: conductor keywords first,
// then the voltage class of the highest rating in the text, then voltage keywords.
func (c *Classifier) Classify(text string) string {
	lower := strings.ToLower(text)

	for _, cat := range conductorCategories {
		if containsKeyword(lower, categoryKeywords[cat]) {
			return cat
		}
	}

	if v := MaxRatedVoltage(text); v > 0 {
		switch {
		case v <= LowVoltageLimit:
			return CategoryLowVoltage
		case v <= MediumVoltageLimit:
			return CategoryMediumVoltage
		default:
			return CategoryHighVoltage
		}
	}

	for _, cat := range voltageCategories {
		if containsKeyword(lower, categoryKeywords[cat]) {
			return cat
		}
	}
	return CategoryUncategorized
}

// MaxRatedVoltage returns the highest voltage rating in text in volts, or 0.
// For a pair such as "0.6/1kV" the larger number is used.
func MaxRatedVoltage(text string) float64 {
	text = digitOFix.ReplaceAllString(text, "${1}0${2}")
	text = digitSFix.ReplaceAllString(text, "${1}5${2}")

	maxV := 0.0
	for _, m := range ratingPattern.FindAllStringSubmatch(text, -1) {
		v, _ := strconv.ParseFloat(m[1], 64)
		if m[2] != "" {
			if second, err := strconv.ParseFloat(m[2], 64); err == nil && second > v {
				v = second
			}
		}
		if strings.EqualFold(m[3], "kv") {
			v *= 1000
		}
		if v > maxV {
			maxV = v
		}
	}
	return maxV
}

func containsKeyword(lower string, keywords []string) bool {
	for _, k := range keywords {
		if strings.Contains(lower, k) {
			return true
		}
	}
	return false
}
