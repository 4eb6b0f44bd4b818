package validation

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	leadingNumber = regexp.MustCompile(`-?\d+(?:\.\d+)?`)
	voltageToken  = regexp.MustCompile(`(?i)(\d+(?:\.\d+)?)\s*(k?V)`)
)

// ParseLeadingFloat returns the first numeric token in s, including its sign
func ParseLeadingFloat(s string) (float64, bool) {
	m := leadingNumber.FindString(s)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// ParseVoltages returns every "<number>[k]V" occurrence in volts, in order of appearance
func ParseVoltages(s string) []float64 {
	matches := voltageToken.FindAllStringSubmatch(s, -1)
	out := make([]float64, 0, len(matches))
	for _, m := range matches {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			continue
		}
		if strings.HasPrefix(strings.ToLower(m[2]), "k") {
			v *= 1000
		}
		out = append(out, v)
	}
	return out
}

// formatNumber renders a parsed value without trailing zeros
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
