package correction

import (
	"regexp"
	"strings"

	"github.com/jonathan/specsense/internal/types"
)

var (
	splitDigits   = regexp.MustCompile(`(\d)\s+(\d)`)
	singleDigitC  = regexp.MustCompile(`(?i)^(\d)\s*c$`)
	bareCelsius   = regexp.MustCompile(`(?i)(-?\d+(?:\.\d+)?)\s*(?:\*|º|deg(?:rees)?)?\s*c\.?$`)
	spacedDegrees = regexp.MustCompile(`(?i)(\d)\s*°\s*c$`)
)

// correctTemperature repairs quote artifacts, split digits and a missing degree mark.
// A lone digit before "C" is either a truncated tens value (3-9) or unresolvable.
func (c *Corrector) correctTemperature(rec types.SpecRecord, log *types.CorrectionLog) {
	value, ok := correctable(rec, types.FieldOperatingTemperature)
	if !ok {
		return
	}

	cleaned := strings.TrimSpace(strings.NewReplacer(`"`, "", "''", "").Replace(value))
	for splitDigits.MatchString(cleaned) {
		cleaned = splitDigits.ReplaceAllString(cleaned, "${1}${2}")
	}

	if m := singleDigitC.FindStringSubmatch(cleaned); m != nil {
		digit := m[1][0]
		if digit >= '3' && digit <= '9' {
			apply(rec, log, types.FieldOperatingTemperature, m[1]+"0°C", types.ReasonTruncatedZero)
		} else {
			apply(rec, log, types.FieldOperatingTemperature, types.Unverifiable, types.ReasonAmbiguousDigit)
		}
		return
	}

	if !strings.Contains(cleaned, "°") {
		cleaned = bareCelsius.ReplaceAllString(cleaned, "${1}°C")
	}
	cleaned = spacedDegrees.ReplaceAllString(cleaned, "${1}°C")
	apply(rec, log, types.FieldOperatingTemperature, cleaned, types.ReasonFormatting)
}
