package correction

import (
	"regexp"

	"github.com/jonathan/specsense/internal/types"
)

var (
	megohmUnit  = regexp.MustCompile(`(?i)m\s*(?:Ω|ohms?|o|0)`)
	megohmPerKm = regexp.MustCompile(`(?i)MΩ\s*[.·]?\s*k\s*m`)
	megohmSpace = regexp.MustCompile(`(\d)\s*MΩ`)
)

// correctResistance rewrites the unit to "MΩ·km" with one space after the number
func (c *Corrector) correctResistance(rec types.SpecRecord, log *types.CorrectionLog) {
	value, ok := correctable(rec, types.FieldInsulationResistance)
	if !ok {
		return
	}

	out := megohmUnit.ReplaceAllString(value, "MΩ")
	out = megohmPerKm.ReplaceAllString(out, "MΩ·km")
	out = megohmSpace.ReplaceAllString(out, "${1} MΩ")
	apply(rec, log, types.FieldInsulationResistance, out, types.ReasonUnitNormalization)
}
