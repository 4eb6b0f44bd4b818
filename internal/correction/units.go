package correction

import (
	"regexp"
	"strings"

	"github.com/jonathan/specsense/internal/types"
)

var (
	copperName   = regexp.MustCompile(`(?i)^(?:cu|c[o0]pp\s?[e3]r)$`)
	aluminumName = regexp.MustCompile(`(?i)^(?:al|alumin(?:i)?um)$`)
	mixedMM      = regexp.MustCompile(`(\d\s*)(?:Mm|mM)`)
)

func (c *Corrector) correctCableType(rec types.SpecRecord, log *types.CorrectionLog) {
	value, ok := correctable(rec, types.FieldCableType)
	if !ok {
		return
	}

	switch {
	case copperName.MatchString(value):
		apply(rec, log, types.FieldCableType, "Copper", types.ReasonExpansion)
	case aluminumName.MatchString(value):
		apply(rec, log, types.FieldCableType, "Aluminum", types.ReasonExpansion)
	}
}

func (c *Corrector) correctCurrentRating(rec types.SpecRecord, log *types.CorrectionLog) {
	value, ok := correctable(rec, types.FieldCurrentRating)
	if !ok {
		return
	}
	apply(rec, log, types.FieldCurrentRating, whitespace.ReplaceAllString(value, ""), types.ReasonFormatting)
}

// correctUnitCasing lowercases a mis-cased "mm" unit in any field
func (c *Corrector) correctUnitCasing(rec types.SpecRecord, log *types.CorrectionLog) {
	for _, key := range types.FieldKeys() {
		value, ok := correctable(rec, key)
		if !ok || !strings.ContainsAny(value, "Mm") {
			continue
		}
		apply(rec, log, key, mixedMM.ReplaceAllString(value, "${1}mm"), types.ReasonUnitNormalization)
	}
}
