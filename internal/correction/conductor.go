package correction

import (
	"regexp"

	"github.com/jonathan/specsense/internal/types"
)

var (
	// nxsPattern matches a whole "N x S [mm2]" value; composites such as "3x95+1x50" do not match
	nxsPattern = regexp.MustCompile(`(?i)^(\d+)\s*[x×]\s*(\d+(?:\.\d+)?)\s*(?:m\s*m\s*[2²h?]?)?$`)

	sizePattern = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*m\s*m\s*[2²h?]?$`)
)

// splitConductor moves the core count out of an "N x S" size. N always
// overwrites conductor_count and is never read as the cross-section.
func (c *Corrector) splitConductor(rec types.SpecRecord, log *types.CorrectionLog) {
	size, ok := correctable(rec, types.FieldConductorSize)
	if !ok {
		return
	}

	if m := nxsPattern.FindStringSubmatch(size); m != nil {
		if rec[types.FieldConductorCount] != types.Unverifiable {
			apply(rec, log, types.FieldConductorCount, m[1], types.ReasonSplitCores)
		}
		apply(rec, log, types.FieldConductorSize, m[2]+" mm²", types.ReasonSplitSize)
		return
	}

	if m := sizePattern.FindStringSubmatch(size); m != nil {
		apply(rec, log, types.FieldConductorSize, m[1]+" mm²", types.ReasonUnitNormalization)
	}
}
