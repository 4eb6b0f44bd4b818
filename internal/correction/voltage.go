package correction

import (
	"regexp"
	"strings"

	"github.com/jonathan/specsense/internal/types"
)

var (
	whitespace    = regexp.MustCompile(`\s+`)
	kiloVolt      = regexp.MustCompile(`(?i)kv`)
	currentSuffix = regexp.MustCompile(`(?i)^(.*v)((?:ac|dc)(?:/(?:ac|dc))?)$`)
)

// correctVoltage canonicalizes spacing and unit casing, then snaps anchor
// values to a standard pair. An AC/DC suffix is kept apart from the rating
// so it survives both steps.
func (c *Corrector) correctVoltage(rec types.SpecRecord, log *types.CorrectionLog) {
	value, ok := correctable(rec, types.FieldVoltage)
	if !ok {
		return
	}

	rating, suffix := splitCurrentKind(whitespace.ReplaceAllString(value, ""))
	rating = strings.NewReplacer("S", "5", "s", "5").Replace(rating)
	rating = kiloVolt.ReplaceAllString(strings.ReplaceAll(rating, "v", "V"), "kV")
	apply(rec, log, types.FieldVoltage, joinCurrentKind(rating, suffix), types.ReasonFormatting)

	if label, ok := c.tables.Snap(rating); ok {
		apply(rec, log, types.FieldVoltage, joinCurrentKind(label, suffix), types.ReasonStandardSnap)
	}
}

func splitCurrentKind(compact string) (rating, suffix string) {
	if m := currentSuffix.FindStringSubmatch(compact); m != nil {
		return m[1], strings.ToUpper(m[2])
	}
	return compact, ""
}

func joinCurrentKind(rating, suffix string) string {
	if suffix == "" {
		return rating
	}
	return rating + " " + suffix
}
