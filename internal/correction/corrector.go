// Package correction canonicalizes extracted cable specification values and
// records every change in an audit log.
package correction

import (
	"strings"

	"github.com/jonathan/specsense/internal/types"
)

// Corrector applies the ordered correction steps to a record.
// It holds only read-only tables and is safe for concurrent use.
type Corrector struct {
	tables Tables
}

// step corrects one concern of a record in place, appending to log
type step func(c *Corrector, rec types.SpecRecord, log *types.CorrectionLog)

// steps run in dependency order: the size/count split must precede any
// independent field normalization.
var steps = []step{
	(*Corrector).splitConductor,
	(*Corrector).correctVoltage,
	(*Corrector).correctTemperature,
	(*Corrector).correctArmor,
	(*Corrector).correctResistance,
	(*Corrector).correctCableType,
	(*Corrector).correctCurrentRating,
	(*Corrector).correctUnitCasing,
}

// New creates a Corrector over tables. A nil tables uses DefaultTables.
func New(tables *Tables) *Corrector {
	if tables == nil {
		t := DefaultTables()
		tables = &t
	}
	return &Corrector{tables: tables.clone()}
}

// Correct returns a corrected copy of rec and the log of every change,
// including trimmed surrounding whitespace. The input record is never modified. Correcting an already corrected
// record returns it unchanged with an empty log.
func (c *Corrector) Correct(rec types.SpecRecord) (types.SpecRecord, types.CorrectionLog) {
	out := rec.Clone()
	log := types.CorrectionLog{}
	for _, key := range types.FieldKeys() {
		apply(out, &log, key, strings.TrimSpace(out[key]), types.ReasonFormatting)
	}

	for _, s := range steps {
		s(c, out, &log)
	}
	return out, log
}

// correctable reports whether a field holds a value the steps may touch.
// UNVERIFIABLE markers are final.
func correctable(rec types.SpecRecord, key types.FieldKey) (string, bool) {
	value, ok := rec.Get(key)
	if !ok || value == types.Unverifiable {
		return "", false
	}
	return value, true
}

// apply stores a new value for key and logs it when it differs
func apply(rec types.SpecRecord, log *types.CorrectionLog, key types.FieldKey, value string, reason types.ReasonTag) {
	log.Append(key, rec[key], value, reason)
	rec[key] = value
}
