// Package types provides type definitions for structured data used throughout the specsense system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "encoding/json"

// ReasonTag is a stable machine-readable label explaining a correction
type ReasonTag string

// Closed set of correction reasons
const (
	ReasonFormatting        ReasonTag = "Formatting"
	ReasonTruncatedZero     ReasonTag = "Heuristic Repair (Truncated Zero)"
	ReasonAmbiguousDigit    ReasonTag = "Ambiguous Single Digit"
	ReasonSplitCores        ReasonTag = "NxS Split (Cores)"
	ReasonSplitSize         ReasonTag = "NxS Split (Size)"
	ReasonExpansion         ReasonTag = "Expansion"
	ReasonStandardSnap      ReasonTag = "Standard Snap"
	ReasonUnitNormalization ReasonTag = "Unit Normalization"
)

// CorrectionEntry records a single value change made by the corrector
type CorrectionEntry struct {
	Field     FieldKey  `json:"field"`
	Original  string    `json:"original_value"`
	Corrected string    `json:"corrected_value"`
	Reason    ReasonTag `json:"reason_tag"`
}

// CorrectionLog is the ordered audit trail of one correction pass
type CorrectionLog []CorrectionEntry

// Append records a change. No-op changes are dropped.
func (l *CorrectionLog) Append(field FieldKey, original, corrected string, reason ReasonTag) {
	if original == corrected {
		return
	}
	*l = append(*l, CorrectionEntry{
		Field:     field,
		Original:  original,
		Corrected: corrected,
		Reason:    reason,
	})
}

// ForField returns the entries recorded for a single field, in order
func (l CorrectionLog) ForField(field FieldKey) []CorrectionEntry {
	var out []CorrectionEntry
	for _, e := range l {
		if e.Field == field {
			out = append(out, e)
		}
	}
	return out
}

// MarshalJSON encodes an empty log as [] rather than null
func (l CorrectionLog) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]CorrectionEntry(l))
}
