// Package types provides type definitions for structured data used throughout the specsense system.
//
//nolint:revive // types is a standard Go package name pattern
package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// FieldKey names one of the ten canonical cable specification fields
type FieldKey string

// Canonical field keys, in declaration order
const (
	FieldCableType            FieldKey = "cable_type"
	FieldVoltage              FieldKey = "voltage"
	FieldCurrentRating        FieldKey = "current_rating"
	FieldInsulation           FieldKey = "insulation"
	FieldConductorCount       FieldKey = "conductor_count"
	FieldConductorSize        FieldKey = "conductor_size"
	FieldSheath               FieldKey = "sheath"
	FieldOperatingTemperature FieldKey = "operating_temperature"
	FieldInsulationResistance FieldKey = "insulation_resistance"
	FieldArmor                FieldKey = "armor"
)

// Unverifiable is the literal value the corrector writes when a field cannot be resolved
const Unverifiable = "UNVERIFIABLE"

var fieldKeys = []FieldKey{
	FieldCableType,
	FieldVoltage,
	FieldCurrentRating,
	FieldInsulation,
	FieldConductorCount,
	FieldConductorSize,
	FieldSheath,
	FieldOperatingTemperature,
	FieldInsulationResistance,
	FieldArmor,
}

var fieldLabels = map[FieldKey]string{
	FieldCableType:            "Cable Type",
	FieldVoltage:              "Voltage",
	FieldCurrentRating:        "Current Rating",
	FieldInsulation:           "Insulation",
	FieldConductorCount:       "Conductor Count",
	FieldConductorSize:        "Conductor Size",
	FieldSheath:               "Sheath",
	FieldOperatingTemperature: "Operating Temperature",
	FieldInsulationResistance: "Insulation Resistance",
	FieldArmor:                "Armor",
}

// FieldKeys returns all field keys in declaration order.
// The returned slice is a copy and may be modified by the caller.
func FieldKeys() []FieldKey {
	keys := make([]FieldKey, len(fieldKeys))
	copy(keys, fieldKeys)
	return keys
}

// Label returns the human-readable display label for the field
func (k FieldKey) Label() string {
	if label, ok := fieldLabels[k]; ok {
		return label
	}
	return string(k)
}

// Valid reports whether k is one of the canonical field keys
func (k FieldKey) Valid() bool {
	_, ok := fieldLabels[k]
	return ok
}

// SpecRecord maps every FieldKey to an optional value.
// An empty string means the field is absent. Records created with NewSpecRecord
// always carry all ten keys.
type SpecRecord map[FieldKey]string

// NewSpecRecord returns a record with every field present and absent
func NewSpecRecord() SpecRecord {
	rec := make(SpecRecord, len(fieldKeys))
	for _, k := range fieldKeys {
		rec[k] = ""
	}
	return rec
}

// SpecRecordFrom builds a complete record from a partial map of values.
// Unknown keys are rejected.
func SpecRecordFrom(values map[string]string) (SpecRecord, error) {
	rec := NewSpecRecord()
	for k, v := range values {
		key := FieldKey(k)
		if !key.Valid() {
			return nil, fmt.Errorf("unknown field key: %s", k)
		}
		rec[key] = strings.TrimSpace(v)
	}
	return rec, nil
}

// Get returns the value for key and whether it is present
func (r SpecRecord) Get(key FieldKey) (string, bool) {
	v := r[key]
	return v, strings.TrimSpace(v) != ""
}

// Value returns the value for key, or "" when absent
func (r SpecRecord) Value(key FieldKey) string {
	return r[key]
}

// Set stores a value for key. An empty value marks the field absent.
func (r SpecRecord) Set(key FieldKey, value string) {
	r[key] = value
}

// Has reports whether key holds a non-blank value
func (r SpecRecord) Has(key FieldKey) bool {
	_, ok := r.Get(key)
	return ok
}

// Clone returns an independent copy that carries all ten keys
func (r SpecRecord) Clone() SpecRecord {
	out := NewSpecRecord()
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Equal reports whether both records hold the same value for every field
func (r SpecRecord) Equal(other SpecRecord) bool {
	for _, k := range fieldKeys {
		if r[k] != other[k] {
			return false
		}
	}
	return true
}

// PresentCount returns how many fields hold a value
func (r SpecRecord) PresentCount() int {
	n := 0
	for _, k := range fieldKeys {
		if r.Has(k) {
			n++
		}
	}
	return n
}

// MarshalJSON emits all ten keys; absent fields are encoded as null
func (r SpecRecord) MarshalJSON() ([]byte, error) {
	out := make(map[string]*string, len(fieldKeys))
	for _, k := range fieldKeys {
		if v, ok := r.Get(k); ok {
			out[string(k)] = &v
		} else {
			out[string(k)] = nil
		}
	}
	return json.Marshal(out)
}

// UnmarshalJSON accepts a partial object; missing or null keys become absent
func (r *SpecRecord) UnmarshalJSON(data []byte) error {
	var raw map[string]*string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	values := make(map[string]string, len(raw))
	for k, v := range raw {
		if v != nil {
			values[k] = *v
		} else {
			values[k] = ""
		}
	}

	rec, err := SpecRecordFrom(values)
	if err != nil {
		return err
	}
	*r = rec
	return nil
}
