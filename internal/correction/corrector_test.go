package correction

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/specsense/internal/types"
)

func record(t *testing.T, values map[string]string) types.SpecRecord {
	t.Helper()
	rec, err := types.SpecRecordFrom(values)
	require.NoError(t, err)
	return rec
}

func TestCorrect_NxSSplit(t *testing.T) {
	c := New(nil)
	out, log := c.Correct(record(t, map[string]string{"conductor_size": "4x16mm2"}))

	assert.Equal(t, "4", out.Value(types.FieldConductorCount))
	assert.Equal(t, "16 mm²", out.Value(types.FieldConductorSize))
	require.Len(t, log, 2)
	assert.Equal(t, types.CorrectionEntry{
		Field:     types.FieldConductorCount,
		Original:  "",
		Corrected: "4",
		Reason:    types.ReasonSplitCores,
	}, log[0])
	assert.Equal(t, types.CorrectionEntry{
		Field:     types.FieldConductorSize,
		Original:  "4x16mm2",
		Corrected: "16 mm²",
		Reason:    types.ReasonSplitSize,
	}, log[1])
}

func TestCorrect_NxSOverridesPriorCount(t *testing.T) {
	testCases := []struct {
		size         string
		count        string
		expectedN    string
		expectedSize string
	}{
		{size: "4x16mm2", count: "7", expectedN: "4", expectedSize: "16 mm²"},
		{size: "3 x 2.5 mm²", count: "", expectedN: "3", expectedSize: "2.5 mm²"},
		{size: "5×95", count: "5", expectedN: "5", expectedSize: "95 mm²"},
		{size: "2X1.5MM2", count: "16", expectedN: "2", expectedSize: "1.5 mm²"},
	}

	for _, tc := range testCases {
		t.Run(tc.size, func(t *testing.T) {
			out, _ := New(nil).Correct(record(t, map[string]string{
				"conductor_size":  tc.size,
				"conductor_count": tc.count,
			}))
			assert.Equal(t, tc.expectedN, out.Value(types.FieldConductorCount))
			assert.Equal(t, tc.expectedSize, out.Value(types.FieldConductorSize))
		})
	}
}

func TestCorrect_CompositeSizeNotSplit(t *testing.T) {
	out, log := New(nil).Correct(record(t, map[string]string{
		"conductor_size":  "3x95+1x50mm2",
		"conductor_count": "4",
	}))
	assert.Equal(t, "3x95+1x50mm2", out.Value(types.FieldConductorSize))
	assert.Equal(t, "4", out.Value(types.FieldConductorCount))
	assert.Empty(t, log)
}

func TestCorrect_SizeNormalization(t *testing.T) {
	testCases := map[string]string{
		"16mm2":   "16 mm²",
		"2.5 mm2": "2.5 mm²",
		"95 Mm2":  "95 mm²",
		"1mm h":   "1 mm²",
		"35mm?":   "35 mm²",
		"10 mm":   "10 mm²",
		"16 mm²":  "16 mm²",
	}
	for input, expected := range testCases {
		t.Run(input, func(t *testing.T) {
			out, _ := New(nil).Correct(record(t, map[string]string{"conductor_size": input}))
			assert.Equal(t, expected, out.Value(types.FieldConductorSize))
		})
	}
}

func TestCorrect_Voltage(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
		reasons  []types.ReasonTag
	}{
		{input: "0.6/1kV", expected: "600/1000V", reasons: []types.ReasonTag{types.ReasonStandardSnap}},
		{input: "0.6/1 kv", expected: "600/1000V", reasons: []types.ReasonTag{types.ReasonFormatting, types.ReasonStandardSnap}},
		{input: "45O/750V", expected: "45O/750V", reasons: nil},
		{input: "450 / 750 v", expected: "450/750V", reasons: []types.ReasonTag{types.ReasonFormatting}},
		{input: "4S0/7S0 V", expected: "450/750V", reasons: []types.ReasonTag{types.ReasonFormatting}},
		{input: "0.45/0.75kV 450/750", expected: "450/750V", reasons: []types.ReasonTag{types.ReasonFormatting, types.ReasonStandardSnap}},
		{input: "600/1000V AC/DC", expected: "600/1000V AC/DC", reasons: nil},
		{input: "600 / 1000 v ac", expected: "600/1000V AC", reasons: []types.ReasonTag{types.ReasonFormatting}},
		{input: "11KV", expected: "11kV", reasons: []types.ReasonTag{types.ReasonFormatting}},
		{input: "230 V", expected: "230V", reasons: []types.ReasonTag{types.ReasonFormatting}},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			out, log := New(nil).Correct(record(t, map[string]string{"voltage": tc.input}))
			assert.Equal(t, tc.expected, out.Value(types.FieldVoltage))

			var reasons []types.ReasonTag
			for _, e := range log {
				reasons = append(reasons, e.Reason)
			}
			assert.Equal(t, tc.reasons, reasons)
		})
	}
}

func TestCorrect_Temperature(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
		reason   types.ReasonTag
	}{
		{input: "4C", expected: "40°C", reason: types.ReasonTruncatedZero},
		{input: "9 c", expected: "90°C", reason: types.ReasonTruncatedZero},
		{input: "1C", expected: types.Unverifiable, reason: types.ReasonAmbiguousDigit},
		{input: "2C", expected: types.Unverifiable, reason: types.ReasonAmbiguousDigit},
		{input: "90C", expected: "90°C", reason: types.ReasonFormatting},
		{input: "9 0 C", expected: "90°C", reason: types.ReasonFormatting},
		{input: `90"C`, expected: "90°C", reason: types.ReasonFormatting},
		{input: "-40C", expected: "-40°C", reason: types.ReasonFormatting},
		{input: "70*C", expected: "70°C", reason: types.ReasonFormatting},
		{input: "105 deg C", expected: "105°C", reason: types.ReasonFormatting},
		{input: "90 °C", expected: "90°C", reason: types.ReasonFormatting},
		{input: "90° C", expected: "90°C", reason: types.ReasonFormatting},
		{input: "90 ° c", expected: "90°C", reason: types.ReasonFormatting},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			out, log := New(nil).Correct(record(t, map[string]string{"operating_temperature": tc.input}))
			assert.Equal(t, tc.expected, out.Value(types.FieldOperatingTemperature))
			require.Len(t, log, 1)
			assert.Equal(t, tc.reason, log[0].Reason)
			assert.Equal(t, tc.input, log[0].Original)
		})
	}
}

func TestCorrect_TemperatureAlreadyCanonical(t *testing.T) {
	_, log := New(nil).Correct(record(t, map[string]string{"operating_temperature": "90°C"}))
	assert.Empty(t, log)
}

func TestCorrect_Armor(t *testing.T) {
	testCases := []struct {
		input    string
		expected string
		reason   types.ReasonTag
	}{
		{input: "SWA", expected: "Steel Wire Armor", reason: types.ReasonExpansion},
		{input: "sta", expected: "Steel Tape Armor", reason: types.ReasonExpansion},
		{input: "AWA", expected: "Aluminum Wire Armor", reason: types.ReasonExpansion},
		{input: "ATA", expected: "Aluminum Tape Armor", reason: types.ReasonExpansion},
		{input: "Steel Wire Armox", expected: "Steel Wire Armor", reason: types.ReasonFormatting},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			out, log := New(nil).Correct(record(t, map[string]string{"armor": tc.input}))
			assert.Equal(t, tc.expected, out.Value(types.FieldArmor))
			require.Len(t, log, 1)
			assert.Equal(t, tc.reason, log[0].Reason)
		})
	}

	out, log := New(nil).Correct(record(t, map[string]string{"armor": "GSWA"}))
	assert.Equal(t, "GSWA", out.Value(types.FieldArmor))
	assert.Empty(t, log)
}

func TestCorrect_Resistance(t *testing.T) {
	testCases := map[string]string{
		"100MΩkm":       "100 MΩ·km",
		"100MΩ km":      "100 MΩ·km",
		"20 MO.km":      "20 MΩ·km",
		"20 M0.km":      "20 MΩ·km",
		"500 MΩ·km":     "500 MΩ·km",
		"20 M O . k m":  "20 MΩ·km",
		"1000 MOhm.k m": "1000 MΩ·km",
	}
	for input, expected := range testCases {
		t.Run(input, func(t *testing.T) {
			out, _ := New(nil).Correct(record(t, map[string]string{"insulation_resistance": input}))
			assert.Equal(t, expected, out.Value(types.FieldInsulationResistance))
		})
	}
}

func TestCorrect_CableTypeAndCurrent(t *testing.T) {
	out, log := New(nil).Correct(record(t, map[string]string{
		"cable_type":     "Cu",
		"current_rating": "100 Amps",
	}))
	assert.Equal(t, "Copper", out.Value(types.FieldCableType))
	assert.Equal(t, "100Amps", out.Value(types.FieldCurrentRating))
	assert.Len(t, log, 2)

	out, _ = New(nil).Correct(record(t, map[string]string{"cable_type": "Aluminium"}))
	assert.Equal(t, "Aluminum", out.Value(types.FieldCableType))

	out, _ = New(nil).Correct(record(t, map[string]string{"cable_type": "Fiber Optic"}))
	assert.Equal(t, "Fiber Optic", out.Value(types.FieldCableType))
}

func TestCorrect_TrimIsLogged(t *testing.T) {
	rec := types.NewSpecRecord()
	rec.Set(types.FieldSheath, " PVC ")
	rec.Set(types.FieldVoltage, "600/1000V\t")

	out, log := New(nil).Correct(rec)
	assert.Equal(t, "PVC", out.Value(types.FieldSheath))
	assert.Equal(t, "600/1000V", out.Value(types.FieldVoltage))
	assert.Equal(t, types.CorrectionLog{
		{Field: types.FieldVoltage, Original: "600/1000V\t", Corrected: "600/1000V", Reason: types.ReasonFormatting},
		{Field: types.FieldSheath, Original: " PVC ", Corrected: "PVC", Reason: types.ReasonFormatting},
	}, log)
}

func TestCorrect_DoesNotMutateInput(t *testing.T) {
	in := record(t, map[string]string{
		"conductor_size":        "4x16mm2",
		"armor":                 "SWA",
		"operating_temperature": "90C",
	})
	snapshot := in.Clone()

	out, _ := New(nil).Correct(in)
	assert.True(t, in.Equal(snapshot))
	assert.False(t, out.Equal(in))
}

func TestCorrect_Idempotent(t *testing.T) {
	inputs := []map[string]string{
		{},
		{"conductor_size": "4x16mm2", "voltage": "0.6/1kV", "armor": "SWA", "operating_temperature": "90C"},
		{"voltage": "4S0/75O V ac/dc", "operating_temperature": "4 C", "insulation_resistance": "20 MO.km"},
		{"operating_temperature": "1C", "cable_type": "C0pper", "current_rating": "3 2 A"},
		{"conductor_size": "3x95+1x50Mm2", "armor": "Steel Wire Armox", "voltage": "11 kv"},
		{"conductor_size": "2.5 mm h", "operating_temperature": "-40 deg C", "voltage": "6.35/11kV"},
		{"operating_temperature": "90° C", "insulation_resistance": "20 M O . k m"},
	}

	c := New(nil)
	for _, values := range inputs {
		first, _ := c.Correct(record(t, values))
		second, log := c.Correct(first)

		if diff := cmp.Diff(first, second); diff != "" {
			t.Errorf("second pass changed record for %v (-first +second):\n%s", values, diff)
		}
		assert.Empty(t, log, "second pass logged changes for %v", values)
	}
}

func TestCorrect_AllKeysPresent(t *testing.T) {
	out, log := New(nil).Correct(nil)
	assert.Len(t, out, len(types.FieldKeys()))
	assert.Empty(t, log)
	assert.NotNil(t, log)
}
