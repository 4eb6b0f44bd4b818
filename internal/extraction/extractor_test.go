package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/specsense/internal/types"
)

func TestExtract_DatasheetLine(t *testing.T) {
	rec := New(nil).Extract("0.6/1kV XLPE 4 Core 16mm2 SWA 90C")

	assert.Equal(t, "0.6/1kV", rec.Value(types.FieldVoltage))
	assert.Equal(t, "XLPE", rec.Value(types.FieldInsulation))
	assert.Equal(t, "4", rec.Value(types.FieldConductorCount))
	assert.Equal(t, "16mm2", rec.Value(types.FieldConductorSize))
	assert.Equal(t, "SWA", rec.Value(types.FieldArmor))
	assert.Equal(t, "90C", rec.Value(types.FieldOperatingTemperature))

	assert.False(t, rec.Has(types.FieldCableType))
	assert.False(t, rec.Has(types.FieldCurrentRating))
	assert.False(t, rec.Has(types.FieldSheath))
	assert.False(t, rec.Has(types.FieldInsulationResistance))
}

func TestExtract_EmptyText(t *testing.T) {
	for _, raw := range []string{"", "   \n  "} {
		rec := New(nil).Extract(raw)
		assert.Equal(t, 0, rec.PresentCount())
		for _, key := range types.FieldKeys() {
			assert.False(t, rec.Has(key), "field %s should be absent", key)
		}
	}
}

func TestExtract_NoisyText(t *testing.T) {
	rec := New(nil).Extract("C0pper Cab1e 45O/75OV PVC Insu1ation 3 2 A 2.5 mm2 LSZH Sheath")

	assert.Equal(t, "Copper", rec.Value(types.FieldCableType))
	assert.Equal(t, "450/750V", rec.Value(types.FieldVoltage))
	assert.Equal(t, "32A", rec.Value(types.FieldCurrentRating))
	assert.Equal(t, "PVC", rec.Value(types.FieldInsulation))
	assert.Equal(t, "2.5 mm2", rec.Value(types.FieldConductorSize))
	assert.Equal(t, "LSZH", rec.Value(types.FieldSheath))
}

func TestExtract_LabelledFieldsPreferred(t *testing.T) {
	rec := New(nil).Extract("Operating Temperature: 90 °C, Insulation: XLPE, Sheath: PVC 11kV 3x240mm²")

	assert.Equal(t, "XLPE", rec.Value(types.FieldInsulation))
	assert.Equal(t, "PVC", rec.Value(types.FieldSheath))
	assert.Equal(t, "11kV", rec.Value(types.FieldVoltage))
	assert.Equal(t, "3", rec.Value(types.FieldConductorCount))
	assert.Equal(t, "3x240mm²", rec.Value(types.FieldConductorSize))
	assert.Equal(t, "90 °C", rec.Value(types.FieldOperatingTemperature))
}

func TestExtract_ResistanceAndArmorPhrase(t *testing.T) {
	rec := New(nil).Extract("Aluminium 600/1000V AC/DC 3 Cores 95 Mm2 Stee1 Wire Armox 20 MO.km")

	assert.Equal(t, "Aluminium", rec.Value(types.FieldCableType))
	assert.Equal(t, "600/1000V AC/DC", rec.Value(types.FieldVoltage))
	assert.Equal(t, "3", rec.Value(types.FieldConductorCount))
	assert.Equal(t, "95 Mm2", rec.Value(types.FieldConductorSize))
	assert.Equal(t, "Steel Wire Armox", rec.Value(types.FieldArmor))
	assert.Equal(t, "20 MO.km", rec.Value(types.FieldInsulationResistance))
}

func TestExtract_FirstPatternWins(t *testing.T) {
	grammar, err := Compile([]PatternDef{
		{Field: types.FieldArmor, Expr: `(?i)\b(swa)\b`, Group: 1},
		{Field: types.FieldArmor, Expr: `(?i)\b(sta)\b`, Group: 1},
	})
	require.NoError(t, err)

	rec := New(grammar).Extract("STA then SWA")
	assert.Equal(t, "SWA", rec.Value(types.FieldArmor))
}

func TestExtract_Locales(t *testing.T) {
	grammar, err := Compile([]PatternDef{
		{Field: types.FieldArmor, Locale: "de", Expr: `(?i)\b(stahldraht)\b`, Group: 1},
		{Field: types.FieldArmor, Expr: `(?i)\b(swa)\b`, Group: 1},
	})
	require.NoError(t, err)
	text := "Stahldraht SWA"

	assert.Equal(t, "SWA", New(grammar).Extract(text).Value(types.FieldArmor))
	assert.Equal(t, "Stahldraht", New(grammar, WithLocales("de", DefaultLocale)).Extract(text).Value(types.FieldArmor))
}

func TestExtract_WithoutPreprocessing(t *testing.T) {
	rec := New(nil, WithoutPreprocessing()).Extract("7S0V")
	assert.False(t, rec.Has(types.FieldVoltage))

	rec = New(nil).Extract("7S0V")
	assert.Equal(t, "750V", rec.Value(types.FieldVoltage))
}

func TestExtract_Deterministic(t *testing.T) {
	e := New(nil)
	text := "Cu 4x16mm2 XLPE/SWA/PVC 0.6/1 kV 20 MO.km 9 0 C"
	assert.True(t, e.Extract(text).Equal(e.Extract(text)))
}

func TestExtract_TemperatureAfterSize(t *testing.T) {
	testCases := []struct {
		name     string
		text     string
		size     string
		expected string
	}{
		{name: "mm2 then temperature", text: "XLPE 4 Core 16mm2 90C", size: "16mm2", expected: "90C"},
		{name: "mm² then temperature", text: "XLPE 4 Core 16mm² 90C", size: "16mm²", expected: "90C"},
		{name: "NxS then degrees", text: "XLPE 4 x 16mm2 70°C", size: "4 x 16mm2", expected: "70°C"},
		{name: "spaced exponent", text: "XLPE 25 mm 2 90 C", size: "25 mm 2", expected: "90 C"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := New(nil).Extract(tc.text)
			assert.Equal(t, tc.size, rec.Value(types.FieldConductorSize))
			assert.Equal(t, tc.expected, rec.Value(types.FieldOperatingTemperature))
		})
	}
}

func TestExtract_TemperatureForms(t *testing.T) {
	testCases := map[string]string{
		"Operating temperature 9 0 C":  "9 0 C",
		"Min temperature -40C":         "-40C",
		"Range 40-90C":                 "90C",
		"Rated 105 deg C conductor":    "105 deg C",
		"Conductor 1.5C stranded wire": "",
	}
	for text, expected := range testCases {
		t.Run(text, func(t *testing.T) {
			rec := New(nil).Extract(text)
			assert.Equal(t, expected, rec.Value(types.FieldOperatingTemperature))
		})
	}
}
