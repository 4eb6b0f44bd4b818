package correction

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/specsense/internal/types"
)

func TestTables_Snap(t *testing.T) {
	tables := DefaultTables()

	testCases := []struct {
		value    string
		expected string
		ok       bool
	}{
		{value: "450/750V", expected: "450/750V", ok: true},
		{value: "450 / 750 V", expected: "450/750V", ok: true},
		{value: "0.6/1kV", expected: "600/1000V", ok: true},
		{value: "600/1000V", expected: "600/1000V", ok: true},
		{value: "6/10kV", ok: false},
		{value: "230V", ok: false},
		{value: "1000", ok: false},
	}

	for _, tc := range testCases {
		t.Run(tc.value, func(t *testing.T) {
			label, ok := tables.Snap(tc.value)
			assert.Equal(t, tc.ok, ok)
			assert.Equal(t, tc.expected, label)
		})
	}
}

func TestTables_NearestPair(t *testing.T) {
	tables := DefaultTables()

	pair, ok := tables.NearestPair(580, 1000, 0.05)
	require.True(t, ok)
	assert.Equal(t, "600/1000V", pair.Label)

	pair, ok = tables.NearestPair(440, 760, 0.05)
	require.True(t, ok)
	assert.Equal(t, "450/750V", pair.Label)

	_, ok = tables.NearestPair(3800, 6600, 0.1)
	assert.False(t, ok)

	_, ok = tables.NearestPair(500, 1000, 0.05)
	assert.False(t, ok)
}

func TestDefaultTables_IsCopy(t *testing.T) {
	tables := DefaultTables()
	tables.VoltagePairs[0].Label = "changed"
	tables.Armor["SWA"] = "changed"

	fresh := DefaultTables()
	assert.Equal(t, "450/750V", fresh.VoltagePairs[0].Label)
	assert.Equal(t, "Steel Wire Armor", fresh.Armor["SWA"])
}

func TestNew_CustomTables(t *testing.T) {
	tables := Tables{
		VoltagePairs: []VoltagePair{{Label: "3.8/6.6kV", Low: 3800, High: 6600, Requires: []string{"3.8", "6.6"}}},
		Armor:        map[string]string{"gswa": "Galvanized Steel Wire Armor"},
	}
	c := New(&tables)

	rec := types.NewSpecRecord()
	rec.Set(types.FieldVoltage, "3.8/6.6 KV")
	rec.Set(types.FieldArmor, "GSWA")

	out, _ := c.Correct(rec)
	assert.Equal(t, "3.8/6.6kV", out.Value(types.FieldVoltage))
	assert.Equal(t, "Galvanized Steel Wire Armor", out.Value(types.FieldArmor))

	// a custom table replaces the defaults
	rec.Set(types.FieldArmor, "SWA")
	out, _ = c.Correct(rec)
	assert.Equal(t, "SWA", out.Value(types.FieldArmor))
}
