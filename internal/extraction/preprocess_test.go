package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPreprocess(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "empty", input: "", expected: ""},
		{name: "whitespace only", input: "  \n\t ", expected: ""},
		{name: "clean text untouched", input: "0.6/1kV XLPE 4 Core 16mm2 SWA 90C", expected: "0.6/1kV XLPE 4 Core 16mm2 SWA 90C"},
		{name: "domain words repaired", input: "C0pper Cab1e", expected: "Copper Cable"},
		{name: "spaced domain word", input: "Insu lation", expected: "Insulation"},
		{name: "armor phrase", input: "Stee1 W1re Arm0r", expected: "Steel Wire Armor"},
		{name: "O misread in voltage pair", input: "45O/75OV", expected: "450/750V"},
		{name: "S misread between digits", input: "7S0V", expected: "750V"},
		{name: "adjacent misreads", input: "1O2O3", expected: "10203"},
		{name: "leading O before digit", input: "O6 cores", expected: "06 cores"},
		{name: "split amperage joined", input: "3 2 A rated", expected: "32A rated"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, Preprocess(tc.input))
		})
	}
}

func TestPreprocess_Deterministic(t *testing.T) {
	input := "C0pper Cab1e 45O/75OV PVC Insu1ation 3 2 A"
	assert.Equal(t, Preprocess(input), Preprocess(input))
}
