package observability

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/specsense/internal/types"
)

func sampleReport(t *testing.T) *types.Report {
	t.Helper()
	specs, err := types.SpecRecordFrom(map[string]string{
		"voltage":               "600/1000V",
		"conductor_size":        "16 mm²",
		"armor":                 "Steel Wire Armor",
		"operating_temperature": "90°C",
	})
	require.NoError(t, err)

	var log types.CorrectionLog
	log.Append(types.FieldArmor, "SWA", "Steel Wire Armor", types.ReasonExpansion)

	return &types.Report{
		Source:      "sheet.txt",
		Specs:       specs,
		Corrections: log,
		Verdict:     types.NewVerdict(nil, []string{"1b. Cable Type: Unknown or ambiguous."}, false),
		Enrichment: &types.Enrichment{
			Keywords:      map[string][]string{"Voltage": {"0.6/1kV"}, "Material": {"XLPE", "SWA"}},
			FrequentWords: []string{"steel", "wire"},
			Category:      "Low Voltage Cables",
		},
	}
}

func TestPrintReport(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintReport(sampleReport(t), true)
	output := buf.String()

	assert.Contains(t, output, "Source: sheet.txt")
	assert.Contains(t, output, "NORMALIZED SPECIFICATIONS")
	assert.Contains(t, output, "Voltage:")
	assert.Contains(t, output, "600/1000V")
	assert.Contains(t, output, "16 mm²")
	assert.Contains(t, output, "STATUS: UNVERIFIABLE")
	assert.Contains(t, output, "ISSUES FIXED")
	assert.Contains(t, output, "Armor: SWA → Steel Wire Armor")
	assert.Contains(t, output, "(Expansion)")
	assert.Contains(t, output, "UNVERIFIABLE FACTORS")
	assert.Contains(t, output, "1b. Cable Type: Unknown or ambiguous.")
	assert.NotContains(t, output, "COMPLIANCE VIOLATIONS")
	assert.Contains(t, output, "Category: Low Voltage Cables")
	assert.Contains(t, output, "Material: XLPE, SWA")
}

func TestPrintReport_WithoutEnrichment(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintReport(sampleReport(t), false)

	assert.NotContains(t, buf.String(), "KEYWORDS & CATEGORY")
}

func TestPrintReport_Nil(t *testing.T) {
	var buf bytes.Buffer
	NewPrinter(&buf).PrintReport(nil, true)
	assert.Empty(t, buf.String())
}

func TestPrintViolations(t *testing.T) {
	var buf bytes.Buffer
	verdict := types.NewVerdict([]string{"10. Material: PVC insulation cannot be used at 5000V. Must be XLPE."}, nil, false)
	NewPrinter(&buf).PrintViolations(verdict)
	output := buf.String()

	assert.Contains(t, output, "Found 1 violations")
	assert.Contains(t, output, "⚠ 10. Material: PVC insulation")
	assert.Contains(t, output, "Must be XLPE.")
}

func TestPrintBox_LinesAlign(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	p.PrintSpecifications(sampleReport(t).Specs)

	for _, line := range strings.Split(strings.TrimRight(buf.String(), "\n"), "\n") {
		assert.Equal(t, boxWidth, len([]rune(line)), "line %q", line)
	}
}

func TestPrintBatchSummary(t *testing.T) {
	ready := &types.Report{Verdict: types.NewVerdict(nil, nil, false)}
	notReady := &types.Report{Verdict: types.NewVerdict([]string{"3. x"}, nil, false)}

	var buf bytes.Buffer
	NewPrinter(&buf).PrintBatchSummary([]*types.Report{ready, notReady, nil, ready})
	output := buf.String()

	assert.Contains(t, output, "Documents:     3")
	assert.Contains(t, output, "READY:")
	assert.Contains(t, output, "NOT_READY:")
}

func TestWrap(t *testing.T) {
	lines := wrap("one two three four", 9)
	assert.Equal(t, []string{"one two", "three", "four"}, lines)
	assert.Equal(t, []string{""}, wrap("", 10))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "mm²mm²m...", truncate("mm²mm²mm²mm²", 10))
}
