package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jonathan/specsense/internal/correction"
	"github.com/jonathan/specsense/internal/schemas"
	"github.com/jonathan/specsense/internal/types"
	"github.com/jonathan/specsense/internal/validation"
	schemafiles "github.com/jonathan/specsense/schemas"
)

var correctCmd = &cobra.Command{
	Use:   "correct <spec.json|->",
	Short: "Correct an extracted spec record",
	Long: "Runs only the correction stage on a spec record JSON file and prints the corrected " +
		"record with its correction log.",
	Args: cobra.ExactArgs(1),
	RunE: runCorrect,
}

// correctTolerance is the relative distance within which an unsnapped rating is reported as near a standard pair
var correctTolerance float64

func init() {
	correctCmd.Flags().Float64Var(&correctTolerance, "tolerance", 0.1, "Relative tolerance for standard voltage hints")
	rootCmd.AddCommand(correctCmd)
}

// correctOutput is the JSON printed by the correct command
type correctOutput struct {
	Specs       types.SpecRecord    `json:"specs"`
	Corrections types.CorrectionLog `json:"corrections"`
}

func runCorrect(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	rec, err := readSpecRecord(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	_, corrector, _, err := stages(cfg)
	if err != nil {
		return err
	}
	specs, log := corrector.Correct(rec)

	if err := schemas.ValidateValue(schemafiles.SpecRecord, specs); err != nil {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: corrected record does not validate against the schema: %v\n", err)
	}

	if hint := voltageHint(cfg.CorrectionTables(), specs.Value(types.FieldVoltage), correctTolerance); hint != "" {
		_, _ = fmt.Fprintln(cmd.ErrOrStderr(), hint)
	}

	return printJSON(cmd.OutOrStdout(), correctOutput{Specs: specs, Corrections: log})
}

// voltageHint names the standard pair an unsnapped dual rating is close to
func voltageHint(tables correction.Tables, voltage string, tolerance float64) string {
	if voltage == "" || voltage == types.Unverifiable {
		return ""
	}
	for _, p := range tables.VoltagePairs {
		if strings.HasPrefix(voltage, p.Label) {
			return ""
		}
	}

	low, high, ok := voltageEnds(voltage)
	if !ok {
		return ""
	}
	pair, ok := tables.NearestPair(low, high, tolerance)
	if !ok {
		return ""
	}
	return fmt.Sprintf("Hint: voltage %s is close to the standard rating %s", voltage, pair.Label)
}

// voltageEnds reads the two ends of a dual rating such as "440/760V" or "3.6/6kV"
func voltageEnds(voltage string) (low, high float64, ok bool) {
	volts := validation.ParseVoltages(voltage)
	switch {
	case len(volts) >= 2:
		return volts[0], volts[1], true
	case len(volts) == 1 && strings.Contains(voltage, "/"):
		lead, ok := validation.ParseLeadingFloat(voltage)
		if !ok {
			return 0, 0, false
		}
		if strings.Contains(strings.ToLower(voltage), "kv") {
			lead *= 1000
		}
		return lead, volts[0], true
	}
	return 0, 0, false
}
