package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/specsense/internal/observability"
	"github.com/jonathan/specsense/internal/types"
)

var validateCmd = &cobra.Command{
	Use:   "validate <spec.json|->",
	Short: "Check a corrected spec record against the compliance rules",
	Long:  "Runs only the compliance stage on a spec record JSON file and prints the verdict.",
	Args:  cobra.ExactArgs(1),
	RunE:  runValidate,
}

var (
	validateStrict  bool
	validateConsole bool
)

func init() {
	validateCmd.Flags().BoolVar(&validateStrict, "strict", false, "Exit non-zero unless the verdict is READY")
	validateCmd.Flags().BoolVar(&validateConsole, "pretty", false, "Print a console summary instead of JSON")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, logger, err := loadSettings()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	rec, err := readSpecRecord(args[0], cmd.InOrStdin())
	if err != nil {
		return err
	}

	_, _, validator, err := stages(cfg)
	if err != nil {
		return err
	}
	verdict := validator.Validate(rec)

	out := cmd.OutOrStdout()
	if validateConsole {
		p := observability.NewPrinter(out)
		p.PrintStatus(verdict)
		p.PrintViolations(verdict)
		p.PrintMissing(verdict)
	} else if err := printJSON(out, verdict); err != nil {
		return err
	}

	if validateStrict && verdict.Status != types.StatusReady {
		return fmt.Errorf("verdict is %s", verdict.Status)
	}
	return nil
}
