package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/flakeref/internal/config"
	"github.com/bianoble/flakeref/internal/engine"
	"github.com/bianoble/flakeref/internal/flakeref"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the references of all configured inputs",
	Long: `Parses the reference of every input in the project config and reports
the ones that are malformed. Exit 0 if all inputs parse; exit non-zero otherwise.
Suitable for CI pipelines.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		// Parse without validating so that every bad reference is
		// reported, not just the config's first failure.
		cfg, err := config.Parse(configPath)
		if err != nil {
			return err
		}

		eng := &engine.CheckEngine{Logger: logger}
		result, err := eng.Check(cmd.Context(), *cfg)
		if err != nil {
			return err
		}

		for _, v := range result.Valid {
			detail("%-20s %s", v.Name, v.Ref.String())
		}
		if result.Clean {
			info("%s", okStyle.Render(fmt.Sprintf("All %d input(s) are valid.", len(result.Valid))))
			return nil
		}

		for _, e := range result.Invalid {
			info("  invalid   %s", e.Input)
			detail("%s", e.Err)
			var pe *flakeref.ParseError
			if errors.As(e.Err, &pe) && pe.Hint != "" {
				detail("hint: %s", pe.Hint)
			}
		}
		return fmt.Errorf("check failed: %d input(s) invalid", len(result.Invalid))
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}
