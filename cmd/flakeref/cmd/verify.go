package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/flakeref/internal/engine"
)

var verifyCmd = &cobra.Command{
	Use:   "verify [input-name...]",
	Short: "Verify that the lockfile matches the configured inputs",
	Long: `Compares the canonical form of each configured input against the entry
recorded in the lockfile. Exit non-zero if any input changed or is not
locked yet.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		lf, err := loadLockfile()
		if err != nil {
			return err
		}

		eng := &engine.VerifyEngine{Logger: logger}
		result, err := eng.Verify(cmd.Context(), *lf, *cfg, args)
		if err != nil {
			return err
		}

		for _, name := range result.UpToDate {
			detail("%-20s up to date", name)
		}
		for _, d := range result.Changed {
			info("  changed   %s", d.Input)
			detail("locked:  %s", d.Before)
			detail("current: %s", d.After)
		}
		for _, e := range result.Errors {
			errorf("%s: %s", e.Input, e.Err)
		}

		if len(result.Changed) == 0 && len(result.Errors) == 0 {
			info("%s", okStyle.Render("Lockfile matches all inputs."))
			return nil
		}
		return fmt.Errorf("verify failed: %d changed, %d error(s)", len(result.Changed), len(result.Errors))
	},
}

func init() {
	rootCmd.AddCommand(verifyCmd)
}
