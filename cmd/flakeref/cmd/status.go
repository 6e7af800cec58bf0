package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/flakeref/internal/engine"
)

var statusCmd = &cobra.Command{
	Use:   "status [input-name...]",
	Short: "Show the lock state of configured inputs",
	Long: `Shows input name, kind, canonical reference, pinned revision or hash, and
lock state (locked, stale, pending, invalid) for all or named inputs.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		lf, err := loadLockfile()
		if err != nil {
			return err
		}

		eng := &engine.StatusEngine{Logger: logger}
		statuses, err := eng.Status(cmd.Context(), *lf, *cfg, args)
		if err != nil {
			return err
		}

		if len(statuses) == 0 {
			info("No inputs configured.")
			return nil
		}

		fmt.Fprintf(stdout, "%-20s %-14s %-14s %-40s %s\n", "INPUT", "KIND", "PINNED AT", "REF", "STATE")
		for _, s := range statuses {
			ref := s.Ref
			if len(ref) > 40 {
				ref = ref[:37] + "..."
			}
			fmt.Fprintf(stdout, "%-20s %-14s %-14s %-40s %s\n", s.Name, s.Kind, s.PinnedAt, ref, stateStyle(s.State).Render(s.State))
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
