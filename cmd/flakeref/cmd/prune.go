package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/flakeref/internal/engine"
)

var pruneDryRun bool

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove lockfile entries for inputs no longer configured",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		lf, err := loadLockfile()
		if err != nil {
			return err
		}

		eng := &engine.PruneEngine{Logger: logger}
		result, err := eng.Prune(cmd.Context(), *lf, *cfg, engine.PruneOptions{DryRun: pruneDryRun})
		if err != nil {
			return err
		}

		if len(result.Removed) == 0 {
			info("Nothing to prune.")
			return nil
		}
		for _, name := range result.Removed {
			info("  removed   %s", name)
		}

		if pruneDryRun {
			info("\nDry run, lockfile not modified.")
			return nil
		}
		if err := saveLockfile(result.Lockfile); err != nil {
			return fmt.Errorf("saving lockfile: %w", err)
		}
		info("\nPruned %d input(s).", len(result.Removed))
		return nil
	},
}

func init() {
	pruneCmd.Flags().BoolVar(&pruneDryRun, "dry-run", false, "show what would be removed without modifying the lockfile")
	rootCmd.AddCommand(pruneCmd)
}
