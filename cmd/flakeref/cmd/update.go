package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bianoble/flakeref/internal/engine"
	"github.com/bianoble/flakeref/internal/lock"
)

var (
	updateDryRun bool
	updateYes    bool
)

var updateCmd = &cobra.Command{
	Use:   "update [input-name...]",
	Short: "Record the canonical form of inputs in the lockfile",
	Long: `Parses each input, shows how its lockfile entry changes, and writes the
lockfile. If input names are provided, only those inputs are updated;
others are left unchanged.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		lf, err := loadLockfile()
		if err != nil {
			return err
		}

		eng := &engine.UpdateEngine{Logger: logger}
		opts := engine.UpdateOptions{
			DryRun:     updateDryRun,
			InputNames: args,
		}

		result, err := eng.Update(cmd.Context(), *cfg, lf, opts)
		if err != nil {
			return err
		}

		changed := 0
		for _, u := range result.Updated {
			if !u.Changed() {
				detail("%-20s unchanged", u.Name)
				continue
			}
			changed++
			info("  %-20s  %s → %s", u.Name, summarizeEntry(u.Before), summarizeEntry(u.After))
		}
		for _, e := range result.Failed {
			errorf("%s: %s", e.Input, e.Err)
		}

		if changed == 0 && len(result.Failed) == 0 {
			info("All inputs are up to date.")
			return nil
		}

		if updateDryRun {
			info("\nDry run, lockfile not modified.")
			return nil
		}

		if !updateYes && changed > 0 {
			fmt.Fprintf(stdout, "\nApply %d update(s) to lockfile? [y/N] ", changed)
			scanner := bufio.NewScanner(stdin)
			if scanner.Scan() {
				answer := strings.TrimSpace(strings.ToLower(scanner.Text()))
				if answer != "y" && answer != "yes" {
					info("Aborted.")
					return nil
				}
			}
		}

		if result.Lockfile != nil && changed > 0 {
			if err := saveLockfile(result.Lockfile); err != nil {
				return fmt.Errorf("saving lockfile: %w", err)
			}
			info("\nLockfile updated.")
		}

		if len(result.Failed) > 0 {
			return fmt.Errorf("%d input(s) failed to parse", len(result.Failed))
		}
		return nil
	},
}

func summarizeEntry(li *lock.LockedInput) string {
	if li == nil {
		return "(new)"
	}
	return li.Ref.String()
}

func init() {
	updateCmd.Flags().BoolVar(&updateDryRun, "dry-run", false, "show what would change without updating the lockfile")
	updateCmd.Flags().BoolVar(&updateYes, "yes", false, "skip interactive confirmation")
	rootCmd.AddCommand(updateCmd)
}
