package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/flakeref/internal/flakeref"
)

var fmtCmd = &cobra.Command{
	Use:   "fmt <ref>...",
	Short: "Print the canonical form of flake references",
	Long: `Prints the canonical form of each argument, one per line. Arguments that
fail to parse are reported on stderr and make the command exit non-zero.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		failed := 0
		for _, arg := range args {
			ref, err := flakeref.Parse(arg)
			if err != nil {
				errorf("%s", err)
				failed++
				continue
			}
			fmt.Fprintln(stdout, ref.String())
		}
		if failed > 0 {
			return fmt.Errorf("%d reference(s) failed to parse", failed)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fmtCmd)
}
