package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bianoble/flakeref/internal/config"
	"github.com/bianoble/flakeref/internal/lock"
)

// Build-time variables set via -ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags.
var (
	configPath   string
	lockfilePath string
	verbose      bool
	quiet        bool
	noColor      bool
)

var rootCmd = &cobra.Command{
	Use:   "flakeref",
	Short: "Parse, normalize and pin Nix flake references",
	Long: `flakeref parses Nix flake references in every accepted form (URL-like
strings, shorthands and JSON attribute sets), renders them canonically,
and records the canonical form of a project's named inputs in a lockfile.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupOutput()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(stdout, "flakeref %s\n", version)
		fmt.Fprintf(stdout, "  commit:  %s\n", commit)
		fmt.Fprintf(stdout, "  built:   %s\n", date)
		fmt.Fprintf(stdout, "  kinds:   %d\n", len(kindNames()))
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.FileName, "path to config file")
	rootCmd.PersistentFlags().StringVar(&lockfilePath, "lockfile", lock.FileName, "path to lockfile")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "detailed output")
	rootCmd.PersistentFlags().BoolVar(&quiet, "quiet", false, "minimal output (errors only)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error:"), err)
		return err
	}
	return nil
}
