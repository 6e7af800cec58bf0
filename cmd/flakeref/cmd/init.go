package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var initForce bool

// initTemplate is the default flakeref.yaml scaffold.
const initTemplate = `# flakeref configuration
version: 1

inputs:
  # Registry shorthand, resolved through the flake registry
  - name: nixpkgs
    ref: nixpkgs/nixos-23.05

  # Git hosting services
  # - name: utils
  #   ref: github:numtide/flake-utils
  # - name: private
  #   ref: gitlab:team/flake?host=gitlab.example.com

  # Plain git over any transport
  # - name: tools
  #   ref: git+https://example.com/tools.git?ref=main

  # Archives and local paths
  # - name: vendored
  #   ref: https://example.com/flake.tar.gz
  # - name: local
  #   ref: path:/srv/flakes/local
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a starter flakeref.yaml configuration",
	Long: `Creates a flakeref.yaml file in the current directory with one registry
input and commented examples of the other reference forms.

Use --force to overwrite an existing configuration file.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		outPath := configPath
		if !filepath.IsAbs(outPath) {
			abs, err := filepath.Abs(outPath)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}
			outPath = abs
		}

		if !initForce {
			if _, err := os.Stat(outPath); err == nil {
				return fmt.Errorf("%s already exists (use --force to overwrite)", outPath)
			}
		}

		if err := os.WriteFile(outPath, []byte(initTemplate), 0644); err != nil {
			return fmt.Errorf("writing config: %w", err)
		}

		info("Created %s", outPath)
		info("")
		info("Next steps:")
		info("  1. Edit the file to list your flake inputs")
		info("  2. Run 'flakeref check' to validate them")
		info("  3. Run 'flakeref update' to write the lockfile")
		return nil
	},
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite existing config file")
	rootCmd.AddCommand(initCmd)
}
