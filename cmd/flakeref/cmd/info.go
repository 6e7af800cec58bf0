package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/flakeref/internal/config"
	"github.com/bianoble/flakeref/internal/engine"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Show information about flakeref configuration and grammars",
	Long: `Displays the flakeref version, lockfile format version, configuration
chain and lockfile paths, and the reference grammars in dispatch order.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		var layers []config.ConfigLayerInfo
		if hr, err := loadConfigHierarchical(); err == nil {
			layers = hr.Layers
		} else {
			detail("config not loaded: %s", err)
		}

		result := engine.Info(version, layers, configPath, lockfilePath)

		fmt.Fprintf(stdout, "flakeref %s\n", result.Version)
		fmt.Fprintf(stdout, "  lock version:  %d\n", result.LockVersion)

		if len(result.ConfigChain) > 1 {
			fmt.Fprintln(stdout, "  config chain:")
			for _, layer := range result.ConfigChain {
				status := "not found"
				if layer.Loaded {
					status = "loaded"
				}
				fmt.Fprintf(stdout, "    %-10s %s (%s)\n", layer.Level+":", layer.Path, status)
			}
		} else {
			fmt.Fprintf(stdout, "  config:        %s\n", result.ConfigPath)
		}
		fmt.Fprintf(stdout, "  lockfile:      %s\n", result.LockPath)

		fmt.Fprintln(stdout, "\nGrammars (dispatch order):")
		for i, g := range result.Grammars {
			fmt.Fprintf(stdout, "  %2d  %-14s %s\n", i+1, g.Kind, dimStyle.Render(g.Family))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
