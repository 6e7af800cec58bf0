package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bianoble/flakeref/internal/engine"
	"github.com/bianoble/flakeref/internal/lock"
)

var nixlockImport bool

var nixlockCmd = &cobra.Command{
	Use:   "nixlock <flake.lock>",
	Short: "List the nodes of a Nix flake.lock",
	Long: `Reads a Nix flake.lock and prints every node with its original and locked
references in canonical form. With --import, writes the root inputs to
the config and lockfile instead (existing files are overwritten).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		nl, err := lock.LoadNixLock(args[0])
		if err != nil {
			return err
		}

		if nixlockImport {
			return importNixLock(cmd, nl)
		}

		for _, name := range nl.NodeNames() {
			node := nl.Nodes[name]
			info("%s", headingStyle.Render(name))
			if node.Original != nil {
				info("  original:  %s", node.Original.String())
			}
			if node.Locked != nil {
				info("  locked:    %s", node.Locked.String())
			}
			for _, in := range sortedInputs(node.Inputs) {
				detail("input %s", in)
			}
		}
		return nil
	},
}

func importNixLock(cmd *cobra.Command, nl *lock.NixLock) error {
	eng := &engine.ImportEngine{Logger: logger}
	result, err := eng.Import(cmd.Context(), nl)
	if err != nil {
		return err
	}
	for _, e := range result.Failed {
		errorf("%s: %s", e.Input, e.Err)
	}
	if len(result.Config.Inputs) == 0 {
		return fmt.Errorf("no importable inputs")
	}

	if err := saveConfig(result.Config); err != nil {
		return err
	}
	if err := saveLockfile(result.Lockfile); err != nil {
		return fmt.Errorf("saving lockfile: %w", err)
	}
	info("Imported %d input(s) into %s and %s.", len(result.Config.Inputs), configPath, lockfilePath)
	return nil
}

func sortedInputs(inputs map[string]lock.NodeInput) []string {
	var out []string
	for _, name := range sortedKeys(inputs) {
		in := inputs[name]
		if in.Follows != nil {
			out = append(out, fmt.Sprintf("%s follows %v", name, in.Follows))
			continue
		}
		out = append(out, name+" -> "+in.Node)
	}
	return out
}

func init() {
	nixlockCmd.Flags().BoolVar(&nixlockImport, "import", false, "write root inputs to the config and lockfile")
	rootCmd.AddCommand(nixlockCmd)
}
