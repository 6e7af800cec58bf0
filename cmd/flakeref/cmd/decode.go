package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/tidwall/jsonc"

	"github.com/bianoble/flakeref/internal/flakeref"
)

// stdin is read by decode when the argument is "-".
var stdin io.Reader = os.Stdin

var decodeCmd = &cobra.Command{
	Use:   "decode <file|->",
	Short: "Decode a JSON attribute set into a flake reference",
	Long: `Reads a JSON (or JSONC, with comments and trailing commas) attribute set
such as {"type": "github", "owner": "NixOS", "repo": "nixpkgs"} and prints
the reference it describes. The --output flag of parse applies.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			data []byte
			err  error
		)
		if args[0] == "-" {
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", args[0], err)
		}

		ref, err := flakeref.Decode(jsonc.ToJSON(data))
		if err != nil {
			return err
		}
		rec, err := describe(ref.String(), ref)
		if err != nil {
			return err
		}
		return printRecords([]refRecord{rec})
	},
}

func init() {
	decodeCmd.Flags().StringVarP(&parseOutput, "output", "o", "text", "output format: text, json, yaml or cbor")
	rootCmd.AddCommand(decodeCmd)
}
