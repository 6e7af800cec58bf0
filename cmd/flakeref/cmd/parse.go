package cmd

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bianoble/flakeref/internal/codec"
	"github.com/bianoble/flakeref/internal/flakeref"
)

var parseOutput string

// refRecord is the structured description printed by parse and decode.
type refRecord struct {
	Input      string         `json:"input" yaml:"input" cbor:"input"`
	Kind       string         `json:"kind" yaml:"kind" cbor:"kind"`
	Family     string         `json:"family" yaml:"family" cbor:"family"`
	Canonical  string         `json:"canonical" yaml:"canonical" cbor:"canonical"`
	Attributes map[string]any `json:"attributes" yaml:"attributes" cbor:"attributes"`
}

func describe(input string, ref flakeref.Reference) (refRecord, error) {
	rec := refRecord{
		Input:     input,
		Kind:      ref.Kind().String(),
		Family:    string(ref.Kind().Family()),
		Canonical: ref.String(),
	}
	data, err := json.Marshal(ref)
	if err != nil {
		return rec, fmt.Errorf("encoding %s: %w", input, err)
	}
	if err := json.Unmarshal(data, &rec.Attributes); err != nil {
		return rec, fmt.Errorf("encoding %s: %w", input, err)
	}
	return rec, nil
}

// printRecords writes records in the --output format.
func printRecords(records []refRecord) error {
	switch parseOutput {
	case "text":
		for _, rec := range records {
			info("%s", headingStyle.Render(rec.Canonical))
			info("  kind:    %s", rec.Kind)
			info("  family:  %s", rec.Family)
			if rec.Input != rec.Canonical {
				info("  input:   %s", dimStyle.Render(rec.Input))
			}
			for _, key := range sortedKeys(rec.Attributes) {
				detail("  %-12s %v", key+":", rec.Attributes[key])
			}
		}
	case "json":
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, string(data))
	case "yaml":
		data, err := yaml.Marshal(records)
		if err != nil {
			return err
		}
		fmt.Fprint(stdout, string(data))
	case "cbor":
		data, err := codec.Marshal(records)
		if err != nil {
			return err
		}
		diag, err := codec.Diagnose(data)
		if err != nil {
			return err
		}
		fmt.Fprintln(stdout, diag)
	default:
		return fmt.Errorf("unknown output format %q (want text, json, yaml or cbor)", parseOutput)
	}
	return nil
}

var parseCmd = &cobra.Command{
	Use:   "parse <ref>...",
	Short: "Classify flake references and describe their parts",
	Long: `Parses each argument as a flake reference and prints its kind, family,
canonical form and attributes. Use --output to select text, json, yaml
or cbor (printed in diagnostic notation).`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var (
			records []refRecord
			failed  int
		)
		for _, arg := range args {
			ref, err := flakeref.Parse(arg)
			if err != nil {
				errorf("%s", err)
				var pe *flakeref.ParseError
				if errors.As(err, &pe) && pe.Family != "" {
					detail("family: %s", pe.Family)
				}
				failed++
				continue
			}
			rec, err := describe(arg, ref)
			if err != nil {
				return err
			}
			records = append(records, rec)
		}

		if err := printRecords(records); err != nil {
			return err
		}
		if failed > 0 {
			return fmt.Errorf("%d reference(s) failed to parse", failed)
		}
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVarP(&parseOutput, "output", "o", "text", "output format: text, json, yaml or cbor")
	rootCmd.AddCommand(parseCmd)
}
