package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wonny/nvdbdq/internal/contracts"
	"github.com/wonny/nvdbdq/internal/report"
)

// schemaCmd represents the schema command
var schemaCmd = &cobra.Command{
	Use:   "schema [objekttype]",
	Short: "List the declared properties of an object type",
	Long: `Lists the property definitions (egenskapstyper) of one object type,
grouped by importance (viktighet) in text mode.

Formats: text, json, yaml

Example:
  go run ./cmd/nvdbdq schema 79
  go run ./cmd/nvdbdq schema 79 --format yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runSchema,
}

var (
	// Schema flags
	schemaFormat string
)

func init() {
	rootCmd.AddCommand(schemaCmd)

	// Flags
	schemaCmd.Flags().StringVarP(&schemaFormat, "format", "f", "text", "output format (text|json|yaml)")
}

func runSchema(cmd *cobra.Command, args []string) error {
	switch schemaFormat {
	case "text", "json", "yaml":
	default:
		return &contracts.InputError{Field: "format", Value: schemaFormat, Reason: "must be text, json or yaml"}
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	desc, err := a.explorer.Describe(contextOrBackground(cmd.Context()), args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	switch schemaFormat {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(desc); err != nil {
			return fmt.Errorf("encode schema: %w", err)
		}
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		if err := enc.Encode(desc); err != nil {
			return fmt.Errorf("encode schema: %w", err)
		}
		return enc.Close()
	default:
		return report.WriteSchema(out, desc)
	}
	return nil
}
