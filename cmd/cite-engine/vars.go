// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
)

var varsCmd = &cobra.Command{
	Use:   "vars <citekey>",
	Short: "Print the template variable bundle for a citekey",
	Long: `Vars prints the flattened field mapping handed to note and citation
templates: citekey, title, authorString, year, and every pass-through
field from the source record.`,
	Args: cobra.ExactArgs(1),
	RunE: runVars,
}

func runVars(cmd *cobra.Command, args []string) error {
	ld, cfg, err := newLoader()
	if err != nil {
		return err
	}
	lib, err := ld.Load(context.Background(), cfg.Library.Path, cfg.Library.Format)
	if err != nil {
		return err
	}

	vars, err := lib.TemplateVariables(args[0])
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "yaml", "":
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(vars)
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(vars)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}

func init() {
	varsCmd.Flags().String("format", "yaml", "output format: yaml or json")

	rootCmd.AddCommand(varsCmd)
}
