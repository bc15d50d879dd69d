// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/cite-engine/internal/export"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the library as CSL-YAML or CSL-JSON",
	Long: `Export writes the loaded library back out as CSL items, in citekey
order, for feeding Pandoc or another reference manager.`,
	RunE: runExport,
}

func runExport(cmd *cobra.Command, args []string) error {
	ld, cfg, err := newLoader()
	if err != nil {
		return err
	}
	lib, err := ld.Load(context.Background(), cfg.Library.Path, cfg.Library.Format)
	if err != nil {
		return err
	}

	var w io.Writer = os.Stdout
	if out, _ := cmd.Flags().GetString("out"); out != "" {
		f, err := os.Create(out)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		w = f
	}

	format, _ := cmd.Flags().GetString("format")
	switch format {
	case "yaml", "":
		return export.WriteYAML(lib, w)
	case "json":
		return export.WriteJSON(lib, w)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
}

func init() {
	exportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	exportCmd.Flags().String("out", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
}
