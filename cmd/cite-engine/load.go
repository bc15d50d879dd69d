// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var loadCmd = &cobra.Command{
	Use:   "load",
	Short: "Load the bibliography export and report its contents",
	Long: `Load reads the configured export file, parses it, and prints the number
of entries indexed. This is the manual refresh: the same path the watch
command takes automatically when the export changes.`,
	RunE: runLoad,
}

func runLoad(cmd *cobra.Command, args []string) error {
	ld, cfg, err := newLoader()
	if err != nil {
		return err
	}

	lib, err := ld.Load(context.Background(), cfg.Library.Path, cfg.Library.Format)
	if err != nil {
		return err
	}

	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(lib.Entries())
	}

	fmt.Printf("Loaded %d entries from %s\n", lib.Size(), ld.Resolve(cfg.Library.Path))
	return nil
}

func init() {
	loadCmd.Flags().Bool("json", false, "dump the loaded entries as JSON")

	rootCmd.AddCommand(loadCmd)
}
