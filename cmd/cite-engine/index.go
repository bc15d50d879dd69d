// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/cite-engine/internal/index"
)

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Manage the persistent full-text index",
	Long: `Index maintains a SQLite FTS5 copy of the library for full-text
queries over titles, authors, and abstracts. Rebuild it after the
export changes, or query it directly.`,
}

var indexBuildCmd = &cobra.Command{
	Use:   "build",
	Short: "Rebuild the full-text index from the bibliography",
	RunE: func(cmd *cobra.Command, args []string) error {
		ld, cfg, err := newLoader()
		if err != nil {
			return err
		}
		lib, err := ld.Load(context.Background(), cfg.Library.Path, cfg.Library.Format)
		if err != nil {
			return err
		}

		ix, err := index.Open(cfg.Index)
		if err != nil {
			return err
		}
		defer ix.Close()

		n, err := ix.Rebuild(context.Background(), lib)
		if err != nil {
			return err
		}
		fmt.Printf("Indexed %d entries\n", n)
		return nil
	},
}

var indexQueryCmd = &cobra.Command{
	Use:   "query <terms>",
	Short: "Query the full-text index",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		jsonOutput, _ := cmd.Flags().GetBool("json")
		return runFullTextSearch(strings.Join(args, " "), limit, jsonOutput)
	},
}

func init() {
	indexQueryCmd.Flags().Int("limit", 0, "maximum results (0 = configured default)")
	indexQueryCmd.Flags().Bool("json", false, "output results as JSON")

	indexCmd.AddCommand(indexBuildCmd)
	indexCmd.AddCommand(indexQueryCmd)

	rootCmd.AddCommand(indexCmd)
}
