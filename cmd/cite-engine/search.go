// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/cite-engine/internal/index"
	"github.com/pdiddy/cite-engine/internal/search"
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search the bibliography by citekey, title, author, or year",
	Long: `Search loads the bibliography and ranks entries against the query.
Matching is fuzzy: query tokens may hit as substrings or in-order
subsequences, with citekey hits ranked highest.

With --full-text the query instead runs against the persistent SQLite
index (see "cite-engine index"), which also covers abstracts.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")
	limit, _ := cmd.Flags().GetInt("limit")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if fullText, _ := cmd.Flags().GetBool("full-text"); fullText {
		return runFullTextSearch(query, limit, jsonOutput)
	}

	ld, cfg, err := newLoader()
	if err != nil {
		return err
	}
	lib, err := ld.Load(context.Background(), cfg.Library.Path, cfg.Library.Format)
	if err != nil {
		return err
	}

	matches := search.NewList(lib).Search(query, limit)
	if jsonOutput {
		return search.FormatJSON(matches, os.Stdout)
	}
	search.FormatTable(matches, os.Stdout)
	return nil
}

func runFullTextSearch(query string, limit int, jsonOutput bool) error {
	cfg, err := loadSettings()
	if err != nil {
		return err
	}

	ix, err := index.Open(cfg.Index)
	if err != nil {
		return err
	}
	defer ix.Close()

	results, err := ix.Search(context.Background(), query, limit)
	if err != nil {
		return err
	}

	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	for i, r := range results {
		fmt.Printf("%-4d %-20s %s", i+1, r.Citekey, r.Title)
		if r.Year != 0 {
			fmt.Printf(" (%d)", r.Year)
		}
		fmt.Println()
		if r.Snippet != "" {
			fmt.Printf("     %s\n", r.Snippet)
		}
	}
	fmt.Printf("\n%d results\n", len(results))
	return nil
}

func init() {
	searchCmd.Flags().Int("limit", 20, "maximum number of results (0 = no limit)")
	searchCmd.Flags().Bool("json", false, "output results as JSON")
	searchCmd.Flags().Bool("full-text", false, "query the persistent full-text index instead")

	rootCmd.AddCommand(searchCmd)
}
