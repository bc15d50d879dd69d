// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/cite-engine/internal/notes"
)

var noteCmd = &cobra.Command{
	Use:   "note",
	Short: "Create and link literature notes",
	Long: `Note manages literature notes: one note file per citekey, named by the
title template and filled by the content template. Subcommands print
what a host editor would insert (link, content) or touch the note
folder (create, path).`,
}

var noteCreateCmd = &cobra.Command{
	Use:   "create <citekey>",
	Short: "Create the literature note for a citekey",
	Long: `Create renders and writes the note for the citekey unless it already
exists. An existing note is never overwritten.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, vars, err := noteContext(args[0])
		if err != nil {
			return err
		}
		path, created, err := m.Create(vars)
		if err != nil {
			return err
		}
		if created {
			fmt.Println("Created", path)
		} else {
			fmt.Println("Already exists:", path)
		}
		return nil
	},
}

var notePathCmd = &cobra.Command{
	Use:   "path <citekey>",
	Short: "Print the note file path for a citekey",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, vars, err := noteContext(args[0])
		if err != nil {
			return err
		}
		path, err := m.Path(vars)
		if err != nil {
			return err
		}
		fmt.Println(path)
		return nil
	},
}

var noteLinkCmd = &cobra.Command{
	Use:   "link <citekey>",
	Short: "Print the wiki-link text for a citekey's note",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, vars, err := noteContext(args[0])
		if err != nil {
			return err
		}
		link, err := m.Link(vars)
		if err != nil {
			return err
		}
		fmt.Println(link)
		return nil
	},
}

var noteContentCmd = &cobra.Command{
	Use:   "content <citekey>",
	Short: "Print the rendered note body without writing a file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, vars, err := noteContext(args[0])
		if err != nil {
			return err
		}
		body, err := m.Content(vars)
		if err != nil {
			return err
		}
		fmt.Print(body)
		return nil
	},
}

var citeCmd = &cobra.Command{
	Use:   "cite <citekey>",
	Short: "Print a citation for a citekey",
	Long: `Cite renders the citation template for the citekey: the text a host
editor would insert at the cursor. --alt selects the alternative
variant (author-year by default).`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, vars, err := noteContext(args[0])
		if err != nil {
			return err
		}
		alt, _ := cmd.Flags().GetBool("alt")
		cite, err := m.Citation(vars, alt)
		if err != nil {
			return err
		}
		fmt.Println(cite)
		return nil
	},
}

// noteContext loads the library, resolves the citekey's variable
// bundle, and builds the note manager: the shared preamble of every
// note subcommand.
func noteContext(citekey string) (*notes.Manager, map[string]any, error) {
	ld, cfg, err := newLoader()
	if err != nil {
		return nil, nil, err
	}
	lib, err := ld.Load(context.Background(), cfg.Library.Path, cfg.Library.Format)
	if err != nil {
		return nil, nil, err
	}
	vars, err := lib.TemplateVariables(citekey)
	if err != nil {
		return nil, nil, err
	}

	root, err := workspaceRoot()
	if err != nil {
		return nil, nil, err
	}
	m, err := notes.NewManager(cfg.Notes, root)
	if err != nil {
		return nil, nil, err
	}
	return m, vars, nil
}

func init() {
	citeCmd.Flags().Bool("alt", false, "render the alternative citation variant")

	noteCmd.AddCommand(noteCreateCmd)
	noteCmd.AddCommand(notePathCmd)
	noteCmd.AddCommand(noteLinkCmd)
	noteCmd.AddCommand(noteContentCmd)

	rootCmd.AddCommand(noteCmd)
	rootCmd.AddCommand(citeCmd)
}
