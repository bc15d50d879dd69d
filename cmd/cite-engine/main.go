// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the cite-engine CLI: bibliography
// loading, search, literature notes, and citation rendering over a
// reference-manager export file.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/cite-engine/internal/loader"
	"github.com/pdiddy/cite-engine/internal/notify"
	"github.com/pdiddy/cite-engine/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// rootCmd is the base command for the cite-engine CLI.
var rootCmd = &cobra.Command{
	Use:   "cite-engine",
	Short: "Bibliography search and literature notes for a note vault",
	Long: `cite-engine reads a bibliography exported by a reference manager
(BibLaTeX or CSL-JSON), indexes it by citation key, and generates or links
literature notes from citekeys.

The export file is configured once (cite-engine.yaml); every command loads
it fresh, and the watch command reloads automatically whenever the
reference manager rewrites the export.`,
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./cite-engine.yaml or ~/.config/cite-engine/config.yaml)")
	rootCmd.PersistentFlags().String("workspace", "", "workspace root for relative paths (default: current directory)")
}

func initConfig() {
	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("cite-engine")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "cite-engine"))
		}
	}

	viper.SetEnvPrefix("CITE_ENGINE")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadSettings builds the typed configuration from viper.
func loadSettings() (types.Config, error) {
	path := viper.GetString("library.path")
	if path == "" {
		return types.Config{}, fmt.Errorf("library.path is not configured: set it in cite-engine.yaml")
	}

	formatName := viper.GetString("library.format")
	if formatName == "" {
		formatName = string(types.FormatCSLJSON)
	}
	format, err := types.ParseFormat(formatName)
	if err != nil {
		return types.Config{}, err
	}

	return types.Config{
		Library: types.LibraryConfig{Path: path, Format: format},
		Watch: types.WatchConfig{
			StabilityWindow: viper.GetDuration("watch.stability_window"),
		},
		Notes: types.NotesConfig{
			Folder:              viper.GetString("notes.folder"),
			TitleTemplate:       viper.GetString("notes.title_template"),
			ContentTemplate:     viper.GetString("notes.content_template"),
			CitationTemplate:    viper.GetString("notes.citation_template"),
			AltCitationTemplate: viper.GetString("notes.alt_citation_template"),
		},
		Index: types.IndexConfig{
			Dir:        viper.GetString("index.dir"),
			MaxResults: viper.GetInt("index.max_results"),
		},
	}, nil
}

// workspaceRoot resolves the root for relative paths: the --workspace
// flag when given, otherwise the current directory.
func workspaceRoot() (string, error) {
	if ws, _ := rootCmd.PersistentFlags().GetString("workspace"); ws != "" {
		return filepath.Abs(ws)
	}
	return os.Getwd()
}

// newLoader wires the loader with a stderr notifier, the way every
// command obtains a library.
func newLoader() (*loader.Loader, types.Config, error) {
	cfg, err := loadSettings()
	if err != nil {
		return nil, types.Config{}, err
	}
	root, err := workspaceRoot()
	if err != nil {
		return nil, types.Config{}, err
	}
	n := notify.New(os.Stderr, os.Stderr, 0)
	return loader.New(root, n, os.Stderr), cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
