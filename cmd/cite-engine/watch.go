// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/pdiddy/cite-engine/internal/index"
	"github.com/pdiddy/cite-engine/internal/watcher"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the export file and reload on changes",
	Long: `Watch loads the bibliography, then observes the export file and reloads
whenever the reference manager rewrites it. Change events are debounced
by the configured stability window so multi-chunk exports trigger a
single reload. Runs until interrupted.

If the export path cannot be observed (missing directory, permissions),
watch fails once at startup; fix the configuration and run it again.`,
	RunE: runWatch,
}

func runWatch(cmd *cobra.Command, args []string) error {
	ld, cfg, err := newLoader()
	if err != nil {
		return err
	}
	path := ld.Resolve(cfg.Library.Path)
	keepIndex, _ := cmd.Flags().GetBool("index")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var ix *index.Index
	if keepIndex {
		ix, err = index.Open(cfg.Index)
		if err != nil {
			return err
		}
		defer ix.Close()
	}

	reload := func() {
		lib, err := ld.Load(ctx, cfg.Library.Path, cfg.Library.Format)
		if err != nil {
			// The loader already notified; keep watching, the next
			// change may fix the file.
			return
		}
		fmt.Printf("Loaded %d entries from %s\n", lib.Size(), path)
		if ix != nil {
			if _, err := ix.Rebuild(ctx, lib); err != nil {
				fmt.Fprintf(os.Stderr, "warning: index rebuild failed: %v\n", err)
			}
		}
	}

	reload()

	w, err := watcher.New(path, cfg.Watch.StabilityWindow, os.Stderr)
	if err != nil {
		return err
	}
	defer w.Close()
	fmt.Println("Watching", path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-w.Triggers():
			reload()
		}
	}
}

func init() {
	watchCmd.Flags().Bool("index", false, "also rebuild the full-text index on each reload")

	rootCmd.AddCommand(watchCmd)
}
