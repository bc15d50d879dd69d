// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package loader coordinates a bibliography reload: path resolution,
// file read, parse, adapt, index, and the atomic installation of the
// finished library. It is the single entry point both the manual
// refresh command and the watcher use.
package loader

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync/atomic"
	"unicode/utf8"

	"github.com/pdiddy/cite-engine/internal/library"
	"github.com/pdiddy/cite-engine/internal/notify"
	"github.com/pdiddy/cite-engine/internal/parser"
	"github.com/pdiddy/cite-engine/pkg/types"
)

// ReadError reports that the export file could not be read: missing,
// unreadable, or not valid UTF-8 text.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("reading bibliography %s: %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// Loader owns the process-wide current library. Loads may overlap (a
// manual refresh racing a watcher-triggered reload); whichever load
// completes last wins the pointer swap. That is last-completion-wins,
// not last-triggered-wins: a slow early load finishing after a fast
// later one replaces its result. Accepted non-determinism; both loads
// read the same file, so the difference is at most one stale snapshot
// until the next change event.
type Loader struct {
	workspaceRoot string
	notifier      *notify.Notifier
	diag          io.Writer

	current atomic.Pointer[library.Library]
}

// New builds a Loader. Relative bibliography paths resolve against
// workspaceRoot. Per-record diagnostics go to diag (nil discards).
func New(workspaceRoot string, notifier *notify.Notifier, diag io.Writer) *Loader {
	if diag == nil {
		diag = io.Discard
	}
	if notifier == nil {
		notifier = notify.New(nil, nil, 0)
	}
	return &Loader{
		workspaceRoot: workspaceRoot,
		notifier:      notifier,
		diag:          diag,
	}
}

// Current returns the library installed by the most recently completed
// successful load, or nil before the first one. Callers must tolerate
// nil and treat it as an empty, stale library.
func (ld *Loader) Current() *library.Library {
	return ld.current.Load()
}

// Resolve turns the configured path into an absolute one. Absolute
// paths are used verbatim; relative paths resolve against the
// workspace root.
func (ld *Loader) Resolve(rawPath string) string {
	if filepath.IsAbs(rawPath) {
		return rawPath
	}
	return filepath.Join(ld.workspaceRoot, rawPath)
}

// Load reads, parses, adapts, and indexes the export file, then
// atomically replaces the current library. On any whole-file failure
// it returns a nil library after emitting one rate-limited user notice
// for the failure's category; the previously installed library is left
// untouched. Individual bad records are skipped with diagnostics and
// do not fail the load.
func (ld *Loader) Load(ctx context.Context, rawPath string, format types.Format) (*library.Library, error) {
	path := ld.Resolve(rawPath)

	data, err := os.ReadFile(path)
	if err != nil {
		rerr := &ReadError{Path: path, Err: err}
		ld.notifier.Notify(notify.CategoryRead,
			"could not read your bibliography file, check your settings", rerr)
		return nil, rerr
	}
	if !utf8.Valid(data) {
		rerr := &ReadError{Path: path, Err: fmt.Errorf("file is not valid UTF-8 text")}
		ld.notifier.Notify(notify.CategoryRead,
			"could not read your bibliography file, check your settings", rerr)
		return nil, rerr
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	records, err := parser.Parse(string(data), format, ld.diag)
	if err != nil {
		ld.notifier.Notify(notify.CategoryParse,
			"could not parse your bibliography, check your export format setting", err)
		return nil, err
	}

	entries := library.AdaptAll(records, ld.diag)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	lib := library.Build(entries)
	ld.current.Store(lib)

	// A clean load ends the error condition; let the next failure
	// surface immediately instead of waiting out the suppression window.
	ld.notifier.Dismiss(notify.CategoryRead)
	ld.notifier.Dismiss(notify.CategoryParse)

	return lib, nil
}
