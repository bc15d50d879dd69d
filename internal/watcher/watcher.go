// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package watcher observes the bibliography export file for external
// changes. Reference managers write exports in several chunks, so raw
// change events are debounced: a reload trigger fires only after the
// file has stayed quiet for a stability window, and at most once per
// window no matter how many events arrived inside it.
package watcher

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/pdiddy/cite-engine/pkg/types"
)

// SetupError reports that the watched path cannot be observed: the
// containing directory is missing or not permitted. The watcher fails
// once at setup and never retries; the user must fix the configuration
// and restart the watch.
type SetupError struct {
	Path string
	Err  error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("cannot watch %s: %v", e.Path, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// Watcher debounces change events for one absolute file path. The
// parent directory is watched rather than the file itself, because
// export tools replace the file by rename and a direct watch would die
// with the old inode.
type Watcher struct {
	fsw    *fsnotify.Watcher
	path   string
	window time.Duration
	diag   io.Writer

	triggers chan struct{}
}

// New starts watching path. window <= 0 uses the default stability
// window. Diagnostics for runtime watch errors go to diag (nil
// discards). The file itself may not exist yet; its directory must.
func New(path string, window time.Duration, diag io.Writer) (*Watcher, error) {
	if window <= 0 {
		window = types.DefaultStabilityWindow
	}
	if diag == nil {
		diag = io.Discard
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, &SetupError{Path: path, Err: err}
	}
	if err := fsw.Add(filepath.Dir(path)); err != nil {
		fsw.Close()
		return nil, &SetupError{Path: path, Err: err}
	}

	w := &Watcher{
		fsw:      fsw,
		path:     path,
		window:   window,
		diag:     diag,
		triggers: make(chan struct{}, 1),
	}
	go w.run()
	return w, nil
}

// Triggers delivers one value per quiescence window in which the file
// changed. The channel holds one pending trigger; further triggers
// coalesce into it.
func (w *Watcher) Triggers() <-chan struct{} {
	return w.triggers
}

// Close stops the watch. The triggers channel stops delivering; it is
// not closed, so concurrent receivers simply block.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) run() {
	base := filepath.Base(w.path)

	var timer *time.Timer
	var quiet <-chan time.Time

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != base {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			// Any event restarts the stability window.
			if timer == nil {
				timer = time.NewTimer(w.window)
				quiet = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.window)
			}

		case <-quiet:
			timer = nil
			quiet = nil
			select {
			case w.triggers <- struct{}{}:
			default:
			}

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			fmt.Fprintf(w.diag, "warning: watch error on %s: %v\n", w.path, err)
		}
	}
}
