// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package watcher

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testWindow = 100 * time.Millisecond

func waitTrigger(t *testing.T, w *Watcher, timeout time.Duration) bool {
	t.Helper()
	select {
	case <-w.Triggers():
		return true
	case <-time.After(timeout):
		return false
	}
}

func TestWatcherCoalescesBurstIntoOneTrigger(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "refs.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	w, err := New(path, testWindow, nil)
	require.NoError(t, err)
	defer w.Close()

	// A burst of writes inside one stability window, the way a
	// reference manager exports in chunks.
	for i := 0; i < 5; i++ {
		require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))
		time.Sleep(5 * time.Millisecond)
	}

	assert.True(t, waitTrigger(t, w, 2*time.Second), "burst should produce a trigger")
	assert.False(t, waitTrigger(t, w, 3*testWindow), "burst should produce exactly one trigger")
}

func TestWatcherTriggersAgainAfterQuiescence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "refs.bib")
	require.NoError(t, os.WriteFile(path, []byte("@misc{a,}"), 0o644))

	w, err := New(path, testWindow, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(path, []byte("@misc{b,}"), 0o644))
	require.True(t, waitTrigger(t, w, 2*time.Second))

	require.NoError(t, os.WriteFile(path, []byte("@misc{c,}"), 0o644))
	assert.True(t, waitTrigger(t, w, 2*time.Second), "a later write starts a new window")
}

func TestWatcherIgnoresSiblingFiles(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "refs.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	w, err := New(path, testWindow, nil)
	require.NoError(t, err)
	defer w.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0o644))
	assert.False(t, waitTrigger(t, w, 3*testWindow), "sibling file changes must not trigger")
}

func TestWatcherSeesRenameReplace(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "refs.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))

	w, err := New(path, testWindow, nil)
	require.NoError(t, err)
	defer w.Close()

	// Export tools write a temp file and rename it over the target.
	tmp := filepath.Join(dir, "refs.json.tmp")
	require.NoError(t, os.WriteFile(tmp, []byte(`[{"id":"a"}]`), 0o644))
	require.NoError(t, os.Rename(tmp, path))

	assert.True(t, waitTrigger(t, w, 2*time.Second))
}

func TestWatcherSetupFailsOnMissingDirectory(t *testing.T) {
	_, err := New(filepath.Join(t.TempDir(), "no-such-dir", "refs.json"), testWindow, nil)

	var se *SetupError
	require.True(t, errors.As(err, &se), "err = %v, want *SetupError", err)
}
