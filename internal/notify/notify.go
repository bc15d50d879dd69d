// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notify rate-limits user-facing error notices. Each error
// category shows at most one notice at a time: repeat failures of the
// same category while a notice is considered visible are suppressed,
// not queued. Full causes always go to the diagnostic writer.
package notify

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// Category groups failures for suppression purposes.
type Category string

const (
	CategoryRead  Category = "read"
	CategoryParse Category = "parse"
	CategoryWatch Category = "watch"
)

// DefaultVisibility is how long a notice counts as displayed, and so
// suppresses further notices of its category.
const DefaultVisibility = 30 * time.Second

// Notifier writes short actionable notices to out and full causes to
// diag. Safe for concurrent use.
type Notifier struct {
	out        io.Writer
	diag       io.Writer
	visibility time.Duration
	now        func() time.Time

	mu      sync.Mutex
	shownAt map[Category]time.Time
}

// New builds a Notifier. A zero visibility uses DefaultVisibility; nil
// writers discard.
func New(out, diag io.Writer, visibility time.Duration) *Notifier {
	if out == nil {
		out = io.Discard
	}
	if diag == nil {
		diag = io.Discard
	}
	if visibility <= 0 {
		visibility = DefaultVisibility
	}
	return &Notifier{
		out:        out,
		diag:       diag,
		visibility: visibility,
		now:        time.Now,
		shownAt:    make(map[Category]time.Time),
	}
}

// Notify records cause in the diagnostic log and, unless a notice of
// the same category is still visible, shows message to the user. It
// reports whether the notice was shown.
func (n *Notifier) Notify(cat Category, message string, cause error) bool {
	if cause != nil {
		fmt.Fprintf(n.diag, "%s error: %v\n", cat, cause)
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	if shown, ok := n.shownAt[cat]; ok && n.now().Sub(shown) < n.visibility {
		return false
	}
	n.shownAt[cat] = n.now()
	fmt.Fprintf(n.out, "cite-engine: %s\n", message)
	return true
}

// Dismiss marks the category's notice as no longer visible, so the
// next failure shows again immediately. Called after a successful
// reload clears the error condition.
func (n *Notifier) Dismiss(cat Category) {
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.shownAt, cat)
}
