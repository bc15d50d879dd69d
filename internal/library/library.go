// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"fmt"
	"sort"

	"github.com/pdiddy/cite-engine/pkg/types"
)

// NotFoundError reports a citekey absent from the library. Callers
// treat it as an expected condition, not a crash.
type NotFoundError struct {
	Citekey string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("citekey %q not found in library", e.Citekey)
}

// Library is the in-memory bibliography, keyed by citekey. It is built
// once from an adapted batch and never mutated afterwards; a reload
// produces a new Library that replaces the old one wholesale. All
// methods are safe on a nil Library and behave as an empty one.
type Library struct {
	entries map[string]types.Entry
	keys    []string
}

// Build indexes a batch of entries. Duplicate citekeys within the batch
// resolve last-write-wins: the later entry in parse order replaces the
// earlier one.
func Build(entries []types.Entry) *Library {
	indexed := make(map[string]types.Entry, len(entries))
	for _, e := range entries {
		indexed[e.ID] = e
	}
	keys := make([]string, 0, len(indexed))
	for k := range indexed {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return &Library{entries: indexed, keys: keys}
}

// Size returns the number of entries.
func (l *Library) Size() int {
	if l == nil {
		return 0
	}
	return len(l.entries)
}

// Entry looks up one entry by citekey.
func (l *Library) Entry(citekey string) (types.Entry, bool) {
	if l == nil {
		return types.Entry{}, false
	}
	e, ok := l.entries[citekey]
	return e, ok
}

// Citekeys returns all citekeys in sorted order.
func (l *Library) Citekeys() []string {
	if l == nil {
		return nil
	}
	return l.keys
}

// Entries returns all entries in citekey order.
func (l *Library) Entries() []types.Entry {
	if l == nil {
		return nil
	}
	out := make([]types.Entry, 0, len(l.keys))
	for _, k := range l.keys {
		out = append(out, l.entries[k])
	}
	return out
}

// TemplateVariables returns the flattened variable bundle for one
// citekey: the named Entry fields plus every Extra pass-through field.
// The map is freshly built per call so template callers can extend it
// (selected text, dates) without touching the library.
func (l *Library) TemplateVariables(citekey string) (map[string]any, error) {
	e, ok := l.Entry(citekey)
	if !ok {
		return nil, &NotFoundError{Citekey: citekey}
	}

	vars := make(map[string]any, len(e.Extra)+10)
	for k, v := range e.Extra {
		vars[k] = v
	}
	vars["citekey"] = e.ID
	vars["entryType"] = e.Type
	vars["title"] = e.Title
	vars["authorString"] = e.AuthorString()
	vars["year"] = e.Year
	vars["containerTitle"] = e.ContainerTitle
	vars["page"] = e.Page
	vars["DOI"] = e.DOI
	vars["abstract"] = e.Abstract
	vars["zoteroSelectURI"] = e.ZoteroSelectURI
	if len(e.Files) > 0 {
		vars["files"] = e.Files
	}
	return vars, nil
}
