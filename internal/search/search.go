// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package search provides fuzzy lookup over a loaded library. The List
// type is the capability a host UI drives: it owns matching and
// ranking, and exposes explicit hooks (OnSelect, RenderItem) instead of
// requiring the host to subclass anything.
package search

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"github.com/pdiddy/cite-engine/internal/library"
	"github.com/pdiddy/cite-engine/pkg/types"
)

// Match pairs an entry with its relevance score for one query.
type Match struct {
	Entry types.Entry `json:"entry"`
	Score float64     `json:"score"`
}

// List is a searchable view over a library snapshot. Build a new List
// after each reload; it never mutates the library it was built from.
type List struct {
	entries   []types.Entry
	haystacks []haystack

	// OnSelect is called by Select when the host commits a choice.
	// Nil means selection is a no-op.
	OnSelect func(types.Entry) error

	// RenderItem formats one entry for display in the host's list.
	// Nil uses a "citekey - title (year)" default.
	RenderItem func(types.Entry) string
}

// haystack holds the precomputed normalized text a query is matched
// against, split so citekey hits can rank above body hits.
type haystack struct {
	citekey string
	body    string
}

// NewList builds a searchable view over lib (nil lib → empty list).
func NewList(lib *library.Library) *List {
	entries := lib.Entries()
	haystacks := make([]haystack, len(entries))
	for i, e := range entries {
		body := strings.Join([]string{
			normalize(e.Title),
			normalize(e.AuthorString()),
			normalize(e.ContainerTitle),
			yearString(e.Year),
		}, " ")
		haystacks[i] = haystack{citekey: normalize(e.ID), body: body}
	}
	return &List{entries: entries, haystacks: haystacks}
}

// Search ranks entries against query. Every query token must match
// somewhere in an entry (citekey, title, authors, container, year) for
// the entry to qualify; token matches may be substrings or in-order
// subsequences. An empty query returns every entry, score 0, in
// citekey order, so the host can show the full library before the user
// types. limit <= 0 means no limit.
func (l *List) Search(query string, limit int) []Match {
	tokens := strings.Fields(normalize(query))

	var matches []Match
	for i, e := range l.entries {
		score, ok := l.score(i, tokens)
		if !ok {
			continue
		}
		matches = append(matches, Match{Entry: e, Score: score})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].Score != matches[j].Score {
			return matches[i].Score > matches[j].Score
		}
		return matches[i].Entry.ID < matches[j].Entry.ID
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Token match quality, best first.
const (
	scoreCitekey     = 1.0
	scoreSubstring   = 0.7
	scoreSubsequence = 0.4
)

func (l *List) score(i int, tokens []string) (float64, bool) {
	if len(tokens) == 0 {
		return 0, true
	}
	h := l.haystacks[i]
	var total float64
	for _, tok := range tokens {
		switch {
		case strings.Contains(h.citekey, tok):
			total += scoreCitekey
		case strings.Contains(h.body, tok):
			total += scoreSubstring
		case subsequence(tok, h.citekey) || subsequence(tok, h.body):
			total += scoreSubsequence
		default:
			return 0, false
		}
	}
	return total / float64(len(tokens)), true
}

// Select commits a match through the OnSelect hook.
func (l *List) Select(m Match) error {
	if l.OnSelect == nil {
		return nil
	}
	return l.OnSelect(m.Entry)
}

// Render formats one entry for display.
func (l *List) Render(e types.Entry) string {
	if l.RenderItem != nil {
		return l.RenderItem(e)
	}
	s := e.ID
	if e.Title != "" {
		s += " - " + e.Title
	}
	if e.Year != 0 {
		s += " (" + strconv.Itoa(e.Year) + ")"
	}
	return s
}

// subsequence reports whether every rune of needle appears in hay in
// order, not necessarily adjacent ("smt20" matches "smith2020").
func subsequence(needle, hay string) bool {
	if needle == "" {
		return true
	}
	n := []rune(needle)
	j := 0
	for _, r := range hay {
		if r == n[j] {
			j++
			if j == len(n) {
				return true
			}
		}
	}
	return false
}

// normalize lowercases and strips punctuation, keeping letters, digits
// and spaces, then collapses runs of whitespace.
func normalize(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || unicode.IsSpace(r) {
			b.WriteRune(r)
		}
	}
	return strings.Join(strings.Fields(b.String()), " ")
}

func yearString(year int) string {
	if year == 0 {
		return ""
	}
	return strconv.Itoa(year)
}

// FormatTable writes matches as a human-readable table to w.
func FormatTable(matches []Match, w io.Writer) {
	if len(matches) == 0 {
		fmt.Fprintln(w, "No results found.")
		return
	}

	fmt.Fprintf(w, "%-4s  %-20s  %-50s  %-24s  %-4s  %s\n",
		"Rank", "Citekey", "Title", "Authors", "Year", "Score")
	fmt.Fprintln(w, strings.Repeat("-", 114))

	for i, m := range matches {
		e := m.Entry
		fmt.Fprintf(w, "%-4d  %-20s  %-50s  %-24s  %-4s  %.2f\n",
			i+1, truncate(e.ID, 20), truncate(e.Title, 50),
			truncate(e.AuthorString(), 24), yearString(e.Year), m.Score)
	}

	fmt.Fprintf(w, "\n%d results\n", len(matches))
}

// FormatJSON writes matches as indented JSON to w.
func FormatJSON(matches []Match, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(matches)
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
