// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for cite-engine: the
// normalized bibliography Entry, the export Format enum, and the
// configuration structs each stage consumes.
package types

import (
	"fmt"
	"strings"
	"unicode"
)

// Format identifies a bibliography export format. The format is a
// configuration choice, never auto-detected from file contents.
type Format string

const (
	FormatBibLaTeX Format = "biblatex"
	FormatCSLJSON  Format = "csl-json"
)

// ParseFormat validates a format string from configuration or flags.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatBibLaTeX:
		return FormatBibLaTeX, nil
	case FormatCSLJSON:
		return FormatCSLJSON, nil
	default:
		return "", fmt.Errorf("unknown bibliography format %q: use biblatex or csl-json", s)
	}
}

// Name holds one author name split into CSL-style parts. Names that
// cannot be split (institutions, single-token names) use Literal.
type Name struct {
	Given   string `json:"given,omitempty" yaml:"given,omitempty"`
	Family  string `json:"family,omitempty" yaml:"family,omitempty"`
	Literal string `json:"literal,omitempty" yaml:"literal,omitempty"`
}

// Entry is one normalized bibliography record. Both export formats
// adapt into this shape; the citekey (ID) is the key used everywhere
// downstream.
type Entry struct {
	// ID is the citekey: unique within a library, stable across reloads
	// as long as the source record is unchanged.
	ID string `json:"id" yaml:"id"`

	// Type is the record type ("article", "book", ...), as named by the
	// source format.
	Type string `json:"type,omitempty" yaml:"type,omitempty"`

	// Title is the work's title.
	Title string `json:"title,omitempty" yaml:"title,omitempty"`

	// Authors lists the authors in source order.
	Authors []Name `json:"authors,omitempty" yaml:"authors,omitempty"`

	// Year is the publication year, 0 when the source carries no date.
	Year int `json:"year,omitempty" yaml:"year,omitempty"`

	// ContainerTitle is the journal, book, or proceedings title.
	ContainerTitle string `json:"container_title,omitempty" yaml:"container_title,omitempty"`

	// Page is the page range as written in the source.
	Page string `json:"page,omitempty" yaml:"page,omitempty"`

	// DOI is the digital object identifier, without resolver prefix.
	DOI string `json:"doi,omitempty" yaml:"doi,omitempty"`

	// Abstract is the abstract text when the export carries one.
	Abstract string `json:"abstract,omitempty" yaml:"abstract,omitempty"`

	// Files lists attached file paths in source order.
	Files []string `json:"files,omitempty" yaml:"files,omitempty"`

	// ZoteroSelectURI is an opaque locator the reference manager can
	// open ("zotero://select/items/@<citekey>").
	ZoteroSelectURI string `json:"zotero_select_uri,omitempty" yaml:"zotero_select_uri,omitempty"`

	// Extra preserves format-specific fields not covered above, with
	// scalar values stringified, for template use.
	Extra map[string]string `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// AuthorString renders Authors as a single deterministic string:
// given-name initials followed by the family name, authors joined with
// ", " ("J. Smith, A. B. Doe"). It is a pure function of Authors.
func (e Entry) AuthorString() string {
	parts := make([]string, 0, len(e.Authors))
	for _, n := range e.Authors {
		if s := n.String(); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, ", ")
}

// String renders one name as initials + family ("J. Smith"). Literal
// names render as-is.
func (n Name) String() string {
	if n.Literal != "" {
		return n.Literal
	}
	given := initials(n.Given)
	switch {
	case given == "":
		return n.Family
	case n.Family == "":
		return given
	default:
		return given + " " + n.Family
	}
}

// initials reduces a given name to dotted initials: "Jane" → "J.",
// "John Ronald Reuel" → "J. R. R.", "J." → "J.".
func initials(given string) string {
	fields := strings.FieldsFunc(given, func(r rune) bool {
		return unicode.IsSpace(r) || r == '.'
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		r := []rune(f)
		out = append(out, string(r[0])+".")
	}
	return strings.Join(out, " ")
}
