// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parser turns raw bibliography export bytes into a sequence of
// format-specific raw records. Two export formats are supported:
// BibLaTeX text and CSL-JSON arrays. Raw records are transient; the
// library adapters consume them immediately.
package parser

import (
	"fmt"
	"io"

	"github.com/pdiddy/cite-engine/pkg/types"
)

// RawRecord is one parsed bibliography record before normalization.
// Exactly one of the per-format shapes is populated: Key/Type/Fields
// for BibLaTeX, Object for CSL-JSON.
type RawRecord struct {
	Format types.Format

	// Key is the BibLaTeX citation key ("smith2020" in @article{smith2020, ...}).
	Key string

	// Type is the lowercased BibLaTeX entry type ("article", "book").
	Type string

	// Fields maps lowercased BibLaTeX field names to their raw values,
	// outer braces or quotes stripped. Crossref values are kept as-is,
	// never expanded.
	Fields map[string]string

	// Object is the decoded CSL-JSON object. Numbers are json.Number.
	Object map[string]any
}

// ParseError reports a whole-document parse failure. BibLaTeX parsing
// recovers per entry and never returns one; CSL-JSON parsing is strict
// and fails the whole document.
type ParseError struct {
	Format types.Format
	Err    error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parsing %s document: %v", e.Format, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Parse decodes content according to format and returns the records in
// source order. Diagnostics for recoverable per-entry failures are
// written to w; w may be nil to discard them.
func Parse(content string, format types.Format, w io.Writer) ([]RawRecord, error) {
	if w == nil {
		w = io.Discard
	}
	switch format {
	case types.FormatBibLaTeX:
		return parseBibLaTeX(content, w), nil
	case types.FormatCSLJSON:
		return parseCSLJSON(content)
	default:
		return nil, fmt.Errorf("unsupported bibliography format %q", format)
	}
}
