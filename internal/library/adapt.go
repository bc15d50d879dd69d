// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package library normalizes raw bibliography records into Entries and
// indexes them by citekey. A Library is built once from a parsed batch
// and is read-only afterwards; reloading builds a new Library.
package library

import (
	"encoding/json"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/pdiddy/cite-engine/internal/parser"
	"github.com/pdiddy/cite-engine/pkg/types"
)

// AdapterError reports a raw record that cannot be normalized because
// its identifying key (BibLaTeX entry key, CSL-JSON "id") is missing or
// empty. Missing optional fields are never an error.
type AdapterError struct {
	Format types.Format
	Detail string
}

func (e *AdapterError) Error() string {
	return fmt.Sprintf("%s record has no citekey (%s)", e.Format, e.Detail)
}

// Adapt normalizes one raw record into an Entry.
func Adapt(rec parser.RawRecord) (types.Entry, error) {
	switch rec.Format {
	case types.FormatBibLaTeX:
		return adaptBibLaTeX(rec)
	case types.FormatCSLJSON:
		return adaptCSLJSON(rec)
	default:
		return types.Entry{}, fmt.Errorf("unsupported record format %q", rec.Format)
	}
}

// AdaptAll normalizes a batch in source order. Records that fail to
// adapt are skipped with a diagnostic on w; the rest of the batch
// survives.
func AdaptAll(records []parser.RawRecord, w io.Writer) []types.Entry {
	if w == nil {
		w = io.Discard
	}
	entries := make([]types.Entry, 0, len(records))
	for i, rec := range records {
		entry, err := Adapt(rec)
		if err != nil {
			fmt.Fprintf(w, "warning: skipping record %d: %v\n", i+1, err)
			continue
		}
		entries = append(entries, entry)
	}
	return entries
}

// consumedBibFields are BibLaTeX fields mapped onto named Entry fields;
// everything else passes through into Extra.
var consumedBibFields = map[string]bool{
	"title": true, "author": true, "year": true, "date": true,
	"journaltitle": true, "journal": true, "booktitle": true,
	"pages": true, "page": true, "doi": true, "abstract": true,
	"file": true,
}

func adaptBibLaTeX(rec parser.RawRecord) (types.Entry, error) {
	if rec.Key == "" {
		return types.Entry{}, &AdapterError{
			Format: types.FormatBibLaTeX,
			Detail: fmt.Sprintf("@%s entry", rec.Type),
		}
	}

	f := rec.Fields
	entry := types.Entry{
		ID:              rec.Key,
		Type:            rec.Type,
		Title:           stripBraces(f["title"]),
		Authors:         parseBibNames(f["author"]),
		Year:            extractYear(f["year"], f["date"]),
		ContainerTitle:  stripBraces(firstNonEmpty(f["journaltitle"], f["journal"], f["booktitle"])),
		Page:            firstNonEmpty(f["pages"], f["page"]),
		DOI:             f["doi"],
		Abstract:        f["abstract"],
		Files:           parseFileField(f["file"]),
		ZoteroSelectURI: zoteroSelectURI(rec.Key),
	}

	for name, value := range f {
		if consumedBibFields[name] {
			continue
		}
		if entry.Extra == nil {
			entry.Extra = make(map[string]string)
		}
		entry.Extra[name] = value
	}
	return entry, nil
}

// consumedCSLFields are CSL-JSON keys mapped onto named Entry fields.
var consumedCSLFields = map[string]bool{
	"id": true, "type": true, "title": true, "author": true,
	"issued": true, "container-title": true, "page": true,
	"DOI": true, "abstract": true,
}

func adaptCSLJSON(rec parser.RawRecord) (types.Entry, error) {
	obj := rec.Object
	id := asString(obj["id"])
	if id == "" {
		return types.Entry{}, &AdapterError{
			Format: types.FormatCSLJSON,
			Detail: fmt.Sprintf("object with title %q", asString(obj["title"])),
		}
	}

	entry := types.Entry{
		ID:              id,
		Type:            asString(obj["type"]),
		Title:           asString(obj["title"]),
		Authors:         parseCSLNames(obj["author"]),
		Year:            cslYear(obj["issued"]),
		ContainerTitle:  asString(obj["container-title"]),
		Page:            asString(obj["page"]),
		DOI:             asString(obj["DOI"]),
		Abstract:        asString(obj["abstract"]),
		ZoteroSelectURI: zoteroSelectURI(id),
	}

	for key, value := range obj {
		if consumedCSLFields[key] {
			continue
		}
		s := asString(value)
		if s == "" {
			// Structured values (nested objects, arrays) are not
			// template material; drop them rather than guess a rendering.
			continue
		}
		if entry.Extra == nil {
			entry.Extra = make(map[string]string)
		}
		entry.Extra[key] = s
	}
	return entry, nil
}

// zoteroSelectURI builds the opaque locator Zotero understands for a
// citekey managed by Better BibTeX.
func zoteroSelectURI(citekey string) string {
	return "zotero://select/items/@" + citekey
}

// parseBibNames splits a BibLaTeX author field on " and " and each name
// into given/family parts. "Family, Given" is the canonical form; plain
// "Given Family" names split on the last space, the same rule the CSL
// formatter in this repo's ancestry uses. A fully braced name is an
// institution and stays literal.
func parseBibNames(field string) []types.Name {
	field = strings.Join(strings.Fields(field), " ")
	if field == "" {
		return nil
	}
	var names []types.Name
	for _, part := range strings.Split(field, " and ") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			names = append(names, types.Name{Literal: stripBraces(part)})
			continue
		}
		if i := strings.Index(part, ","); i >= 0 {
			names = append(names, types.Name{
				Family: strings.TrimSpace(part[:i]),
				Given:  strings.TrimSpace(part[i+1:]),
			})
			continue
		}
		if i := strings.LastIndex(part, " "); i >= 0 {
			names = append(names, types.Name{
				Given:  part[:i],
				Family: part[i+1:],
			})
			continue
		}
		names = append(names, types.Name{Literal: part})
	}
	return names
}

// parseCSLNames decodes a CSL-JSON author array of {family, given,
// literal} objects.
func parseCSLNames(v any) []types.Name {
	arr, ok := v.([]any)
	if !ok {
		return nil
	}
	var names []types.Name
	for _, elem := range arr {
		obj, ok := elem.(map[string]any)
		if !ok {
			continue
		}
		name := types.Name{
			Family:  asString(obj["family"]),
			Given:   asString(obj["given"]),
			Literal: asString(obj["literal"]),
		}
		if name.Family == "" && name.Given == "" && name.Literal == "" {
			continue
		}
		names = append(names, name)
	}
	return names
}

// yearPattern finds the first four-digit run in a year or date field
// ("2020", "2020-01-15", "c. 2020").
var yearPattern = regexp.MustCompile(`\d{4}`)

func extractYear(yearField, dateField string) int {
	for _, field := range []string{yearField, dateField} {
		if m := yearPattern.FindString(field); m != "" {
			y, _ := strconv.Atoi(m)
			return y
		}
	}
	return 0
}

// cslYear reads issued.date-parts[0][0] from a CSL-JSON issued object.
func cslYear(v any) int {
	obj, ok := v.(map[string]any)
	if !ok {
		return 0
	}
	parts, ok := obj["date-parts"].([]any)
	if !ok || len(parts) == 0 {
		return 0
	}
	first, ok := parts[0].([]any)
	if !ok || len(first) == 0 {
		return 0
	}
	if y, err := strconv.Atoi(asString(first[0])); err == nil {
		return y
	}
	return 0
}

// parseFileField splits a Zotero-style attachment field:
// "description:path:mimetype" entries joined by ";". Windows paths keep
// their drive colon because only the first and last colon delimit.
func parseFileField(field string) []string {
	if field == "" {
		return nil
	}
	var files []string
	for _, attachment := range strings.Split(field, ";") {
		attachment = strings.TrimSpace(attachment)
		if attachment == "" {
			continue
		}
		parts := strings.Split(attachment, ":")
		var path string
		switch {
		case len(parts) >= 3:
			path = strings.Join(parts[1:len(parts)-1], ":")
		default:
			path = parts[0]
		}
		if path != "" {
			files = append(files, path)
		}
	}
	return files
}

// stripBraces removes TeX grouping braces from display text. Values in
// Extra keep their braces; only named display fields are cleaned.
func stripBraces(s string) string {
	if !strings.ContainsAny(s, "{}") {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r != '{' && r != '}' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// asString renders a scalar JSON value for template use. Structured
// values render as "".
func asString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	default:
		return ""
	}
}
