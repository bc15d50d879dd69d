// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pdiddy/cite-engine/internal/library"
	"github.com/pdiddy/cite-engine/internal/parser"
	"github.com/pdiddy/cite-engine/pkg/types"
)

func exportLibrary() *library.Library {
	return library.Build([]types.Entry{
		{
			ID:      "smith2020",
			Type:    "article-journal",
			Title:   "A Paper",
			Authors: []types.Name{{Given: "J", Family: "Smith"}},
			Year:    2020,
			DOI:     "10.1000/xyz",
		},
		{ID: "acme2019", Authors: []types.Name{{Literal: "ACME Institute"}}},
	})
}

func TestWriteYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteYAML(exportLibrary(), &buf); err != nil {
		t.Fatal(err)
	}
	out := buf.String()

	for _, want := range []string{
		"id: smith2020",
		"family: Smith",
		"DOI: 10.1000/xyz",
		"- 2020",
		"literal: ACME Institute",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("YAML output missing %q:\n%s", want, out)
		}
	}
	// An entry without a source type falls back to "article".
	if !strings.Contains(out, "type: article\n") {
		t.Errorf("YAML output missing default type:\n%s", out)
	}
}

func TestWriteJSONRoundTripsThroughParser(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteJSON(exportLibrary(), &buf); err != nil {
		t.Fatal(err)
	}

	records, err := parser.Parse(buf.String(), types.FormatCSLJSON, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 2 {
		t.Fatalf("len(records) = %d, want 2", len(records))
	}

	entries := library.AdaptAll(records, nil)
	lib := library.Build(entries)
	e, ok := lib.Entry("smith2020")
	if !ok {
		t.Fatal("smith2020 missing after round trip")
	}
	if e.Year != 2020 || e.AuthorString() != "J. Smith" {
		t.Errorf("round-tripped entry = %+v", e)
	}
}

func TestWriteYAMLEmptyLibrary(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteYAML(library.Build(nil), &buf); err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(buf.String()) != "[]" {
		t.Errorf("empty library output = %q, want []", buf.String())
	}
}
