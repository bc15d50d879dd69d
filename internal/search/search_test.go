// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package search

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pdiddy/cite-engine/internal/library"
	"github.com/pdiddy/cite-engine/pkg/types"
)

func testList(t *testing.T) *List {
	t.Helper()
	lib := library.Build([]types.Entry{
		{ID: "smith2020", Title: "Distributed Consensus", Authors: []types.Name{{Given: "J", Family: "Smith"}}, Year: 2020},
		{ID: "doe2019", Title: "Consensus in Smith Groups", Authors: []types.Name{{Given: "A", Family: "Doe"}}, Year: 2019},
		{ID: "lee2021", Title: "Vector Clocks", Authors: []types.Name{{Given: "K", Family: "Lee"}}, Year: 2021},
	})
	return NewList(lib)
}

func TestSearchCitekeyOutranksBodyMatch(t *testing.T) {
	l := testList(t)

	matches := l.Search("smith", 0)
	if len(matches) != 2 {
		t.Fatalf("len(matches) = %d, want 2", len(matches))
	}
	if matches[0].Entry.ID != "smith2020" {
		t.Errorf("top match = %q, want citekey hit smith2020", matches[0].Entry.ID)
	}
	if matches[1].Entry.ID != "doe2019" {
		t.Errorf("second match = %q, want title hit doe2019", matches[1].Entry.ID)
	}
	if matches[0].Score <= matches[1].Score {
		t.Errorf("scores %v not ordered", matches)
	}
}

func TestSearchAllTokensMustMatch(t *testing.T) {
	l := testList(t)

	matches := l.Search("consensus smith", 0)
	got := make([]string, len(matches))
	for i, m := range matches {
		got[i] = m.Entry.ID
	}
	// lee2021 matches neither token; the other two match both.
	if len(matches) != 2 {
		t.Fatalf("matches = %v, want smith2020 and doe2019", got)
	}

	if matches := l.Search("consensus zebra", 0); len(matches) != 0 {
		t.Errorf("no entry matches both tokens, got %v", matches)
	}
}

func TestSearchSubsequenceFallback(t *testing.T) {
	l := testList(t)

	matches := l.Search("smt2020", 0)
	if len(matches) != 1 || matches[0].Entry.ID != "smith2020" {
		t.Fatalf("matches = %+v, want the fuzzy citekey hit", matches)
	}
	if matches[0].Score != scoreSubsequence {
		t.Errorf("Score = %v, want %v", matches[0].Score, scoreSubsequence)
	}
}

func TestSearchEmptyQueryListsEverything(t *testing.T) {
	l := testList(t)

	matches := l.Search("", 0)
	if len(matches) != 3 {
		t.Fatalf("len(matches) = %d, want 3", len(matches))
	}
	if matches[0].Entry.ID != "doe2019" {
		t.Errorf("empty query should list in citekey order, got %q first", matches[0].Entry.ID)
	}
}

func TestSearchLimit(t *testing.T) {
	l := testList(t)

	if matches := l.Search("", 2); len(matches) != 2 {
		t.Errorf("len(matches) = %d, want limit 2 applied", len(matches))
	}
}

func TestSelectHook(t *testing.T) {
	l := testList(t)

	var selected string
	l.OnSelect = func(e types.Entry) error {
		selected = e.ID
		return nil
	}

	matches := l.Search("lee2021", 1)
	if len(matches) != 1 {
		t.Fatal("expected one match")
	}
	if err := l.Select(matches[0]); err != nil {
		t.Fatal(err)
	}
	if selected != "lee2021" {
		t.Errorf("selected = %q, want lee2021", selected)
	}
}

func TestRenderDefaultAndHook(t *testing.T) {
	l := testList(t)
	e := types.Entry{ID: "smith2020", Title: "Distributed Consensus", Year: 2020}

	if got := l.Render(e); got != "smith2020 - Distributed Consensus (2020)" {
		t.Errorf("Render = %q", got)
	}

	l.RenderItem = func(e types.Entry) string { return "@" + e.ID }
	if got := l.Render(e); got != "@smith2020" {
		t.Errorf("Render with hook = %q", got)
	}
}

func TestFormatTable(t *testing.T) {
	l := testList(t)
	var buf bytes.Buffer

	FormatTable(l.Search("consensus", 0), &buf)
	out := buf.String()
	if !strings.Contains(out, "smith2020") || !strings.Contains(out, "2 results") {
		t.Errorf("table output = %q", out)
	}

	buf.Reset()
	FormatTable(nil, &buf)
	if !strings.Contains(buf.String(), "No results found.") {
		t.Errorf("empty table output = %q", buf.String())
	}
}
