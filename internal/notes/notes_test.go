// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package notes

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pdiddy/cite-engine/pkg/types"
)

func smithVars() map[string]any {
	return map[string]any{
		"citekey":         "smith2020",
		"title":           "A Paper",
		"authorString":    "J. Smith",
		"year":            2020,
		"zoteroSelectURI": "zotero://select/items/@smith2020",
	}
}

func TestDefaultTemplates(t *testing.T) {
	m, err := NewManager(types.NotesConfig{}, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	title, err := m.Title(smithVars())
	if err != nil {
		t.Fatal(err)
	}
	if title != "@smith2020" {
		t.Errorf("Title = %q, want @smith2020", title)
	}

	link, err := m.Link(smithVars())
	if err != nil {
		t.Fatal(err)
	}
	if link != "[[@smith2020]]" {
		t.Errorf("Link = %q", link)
	}

	cite, err := m.Citation(smithVars(), false)
	if err != nil {
		t.Fatal(err)
	}
	if cite != "[[@smith2020]]" {
		t.Errorf("Citation = %q", cite)
	}

	alt, err := m.Citation(smithVars(), true)
	if err != nil {
		t.Fatal(err)
	}
	if alt != "J. Smith (2020)" {
		t.Errorf("alternative Citation = %q", alt)
	}
}

func TestCreateWritesOnceNeverOverwrites(t *testing.T) {
	root := t.TempDir()
	m, err := NewManager(types.NotesConfig{Folder: "lit"}, root)
	if err != nil {
		t.Fatal(err)
	}

	path, created, err := m.Create(smithVars())
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Fatal("first Create should write the note")
	}
	if filepath.Dir(path) != filepath.Join(root, "lit") {
		t.Errorf("path = %q, want under %s/lit", path, root)
	}

	body, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(body), "# A Paper") {
		t.Errorf("note body = %q", body)
	}

	if err := os.WriteFile(path, []byte("user edits"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, created, err = m.Create(smithVars())
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Error("second Create must not overwrite")
	}
	body, _ = os.ReadFile(path)
	if string(body) != "user edits" {
		t.Errorf("note body = %q, user edits lost", body)
	}

	exists, err := m.Exists(smithVars())
	if err != nil {
		t.Fatal(err)
	}
	if !exists {
		t.Error("Exists = false after Create")
	}
}

func TestPathSanitizesTitle(t *testing.T) {
	m, err := NewManager(types.NotesConfig{TitleTemplate: "{{.title}}"}, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	vars := map[string]any{"title": `A/B: "C"?`}
	path, err := m.Path(vars)
	if err != nil {
		t.Fatal(err)
	}
	if base := filepath.Base(path); base != "A-B- -C--.md" {
		t.Errorf("file name = %q", base)
	}
}

func TestCustomTemplatesAndParseError(t *testing.T) {
	m, err := NewManager(types.NotesConfig{
		CitationTemplate: "({{.authorString}}, {{.year}})",
	}, t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cite, err := m.Citation(smithVars(), false)
	if err != nil {
		t.Fatal(err)
	}
	if cite != "(J. Smith, 2020)" {
		t.Errorf("Citation = %q", cite)
	}

	if _, err := NewManager(types.NotesConfig{TitleTemplate: "{{.broken"}, t.TempDir()); err == nil {
		t.Error("malformed template should fail at construction")
	}
}
