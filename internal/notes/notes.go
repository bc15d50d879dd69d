// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package notes manages literature notes: one note file per citekey,
// named and filled from user-configured templates over the library's
// template variable bundle. The template syntax itself is Go
// text/template; this package only supplies the data and the file
// handling around it.
package notes

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/pdiddy/cite-engine/pkg/types"
)

// Defaults used when the configuration leaves a template empty.
const (
	defaultTitleTemplate    = "@{{.citekey}}"
	defaultContentTemplate  = "# {{.title}}\n\n{{.authorString}} ({{.year}})\n\n[Open in Zotero]({{.zoteroSelectURI}})\n"
	defaultCitationTemplate = "[[@{{.citekey}}]]"
	defaultAltCitation      = "{{.authorString}} ({{.year}})"
)

// Manager renders and creates literature notes under one folder.
type Manager struct {
	folder      string
	title       *template.Template
	content     *template.Template
	citation    *template.Template
	altCitation *template.Template
}

// NewManager compiles the configured templates. A template that fails
// to parse is a configuration error reported up front, not at first
// use. Relative note folders resolve against workspaceRoot.
func NewManager(cfg types.NotesConfig, workspaceRoot string) (*Manager, error) {
	folder := cfg.Folder
	if folder == "" {
		folder = "notes"
	}
	if !filepath.IsAbs(folder) {
		folder = filepath.Join(workspaceRoot, folder)
	}

	m := &Manager{folder: folder}
	for _, t := range []struct {
		name string
		text string
		def  string
		dst  **template.Template
	}{
		{"title", cfg.TitleTemplate, defaultTitleTemplate, &m.title},
		{"content", cfg.ContentTemplate, defaultContentTemplate, &m.content},
		{"citation", cfg.CitationTemplate, defaultCitationTemplate, &m.citation},
		{"alt_citation", cfg.AltCitationTemplate, defaultAltCitation, &m.altCitation},
	} {
		text := t.text
		if text == "" {
			text = t.def
		}
		tmpl, err := template.New(t.name).Parse(text)
		if err != nil {
			return nil, fmt.Errorf("parsing %s template: %w", t.name, err)
		}
		*t.dst = tmpl
	}
	return m, nil
}

// Folder returns the absolute literature-note folder.
func (m *Manager) Folder() string {
	return m.folder
}

// Title renders the note title for one variable bundle.
func (m *Manager) Title(vars map[string]any) (string, error) {
	return render(m.title, vars)
}

// Path returns the note file path for one variable bundle: the
// rendered title, sanitized for the filesystem, under the note folder.
func (m *Manager) Path(vars map[string]any) (string, error) {
	title, err := m.Title(vars)
	if err != nil {
		return "", err
	}
	return filepath.Join(m.folder, sanitizeFilename(title)+".md"), nil
}

// Exists reports whether the note for this bundle is already on disk.
func (m *Manager) Exists(vars map[string]any) (bool, error) {
	path, err := m.Path(vars)
	if err != nil {
		return false, err
	}
	_, err = os.Stat(path)
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, err
}

// Create writes the note for this bundle unless it already exists, and
// returns its path and whether a file was created. An existing note is
// never overwritten.
func (m *Manager) Create(vars map[string]any) (string, bool, error) {
	path, err := m.Path(vars)
	if err != nil {
		return "", false, err
	}
	if _, err := os.Stat(path); err == nil {
		return path, false, nil
	}

	body, err := render(m.content, vars)
	if err != nil {
		return "", false, err
	}
	if err := os.MkdirAll(m.folder, 0o755); err != nil {
		return "", false, fmt.Errorf("creating note folder: %w", err)
	}
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		return "", false, fmt.Errorf("writing note: %w", err)
	}
	return path, true, nil
}

// Link renders the wiki-link text for the note ("[[title]]").
func (m *Manager) Link(vars map[string]any) (string, error) {
	title, err := m.Title(vars)
	if err != nil {
		return "", err
	}
	return "[[" + title + "]]", nil
}

// Content renders the note body without touching the filesystem, for
// hosts that insert note content into the current editor.
func (m *Manager) Content(vars map[string]any) (string, error) {
	return render(m.content, vars)
}

// Citation renders the primary citation, or the alternative variant.
func (m *Manager) Citation(vars map[string]any, alternative bool) (string, error) {
	if alternative {
		return render(m.altCitation, vars)
	}
	return render(m.citation, vars)
}

func render(tmpl *template.Template, vars map[string]any) (string, error) {
	var b strings.Builder
	if err := tmpl.Execute(&b, vars); err != nil {
		return "", fmt.Errorf("rendering %s template: %w", tmpl.Name(), err)
	}
	return b.String(), nil
}

// sanitizeFilename replaces characters that are path separators or
// forbidden on common filesystems.
func sanitizeFilename(name string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		default:
			return r
		}
	}, name)
}
