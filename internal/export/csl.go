// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package export writes the loaded library back out as CSL items, for
// feeding Pandoc or another reference manager. YAML is the default;
// JSON round-trips through the CSL-JSON parser.
package export

import (
	"encoding/json"
	"io"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/cite-engine/internal/library"
	"github.com/pdiddy/cite-engine/pkg/types"
)

// CSLItem is one bibliographic entry in CSL (Citation Style Language)
// shape. Field names follow the CSL-JSON/CSL-YAML schema so output is
// consumable by Pandoc and reference managers.
type CSLItem struct {
	ID             string    `yaml:"id" json:"id"`
	Type           string    `yaml:"type" json:"type"`
	Title          string    `yaml:"title,omitempty" json:"title,omitempty"`
	Author         []CSLName `yaml:"author,omitempty" json:"author,omitempty"`
	ContainerTitle string    `yaml:"container-title,omitempty" json:"container-title,omitempty"`
	Page           string    `yaml:"page,omitempty" json:"page,omitempty"`
	Abstract       string    `yaml:"abstract,omitempty" json:"abstract,omitempty"`
	Issued         *CSLDate  `yaml:"issued,omitempty" json:"issued,omitempty"`
	DOI            string    `yaml:"DOI,omitempty" json:"DOI,omitempty"`
}

// CSLName represents a person's name in CSL format.
type CSLName struct {
	Family  string `yaml:"family,omitempty" json:"family,omitempty"`
	Given   string `yaml:"given,omitempty" json:"given,omitempty"`
	Literal string `yaml:"literal,omitempty" json:"literal,omitempty"`
}

// CSLDate represents a date in CSL format using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts" json:"date-parts"`
}

// WriteYAML writes the library as a CSL-YAML list to w, in citekey order.
func WriteYAML(lib *library.Library, w io.Writer) error {
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items(lib))
}

// WriteJSON writes the library as a CSL-JSON array to w, in citekey order.
func WriteJSON(lib *library.Library, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(items(lib))
}

func items(lib *library.Library) []CSLItem {
	entries := lib.Entries()
	out := make([]CSLItem, len(entries))
	for i, e := range entries {
		out[i] = toCSLItem(e)
	}
	return out
}

func toCSLItem(e types.Entry) CSLItem {
	item := CSLItem{
		ID:             e.ID,
		Type:           e.Type,
		Title:          e.Title,
		ContainerTitle: e.ContainerTitle,
		Page:           e.Page,
		Abstract:       e.Abstract,
		DOI:            e.DOI,
	}
	if item.Type == "" {
		item.Type = "article"
	}
	for _, a := range e.Authors {
		item.Author = append(item.Author, CSLName{
			Family:  a.Family,
			Given:   a.Given,
			Literal: a.Literal,
		})
	}
	if e.Year != 0 {
		item.Issued = &CSLDate{DateParts: [][]int{{e.Year}}}
	}
	return item
}
