package types

import "time"

// LibraryConfig holds settings for the bibliography source file.
type LibraryConfig struct {
	// Path is the export file written by the reference manager. A
	// relative path is resolved against the workspace root.
	Path string `json:"path" yaml:"path"`

	// Format selects the export format: biblatex or csl-json.
	Format Format `json:"format" yaml:"format"`
}

// WatchConfig holds settings for the source watcher.
type WatchConfig struct {
	// StabilityWindow is how long the watched file must stay quiet
	// after a change before a reload is triggered (default 500ms).
	// Reference managers write exports in several chunks; the window
	// absorbs the intermediate events.
	StabilityWindow time.Duration `json:"stability_window" yaml:"stability_window"`
}

// NotesConfig holds settings for literature note generation.
type NotesConfig struct {
	// Folder is the directory literature notes are created in,
	// resolved against the workspace root when relative.
	Folder string `json:"folder" yaml:"folder"`

	// TitleTemplate renders a note's title (and file stem) from the
	// template variable bundle (e.g. "@{{.citekey}}").
	TitleTemplate string `json:"title_template" yaml:"title_template"`

	// ContentTemplate renders the initial body of a new note.
	ContentTemplate string `json:"content_template" yaml:"content_template"`

	// CitationTemplate renders the primary in-text citation.
	CitationTemplate string `json:"citation_template" yaml:"citation_template"`

	// AltCitationTemplate renders the alternative citation variant.
	AltCitationTemplate string `json:"alt_citation_template" yaml:"alt_citation_template"`
}

// IndexConfig holds settings for the persistent full-text index.
type IndexConfig struct {
	// Dir is the directory holding the SQLite index database.
	Dir string `json:"dir" yaml:"dir"`

	// MaxResults is the default maximum number of query results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// Config groups all cite-engine settings.
type Config struct {
	Library LibraryConfig `json:"library" yaml:"library"`
	Watch   WatchConfig   `json:"watch" yaml:"watch"`
	Notes   NotesConfig   `json:"notes" yaml:"notes"`
	Index   IndexConfig   `json:"index" yaml:"index"`
}

// DefaultStabilityWindow is used when WatchConfig.StabilityWindow is unset.
const DefaultStabilityWindow = 500 * time.Millisecond
