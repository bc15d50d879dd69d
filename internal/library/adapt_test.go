// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package library

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/pdiddy/cite-engine/internal/parser"
	"github.com/pdiddy/cite-engine/pkg/types"
)

func parseOne(t *testing.T, content string, format types.Format) parser.RawRecord {
	t.Helper()
	records, err := parser.Parse(content, format, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("len(records) = %d, want 1", len(records))
	}
	return records[0]
}

func TestAdaptCSLJSON(t *testing.T) {
	rec := parseOne(t, `[{"id":"smith2020","title":"A Paper","author":[{"family":"Smith","given":"J"}],"issued":{"date-parts":[[2020]]}}]`,
		types.FormatCSLJSON)

	entry, err := Adapt(rec)
	if err != nil {
		t.Fatal(err)
	}
	if entry.ID != "smith2020" {
		t.Errorf("ID = %q, want %q", entry.ID, "smith2020")
	}
	if entry.Title != "A Paper" {
		t.Errorf("Title = %q, want %q", entry.Title, "A Paper")
	}
	if entry.Year != 2020 {
		t.Errorf("Year = %d, want 2020", entry.Year)
	}
	if got := entry.AuthorString(); got != "J. Smith" {
		t.Errorf("AuthorString = %q, want %q", got, "J. Smith")
	}
	if entry.ZoteroSelectURI != "zotero://select/items/@smith2020" {
		t.Errorf("ZoteroSelectURI = %q", entry.ZoteroSelectURI)
	}
}

func TestAdaptCSLJSONPassThroughFields(t *testing.T) {
	rec := parseOne(t, `[{"id":"a1","title":"T","publisher":"ACM","volume":12,"note":"read me","author":[{"family":"Doe"}]}]`,
		types.FormatCSLJSON)

	entry, err := Adapt(rec)
	if err != nil {
		t.Fatal(err)
	}
	if entry.Extra["publisher"] != "ACM" {
		t.Errorf(`Extra["publisher"] = %q, want "ACM"`, entry.Extra["publisher"])
	}
	if entry.Extra["volume"] != "12" {
		t.Errorf(`Extra["volume"] = %q, want "12"`, entry.Extra["volume"])
	}
	if _, ok := entry.Extra["title"]; ok {
		t.Error("title should not appear in Extra")
	}
	if _, ok := entry.Extra["author"]; ok {
		t.Error("structured author value should not appear in Extra")
	}
}

func TestAdaptCSLJSONMissingID(t *testing.T) {
	rec := parseOne(t, `[{"title":"No Key"}]`, types.FormatCSLJSON)

	_, err := Adapt(rec)
	var ae *AdapterError
	if !errors.As(err, &ae) {
		t.Fatalf("err = %v, want *AdapterError", err)
	}
	if ae.Format != types.FormatCSLJSON {
		t.Errorf("Format = %q, want csl-json", ae.Format)
	}
}

func TestAdaptBibLaTeX(t *testing.T) {
	doc := `@article{doe2019,
  title = {The {Go} Programming Language},
  author = {Doe, Alice Beth and Charlie Delta and {ACME Institute}},
  date = {2019-03-01},
  journaltitle = {Systems Journal},
  pages = {10--20},
  doi = {10.1000/abc},
  publisher = {ACM},
  file = {Full Text:/home/u/papers/doe2019.pdf:application/pdf},
}`
	rec := parseOne(t, doc, types.FormatBibLaTeX)

	entry, err := Adapt(rec)
	if err != nil {
		t.Fatal(err)
	}
	if entry.ID != "doe2019" {
		t.Errorf("ID = %q, want doe2019", entry.ID)
	}
	if entry.Title != "The Go Programming Language" {
		t.Errorf("Title = %q (braces should be stripped)", entry.Title)
	}
	if entry.Year != 2019 {
		t.Errorf("Year = %d, want 2019", entry.Year)
	}
	if entry.ContainerTitle != "Systems Journal" {
		t.Errorf("ContainerTitle = %q", entry.ContainerTitle)
	}
	if entry.Page != "10--20" {
		t.Errorf("Page = %q", entry.Page)
	}
	if len(entry.Authors) != 3 {
		t.Fatalf("len(Authors) = %d, want 3", len(entry.Authors))
	}
	if entry.Authors[0].Family != "Doe" || entry.Authors[0].Given != "Alice Beth" {
		t.Errorf("Authors[0] = %+v, want Family=Doe Given=Alice Beth", entry.Authors[0])
	}
	if entry.Authors[1].Family != "Delta" || entry.Authors[1].Given != "Charlie" {
		t.Errorf("Authors[1] = %+v, want Family=Delta Given=Charlie", entry.Authors[1])
	}
	if entry.Authors[2].Literal != "ACME Institute" {
		t.Errorf("Authors[2] = %+v, want literal ACME Institute", entry.Authors[2])
	}
	if got := entry.AuthorString(); got != "A. B. Doe, C. Delta, ACME Institute" {
		t.Errorf("AuthorString = %q", got)
	}
	if len(entry.Files) != 1 || entry.Files[0] != "/home/u/papers/doe2019.pdf" {
		t.Errorf("Files = %v", entry.Files)
	}
	if entry.Extra["publisher"] != "ACM" {
		t.Errorf(`Extra["publisher"] = %q, want ACM`, entry.Extra["publisher"])
	}
}

func TestAdaptBibLaTeXWindowsFilePath(t *testing.T) {
	doc := `@book{b1, title={T}, file={Attachment:C:\papers\b1.pdf:application/pdf}}`
	rec := parseOne(t, doc, types.FormatBibLaTeX)

	entry, err := Adapt(rec)
	if err != nil {
		t.Fatal(err)
	}
	if len(entry.Files) != 1 || entry.Files[0] != `C:\papers\b1.pdf` {
		t.Errorf("Files = %v, want the drive colon preserved", entry.Files)
	}
}

func TestAdaptBibLaTeXMissingKey(t *testing.T) {
	rec := parseOne(t, `@misc{, title = {Orphan}}`, types.FormatBibLaTeX)

	_, err := Adapt(rec)
	var ae *AdapterError
	if !errors.As(err, &ae) {
		t.Fatalf("err = %v, want *AdapterError", err)
	}
}

func TestAdaptAllSkipsBadRecords(t *testing.T) {
	records, err := parser.Parse(`[{"id":"ok1"},{"title":"no id"},{"id":"ok2"}]`, types.FormatCSLJSON, nil)
	if err != nil {
		t.Fatal(err)
	}

	var diag bytes.Buffer
	entries := AdaptAll(records, &diag)
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d, want 2", len(entries))
	}
	if entries[0].ID != "ok1" || entries[1].ID != "ok2" {
		t.Errorf("entries = %v, %v", entries[0].ID, entries[1].ID)
	}
	if !strings.Contains(diag.String(), "skipping record 2") {
		t.Errorf("diagnostic %q should name record 2", diag.String())
	}
}
