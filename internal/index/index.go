// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package index maintains a persistent SQLite full-text index of the
// loaded library. The in-memory library answers citekey lookups and
// fuzzy title search; this index adds abstract-level full-text queries
// that survive restarts without re-reading the export file.
package index

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/cite-engine/internal/library"
	"github.com/pdiddy/cite-engine/pkg/types"
)

const dbFile = "library.db"

// Index wraps the SQLite database holding the searchable library copy.
type Index struct {
	db         *sql.DB
	maxResults int
}

// Open opens or creates the index database under cfg.Dir, creating the
// schema when missing.
func Open(cfg types.IndexConfig) (*Index, error) {
	dir := cfg.Dir
	if dir == "" {
		dir = ".cite-engine"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating index directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening index database: %w", err)
	}

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = 20
	}

	ix := &Index{db: db, maxResults: maxResults}
	if err := ix.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating index schema: %w", err)
	}
	return ix, nil
}

// Close releases the database connection.
func (ix *Index) Close() error {
	return ix.db.Close()
}

func (ix *Index) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS entries (
			citekey TEXT PRIMARY KEY,
			entry_type TEXT,
			title TEXT,
			authors TEXT,
			year INTEGER,
			container_title TEXT,
			doi TEXT,
			abstract TEXT
		)`,
	}
	for _, stmt := range statements {
		if _, err := ix.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	// FTS5 virtual table with triggers for sync.
	var ftsExists int
	if err := ix.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='entries_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists != 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE entries_fts USING fts5(
			citekey, title, authors, container_title, abstract,
			content=entries, content_rowid=rowid)`,
		`CREATE TRIGGER entries_ai AFTER INSERT ON entries BEGIN
			INSERT INTO entries_fts(rowid, citekey, title, authors, container_title, abstract)
			VALUES (new.rowid, new.citekey, new.title, new.authors, new.container_title, new.abstract);
		END`,
		`CREATE TRIGGER entries_ad AFTER DELETE ON entries BEGIN
			INSERT INTO entries_fts(entries_fts, rowid, citekey, title, authors, container_title, abstract)
			VALUES ('delete', old.rowid, old.citekey, old.title, old.authors, old.container_title, old.abstract);
		END`,
		`CREATE TRIGGER entries_au AFTER UPDATE ON entries BEGIN
			INSERT INTO entries_fts(entries_fts, rowid, citekey, title, authors, container_title, abstract)
			VALUES ('delete', old.rowid, old.citekey, old.title, old.authors, old.container_title, old.abstract);
			INSERT INTO entries_fts(rowid, citekey, title, authors, container_title, abstract)
			VALUES (new.rowid, new.citekey, new.title, new.authors, new.container_title, new.abstract);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := ix.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// Rebuild replaces the indexed copy with the given library in one
// transaction and returns the number of entries written. The index is
// rebuilt wholesale on each load: the library is small and wholesale
// replacement keeps deletions correct without change tracking.
func (ix *Index) Rebuild(ctx context.Context, lib *library.Library) (int, error) {
	tx, err := ix.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM entries`); err != nil {
		return 0, fmt.Errorf("clearing old entries: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO entries (citekey, entry_type, title, authors, year, container_title, doi, abstract)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	count := 0
	for _, e := range lib.Entries() {
		_, err := stmt.ExecContext(ctx,
			e.ID, e.Type, e.Title, e.AuthorString(), e.Year,
			e.ContainerTitle, e.DOI, e.Abstract)
		if err != nil {
			return 0, fmt.Errorf("indexing entry %s: %w", e.ID, err)
		}
		count++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing rebuild: %w", err)
	}
	return count, nil
}

// Result is one full-text hit with a context snippet.
type Result struct {
	Citekey string `json:"citekey"`
	Title   string `json:"title"`
	Authors string `json:"authors"`
	Year    int    `json:"year"`
	Snippet string `json:"snippet"`
}

// Search runs an FTS5 query, ranked by bm25. User input is turned into
// quoted prefix terms joined by implicit AND, so punctuation in titles
// cannot break the match syntax. limit <= 0 uses the configured default.
func (ix *Index) Search(ctx context.Context, query string, limit int) ([]Result, error) {
	match := matchExpression(query)
	if match == "" {
		return nil, fmt.Errorf("query is empty")
	}
	if limit <= 0 {
		limit = ix.maxResults
	}

	rows, err := ix.db.QueryContext(ctx,
		`SELECT e.citekey, e.title, e.authors, e.year,
		        snippet(entries_fts, 4, '[', ']', '…', 12)
		 FROM entries_fts
		 JOIN entries e ON e.rowid = entries_fts.rowid
		 WHERE entries_fts MATCH ?
		 ORDER BY bm25(entries_fts)
		 LIMIT ?`, match, limit)
	if err != nil {
		return nil, fmt.Errorf("querying index: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		if err := rows.Scan(&r.Citekey, &r.Title, &r.Authors, &r.Year, &r.Snippet); err != nil {
			return nil, fmt.Errorf("scanning result: %w", err)
		}
		results = append(results, r)
	}
	return results, rows.Err()
}

// matchExpression quotes each query token and adds a prefix star:
// `consensus distr` → `"consensus"* "distr"*`.
func matchExpression(query string) string {
	fields := strings.Fields(query)
	terms := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.ReplaceAll(f, `"`, ``)
		if f == "" {
			continue
		}
		terms = append(terms, `"`+f+`"*`)
	}
	return strings.Join(terms, " ")
}
