// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package store persists extracted records in SQLite with an FTS5 index over
// their title and role paragraphs, and exports them as YAML or JSON.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/pdiddy/paper-digest/internal/extract"
	"github.com/pdiddy/paper-digest/pkg/types"
)

const (
	defaultPath       = "digests/digests.db"
	defaultMaxResults = 20
)

// ErrNotFound is returned when no record exists for a source.
var ErrNotFound = errors.New("record not found")

// Outcome describes what a save did with a record.
type Outcome int

const (
	Inserted Outcome = iota
	Updated
	Unchanged
)

// Store manages the digest SQLite database.
type Store struct {
	db         *sql.DB
	maxResults int
}

var _ extract.Sink = (*Store)(nil)

// NewStore opens or creates the database at cfg.Path and creates the schema
// if it does not exist.
func NewStore(cfg types.StoreConfig) (*Store, error) {
	path := cfg.Path
	if path == "" {
		path = defaultPath
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating store directory: %w", err)
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite allows one writer; a single connection serializes concurrent
	// Saves instead of failing them with "database is locked".
	db.SetMaxOpenConns(1)

	maxResults := cfg.MaxResults
	if maxResults <= 0 {
		maxResults = defaultMaxResults
	}

	s := &Store{db: db, maxResults: maxResults}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS documents (
			rowid INTEGER PRIMARY KEY AUTOINCREMENT,
			id TEXT NOT NULL UNIQUE,
			source_id TEXT NOT NULL UNIQUE,
			source TEXT NOT NULL,
			content_hash TEXT NOT NULL,
			title TEXT NOT NULL,
			authors TEXT NOT NULL,
			abstract TEXT NOT NULL,
			introduction TEXT NOT NULL,
			conclusion TEXT NOT NULL,
			markdown_head TEXT NOT NULL,
			extracted_at TEXT NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS sections (
			document_id TEXT NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			title TEXT NOT NULL,
			first_paragraph TEXT NOT NULL,
			PRIMARY KEY (document_id, position)
		)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}

	var ftsExists int
	if err := s.db.QueryRow(
		`SELECT count(*) FROM sqlite_master WHERE type='table' AND name='documents_fts'`,
	).Scan(&ftsExists); err != nil {
		return fmt.Errorf("checking FTS table: %w", err)
	}
	if ftsExists > 0 {
		return nil
	}

	ftsStatements := []string{
		`CREATE VIRTUAL TABLE documents_fts USING fts5(
			title, abstract, introduction, conclusion,
			content=documents, content_rowid=rowid
		)`,
		`CREATE TRIGGER documents_ai AFTER INSERT ON documents BEGIN
			INSERT INTO documents_fts(rowid, title, abstract, introduction, conclusion)
			VALUES (new.rowid, new.title, new.abstract, new.introduction, new.conclusion);
		END`,
		`CREATE TRIGGER documents_ad AFTER DELETE ON documents BEGIN
			INSERT INTO documents_fts(documents_fts, rowid, title, abstract, introduction, conclusion)
			VALUES ('delete', old.rowid, old.title, old.abstract, old.introduction, old.conclusion);
		END`,
		`CREATE TRIGGER documents_au AFTER UPDATE ON documents BEGIN
			INSERT INTO documents_fts(documents_fts, rowid, title, abstract, introduction, conclusion)
			VALUES ('delete', old.rowid, old.title, old.abstract, old.introduction, old.conclusion);
			INSERT INTO documents_fts(rowid, title, abstract, introduction, conclusion)
			VALUES (new.rowid, new.title, new.abstract, new.introduction, new.conclusion);
		END`,
	}
	for _, stmt := range ftsStatements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("creating FTS infrastructure: %w", err)
		}
	}
	return nil
}

// SourceID derives the key a record is stored under from a document or
// digest path: the base name without its extension or digest suffix. Both
// "papers/foo.pdf" and "out/foo.digest.json" map to "foo".
func SourceID(path string) string {
	base := filepath.Base(path)
	if strings.HasSuffix(base, extract.OutputSuffix) {
		return strings.TrimSuffix(base, extract.OutputSuffix)
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// hashRecord returns the hex xxhash of the record's JSON encoding.
func hashRecord(rec types.Record) (string, error) {
	data, err := extract.MarshalRecord(rec)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data)), nil
}

// Save stores rec under the source's SourceID. It satisfies extract.Sink.
func (s *Store) Save(ctx context.Context, source string, rec types.Record) error {
	_, err := s.Put(ctx, source, rec)
	return err
}

// Put stores rec and reports whether it was inserted, updated, or already
// present with identical content.
func (s *Store) Put(ctx context.Context, source string, rec types.Record) (Outcome, error) {
	sourceID := SourceID(source)
	hash, err := hashRecord(rec)
	if err != nil {
		return 0, err
	}

	var storedHash string
	err = s.db.QueryRowContext(ctx,
		`SELECT content_hash FROM documents WHERE source_id = ?`, sourceID,
	).Scan(&storedHash)
	switch {
	case err == nil && storedHash == hash:
		return Unchanged, nil
	case err != nil && !errors.Is(err, sql.ErrNoRows):
		return 0, fmt.Errorf("looking up %s: %w", sourceID, err)
	}
	outcome := Inserted
	if err == nil {
		outcome = Updated
	}

	if err := s.write(ctx, sourceID, source, hash, rec); err != nil {
		return 0, fmt.Errorf("storing %s: %w", sourceID, err)
	}
	return outcome, nil
}

func (s *Store) write(ctx context.Context, sourceID, source, hash string, rec types.Record) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	authors := rec.Authors
	if authors == nil {
		authors = []string{}
	}
	authorsJSON, err := json.Marshal(authors)
	if err != nil {
		return fmt.Errorf("encoding authors: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		`INSERT INTO documents (id, source_id, source, content_hash, title, authors,
			abstract, introduction, conclusion, markdown_head, extracted_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(source_id) DO UPDATE SET
			source=excluded.source, content_hash=excluded.content_hash,
			title=excluded.title, authors=excluded.authors,
			abstract=excluded.abstract, introduction=excluded.introduction,
			conclusion=excluded.conclusion, markdown_head=excluded.markdown_head,
			extracted_at=excluded.extracted_at`,
		uuid.New().String(), sourceID, source, hash, rec.Title, string(authorsJSON),
		rec.Abstract, rec.Introduction, rec.Conclusion, rec.MarkdownHead,
		time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("upserting document: %w", err)
	}

	var docID string
	if err := tx.QueryRowContext(ctx,
		`SELECT id FROM documents WHERE source_id = ?`, sourceID,
	).Scan(&docID); err != nil {
		return fmt.Errorf("reading document id: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM sections WHERE document_id = ?`, docID); err != nil {
		return fmt.Errorf("deleting old sections: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO sections (document_id, position, title, first_paragraph) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for i, sec := range rec.Sections {
		if _, err := stmt.ExecContext(ctx, docID, i, sec.Title, sec.FirstParagraph); err != nil {
			return fmt.Errorf("inserting section %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// IngestSummary holds counts from an ingest run.
type IngestSummary struct {
	Indexed int
	Updated int
	Skipped int
	Failed  int
}

// Total returns the number of digest files processed.
func (s IngestSummary) Total() int {
	return s.Indexed + s.Updated + s.Skipped + s.Failed
}

// Ingest loads every *.digest.json file in dir into the store. Files whose
// content is unchanged since the last ingest are skipped.
func (s *Store) Ingest(ctx context.Context, dir string, w io.Writer) (IngestSummary, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return IngestSummary{}, fmt.Errorf("reading digest directory %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), extract.OutputSuffix) {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var summary IngestSummary
	for _, name := range names {
		select {
		case <-ctx.Done():
			return summary, ctx.Err()
		default:
		}

		path := filepath.Join(dir, name)
		rec, err := extract.ReadRecord(path)
		if err != nil {
			fmt.Fprintf(w, "failed   %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		outcome, err := s.Put(ctx, path, rec)
		if err != nil {
			fmt.Fprintf(w, "failed   %s: %v\n", name, err)
			summary.Failed++
			continue
		}

		switch outcome {
		case Unchanged:
			fmt.Fprintf(w, "skipped  %s\n", name)
			summary.Skipped++
		case Updated:
			fmt.Fprintf(w, "updated  %s (%d sections)\n", name, len(rec.Sections))
			summary.Updated++
		default:
			fmt.Fprintf(w, "indexed  %s (%d sections)\n", name, len(rec.Sections))
			summary.Indexed++
		}
	}

	fmt.Fprintf(w, "\nindexed: %d, updated: %d, skipped: %d, failed: %d\n",
		summary.Indexed, summary.Updated, summary.Skipped, summary.Failed)
	return summary, nil
}
