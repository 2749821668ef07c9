// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// QueryOptions holds parameters for store searches.
type QueryOptions struct {
	// Query is an FTS5 match expression over title, abstract,
	// introduction and conclusion.
	Query string

	// Author keeps records with an author containing this text,
	// case-insensitively.
	Author string

	// MaxResults limits result count. Zero uses the store default.
	MaxResults int
}

// IsEmpty reports whether the query has no search terms or filters.
func (q QueryOptions) IsEmpty() bool {
	return q.Query == "" && q.Author == ""
}

// Result is a stored record with its identity.
type Result struct {
	ID          string       `json:"id" yaml:"id"`
	SourceID    string       `json:"source_id" yaml:"source_id"`
	Source      string       `json:"source" yaml:"source"`
	ExtractedAt string       `json:"extracted_at" yaml:"extracted_at"`
	Record      types.Record `json:"record" yaml:"record"`
}

// likeEscaper quotes LIKE wildcards so author filters match literally.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

const selectColumns = `d.id, d.source_id, d.source, d.extracted_at, d.title, d.authors,
	d.abstract, d.introduction, d.conclusion, d.markdown_head`

// Search returns records matching opts. Full-text queries are ranked by
// relevance; filter-only queries are ordered by source ID.
func (s *Store) Search(ctx context.Context, opts QueryOptions) ([]Result, error) {
	maxResults := opts.MaxResults
	if maxResults <= 0 {
		maxResults = s.maxResults
	}

	var (
		qb     strings.Builder
		args   []any
		useFTS = opts.Query != ""
	)

	if useFTS {
		qb.WriteString(`SELECT ` + selectColumns + `
			FROM documents_fts
			JOIN documents d ON d.rowid = documents_fts.rowid
			WHERE documents_fts MATCH ?`)
		args = append(args, opts.Query)
	} else {
		qb.WriteString(`SELECT ` + selectColumns + `
			FROM documents d
			WHERE 1=1`)
	}

	if opts.Author != "" {
		qb.WriteString(` AND EXISTS (SELECT 1 FROM json_each(d.authors) WHERE value LIKE ? ESCAPE '\')`)
		args = append(args, "%"+likeEscaper.Replace(opts.Author)+"%")
	}

	if useFTS {
		qb.WriteString(` ORDER BY documents_fts.rank`)
	} else {
		qb.WriteString(` ORDER BY d.source_id`)
	}
	qb.WriteString(` LIMIT ?`)
	args = append(args, maxResults)

	rows, err := s.db.QueryContext(ctx, qb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("querying store: %w", err)
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	for i := range results {
		if err := s.loadSections(ctx, &results[i]); err != nil {
			return nil, err
		}
	}
	return results, nil
}

// Get returns the record stored for a source path or source ID.
func (s *Store) Get(ctx context.Context, source string) (Result, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+selectColumns+` FROM documents d WHERE d.source_id = ?`, SourceID(source))
	r, err := scanResult(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Result{}, fmt.Errorf("%s: %w", source, ErrNotFound)
	}
	if err != nil {
		return Result{}, err
	}
	if err := s.loadSections(ctx, &r); err != nil {
		return Result{}, err
	}
	return r, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (Result, error) {
	var (
		r           Result
		authorsJSON string
	)
	err := row.Scan(
		&r.ID, &r.SourceID, &r.Source, &r.ExtractedAt,
		&r.Record.Title, &authorsJSON, &r.Record.Abstract,
		&r.Record.Introduction, &r.Record.Conclusion, &r.Record.MarkdownHead,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("scanning row: %w", err)
	}
	r.Record.Authors = []string{}
	if err := json.Unmarshal([]byte(authorsJSON), &r.Record.Authors); err != nil {
		return Result{}, fmt.Errorf("decoding authors of %s: %w", r.SourceID, err)
	}
	return r, nil
}

func (s *Store) loadSections(ctx context.Context, r *Result) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT title, first_paragraph FROM sections WHERE document_id = ? ORDER BY position`, r.ID)
	if err != nil {
		return fmt.Errorf("querying sections of %s: %w", r.SourceID, err)
	}
	defer rows.Close()

	r.Record.Sections = []types.SectionSnippet{}
	for rows.Next() {
		var sec types.SectionSnippet
		if err := rows.Scan(&sec.Title, &sec.FirstParagraph); err != nil {
			return fmt.Errorf("scanning section: %w", err)
		}
		r.Record.Sections = append(r.Record.Sections, sec)
	}
	return rows.Err()
}
