// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// MarshalRecord encodes rec as 2-space indented JSON without HTML escaping,
// so non-ASCII text and characters like '<' appear verbatim.
func MarshalRecord(rec types.Record) ([]byte, error) {
	if rec.Authors == nil {
		rec.Authors = []string{}
	}
	if rec.Sections == nil {
		rec.Sections = []types.SectionSnippet{}
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rec); err != nil {
		return nil, fmt.Errorf("marshaling record: %w", err)
	}
	return buf.Bytes(), nil
}

// WriteRecord writes rec to path, creating parent directories. The file is
// written under a temporary name and renamed into place, so a failure never
// leaves a partial output.
func WriteRecord(path string, rec types.Record) error {
	data, err := MarshalRecord(rec)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating output directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".digest-*.json")
	if err != nil {
		return fmt.Errorf("creating temp file in %s: %w", dir, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", tmpName, err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}

// ReadRecord loads a record written by WriteRecord.
func ReadRecord(path string) (types.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.Record{}, fmt.Errorf("reading %s: %w", path, err)
	}
	var rec types.Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return types.Record{}, fmt.Errorf("parsing %s: %w", path, err)
	}
	return rec, nil
}
