// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/paper-digest/internal/convert"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// fakeSource converts by reading the file itself as markdown. Files whose
// base name is in errs fail.
type fakeSource struct {
	errs map[string]error
}

func (f *fakeSource) Convert(_ context.Context, path string) (convert.Document, error) {
	if err, ok := f.errs[filepath.Base(path)]; ok {
		return convert.Document{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return convert.Document{}, err
	}
	return convert.Document{Markdown: string(data), Metadata: types.Metadata{"title": filepath.Base(path)}}, nil
}

func (f *fakeSource) Supports(path string) bool {
	return filepath.Ext(path) == ".pdf"
}

type fakeSink struct {
	mu    sync.Mutex
	saved map[string]types.Record
	err   error
}

func (s *fakeSink) Save(_ context.Context, source string, rec types.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	if s.saved == nil {
		s.saved = make(map[string]types.Record)
	}
	s.saved[filepath.Base(source)] = rec
	return nil
}

func writeInput(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestOutputPath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "paper.digest.json"), OutputPath("/in/paper.pdf", "out"))
	assert.Equal(t, filepath.Join("out", "a.b.digest.json"), OutputPath("a.b.html", "out"))
}

func TestExtractDocument(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "paper.pdf", "# Abstract\nFindings.\n")
	out := filepath.Join(dir, "paper.digest.json")

	rec, err := ExtractDocument(context.Background(), &fakeSource{}, in, out)
	require.NoError(t, err)
	assert.Equal(t, "paper.pdf", rec.Title)
	assert.Equal(t, "Findings.", rec.Abstract)

	saved, err := ReadRecord(out)
	require.NoError(t, err)
	assert.Equal(t, rec, saved)
}

func TestExtractDocument_ConversionFailureWritesNothing(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "broken.pdf", "")
	out := filepath.Join(dir, "broken.digest.json")
	convErr := errors.New("parser crashed")

	_, err := ExtractDocument(context.Background(), &fakeSource{errs: map[string]error{"broken.pdf": convErr}}, in, out)
	require.Error(t, err)
	assert.ErrorIs(t, err, convErr)

	_, statErr := os.Stat(out)
	assert.True(t, os.IsNotExist(statErr), "output file should not exist")
}

func TestExtractAll(t *testing.T) {
	in := t.TempDir()
	out := t.TempDir()
	writeInput(t, in, "a.pdf", "# Intro\nFirst.\n")
	writeInput(t, in, "b.pdf", "# Summary\nLast.\n")
	writeInput(t, in, "c.pdf", "ignored")
	writeInput(t, in, "notes.txt", "unsupported")
	writeInput(t, in, ".hidden.pdf", "hidden")
	require.NoError(t, os.Mkdir(filepath.Join(in, "sub.pdf"), 0o755))

	src := &fakeSource{errs: map[string]error{"c.pdf": errors.New("boom")}}
	sink := &fakeSink{}
	var buf bytes.Buffer

	summary, err := ExtractAll(context.Background(), src, types.ExtractionConfig{InputDir: in, OutputDir: out, Concurrency: 2}, sink, &buf)
	require.NoError(t, err)

	assert.Equal(t, BatchSummary{Extracted: 2, Failed: 1}, summary)
	assert.True(t, summary.HasFailures())
	assert.Equal(t, 3, summary.Total())

	report := buf.String()
	assert.Contains(t, report, "extracted a.pdf (1 sections)")
	assert.Contains(t, report, "failed    c.pdf: converting")
	assert.Contains(t, report, "extracted: 2, skipped: 0, failed: 1 (total: 3)")
	assert.NotContains(t, report, "notes.txt")
	assert.NotContains(t, report, "hidden")

	rec, err := ReadRecord(filepath.Join(out, "b.digest.json"))
	require.NoError(t, err)
	assert.Equal(t, "Last.", rec.Conclusion)

	_, err = os.Stat(filepath.Join(out, "c.digest.json"))
	assert.True(t, os.IsNotExist(err))

	assert.Len(t, sink.saved, 2)
	assert.Equal(t, "First.", sink.saved["a.pdf"].Introduction)
}

func TestExtractAll_SkipsUnchanged(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "a.pdf", "# Abstract\nText.\n")
	old := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(in, old, old))

	cfg := types.ExtractionConfig{InputDir: dir}
	var first bytes.Buffer
	summary, err := ExtractAll(context.Background(), &fakeSource{}, cfg, nil, &first)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Extracted)

	var second bytes.Buffer
	summary, err = ExtractAll(context.Background(), &fakeSource{}, cfg, nil, &second)
	require.NoError(t, err)
	assert.Equal(t, BatchSummary{Skipped: 1}, summary)
	assert.True(t, strings.Contains(second.String(), "skipped   a.pdf"))
}

func TestExtractAll_SinkFailureCounts(t *testing.T) {
	dir := t.TempDir()
	writeInput(t, dir, "a.pdf", "text")

	var buf bytes.Buffer
	summary, err := ExtractAll(context.Background(), &fakeSource{}, types.ExtractionConfig{InputDir: dir}, &fakeSink{err: errors.New("disk full")}, &buf)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Failed)
	assert.Contains(t, buf.String(), "store: disk full")
}

func TestExtractAll_MissingInputDir(t *testing.T) {
	_, err := ExtractAll(context.Background(), &fakeSource{}, types.ExtractionConfig{InputDir: filepath.Join(t.TempDir(), "nope")}, nil, &bytes.Buffer{})
	assert.Error(t, err)
}
