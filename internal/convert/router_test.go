// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRouter_Dispatch(t *testing.T) {
	dir := t.TempDir()
	mdPath := filepath.Join(dir, "paper.MD")
	htmlPath := filepath.Join(dir, "paper.html")
	pdfPath := filepath.Join(dir, "paper.pdf")
	require.NoError(t, os.WriteFile(mdPath, []byte("# From Markdown\ntext"), 0o644))
	require.NoError(t, os.WriteFile(htmlPath, []byte("<html><body><h1>From HTML</h1></body></html>"), 0o644))
	require.NoError(t, os.WriteFile(pdfPath, []byte("pdf"), 0o644))

	pdf := &fakeConverter{doc: Document{Markdown: "# From PDF"}}
	r := NewRouter(pdf)

	doc, err := r.Convert(context.Background(), mdPath)
	require.NoError(t, err)
	assert.Contains(t, doc.Markdown, "From Markdown")

	doc, err = r.Convert(context.Background(), htmlPath)
	require.NoError(t, err)
	assert.Contains(t, doc.Markdown, "# From HTML")

	doc, err = r.Convert(context.Background(), pdfPath)
	require.NoError(t, err)
	assert.Equal(t, "# From PDF", doc.Markdown)
	assert.Equal(t, 1, pdf.calls)
}

func TestRouter_NoFallback(t *testing.T) {
	r := NewRouter(nil)
	assert.False(t, r.Supports("x.pdf"))
	assert.True(t, r.Supports("x.md"))
	assert.True(t, r.Supports("x.HTM"))

	_, err := r.Convert(context.Background(), "x.pdf")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "conversion.backend")
}

func TestRouter_Supports(t *testing.T) {
	r := NewRouter(&fakeConverter{})
	for path, want := range map[string]bool{
		"a.pdf":      true,
		"a.markdown": true,
		"a.docx":     true,
		"a.json":     false,
		"README":     false,
	} {
		assert.Equal(t, want, r.Supports(path), path)
	}
}

func TestRouter_Timeout(t *testing.T) {
	slow := ConverterFunc(func(ctx context.Context, _ string) (Document, error) {
		<-ctx.Done()
		return Document{}, ctx.Err()
	})
	r := NewRouter(slow)
	r.Timeout = 5 * time.Millisecond

	_, err := r.Convert(context.Background(), "paper.pdf")
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
