// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMarkdown(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		wantBody  string
		wantTitle string
		wantAuth  []string
	}{
		{
			name:      "no frontmatter",
			input:     "# Abstract\nText.\n",
			wantBody:  "# Abstract\nText.\n",
			wantTitle: "",
			wantAuth:  []string{},
		},
		{
			name:      "frontmatter with list authors",
			input:     "---\ntitle: A Study\nauthors:\n  - One\n  - Two\n---\n# Abstract\nText.\n",
			wantBody:  "# Abstract\nText.\n",
			wantTitle: "A Study",
			wantAuth:  []string{"One", "Two"},
		},
		{
			name:      "frontmatter with single author",
			input:     "---\nauthor: Jane Doe\n---\nbody",
			wantBody:  "body",
			wantTitle: "",
			wantAuth:  []string{"Jane Doe"},
		},
		{
			name:      "malformed frontmatter is kept as markdown",
			input:     "---\ntitle: [unclosed\n---\nbody",
			wantBody:  "---\ntitle: [unclosed\n---\nbody",
			wantTitle: "",
			wantAuth:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc := ParseMarkdown([]byte(tt.input))
			assert.Equal(t, tt.wantBody, doc.Markdown)
			assert.Equal(t, tt.wantTitle, doc.Metadata.Title())
			assert.Equal(t, tt.wantAuth, doc.Metadata.Authors().Normalize())
		})
	}
}

func TestMarkdownReader_Convert(t *testing.T) {
	p := filepath.Join(t.TempDir(), "paper.md")
	require.NoError(t, os.WriteFile(p, []byte("---\ntitle: T\n---\nbody"), 0o644))

	doc, err := MarkdownReader{}.Convert(context.Background(), p)
	require.NoError(t, err)
	assert.Equal(t, "T", doc.Metadata.Title())
	assert.Equal(t, "body", doc.Markdown)

	_, err = MarkdownReader{}.Convert(context.Background(), filepath.Join(t.TempDir(), "missing.md"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
