// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"

	"github.com/adrg/frontmatter"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// MarkdownReader "converts" markdown files by reading them. YAML frontmatter,
// such as the header ConvertFile writes, becomes the metadata; a file without
// frontmatter or with unparsable frontmatter is taken whole as markdown.
type MarkdownReader struct{}

// Convert reads the markdown file at path.
func (MarkdownReader) Convert(ctx context.Context, path string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return ParseMarkdown(data), nil
}

// ParseMarkdown splits optional frontmatter from the markdown body.
func ParseMarkdown(data []byte) Document {
	meta := map[string]any{}
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return Document{Markdown: string(data), Metadata: types.Metadata{}}
	}
	return Document{Markdown: string(body), Metadata: types.Metadata(meta)}
}
