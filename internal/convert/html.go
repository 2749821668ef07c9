// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/PuerkitoBio/goquery"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// HTMLConverter renders HTML pages (publisher landing pages, arXiv HTML) to
// markdown and reads Highwire citation_* meta tags as metadata.
type HTMLConverter struct {
	conv *converter.Converter
}

// NewHTMLConverter creates an HTMLConverter with the commonmark and table plugins.
func NewHTMLConverter() *HTMLConverter {
	conv := converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			table.NewTablePlugin(),
		),
	)
	return &HTMLConverter{conv: conv}
}

// Convert reads the HTML file at path.
func (h *HTMLConverter) Convert(ctx context.Context, path string) (Document, error) {
	if err := ctx.Err(); err != nil {
		return Document{}, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("reading %s: %w", path, err)
	}
	return h.ConvertString(string(data))
}

// ConvertString converts an HTML string.
func (h *HTMLConverter) ConvertString(html string) (Document, error) {
	if strings.TrimSpace(html) == "" {
		return Document{}, fmt.Errorf("empty HTML input")
	}

	page, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return Document{}, fmt.Errorf("parsing HTML: %w", err)
	}

	md, err := h.conv.ConvertString(html)
	if err != nil {
		return Document{}, fmt.Errorf("rendering markdown: %w", err)
	}

	return Document{Markdown: md, Metadata: htmlMetadata(page)}, nil
}

// htmlMetadata prefers citation_title and citation_author tags, falling
// back to <title> and the generic author meta tag.
func htmlMetadata(page *goquery.Document) types.Metadata {
	meta := types.Metadata{}

	title := metaContent(page, "citation_title")
	if len(title) == 0 {
		if t := strings.TrimSpace(page.Find("head title").First().Text()); t != "" {
			title = []string{t}
		}
	}
	if len(title) > 0 {
		meta["title"] = title[0]
	}

	if authors := metaContent(page, "citation_author"); len(authors) > 0 {
		meta["authors"] = authors
	}
	if author := metaContent(page, "author"); len(author) > 0 {
		meta["author"] = author[0]
	}
	return meta
}

// metaContent returns the non-empty content attributes of <meta name=...>.
func metaContent(page *goquery.Document, name string) []string {
	var values []string
	page.Find(fmt.Sprintf(`meta[name=%q]`, name)).Each(func(_ int, sel *goquery.Selection) {
		if v, ok := sel.Attr("content"); ok {
			if v = strings.TrimSpace(v); v != "" {
				values = append(values, v)
			}
		}
	})
	return values
}
