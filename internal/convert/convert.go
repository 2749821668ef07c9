// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package convert turns source documents into markdown plus a metadata
// mapping. The conversion itself is delegated to external tools: docling-serve
// over HTTP, markitdown in a container, or the html-to-markdown library. This
// package only wires them behind the Converter interface and writes converted
// markdown to disk with YAML frontmatter.
package convert

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// Document is a converter's output: the rendered markdown and whatever
// metadata the backend could report.
type Document struct {
	Markdown string
	Metadata types.Metadata
}

// Converter transforms the document at path into markdown.
type Converter interface {
	Convert(ctx context.Context, path string) (Document, error)
}

// ConverterFunc adapts a function to the Converter interface.
type ConverterFunc func(ctx context.Context, path string) (Document, error)

// Convert calls f.
func (f ConverterFunc) Convert(ctx context.Context, path string) (Document, error) {
	return f(ctx, path)
}

// BatchResult holds the outcome of a batch conversion run.
type BatchResult struct {
	Converted int
	Skipped   int
	Failed    int
}

// Total returns the total number of documents processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped + r.Failed
}

// HasFailures reports whether any document failed conversion.
func (r BatchResult) HasFailures() bool {
	return r.Failed > 0
}

// MarkdownPath returns where ConvertFile writes the markdown for path.
func MarkdownPath(path, outDir string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	return filepath.Join(outDir, base+".md")
}

// ConvertFile converts one document and writes it to outDir/<base>.md with
// frontmatter carrying the source path, conversion time, title, and authors.
// An existing output is left alone and reported as ConversionNone.
func ConvertFile(ctx context.Context, c Converter, path, outDir string, w io.Writer) types.ConversionStatus {
	mdPath := MarkdownPath(path, outDir)
	base := filepath.Base(mdPath)

	if _, err := os.Stat(mdPath); err == nil {
		fmt.Fprintf(w, "skipped:   %s (already exists)\n", base)
		return types.ConversionNone
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		fmt.Fprintf(w, "failed:    %s (%v)\n", base, err)
		return types.ConversionFailed
	}

	doc, err := c.Convert(ctx, path)
	if err != nil {
		fmt.Fprintf(w, "failed:    %s (%v)\n", base, err)
		return types.ConversionFailed
	}

	content, err := withFrontmatter(path, doc, time.Now().UTC())
	if err != nil {
		fmt.Fprintf(w, "failed:    %s (%v)\n", base, err)
		return types.ConversionFailed
	}

	if err := os.WriteFile(mdPath, []byte(content), 0o644); err != nil {
		fmt.Fprintf(w, "failed:    %s (%v)\n", base, err)
		return types.ConversionFailed
	}

	fmt.Fprintf(w, "converted: %s\n", base)
	return types.ConversionConverted
}

// ConvertBatch runs ConvertFile over paths, printing per-file status and a
// summary line to w.
func ConvertBatch(ctx context.Context, c Converter, paths []string, outDir string, w io.Writer) BatchResult {
	var result BatchResult
	for _, p := range paths {
		if ctx.Err() != nil {
			fmt.Fprintf(w, "failed:    %s (%v)\n", filepath.Base(p), ctx.Err())
			result.Failed++
			continue
		}
		switch ConvertFile(ctx, c, p, outDir, w) {
		case types.ConversionConverted:
			result.Converted++
		case types.ConversionNone:
			result.Skipped++
		case types.ConversionFailed:
			result.Failed++
		}
	}
	fmt.Fprintf(w, "\nBatch summary: %d converted, %d skipped, %d failed (total: %d)\n",
		result.Converted, result.Skipped, result.Failed, result.Total())
	return result
}

// header is the YAML frontmatter written above converted markdown.
// MarkdownReader reads it back as metadata.
type header struct {
	Source      string   `yaml:"source"`
	ConvertedAt string   `yaml:"converted_at"`
	Title       string   `yaml:"title,omitempty"`
	Authors     []string `yaml:"authors,omitempty"`
}

func withFrontmatter(source string, doc Document, at time.Time) (string, error) {
	fm := header{
		Source:      source,
		ConvertedAt: at.Format(time.RFC3339),
		Title:       doc.Metadata.Title(),
		Authors:     doc.Metadata.Authors().Normalize(),
	}
	data, err := yaml.Marshal(&fm)
	if err != nil {
		return "", fmt.Errorf("marshaling frontmatter: %w", err)
	}

	var b strings.Builder
	b.WriteString("---\n")
	b.Write(data)
	b.WriteString("---\n\n")
	b.WriteString(doc.Markdown)
	return b.String(), nil
}
