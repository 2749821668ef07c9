// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Router picks a converter by file extension: markdown files are read
// directly, HTML goes through HTMLConverter, and everything else (PDF)
// through the configured document backend.
type Router struct {
	byExt    map[string]Converter
	fallback Converter

	// Timeout bounds each conversion; zero means no limit beyond ctx.
	Timeout time.Duration
}

// documentExts are the non-markdown, non-HTML formats handed to the fallback.
var documentExts = map[string]bool{
	".pdf":  true,
	".docx": true,
	".pptx": true,
}

// NewRouter returns a Router that sends documents to fallback. A nil
// fallback makes PDF inputs fail with a descriptive error, which suits runs
// that only handle markdown and HTML.
func NewRouter(fallback Converter) *Router {
	html := NewHTMLConverter()
	return &Router{
		byExt: map[string]Converter{
			".md":       MarkdownReader{},
			".markdown": MarkdownReader{},
			".html":     html,
			".htm":      html,
		},
		fallback: fallback,
	}
}

// Supports reports whether path has an extension the router can handle.
func (r *Router) Supports(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := r.byExt[ext]; ok {
		return true
	}
	return r.fallback != nil && documentExts[ext]
}

// Convert dispatches path to the matching converter.
func (r *Router) Convert(ctx context.Context, path string) (Document, error) {
	if r.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.Timeout)
		defer cancel()
	}

	ext := strings.ToLower(filepath.Ext(path))
	if c, ok := r.byExt[ext]; ok {
		return c.Convert(ctx, path)
	}
	if r.fallback == nil {
		return Document{}, fmt.Errorf("no converter for %s: configure conversion.backend to handle %q files", path, ext)
	}
	return r.fallback.Convert(ctx, path)
}
