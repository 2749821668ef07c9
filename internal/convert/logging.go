// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package convert

import (
	"context"
	"log/slog"
	"time"
)

// Ensure LoggingConverter implements Converter.
var _ Converter = (*LoggingConverter)(nil)

// LoggingConverter wraps a Converter with slog logging of each conversion.
type LoggingConverter struct {
	next   Converter
	name   string
	logger *slog.Logger
}

// NewLoggingConverter logs conversions performed by next under backend name.
func NewLoggingConverter(next Converter, name string, logger *slog.Logger) *LoggingConverter {
	return &LoggingConverter{next: next, name: name, logger: logger}
}

// Convert delegates to the wrapped converter.
func (c *LoggingConverter) Convert(ctx context.Context, path string) (Document, error) {
	begin := time.Now()
	doc, err := c.next.Convert(ctx, path)
	if err != nil {
		c.logger.Error("conversion failed",
			"backend", c.name,
			"path", path,
			"duration", time.Since(begin),
			"error", err,
		)
		return doc, err
	}
	c.logger.Info("conversion",
		"backend", c.name,
		"path", path,
		"duration", time.Since(begin),
		"bytes", len(doc.Markdown),
		"metadata_keys", len(doc.Metadata),
	)
	return doc, nil
}
