// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/pdiddy/paper-digest/pkg/types"
)

const (
	defaultTimeout     = 10 * time.Minute
	defaultConcurrency = 4
	defaultMaxRetries  = 5
)

// setDefaults registers the value of every config key the CLI reads.
func setDefaults(v *viper.Viper) {
	v.SetDefault("log_level", "info")
	v.SetDefault("conversion.backend", string(types.BackendMarkitdown))
	v.SetDefault("conversion.timeout", defaultTimeout)
	v.SetDefault("conversion.output_dir", "markdown")
	v.SetDefault("docling.url", "")
	v.SetDefault("docling.max_retries", defaultMaxRetries)
	v.SetDefault("docling.do_ocr", false)
	v.SetDefault("extraction.output_dir", "")
	v.SetDefault("extraction.concurrency", defaultConcurrency)
	v.SetDefault("store.path", "digests/digests.db")
	v.SetDefault("store.max_results", 20)
}

// pipelineConfig assembles the typed configuration from v.
func pipelineConfig(v *viper.Viper) types.PipelineConfig {
	return types.PipelineConfig{
		Conversion: types.ConversionConfig{
			Backend:   types.ConversionBackend(strings.ToLower(v.GetString("conversion.backend"))),
			Timeout:   v.GetDuration("conversion.timeout"),
			OutputDir: v.GetString("conversion.output_dir"),
			Docling: types.DoclingConfig{
				URL:        v.GetString("docling.url"),
				APIKey:     v.GetString("docling.api_key"),
				MaxRetries: v.GetInt("docling.max_retries"),
				DoOCR:      v.GetBool("docling.do_ocr"),
			},
		},
		Extraction: types.ExtractionConfig{
			OutputDir:   v.GetString("extraction.output_dir"),
			Concurrency: v.GetInt("extraction.concurrency"),
		},
		Store: types.StoreConfig{
			Path:       v.GetString("store.path"),
			MaxResults: v.GetInt("store.max_results"),
		},
	}
}

// parseLevel maps a --log-level value to a slog level.
func parseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("invalid log level %q: use debug, info, warn, or error", s)
	}
	return level, nil
}

func newLogger(level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
