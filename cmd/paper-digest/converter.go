// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/pdiddy/paper-digest/internal/container"
	"github.com/pdiddy/paper-digest/internal/convert"
	"github.com/pdiddy/paper-digest/internal/secrets"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// newRouter returns a Router for cfg. The document backend is built on the
// first PDF it sees, so markdown and HTML runs never need docker or a
// docling-serve instance.
func newRouter(cfg types.ConversionConfig) (*convert.Router, error) {
	var fallback convert.Converter
	switch cfg.Backend {
	case types.BackendDocling, types.BackendMarkitdown:
		fallback = &lazyConverter{build: func(ctx context.Context) (convert.Converter, error) {
			return newBackend(ctx, cfg)
		}}
	case types.BackendNone:
	default:
		return nil, fmt.Errorf("unknown conversion.backend %q: use docling, markitdown, or none", cfg.Backend)
	}

	router := convert.NewRouter(fallback)
	router.Timeout = cfg.Timeout
	return router, nil
}

// newBackend constructs the configured document converter, failing fast
// when its service, runtime, or image is unavailable.
func newBackend(ctx context.Context, cfg types.ConversionConfig) (convert.Converter, error) {
	backendLogger := logger.With("component", "convert", "backend", string(cfg.Backend))

	var (
		c   convert.Converter
		err error
	)
	switch cfg.Backend {
	case types.BackendDocling:
		dc := cfg.Docling
		dc.APIKey = secretDefault(secrets.DoclingAPIKey, dc.APIKey)
		c, err = convert.NewDoclingConverter(ctx, &http.Client{Timeout: cfg.Timeout}, dc, backendLogger)
	case types.BackendMarkitdown:
		var rt container.Runtime
		rt, err = container.DetectRuntime(ctx)
		if err == nil {
			c, err = convert.NewMarkitdownConverter(ctx, rt)
		}
	default:
		err = fmt.Errorf("unknown conversion.backend %q", cfg.Backend)
	}
	if err != nil {
		return nil, err
	}
	return convert.NewLoggingConverter(c, string(cfg.Backend), backendLogger), nil
}

// lazyConverter builds its converter once, on first use, and remembers a
// construction failure so every later document reports the same cause.
type lazyConverter struct {
	build func(ctx context.Context) (convert.Converter, error)

	once sync.Once
	conv convert.Converter
	err  error
}

func (l *lazyConverter) Convert(ctx context.Context, path string) (convert.Document, error) {
	l.once.Do(func() {
		l.conv, l.err = l.build(ctx)
	})
	if l.err != nil {
		return convert.Document{}, l.err
	}
	return l.conv.Convert(ctx, path)
}
