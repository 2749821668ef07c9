// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// ConversionBackend identifies the tool that turns non-markdown documents
// (PDFs) into markdown. HTML and markdown inputs are routed by extension.
type ConversionBackend string

const (
	BackendDocling    ConversionBackend = "docling"
	BackendMarkitdown ConversionBackend = "markitdown"

	// BackendNone disables document conversion; only markdown and HTML
	// inputs are handled.
	BackendNone ConversionBackend = "none"
)

// DoclingConfig holds settings for the docling-serve HTTP backend.
type DoclingConfig struct {
	// URL is the base URL of the docling-serve instance (e.g. "http://localhost:5001").
	URL string `json:"url" yaml:"url"`

	// APIKey is sent as X-Api-Key when set. Usually loaded from .secrets/docling-api-key.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty"`

	// MaxRetries bounds retries on HTTP 429 (default 5).
	MaxRetries int `json:"max_retries" yaml:"max_retries"`

	// DoOCR enables OCR in docling. Off by default to keep conversion fast.
	DoOCR bool `json:"do_ocr" yaml:"do_ocr"`
}

// ConversionConfig holds settings for the conversion stage.
type ConversionConfig struct {
	// Backend selects the PDF conversion tool: docling or markitdown.
	Backend ConversionBackend `json:"backend" yaml:"backend"`

	// Timeout bounds a single document conversion (default 10m).
	Timeout time.Duration `json:"timeout" yaml:"timeout"`

	// OutputDir receives converted markdown files.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	Docling DoclingConfig `json:"docling" yaml:"docling"`
}

// ExtractionConfig holds settings for batch extraction.
type ExtractionConfig struct {
	// InputDir is scanned for documents to extract.
	InputDir string `json:"input_dir" yaml:"input_dir"`

	// OutputDir receives <base>.digest.json files. Empty means InputDir.
	OutputDir string `json:"output_dir" yaml:"output_dir"`

	// Concurrency is the number of documents processed at once (default 4).
	Concurrency int `json:"concurrency" yaml:"concurrency"`
}

// StoreConfig holds settings for the SQLite digest store.
type StoreConfig struct {
	// Path is the database file (default "digests/digests.db").
	Path string `json:"path" yaml:"path"`

	// MaxResults is the default maximum number of search results (default 20).
	MaxResults int `json:"max_results" yaml:"max_results"`
}

// PipelineConfig groups all stage configurations.
type PipelineConfig struct {
	Conversion ConversionConfig `json:"conversion" yaml:"conversion"`
	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
	Store      StoreConfig      `json:"store" yaml:"store"`
}
