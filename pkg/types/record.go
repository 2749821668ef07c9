// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the paper-digest pipeline:
// the sections produced by segmentation, the structured Record produced by
// extraction, the Metadata boundary supplied by converters, and configuration.
package types

// Section is a contiguous heading-delimited block of a markdown document.
type Section struct {
	// Title is the heading text with leading '#' characters and surrounding
	// whitespace removed. The block before the first heading is "preamble".
	Title string `json:"title" yaml:"title"`

	// Body holds the raw lines between this heading and the next one,
	// including blank lines.
	Body []string `json:"body" yaml:"body"`
}

// SectionSnippet indexes one section by its title and first paragraph.
type SectionSnippet struct {
	Title          string `json:"title" yaml:"title"`
	FirstParagraph string `json:"first_paragraph" yaml:"first_paragraph"`
}

// Record is the structured summary extracted from one document. Field order
// is the JSON key order consumers rely on.
type Record struct {
	// Title comes from metadata, falling back to the first section title.
	Title string `json:"title" yaml:"title"`

	// Authors is never nil so that it encodes as an array.
	Authors []string `json:"authors" yaml:"authors"`

	Abstract     string `json:"abstract" yaml:"abstract"`
	Introduction string `json:"introduction" yaml:"introduction"`
	Conclusion   string `json:"conclusion" yaml:"conclusion"`

	// Sections is never nil so that it encodes as an array.
	Sections []SectionSnippet `json:"sections" yaml:"sections"`

	// MarkdownHead is the first 200 lines of the markdown.
	MarkdownHead string `json:"markdown_head" yaml:"markdown_head"`
}

// ConversionStatus indicates the outcome of converting one document to markdown.
type ConversionStatus string

const (
	ConversionNone      ConversionStatus = "none"
	ConversionConverted ConversionStatus = "converted"
	ConversionFailed    ConversionStatus = "failed"
)
