// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package segment splits markdown into heading-delimited sections and
// extracts paragraphs from section bodies. Both operations are pure and
// run in time linear in the input.
package segment

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/pdiddy/paper-digest/pkg/types"
)

const (
	// PreambleTitle names the section holding lines before the first heading.
	PreambleTitle = "preamble"
	// UntitledTitle names a section whose heading has no text.
	UntitledTitle = "untitled"
)

// Segment splits markdown into sections in document order. A heading is any
// line that starts with '#' once surrounding whitespace is trimmed. Sections
// with no body lines are dropped, so a document that opens with a heading has
// no preamble and a heading followed directly by another heading vanishes.
func Segment(markdown string) []types.Section {
	var sections []types.Section
	current := types.Section{Title: PreambleTitle}

	for _, line := range Lines(markdown) {
		trimmed := trimSpace(line)
		if !isHeading(trimmed) {
			current.Body = append(current.Body, line)
			continue
		}
		if len(current.Body) > 0 {
			sections = append(sections, current)
		}
		current = types.Section{Title: headingTitle(trimmed)}
	}

	if len(current.Body) > 0 {
		sections = append(sections, current)
	}
	return sections
}

// Lines splits s into lines the way Python's str.splitlines does: \n, \r,
// \r\n, \v, \f, \x1c, \x1d, \x1e, U+0085, U+2028 and U+2029 all end a
// line. A trailing terminator does not produce a final empty line, and the
// empty string has no lines.
func Lines(s string) []string {
	var lines []string
	start := 0
	for i, r := range s {
		if i < start || !isLineBreak(r) {
			continue
		}
		lines = append(lines, s[start:i])
		start = i + utf8.RuneLen(r)
		if r == '\r' && start < len(s) && s[start] == '\n' {
			start++
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}

func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', '\x1c', '\x1d', '\x1e', '\u0085', '\u2028', '\u2029':
		return true
	}
	return false
}

// trimSpace strips the characters Python's str.strip removes, which adds
// the \x1c-\x1f separators to Go's unicode.IsSpace set.
func trimSpace(s string) string {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || (r >= '\x1c' && r <= '\x1f')
	})
}

// Head returns the first n lines of s joined with "\n".
func Head(s string, n int) string {
	lines := Lines(s)
	if len(lines) > n {
		lines = lines[:n]
	}
	return strings.Join(lines, "\n")
}

func isHeading(trimmed string) bool {
	return strings.HasPrefix(trimmed, "#")
}

// headingTitle removes the leading '#' run and surrounding whitespace.
func headingTitle(trimmed string) string {
	title := trimSpace(strings.TrimLeft(trimmed, "#"))
	if title == "" {
		return UntitledTitle
	}
	return title
}
