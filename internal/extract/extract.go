// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract builds a structured Record from converted markdown and the
// converter's metadata. Extract is pure and total; the batch and file helpers
// in this package wrap it with conversion and JSON output.
package extract

import (
	"strings"

	"github.com/pdiddy/paper-digest/internal/segment"
	"github.com/pdiddy/paper-digest/pkg/types"
)

// headLines is the number of markdown lines kept in Record.MarkdownHead.
const headLines = 200

// Role is a semantic document part located by heading keywords.
type Role string

const (
	RoleAbstract     Role = "abstract"
	RoleIntroduction Role = "introduction"
	RoleConclusion   Role = "conclusion"
)

// roleKeywords lists the lowercase substrings that mark a section heading
// as belonging to a role.
var roleKeywords = map[Role][]string{
	RoleAbstract:     {"abstract"},
	RoleIntroduction: {"introduction", "intro"},
	RoleConclusion:   {"conclusion", "summary", "future work", "discussion"},
}

// Extract segments markdown and assembles the Record. Missing data resolves
// to empty strings and empty lists.
func Extract(markdown string, meta types.Metadata) types.Record {
	sections := segment.Segment(markdown)

	title := meta.Title()
	if title == "" && len(sections) > 0 {
		title = sections[0].Title
	}

	return types.Record{
		Title:        title,
		Authors:      meta.Authors().Normalize(),
		Abstract:     FindRole(sections, RoleAbstract),
		Introduction: FindRole(sections, RoleIntroduction),
		Conclusion:   FindRole(sections, RoleConclusion),
		Sections:     snippets(sections),
		MarkdownHead: segment.Head(markdown, headLines),
	}
}

// FindRole returns the first paragraph of the first section whose lowercased
// title contains any of the role's keywords, or "" when none does. Roles are
// matched independently, so one section may serve several roles.
func FindRole(sections []types.Section, role Role) string {
	keywords := roleKeywords[role]
	for _, sec := range sections {
		if matchesAny(strings.ToLower(sec.Title), keywords) {
			return segment.FirstParagraph(sec.Body)
		}
	}
	return ""
}

func matchesAny(title string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(title, kw) {
			return true
		}
	}
	return false
}

// snippets indexes every titled section that has a first paragraph.
func snippets(sections []types.Section) []types.SectionSnippet {
	out := make([]types.SectionSnippet, 0, len(sections))
	for _, sec := range sections {
		if sec.Title == "" {
			continue
		}
		para := segment.FirstParagraph(sec.Body)
		if para == "" {
			continue
		}
		out = append(out, types.SectionSnippet{Title: sec.Title, FirstParagraph: para})
	}
	return out
}
