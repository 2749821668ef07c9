// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package segment

import "strings"

// FirstParagraph returns the first run of non-blank lines, each trimmed and
// joined by a single space. It returns "" when lines has no non-blank content.
func FirstParagraph(lines []string) string {
	var buf []string
	for _, line := range lines {
		trimmed := trimSpace(line)
		if trimmed == "" {
			if len(buf) > 0 {
				break
			}
			continue
		}
		buf = append(buf, trimmed)
	}
	return strings.Join(buf, " ")
}
