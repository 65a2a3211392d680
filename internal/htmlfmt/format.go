// Package htmlfmt pretty-prints generated HTML one tag per line and
// highlights it for the terminal.
package htmlfmt

import (
	"regexp"
	"strings"
)

// Indent is the indentation unit.
const Indent = "  "

var (
	tagPattern = regexp.MustCompile(`<[^>]+>`)
	// Prefix match: "<colgroup>" counts as void because it starts with "<col".
	voidPattern = regexp.MustCompile(`^<(area|base|br|col|embed|hr|img|input|link|meta|param|source|track|wbr)`)
)

// splitTags splits html into alternating text and tag parts, keeping the
// tags, and drops parts that are only whitespace.
func splitTags(html string) []string {
	var parts []string
	add := func(s string) {
		if strings.TrimSpace(s) != "" {
			parts = append(parts, s)
		}
	}
	last := 0
	for _, loc := range tagPattern.FindAllStringIndex(html, -1) {
		add(html[last:loc[0]])
		add(html[loc[0]:loc[1]])
		last = loc[1]
	}
	add(html[last:])
	return parts
}

// Format places every tag and every text run on its own line, indenting by
// nesting depth. Closing tags dedent before they are written; opening tags
// indent the lines after them unless self-closing or void. The depth never
// drops below zero.
func Format(html string) string {
	var sb strings.Builder
	depth := 0
	for _, part := range splitTags(html) {
		switch {
		case strings.HasPrefix(part, "</"):
			depth = max(0, depth-1)
			writeLine(&sb, depth, part)
		case strings.HasPrefix(part, "<"):
			writeLine(&sb, depth, part)
			if !strings.HasSuffix(part, "/>") && !voidPattern.MatchString(part) {
				depth++
			}
		default:
			writeLine(&sb, depth, strings.TrimSpace(part))
		}
	}
	return strings.TrimRight(sb.String(), " \t\r\n")
}

func writeLine(sb *strings.Builder, depth int, s string) {
	sb.WriteString(strings.Repeat(Indent, depth))
	sb.WriteString(s)
	sb.WriteByte('\n')
}
