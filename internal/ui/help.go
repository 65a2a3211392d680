package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// renderHelp draws the key reference followed by the about text.
func renderHelp(styles Styles, about []string, width int) string {
	keyW := 0
	for _, s := range helpSections() {
		for _, r := range s.Rows {
			keyW = max(keyW, len(r.Keys))
		}
	}
	var b strings.Builder
	for i, s := range helpSections() {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(styles.Title.Render(s.Title))
		b.WriteString("\n")
		for _, r := range s.Rows {
			line := fmt.Sprintf("  %s  %s",
				styles.HelpKey.Render(fmt.Sprintf("%-*s", keyW, r.Keys)),
				styles.HelpValue.Render(r.Desc))
			b.WriteString(ansi.Truncate(line, width, "…"))
			b.WriteString("\n")
		}
	}
	if len(about) > 0 {
		b.WriteString("\n")
		for _, line := range about {
			b.WriteString(styles.Muted.Render(ansi.Truncate(line, width, "…")))
			b.WriteString("\n")
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
