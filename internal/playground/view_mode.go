package playground

import (
	"fmt"
	"strings"
)

// ViewMode selects which derived output the output pane shows.
type ViewMode int

const (
	ViewTree ViewMode = iota
	ViewMetadata
	ViewHTML
	ViewPreview
)

// ViewModes lists the modes in tab order.
var ViewModes = []ViewMode{ViewTree, ViewMetadata, ViewHTML, ViewPreview}

// String returns the stable name used on the command line.
func (m ViewMode) String() string {
	switch m {
	case ViewTree:
		return "tree"
	case ViewMetadata:
		return "metadata"
	case ViewHTML:
		return "html"
	case ViewPreview:
		return "preview"
	default:
		return fmt.Sprintf("ViewMode(%d)", int(m))
	}
}

// Title returns the tab label.
func (m ViewMode) Title() string {
	switch m {
	case ViewTree:
		return "AST"
	case ViewMetadata:
		return "Frontmatter"
	case ViewHTML:
		return "HTML"
	case ViewPreview:
		return "Preview"
	default:
		return m.String()
	}
}

// Next returns the following tab, wrapping around.
func (m ViewMode) Next() ViewMode {
	return ViewModes[(int(m)+1)%len(ViewModes)]
}

// Prev returns the preceding tab, wrapping around.
func (m ViewMode) Prev() ViewMode {
	n := len(ViewModes)
	return ViewModes[(int(m)+n-1)%n]
}

// ParseViewMode resolves a mode name. "ast" and "frontmatter" are accepted
// as aliases.
func ParseViewMode(s string) (ViewMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tree", "ast":
		return ViewTree, nil
	case "metadata", "frontmatter", "meta":
		return ViewMetadata, nil
	case "html", "source":
		return ViewHTML, nil
	case "preview":
		return ViewPreview, nil
	}
	return ViewTree, fmt.Errorf("invalid view %q: valid values are tree, metadata, html, preview", s)
}
