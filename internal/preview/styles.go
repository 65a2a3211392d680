package preview

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Styles for rendered elements.
type Styles struct {
	Headings  [6]lipgloss.Style
	Bold      lipgloss.Style
	Italic    lipgloss.Style
	Strike    lipgloss.Style
	Code      lipgloss.Style
	CodeBlock lipgloss.Style
	Link      lipgloss.Style
	Tag       lipgloss.Style
	Quote     lipgloss.Style
	Bullet    lipgloss.Style
	Rule      lipgloss.Style
	Muted     lipgloss.Style
}

func (s Styles) heading(level int) lipgloss.Style {
	return s.Headings[min(max(level, 1), 6)-1]
}

// NewStyles builds the colored styles around an accent color.
func NewStyles(accent, muted, code color.Color) Styles {
	h := lipgloss.NewStyle().Bold(true).Foreground(accent)
	return Styles{
		Headings: [6]lipgloss.Style{
			h.Underline(true), h, h, h.Bold(false), h.Bold(false), h.Bold(false).Italic(true),
		},
		Bold:      lipgloss.NewStyle().Bold(true),
		Italic:    lipgloss.NewStyle().Italic(true),
		Strike:    lipgloss.NewStyle().Strikethrough(true),
		Code:      lipgloss.NewStyle().Foreground(code),
		CodeBlock: lipgloss.NewStyle().Foreground(code),
		Link:      lipgloss.NewStyle().Foreground(accent).Underline(true),
		Tag:       lipgloss.NewStyle().Foreground(accent).Italic(true),
		Quote:     lipgloss.NewStyle().Foreground(muted),
		Bullet:    lipgloss.NewStyle().Foreground(accent),
		Rule:      lipgloss.NewStyle().Foreground(muted),
		Muted:     lipgloss.NewStyle().Foreground(muted),
	}
}

// DefaultStyles uses the dark theme colors.
func DefaultStyles() Styles {
	return NewStyles(lipgloss.Color("81"), lipgloss.Color("244"), lipgloss.Color("215"))
}

// PlainStyles renders without any styling.
func PlainStyles() Styles {
	p := lipgloss.NewStyle()
	return Styles{
		Headings: [6]lipgloss.Style{p, p, p, p, p, p},
		Bold:     p, Italic: p, Strike: p, Code: p, CodeBlock: p,
		Link: p, Tag: p, Quote: p, Bullet: p, Rule: p, Muted: p,
	}
}
