package viewer

import (
	"image/color"

	"charm.land/lipgloss/v2"
)

// Styles colors the outline by segment class.
type Styles struct {
	Key       lipgloss.Style
	Label     lipgloss.Style
	String    lipgloss.Style
	Number    lipgloss.Style
	Bool      lipgloss.Style
	Null      lipgloss.Style
	Bracket   lipgloss.Style
	Toggle    lipgloss.Style
	Preview   lipgloss.Style
	Muted     lipgloss.Style
	Cursor    lipgloss.Style
	Highlight lipgloss.Style
}

// Palette is the set of colors Styles are built from.
type Palette struct {
	Key      color.Color
	Label    color.Color
	String   color.Color
	Number   color.Color
	Bool     color.Color
	Null     color.Color
	Bracket  color.Color
	Muted    color.Color
	CursorFG color.Color
	CursorBG color.Color
}

// DefaultPalette mirrors the dark theme.
func DefaultPalette() Palette {
	return Palette{
		Key:      lipgloss.Color("81"),
		Label:    lipgloss.Color("141"),
		String:   lipgloss.Color("114"),
		Number:   lipgloss.Color("215"),
		Bool:     lipgloss.Color("204"),
		Null:     lipgloss.Color("244"),
		Bracket:  lipgloss.Color("250"),
		Muted:    lipgloss.Color("242"),
		CursorFG: lipgloss.Color("250"),
		CursorBG: lipgloss.Color("24"),
	}
}

// NewStyles builds styles from p.
func NewStyles(p Palette) Styles {
	fg := func(c color.Color) lipgloss.Style {
		if c == nil {
			return lipgloss.NewStyle()
		}
		return lipgloss.NewStyle().Foreground(c)
	}
	cursor := lipgloss.NewStyle().Bold(true)
	if p.CursorFG != nil {
		cursor = cursor.Foreground(p.CursorFG)
	}
	if p.CursorBG != nil {
		cursor = cursor.Background(p.CursorBG)
	}
	return Styles{
		Key:       fg(p.Key),
		Label:     fg(p.Label).Bold(true),
		String:    fg(p.String),
		Number:    fg(p.Number),
		Bool:      fg(p.Bool),
		Null:      fg(p.Null).Italic(true),
		Bracket:   fg(p.Bracket),
		Toggle:    fg(p.Muted),
		Preview:   fg(p.Muted).Italic(true),
		Muted:     fg(p.Muted),
		Cursor:    cursor,
		Highlight: lipgloss.NewStyle().Reverse(true),
	}
}

// DefaultStyles returns NewStyles(DefaultPalette()).
func DefaultStyles() Styles {
	return NewStyles(DefaultPalette())
}

// PlainStyles renders without color; the cursor line is reversed.
func PlainStyles() Styles {
	plain := lipgloss.NewStyle()
	return Styles{
		Key: plain, Label: plain, String: plain, Number: plain, Bool: plain,
		Null: plain, Bracket: plain, Toggle: plain, Preview: plain, Muted: plain,
		Cursor:    lipgloss.NewStyle().Reverse(true),
		Highlight: lipgloss.NewStyle().Reverse(true),
	}
}

func (s Styles) forClass(c Class) (lipgloss.Style, bool) {
	switch c {
	case ClassKey:
		return s.Key, true
	case ClassLabel:
		return s.Label, true
	case ClassString:
		return s.String, true
	case ClassNumber:
		return s.Number, true
	case ClassBool:
		return s.Bool, true
	case ClassNull, ClassUndefined:
		return s.Null, true
	case ClassBracket:
		return s.Bracket, true
	case ClassToggle:
		return s.Toggle, true
	case ClassPreview:
		return s.Preview, true
	case ClassComma, ClassColon:
		return s.Muted, true
	}
	return lipgloss.Style{}, false
}
