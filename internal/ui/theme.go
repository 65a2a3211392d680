package ui

import (
	"fmt"
	"image/color"
	"sort"
	"strings"
	"sync"

	"charm.land/lipgloss/v2"

	"github.com/oakwood-commons/mdplay/internal/config"
	"github.com/oakwood-commons/mdplay/internal/editor"
	"github.com/oakwood-commons/mdplay/internal/preview"
	"github.com/oakwood-commons/mdplay/internal/viewer"
)

// Theme defines the colors used across the UI.
type Theme struct {
	Accent        color.Color
	Muted         color.Color
	Text          color.Color
	BorderStyle   string // normal|rounded|thick|double
	Border        color.Color
	BorderFocus   color.Color
	HeaderFG      color.Color
	HeaderBG      color.Color
	TabActiveFG   color.Color
	TabActiveBG   color.Color
	SelectedFG    color.Color
	SelectedBG    color.Color
	Key           color.Color
	Label         color.Color
	String        color.Color
	Number        color.Color
	Bool          color.Color
	Null          color.Color
	Bracket       color.Color
	Code          color.Color
	Gutter        color.Color
	StatusColor   color.Color
	StatusError   color.Color
	StatusSuccess color.Color
	FooterFG      color.Color
	FooterBG      color.Color
	HelpKey       color.Color
	HelpValue     color.Color
}

// fallbackDefaultTheme is used when the embedded config cannot be read and
// as the base for partially specified themes.
func fallbackDefaultTheme() Theme {
	return Theme{
		Accent:        lipgloss.Color("81"),
		Muted:         lipgloss.Color("246"),
		Text:          lipgloss.Color("252"),
		BorderStyle:   "rounded",
		Border:        lipgloss.Color("238"),
		BorderFocus:   lipgloss.Color("81"),
		HeaderFG:      lipgloss.Color("255"),
		HeaderBG:      lipgloss.Color("24"),
		TabActiveFG:   lipgloss.Color("16"),
		TabActiveBG:   lipgloss.Color("81"),
		SelectedFG:    lipgloss.Color("255"),
		SelectedBG:    lipgloss.Color("236"),
		Key:           lipgloss.Color("117"),
		Label:         lipgloss.Color("213"),
		String:        lipgloss.Color("114"),
		Number:        lipgloss.Color("215"),
		Bool:          lipgloss.Color("203"),
		Null:          lipgloss.Color("244"),
		Bracket:       lipgloss.Color("245"),
		Code:          lipgloss.Color("180"),
		Gutter:        lipgloss.Color("240"),
		StatusColor:   lipgloss.Color("245"),
		StatusError:   lipgloss.Color("203"),
		StatusSuccess: lipgloss.Color("114"),
		FooterFG:      lipgloss.Color("250"),
		FooterBG:      lipgloss.Color("236"),
		HelpKey:       lipgloss.Color("81"),
		HelpValue:     lipgloss.Color("246"),
	}
}

var (
	themesMu     sync.RWMutex
	loadedThemes = map[string]Theme{}
	currentTheme Theme
	themeSet     bool
)

// InitializeThemes replaces the registry with the themes from cfg and
// selects the configured default.
func InitializeThemes(cfg config.File) error {
	base := fallbackDefaultTheme()
	themes := make(map[string]Theme, len(cfg.UI.Themes))
	if dc, ok := cfg.UI.Themes[cfg.UI.Theme.Default]; ok {
		base = ThemeFromConfig(dc, base)
	}
	for name, tc := range cfg.UI.Themes {
		themes[name] = ThemeFromConfig(tc, base)
	}

	themesMu.Lock()
	loadedThemes = themes
	themesMu.Unlock()

	if cfg.UI.Theme.Default == "" {
		return nil
	}
	return SetThemeByName(cfg.UI.Theme.Default)
}

// SetTheme overrides the current theme.
func SetTheme(t Theme) {
	t.BorderStyle = normalizeBorderStyle(t.BorderStyle)
	themesMu.Lock()
	currentTheme = t
	themeSet = true
	themesMu.Unlock()
}

// SetThemeByName selects a loaded theme.
func SetThemeByName(name string) error {
	themesMu.RLock()
	th, ok := loadedThemes[name]
	n := len(loadedThemes)
	themesMu.RUnlock()
	if ok {
		SetTheme(th)
		return nil
	}
	if n == 0 {
		return fmt.Errorf("no themes loaded; call InitializeThemes() before SetThemeByName()")
	}
	return fmt.Errorf("unknown theme %q (available: %s)", name, strings.Join(ThemeNames(), ", "))
}

// ThemeNames lists the loaded themes, sorted.
func ThemeNames() []string {
	themesMu.RLock()
	defer themesMu.RUnlock()
	names := make([]string, 0, len(loadedThemes))
	for name := range loadedThemes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetTheme returns a loaded theme by name.
func GetTheme(name string) (Theme, bool) {
	themesMu.RLock()
	defer themesMu.RUnlock()
	th, ok := loadedThemes[name]
	return th, ok
}

// CurrentTheme returns the selected theme, falling back to the built-in
// palette when none was set.
func CurrentTheme() Theme {
	themesMu.RLock()
	defer themesMu.RUnlock()
	if !themeSet {
		return fallbackDefaultTheme()
	}
	return currentTheme
}

// ThemeFromConfig overlays the colors set in tc onto base.
func ThemeFromConfig(tc config.ThemeConfig, base Theme) Theme {
	th := base
	set := func(dst *color.Color, v config.ColorValue) {
		if c := parseColor(v); c != nil {
			*dst = c
		}
	}
	set(&th.Accent, tc.Accent)
	set(&th.Muted, tc.Muted)
	set(&th.Text, tc.Text)
	set(&th.Border, tc.Border)
	set(&th.BorderFocus, tc.BorderFocus)
	set(&th.HeaderFG, tc.HeaderFG)
	set(&th.HeaderBG, tc.HeaderBG)
	set(&th.TabActiveFG, tc.TabActiveFG)
	set(&th.TabActiveBG, tc.TabActiveBG)
	set(&th.SelectedFG, tc.SelectedFG)
	set(&th.SelectedBG, tc.SelectedBG)
	set(&th.Key, tc.Key)
	set(&th.Label, tc.Label)
	set(&th.String, tc.String)
	set(&th.Number, tc.Number)
	set(&th.Bool, tc.Bool)
	set(&th.Null, tc.Null)
	set(&th.Bracket, tc.Bracket)
	set(&th.Code, tc.Code)
	set(&th.Gutter, tc.Gutter)
	set(&th.StatusColor, tc.StatusColor)
	set(&th.StatusError, tc.StatusError)
	set(&th.StatusSuccess, tc.StatusOK)
	set(&th.FooterFG, tc.FooterFG)
	set(&th.FooterBG, tc.FooterBG)
	set(&th.HelpKey, tc.HelpKey)
	set(&th.HelpValue, tc.HelpValue)
	if tc.BorderStyle != "" {
		th.BorderStyle = normalizeBorderStyle(tc.BorderStyle)
	}
	return th
}

func parseColor(v config.ColorValue) color.Color {
	s := strings.TrimSpace(string(v))
	if s == "" {
		return nil
	}
	return lipgloss.Color(s)
}

func normalizeBorderStyle(s string) string {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "rounded":
		return "rounded"
	case "thick":
		return "thick"
	case "double":
		return "double"
	default:
		return "normal"
	}
}

func borderForStyle(s string) lipgloss.Border {
	switch normalizeBorderStyle(s) {
	case "rounded":
		return lipgloss.RoundedBorder()
	case "thick":
		return lipgloss.ThickBorder()
	case "double":
		return lipgloss.DoubleBorder()
	default:
		return lipgloss.NormalBorder()
	}
}

// Styles are the lipgloss styles of the playground chrome plus the styles
// handed to the viewer, editor and preview renderers.
type Styles struct {
	Border      lipgloss.Border
	BorderColor lipgloss.Style
	BorderFocus lipgloss.Style
	Title       lipgloss.Style
	Header      lipgloss.Style
	Tab         lipgloss.Style
	TabActive   lipgloss.Style
	Status      lipgloss.Style
	StatusError lipgloss.Style
	StatusOK    lipgloss.Style
	Footer      lipgloss.Style
	HelpKey     lipgloss.Style
	HelpValue   lipgloss.Style
	Muted       lipgloss.Style
	Check       lipgloss.Style
	Cursor      lipgloss.Style
	CodeBlock   lipgloss.Style

	Viewer  viewer.Styles
	Editor  editor.Styles
	Preview preview.Styles
}

// NewStyles derives every style from th.
func NewStyles(th Theme) Styles {
	return Styles{
		Border:      borderForStyle(th.BorderStyle),
		BorderColor: lipgloss.NewStyle().Foreground(th.Border),
		BorderFocus: lipgloss.NewStyle().Foreground(th.BorderFocus),
		Title:       lipgloss.NewStyle().Foreground(th.Accent).Bold(true),
		Header:      lipgloss.NewStyle().Foreground(th.HeaderFG).Background(th.HeaderBG).Bold(true),
		Tab:         lipgloss.NewStyle().Foreground(th.Muted),
		TabActive:   lipgloss.NewStyle().Foreground(th.TabActiveFG).Background(th.TabActiveBG).Bold(true),
		Status:      lipgloss.NewStyle().Foreground(th.StatusColor),
		StatusError: lipgloss.NewStyle().Foreground(th.StatusError),
		StatusOK:    lipgloss.NewStyle().Foreground(th.StatusSuccess),
		Footer:      lipgloss.NewStyle().Foreground(th.FooterFG).Background(th.FooterBG),
		HelpKey:     lipgloss.NewStyle().Foreground(th.HelpKey).Bold(true),
		HelpValue:   lipgloss.NewStyle().Foreground(th.HelpValue),
		Muted:       lipgloss.NewStyle().Foreground(th.Muted),
		Check:       lipgloss.NewStyle().Foreground(th.StatusSuccess),
		Cursor:      lipgloss.NewStyle().Foreground(th.SelectedFG).Background(th.SelectedBG),
		CodeBlock:   lipgloss.NewStyle().Foreground(th.Code),

		Viewer: viewer.NewStyles(viewer.Palette{
			Key:      th.Key,
			Label:    th.Label,
			String:   th.String,
			Number:   th.Number,
			Bool:     th.Bool,
			Null:     th.Null,
			Bracket:  th.Bracket,
			Muted:    th.Muted,
			CursorFG: th.SelectedFG,
			CursorBG: th.SelectedBG,
		}),
		Editor: editor.Styles{
			Text:        lipgloss.NewStyle().Foreground(th.Text),
			Gutter:      lipgloss.NewStyle().Foreground(th.Gutter),
			Selection:   lipgloss.NewStyle().Foreground(th.SelectedFG).Background(th.SelectedBG),
			Cursor:      lipgloss.NewStyle().Reverse(true),
			Placeholder: lipgloss.NewStyle().Foreground(th.Muted).Italic(true),
		},
		Preview: preview.NewStyles(th.Accent, th.Muted, th.Code),
	}
}

// PlainStyles renders without color. The cursor rows keep reverse video so
// the position stays visible.
func PlainStyles() Styles {
	p := lipgloss.NewStyle()
	return Styles{
		Border:      lipgloss.NormalBorder(),
		BorderColor: p,
		BorderFocus: p,
		Title:       p,
		Header:      p,
		Tab:         p,
		TabActive:   p.Reverse(true),
		Status:      p,
		StatusError: p,
		StatusOK:    p,
		Footer:      p,
		HelpKey:     p,
		HelpValue:   p,
		Muted:       p,
		Check:       p,
		Cursor:      p.Reverse(true),
		CodeBlock:   p,
		Viewer:      viewer.PlainStyles(),
		Editor:      editor.PlainStyles(),
		Preview:     preview.PlainStyles(),
	}
}
