// Package config defines the mdplay configuration file and its layered
// loading: the embedded defaults first, then an optional user file on top.
package config

import (
	"strconv"

	"gopkg.in/yaml.v3"
)

// File is the complete configuration.
type File struct {
	App    AppConfig    `yaml:"app" json:"app"`
	UI     UIConfig     `yaml:"ui" json:"ui"`
	Parser ParserConfig `yaml:"parser" json:"parser"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	About AboutConfig `yaml:"about" json:"about"`
}

// AboutConfig describes the application for help and version output.
// Version and the build fields are filled from build info at load time and
// are never read from a file.
type AboutConfig struct {
	Name          string   `yaml:"name" json:"name"`
	Description   string   `yaml:"description" json:"description"`
	License       string   `yaml:"license,omitempty" json:"license,omitempty"`
	RepositoryURL string   `yaml:"repository_url,omitempty" json:"repository_url,omitempty"`
	Author        string   `yaml:"author,omitempty" json:"author,omitempty"`
	Details       []string `yaml:"details,omitempty" json:"details,omitempty"`

	Version   string `yaml:"-" json:"-"`
	GoVersion string `yaml:"-" json:"-"`
	BuildOS   string `yaml:"-" json:"-"`
	BuildArch string `yaml:"-" json:"-"`
	GitCommit string `yaml:"-" json:"-"`
}

// UIConfig holds terminal UI settings.
type UIConfig struct {
	Theme     ThemeSelectionConfig   `yaml:"theme" json:"theme"`
	Themes    map[string]ThemeConfig `yaml:"themes" json:"themes"`
	Highlight HighlightConfig        `yaml:"highlight" json:"highlight"`
	Viewer    ViewerConfig           `yaml:"viewer" json:"viewer"`
	Editor    EditorConfig           `yaml:"editor" json:"editor"`
	Layout    LayoutConfig           `yaml:"layout" json:"layout"`
}

// ThemeSelectionConfig picks the active theme.
type ThemeSelectionConfig struct {
	Default string `yaml:"default" json:"default"`
}

// ColorValue stores a color token (ANSI number, name or hex) and marshals
// numerics as YAML ints.
type ColorValue string

// MarshalYAML writes numeric colors as ints.
func (c ColorValue) MarshalYAML() (interface{}, error) {
	if c == "" {
		return "", nil
	}
	s := string(c)
	if _, err := strconv.Atoi(s); err == nil {
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!int", Value: s}, nil
	}
	return s, nil
}

// UnmarshalYAML accepts both ints and strings.
func (c *ColorValue) UnmarshalYAML(value *yaml.Node) error {
	if value == nil {
		*c = ""
		return nil
	}
	*c = ColorValue(value.Value)
	return nil
}

// ThemeConfig is one named color set.
type ThemeConfig struct {
	Accent      ColorValue `yaml:"accent,omitempty" json:"accent,omitempty"`
	Muted       ColorValue `yaml:"muted,omitempty" json:"muted,omitempty"`
	Text        ColorValue `yaml:"text,omitempty" json:"text,omitempty"`
	BorderStyle string     `yaml:"border_style,omitempty" json:"border_style,omitempty"`
	Border      ColorValue `yaml:"border,omitempty" json:"border,omitempty"`
	BorderFocus ColorValue `yaml:"border_focus,omitempty" json:"border_focus,omitempty"`
	HeaderFG    ColorValue `yaml:"header_fg,omitempty" json:"header_fg,omitempty"`
	HeaderBG    ColorValue `yaml:"header_bg,omitempty" json:"header_bg,omitempty"`
	TabActiveFG ColorValue `yaml:"tab_active_fg,omitempty" json:"tab_active_fg,omitempty"`
	TabActiveBG ColorValue `yaml:"tab_active_bg,omitempty" json:"tab_active_bg,omitempty"`
	SelectedFG  ColorValue `yaml:"selected_fg,omitempty" json:"selected_fg,omitempty"`
	SelectedBG  ColorValue `yaml:"selected_bg,omitempty" json:"selected_bg,omitempty"`
	Key         ColorValue `yaml:"key,omitempty" json:"key,omitempty"`
	Label       ColorValue `yaml:"label,omitempty" json:"label,omitempty"`
	String      ColorValue `yaml:"string,omitempty" json:"string,omitempty"`
	Number      ColorValue `yaml:"number,omitempty" json:"number,omitempty"`
	Bool        ColorValue `yaml:"bool,omitempty" json:"bool,omitempty"`
	Null        ColorValue `yaml:"null,omitempty" json:"null,omitempty"`
	Bracket     ColorValue `yaml:"bracket,omitempty" json:"bracket,omitempty"`
	Code        ColorValue `yaml:"code,omitempty" json:"code,omitempty"`
	Gutter      ColorValue `yaml:"gutter,omitempty" json:"gutter,omitempty"`
	StatusColor ColorValue `yaml:"status,omitempty" json:"status,omitempty"`
	StatusError ColorValue `yaml:"status_error,omitempty" json:"status_error,omitempty"`
	StatusOK    ColorValue `yaml:"status_success,omitempty" json:"status_success,omitempty"`
	FooterFG    ColorValue `yaml:"footer_fg,omitempty" json:"footer_fg,omitempty"`
	FooterBG    ColorValue `yaml:"footer_bg,omitempty" json:"footer_bg,omitempty"`
	HelpKey     ColorValue `yaml:"help_key,omitempty" json:"help_key,omitempty"`
	HelpValue   ColorValue `yaml:"help_value,omitempty" json:"help_value,omitempty"`
}

// HighlightConfig selects the chroma style and formatter for HTML and code
// blocks.
type HighlightConfig struct {
	Enabled   *bool  `yaml:"enabled,omitempty" json:"enabled,omitempty"`
	Style     string `yaml:"style,omitempty" json:"style,omitempty"`
	Formatter string `yaml:"formatter,omitempty" json:"formatter,omitempty"`
}

// ViewerConfig configures the tree view.
type ViewerConfig struct {
	Indent *int `yaml:"indent,omitempty" json:"indent,omitempty"`
}

// EditorConfig configures the input pane.
type EditorConfig struct {
	LineNumbers *bool  `yaml:"line_numbers,omitempty" json:"line_numbers,omitempty"`
	Placeholder string `yaml:"placeholder,omitempty" json:"placeholder,omitempty"`
}

// LayoutConfig configures the split between input and output panes.
type LayoutConfig struct {
	// InputPercent is the input pane share of the width, 20 to 80.
	InputPercent *int  `yaml:"input_percent,omitempty" json:"input_percent,omitempty"`
	ShowOptions  *bool `yaml:"show_options,omitempty" json:"show_options,omitempty"`
}

// ParserConfig holds the default parser settings.
type ParserConfig struct {
	Options  map[string]bool `yaml:"options" json:"options"`
	Limits   LimitsConfig    `yaml:"limits" json:"limits"`
	CJKNouns []string        `yaml:"cjk_nouns,omitempty" json:"cjk_nouns,omitempty"`
	// CJKNounsField names a frontmatter field holding extra nouns.
	CJKNounsField string `yaml:"cjk_nouns_field,omitempty" json:"cjk_nouns_field,omitempty"`
}

// LimitsConfig bounds parser work. Zero disables a limit.
type LimitsConfig struct {
	MaxInputBytes *int `yaml:"max_input_bytes,omitempty" json:"max_input_bytes,omitempty"`
	MaxNodes      *int `yaml:"max_nodes,omitempty" json:"max_nodes,omitempty"`
}
