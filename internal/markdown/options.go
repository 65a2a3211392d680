package markdown

import (
	"fmt"
	"strings"
)

// Flag names one boolean parser option. The string form is the stable key
// used in configuration files and on the command line.
type Flag string

const (
	FlagGitHubFlavored              Flag = "github_flavored"
	FlagGFMExtendedAutolink         Flag = "gfm_extended_autolink"
	FlagObsidianFlavored            Flag = "obsidian_flavored"
	FlagMDXComponent                Flag = "mdx_component"
	FlagCJKAutocorrect              Flag = "cjk_autocorrect"
	FlagSmartPunctuation            Flag = "smart_punctuation"
	FlagNormalizeChinesePunctuation Flag = "normalize_chinese_punctuation"
	FlagCJKFriendlyDelimiters       Flag = "cjk_friendly_delimiters"
)

// FlagInfo describes a flag for option panels and help output.
type FlagInfo struct {
	Flag        Flag
	Label       string
	Description string
}

// Flags lists every boolean option in display order.
var Flags = []FlagInfo{
	{FlagGitHubFlavored, "GitHub Flavored", "Enable GFM extensions"},
	{FlagGFMExtendedAutolink, "GFM Autolink", "Extended autolink support"},
	{FlagObsidianFlavored, "Obsidian Flavored", "Enable OFM extensions"},
	{FlagMDXComponent, "MDX Component", "Support MDX components"},
	{FlagCJKAutocorrect, "CJK Autocorrect", "Auto-correct CJK spacing"},
	{FlagSmartPunctuation, "Smart Punctuation", "Convert quotes and dashes"},
	{FlagNormalizeChinesePunctuation, "Normalize Chinese Punct", "Normalize Chinese punctuation"},
	{FlagCJKFriendlyDelimiters, "CJK Friendly Delimiters", "CJK-friendly emphasis delimiters"},
}

// ParseFlag resolves a flag by key. Dashes are accepted in place of
// underscores.
func ParseFlag(s string) (Flag, error) {
	key := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), "-", "_")
	for _, info := range Flags {
		if string(info.Flag) == key {
			return info.Flag, nil
		}
	}
	return "", fmt.Errorf("unknown parser option %q", s)
}

// Info returns the display information for f.
func (f Flag) Info() FlagInfo {
	for _, info := range Flags {
		if info.Flag == f {
			return info
		}
	}
	return FlagInfo{Flag: f, Label: string(f)}
}

// Options configures a parse. The zero value is plain CommonMark.
type Options struct {
	GitHubFlavored              bool
	GFMExtendedAutolink         bool
	ObsidianFlavored            bool
	MDXComponent                bool
	CJKAutocorrect              bool
	SmartPunctuation            bool
	NormalizeChinesePunctuation bool
	CJKFriendlyDelimiters       bool

	// MaxInputBytes rejects larger inputs when positive.
	MaxInputBytes int
	// MaxNodes rejects documents whose tree would exceed this many nodes when positive.
	MaxNodes int
	// CJKNouns are never split by CJK auto-spacing.
	CJKNouns []string
	// CJKNounsFromFrontmatter names a frontmatter field holding extra nouns.
	CJKNounsFromFrontmatter string
}

// DefaultOptions enables GitHub and Obsidian flavors plus CJK auto-spacing.
func DefaultOptions() Options {
	return Options{
		GitHubFlavored:   true,
		ObsidianFlavored: true,
		CJKAutocorrect:   true,
	}
}

func (o *Options) field(f Flag) *bool {
	switch f {
	case FlagGitHubFlavored:
		return &o.GitHubFlavored
	case FlagGFMExtendedAutolink:
		return &o.GFMExtendedAutolink
	case FlagObsidianFlavored:
		return &o.ObsidianFlavored
	case FlagMDXComponent:
		return &o.MDXComponent
	case FlagCJKAutocorrect:
		return &o.CJKAutocorrect
	case FlagSmartPunctuation:
		return &o.SmartPunctuation
	case FlagNormalizeChinesePunctuation:
		return &o.NormalizeChinesePunctuation
	case FlagCJKFriendlyDelimiters:
		return &o.CJKFriendlyDelimiters
	default:
		return nil
	}
}

// Enabled reports whether f is on. Unknown flags report false.
func (o Options) Enabled(f Flag) bool {
	if p := o.field(f); p != nil {
		return *p
	}
	return false
}

// With returns a copy of o with f set to on.
func (o Options) With(f Flag, on bool) Options {
	if p := o.field(f); p != nil {
		*p = on
	}
	return o
}

// FlagMap returns every flag keyed by its stable name.
func (o Options) FlagMap() map[string]bool {
	out := make(map[string]bool, len(Flags))
	for _, info := range Flags {
		out[string(info.Flag)] = o.Enabled(info.Flag)
	}
	return out
}

// ApplyFlagMap sets the flags named in m. Unknown names are an error.
func (o Options) ApplyFlagMap(m map[string]bool) (Options, error) {
	for name, on := range m {
		f, err := ParseFlag(name)
		if err != nil {
			return o, err
		}
		o = o.With(f, on)
	}
	return o, nil
}

// transformsText reports whether text content is rewritten before rendering.
func (o Options) transformsText() bool {
	return o.CJKAutocorrect || o.NormalizeChinesePunctuation
}
