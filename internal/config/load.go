package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	rdebug "runtime/debug"
	"strings"
	"text/template"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/mdplay/internal/markdown"
)

// DirName is the directory under the user config root.
const DirName = "mdplay"

// Loader layers a user file on top of the embedded defaults. The zero value
// uses the embedded defaults; tests swap Defaults.
type Loader struct {
	Defaults func() (File, error)
	// Version overrides the version reported by build info.
	Version string
}

// Load is Loader{}.Load.
func Load(path string) (File, error) {
	return Loader{}.Load(path)
}

// Load merges the config file at path (if any) over the defaults, fills the
// dynamic about fields and expands templates in about text.
func (l Loader) Load(path string) (File, error) {
	defaults := l.Defaults
	if defaults == nil {
		defaults = Embedded
	}
	cfg, err := defaults()
	if err != nil {
		return cfg, fmt.Errorf("load default config: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", path, err)
		}
		var user File
		if err := yaml.Unmarshal(data, &user); err != nil {
			return cfg, fmt.Errorf("decode config %s: %w", path, err)
		}
		cfg = Merge(cfg, user)
	}

	if _, ok := cfg.UI.Themes[cfg.UI.Theme.Default]; !ok {
		return cfg, fmt.Errorf("default theme %q is not defined", cfg.UI.Theme.Default)
	}
	if _, err := cfg.ParserOptions(); err != nil {
		return cfg, err
	}

	applyBuildData(&cfg, BuildData(l.Version))
	cfg = processTemplates(cfg)
	return cfg, nil
}

// ResolvePath returns explicit when set, otherwise the user config file when
// it exists, otherwise "".
func ResolvePath(explicit string) string {
	if explicit != "" {
		return explicit
	}
	var candidates []string
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		candidates = append(candidates, filepath.Join(xdg, DirName, "config.yaml"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, ".config", DirName, "config.yaml"))
	}
	for _, p := range candidates {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// ParserOptions converts the parser section into markdown options, starting
// from the zero options so that the file fully determines the flags.
func (f File) ParserOptions() (markdown.Options, error) {
	opts := markdown.Options{}
	if f.Parser.Options == nil {
		opts = markdown.DefaultOptions()
	}
	opts, err := opts.ApplyFlagMap(f.Parser.Options)
	if err != nil {
		return opts, fmt.Errorf("parser.options: %w", err)
	}
	if f.Parser.Limits.MaxInputBytes != nil {
		opts.MaxInputBytes = *f.Parser.Limits.MaxInputBytes
	}
	if f.Parser.Limits.MaxNodes != nil {
		opts.MaxNodes = *f.Parser.Limits.MaxNodes
	}
	opts.CJKNouns = append([]string(nil), f.Parser.CJKNouns...)
	opts.CJKNounsFromFrontmatter = f.Parser.CJKNounsField
	return opts, nil
}

// Sanitized returns f without the dynamic about fields, for printing.
func (f File) Sanitized() File {
	out := f.clone()
	out.App.About.Version = ""
	out.App.About.GoVersion = ""
	out.App.About.BuildOS = ""
	out.App.About.BuildArch = ""
	out.App.About.GitCommit = ""
	return out
}

// Build describes the running binary.
type Build struct {
	Version   string
	GoVersion string
	OS        string
	Arch      string
	GitCommit string
}

// BuildData reads build info. version overrides the module version when set.
func BuildData(version string) Build {
	b := Build{
		Version:   version,
		GoVersion: runtime.Version(),
		OS:        runtime.GOOS,
		Arch:      runtime.GOARCH,
	}
	if info, ok := rdebug.ReadBuildInfo(); ok {
		if b.Version == "" && info.Main.Version != "" && info.Main.Version != "(devel)" {
			b.Version = info.Main.Version
		}
		for _, s := range info.Settings {
			if s.Key == "vcs.revision" && len(s.Value) >= 7 {
				b.GitCommit = s.Value[:7]
			}
		}
	}
	if b.Version == "" {
		b.Version = "dev"
	}
	return b
}

func applyBuildData(cfg *File, b Build) {
	cfg.App.About.Version = b.Version
	cfg.App.About.GoVersion = b.GoVersion
	cfg.App.About.BuildOS = b.OS
	cfg.App.About.BuildArch = b.Arch
	cfg.App.About.GitCommit = b.GitCommit
}

// processTemplates expands Go templates in the about text. Templates see
// .config.app.about and .build. A template that fails is left as written.
func processTemplates(cfg File) File {
	a := cfg.App.About
	data := map[string]any{
		"config": map[string]any{
			"app": map[string]any{
				"about": map[string]any{
					"name":           a.Name,
					"description":    a.Description,
					"license":        a.License,
					"repository_url": a.RepositoryURL,
					"author":         a.Author,
				},
			},
		},
		"build": map[string]any{
			"version":    a.Version,
			"go_version": a.GoVersion,
			"build_os":   a.BuildOS,
			"build_arch": a.BuildArch,
			"git_commit": a.GitCommit,
		},
	}
	cfg.App.About.Description = processTemplateString(a.Description, data)
	for i, d := range cfg.App.About.Details {
		cfg.App.About.Details[i] = processTemplateString(d, data)
	}
	return cfg
}

func processTemplateString(s string, data map[string]any) string {
	if !strings.Contains(s, "{{") {
		return s
	}
	tmpl, err := template.New("config").Option("missingkey=zero").Parse(s)
	if err != nil {
		return s
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return s
	}
	return buf.String()
}
