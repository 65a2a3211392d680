package config

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default_config.yaml
var embeddedDefaultConfig []byte

var (
	embeddedOnce sync.Once
	embedded     File
	embeddedErr  error
)

// DefaultYAML returns a copy of the embedded default config.
func DefaultYAML() []byte {
	return append([]byte(nil), embeddedDefaultConfig...)
}

// Embedded parses the embedded default configuration once. Callers receive a
// deep enough copy to mutate maps and slices freely.
func Embedded() (File, error) {
	embeddedOnce.Do(func() {
		if len(embeddedDefaultConfig) == 0 {
			embeddedErr = fmt.Errorf("embedded default config is empty")
			return
		}
		if err := yaml.Unmarshal(embeddedDefaultConfig, &embedded); err != nil {
			embeddedErr = fmt.Errorf("decode embedded default config: %w", err)
			return
		}
		if embedded.UI.Theme.Default == "" || len(embedded.UI.Themes) == 0 {
			embeddedErr = fmt.Errorf("default config is missing required theme defaults")
		}
	})
	if embeddedErr != nil {
		return File{}, embeddedErr
	}
	return embedded.clone(), nil
}

func (f File) clone() File {
	out := f
	out.App.About.Details = append([]string(nil), f.App.About.Details...)
	out.UI.Themes = make(map[string]ThemeConfig, len(f.UI.Themes))
	for k, v := range f.UI.Themes {
		out.UI.Themes[k] = v
	}
	if f.Parser.Options != nil {
		out.Parser.Options = make(map[string]bool, len(f.Parser.Options))
		for k, v := range f.Parser.Options {
			out.Parser.Options[k] = v
		}
	}
	out.Parser.CJKNouns = append([]string(nil), f.Parser.CJKNouns...)
	return out
}
