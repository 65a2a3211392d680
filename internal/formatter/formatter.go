// Package formatter renders displayable values for non-interactive output.
package formatter

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	toml "github.com/pelletier/go-toml/v2"

	"github.com/oakwood-commons/mdplay/internal/value"
	"github.com/oakwood-commons/mdplay/internal/viewer"
)

// Format names an output rendering.
type Format string

const (
	FormatJSON    Format = "json"
	FormatYAML    Format = "yaml"
	FormatTOML    Format = "toml"
	FormatTree    Format = "tree"
	FormatOutline Format = "outline"
	FormatMermaid Format = "mermaid"
)

// Formats lists the supported formats in help order.
var Formats = []Format{FormatJSON, FormatYAML, FormatTOML, FormatTree, FormatOutline, FormatMermaid}

// ParseFormat resolves a format name, case-insensitively.
func ParseFormat(s string) (Format, error) {
	name := Format(strings.ToLower(strings.TrimSpace(s)))
	if name == "" {
		return FormatJSON, nil
	}
	for _, f := range Formats {
		if f == name {
			return f, nil
		}
	}
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return "", fmt.Errorf("invalid output format %q: valid values are %s", s, strings.Join(names, ", "))
}

// Options controls rendering across formats.
type Options struct {
	// Indent is the indentation width for json and yaml (default 2).
	Indent int
	// Outline configures the outline and mermaid formats.
	Outline TreeOptions
	// Direction is the mermaid graph direction (default TD).
	Direction string
}

// Render formats v. The result always ends with a newline.
func Render(v value.Value, f Format, opts Options) (string, error) {
	indent := opts.Indent
	if indent <= 0 {
		indent = 2
	}
	var out string
	var err error
	switch f {
	case FormatJSON, "":
		out, err = value.MarshalIndentJSON(v, strings.Repeat(" ", indent))
	case FormatYAML:
		out, err = FormatAsYAML(v, YAMLFormatOptions{Indent: indent, LiteralBlockStrings: true, FlowPositions: true})
	case FormatTOML:
		out, err = FormatAsTOML(v)
	case FormatTree:
		root := viewer.New(v)
		root.ExpandAll()
		out = root.PlainText()
	case FormatOutline:
		out = FormatAsTree(v, opts.Outline)
	case FormatMermaid:
		out = FormatAsMermaid(v, MermaidOptions{Direction: opts.Direction, Tree: opts.Outline})
	default:
		return "", fmt.Errorf("unsupported output format %q", f)
	}
	if err != nil {
		return "", fmt.Errorf("format %s: %w", f, err)
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	return out, nil
}

// FormatAsTOML renders v as a TOML document. TOML has no null, so null and
// undefined entries are dropped, and a root that is not a mapping is wrapped
// as {value = ...}.
func FormatAsTOML(v value.Value) (string, error) {
	native := dropNulls(value.ToNative(v))
	doc, ok := native.(map[string]any)
	if !ok {
		doc = map[string]any{"value": native}
		if native == nil {
			doc = map[string]any{}
		}
	}
	b, err := toml.Marshal(doc)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func dropNulls(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, val := range t {
			if val == nil {
				delete(t, k)
				continue
			}
			t[k] = dropNulls(val)
		}
		return t
	case []any:
		out := make([]any, 0, len(t))
		for _, item := range t {
			if item != nil {
				out = append(out, dropNulls(item))
			}
		}
		return out
	default:
		return v
	}
}

// Stringify renders a scalar the way the tree viewer shows it, and a
// container as a one-line summary.
func Stringify(v value.Value) string {
	switch value.KindOf(v) {
	case value.KindNull:
		return "null"
	case value.KindUndefined:
		return "undefined"
	case value.KindString:
		return v.(string)
	case value.KindNumber:
		return value.FormatNumber(v)
	case value.KindBool:
		if v.(bool) {
			return "true"
		}
		return "false"
	case value.KindSequence:
		return fmt.Sprintf("[%d items]", len(v.([]any)))
	case value.KindMapping:
		return fmt.Sprintf("{%d keys}", v.(*value.Map).Len())
	default:
		return fmt.Sprint(v)
	}
}

// truncate cuts s to at most limit display columns, ending in "...".
func truncate(s string, limit int) string {
	if limit <= 0 || runewidth.StringWidth(s) <= limit {
		return s
	}
	if limit <= 3 {
		return "..."
	}
	return runewidth.Truncate(s, limit, "...")
}
