package formatter

import (
	"bytes"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/oakwood-commons/mdplay/internal/value"
)

// YAMLFormatOptions control YAML rendering.
type YAMLFormatOptions struct {
	Indent int
	// LiteralBlockStrings emits multi-line strings as "|" blocks, which keeps
	// code and HTML content readable.
	LiteralBlockStrings bool
	// FlowPositions writes {line, column} mappings on one line.
	FlowPositions bool
}

// FormatAsYAML renders v as YAML. Mappings keep their insertion order.
func FormatAsYAML(v value.Value, opts YAMLFormatOptions) (string, error) {
	var node yaml.Node
	if err := node.Encode(v); err != nil {
		return "", err
	}

	if opts.LiteralBlockStrings {
		applyLiteralStyle(&node)
	}
	if opts.FlowPositions {
		applyFlowPositions(&node)
	}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	indent := opts.Indent
	if indent <= 0 {
		indent = 2
	}
	enc.SetIndent(indent)
	if err := enc.Encode(&node); err != nil {
		return "", err
	}
	if err := enc.Close(); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func applyLiteralStyle(n *yaml.Node) {
	if n == nil {
		return
	}
	if n.Kind == yaml.ScalarNode && n.Tag == "!!str" && strings.Contains(n.Value, "\n") {
		n.Style = yaml.LiteralStyle
	}
	for _, c := range n.Content {
		applyLiteralStyle(c)
	}
}

// applyFlowPositions switches mappings whose keys are exactly line and
// column to flow style.
func applyFlowPositions(n *yaml.Node) {
	if n == nil {
		return
	}
	if n.Kind == yaml.MappingNode && len(n.Content) == 4 &&
		n.Content[0].Value == "line" && n.Content[2].Value == "column" {
		n.Style = yaml.FlowStyle
	}
	for _, c := range n.Content {
		applyFlowPositions(c)
	}
}
