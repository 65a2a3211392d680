package formatter

import (
	"fmt"
	"strings"

	"github.com/oakwood-commons/mdplay/internal/value"
)

// MermaidOptions controls Mermaid diagram output formatting.
type MermaidOptions struct {
	// Direction sets the diagram direction: TD (top-down), LR (left-right),
	// BT (bottom-top), RL (right-left). Default is TD.
	Direction string
	// Tree carries the shared outline settings (depth, values, arrays).
	Tree TreeOptions
}

// mermaidBuilder tracks state during diagram generation.
type mermaidBuilder struct {
	lines  []string
	nodeID int
	opts   MermaidOptions
}

// FormatAsMermaid renders data as a Mermaid flowchart. Syntax nodes become
// boxes labelled like the outline format, with an edge to each child node.
func FormatAsMermaid(v value.Value, opts MermaidOptions) string {
	if opts.Direction == "" {
		opts.Direction = "TD"
	}
	if opts.Tree.MaxArrayInline == 0 {
		opts.Tree.MaxArrayInline = defaultMaxArrayInline
	}

	b := &mermaidBuilder{
		lines: []string{fmt.Sprintf("graph %s", opts.Direction)},
		opts:  opts,
	}

	if m, ok := v.(*value.Map); ok && isSyntaxNode(m) {
		b.addSyntaxNode("", m, 0)
	} else {
		rootID := b.nextID()
		b.addNode(rootID, "root")
		b.build(rootID, v, 0)
	}
	return strings.Join(b.lines, "\n") + "\n"
}

func (b *mermaidBuilder) nextID() string {
	id := fmt.Sprintf("n%d", b.nodeID)
	b.nodeID++
	return id
}

func (b *mermaidBuilder) addNode(id, label string) {
	b.lines = append(b.lines, fmt.Sprintf("    %s[%q]", id, escapeLabel(label)))
}

func (b *mermaidBuilder) addEdge(fromID, toID string) {
	b.lines = append(b.lines, fmt.Sprintf("    %s --> %s", fromID, toID))
}

// escapeLabel makes a label safe inside a quoted Mermaid node.
func escapeLabel(label string) string {
	label = strings.ReplaceAll(label, `"`, `'`)
	label = strings.ReplaceAll(label, "\n", " ")
	label = strings.ReplaceAll(label, "\r", "")
	return label
}

func (b *mermaidBuilder) tooDeep(parentID string, depth int) bool {
	if b.opts.Tree.MaxDepth > 0 && depth >= b.opts.Tree.MaxDepth {
		id := b.nextID()
		b.addNode(id, "...")
		b.addEdge(parentID, id)
		return true
	}
	return false
}

// addSyntaxNode emits a box for n linked from parentID (unless empty) and
// recurses into its children. It returns the box's ID.
func (b *mermaidBuilder) addSyntaxNode(parentID string, n *value.Map, depth int) string {
	id := b.nextID()
	b.addNode(id, syntaxLabel(n, b.opts.Tree))
	if parentID != "" {
		b.addEdge(parentID, id)
	}
	children, _ := n.Lookup("children").([]any)
	if len(children) == 0 || b.tooDeep(id, depth+1) {
		return id
	}
	for _, c := range children {
		if m, ok := c.(*value.Map); ok && isSyntaxNode(m) {
			b.addSyntaxNode(id, m, depth+1)
			continue
		}
		b.addValue(id, "", c, depth+1)
	}
	return id
}

func (b *mermaidBuilder) build(parentID string, v value.Value, depth int) {
	if b.tooDeep(parentID, depth) {
		return
	}
	switch t := v.(type) {
	case *value.Map:
		t.Each(func(k string, val value.Value) {
			if !value.IsUndefined(val) {
				b.addValue(parentID, k, val, depth)
			}
		})
	case []any:
		if isScalarArray(t) && !b.opts.Tree.ExpandArrays {
			id := b.nextID()
			b.addNode(id, inlineValue(t, b.opts.Tree))
			b.addEdge(parentID, id)
			return
		}
		for i, elem := range t {
			b.addValue(parentID, FormatArrayIndex(i, b.opts.Tree.ArrayStyle), elem, depth)
		}
	default:
		if v != nil {
			id := b.nextID()
			b.addNode(id, formatScalar(v, b.opts.Tree))
			b.addEdge(parentID, id)
		}
	}
}

func (b *mermaidBuilder) addValue(parentID, key string, val value.Value, depth int) {
	if m, ok := val.(*value.Map); ok && isSyntaxNode(m) {
		b.addSyntaxNode(parentID, m, depth)
		return
	}
	id := b.nextID()
	if value.IsContainer(val) {
		b.addNode(id, formatKeyOnly(key))
		b.addEdge(parentID, id)
		b.build(id, val, depth+1)
		return
	}
	label := formatKeyValue(key, formatScalar(val, b.opts.Tree))
	if b.opts.Tree.NoValues {
		label = formatKeyOnly(key)
	}
	b.addNode(id, label)
	b.addEdge(parentID, id)
}
