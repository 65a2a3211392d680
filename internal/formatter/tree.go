package formatter

import (
	"fmt"
	"strings"

	"github.com/xlab/treeprint"

	"github.com/oakwood-commons/mdplay/internal/value"
)

const (
	// defaultMaxArrayInline is the max number of array elements to show inline.
	defaultMaxArrayInline = 3
)

// TreeOptions controls outline output formatting.
type TreeOptions struct {
	// NoValues hides values at leaf nodes (structure only).
	NoValues bool
	// NoPositions hides the [line:col-line:col] span on syntax nodes.
	NoPositions bool
	// MaxDepth limits tree depth (0 = unlimited).
	MaxDepth int
	// ExpandArrays shows all array elements instead of "[N items]" summary.
	ExpandArrays bool
	// MaxArrayInline is max items to show inline for scalar arrays (default 3).
	MaxArrayInline int
	// MaxStringLen is max display columns before truncating inline strings.
	// 0 or negative = no truncation.
	MaxStringLen int
	// ArrayStyle controls how array indices are displayed:
	// "index" = [0], [1]; "numbered" = 1, 2; "bullet" = •; "none" = skip index.
	ArrayStyle string
}

// ValidArrayStyles contains all valid array style values.
var ValidArrayStyles = []string{"index", "numbered", "bullet", "none"}

// ValidateArrayStyle returns an error if the style is invalid.
func ValidateArrayStyle(style string) error {
	if style == "" {
		return nil
	}
	for _, valid := range ValidArrayStyles {
		if style == valid {
			return nil
		}
	}
	return fmt.Errorf("invalid array-style %q: valid values are index, numbered, bullet, none", style)
}

// FormatArrayIndex formats an array index based on style.
func FormatArrayIndex(i int, style string) string {
	switch style {
	case "numbered":
		return fmt.Sprintf("%d", i+1)
	case "bullet":
		return "•"
	case "none":
		return ""
	default:
		return fmt.Sprintf("[%d]", i)
	}
}

// formatKeyValue formats a key-value pair for display.
// If key is empty (e.g., from array-style none), returns just the value.
func formatKeyValue(key, value string) string {
	if key == "" {
		return value
	}
	return key + ": " + value
}

// formatKeyOnly returns the key or a placeholder if empty.
func formatKeyOnly(key string) string {
	if key == "" {
		return "(item)"
	}
	return key
}

// FormatAsTree renders data as an ASCII outline.
//
// Syntax nodes (mappings with a "kind" field) collapse into one line:
// their kind, a summary of their content and their source span, with the
// node's children as branches. Other mappings become branches keyed by
// field name in insertion order; scalars are shown inline at leaves.
func FormatAsTree(v value.Value, opts TreeOptions) string {
	if opts.MaxArrayInline == 0 {
		opts.MaxArrayInline = defaultMaxArrayInline
	}
	tree := treeprint.New()
	buildTree(tree, v, opts, 0)
	return tree.String()
}

func buildTree(branch treeprint.Tree, v value.Value, opts TreeOptions, depth int) {
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		branch.AddNode("...")
		return
	}
	switch t := v.(type) {
	case *value.Map:
		if isSyntaxNode(t) {
			addSyntaxNode(branch, t, opts, depth)
			return
		}
		buildMapTree(branch, t, opts, depth)
	case []any:
		buildArrayTree(branch, t, opts, depth)
	default:
		branch.AddNode(formatScalar(v, opts))
	}
}

func buildMapTree(branch treeprint.Tree, m *value.Map, opts TreeOptions, depth int) {
	m.Each(func(key string, val value.Value) {
		if value.IsUndefined(val) {
			return
		}
		addNodeForValue(branch, key, val, opts, depth)
	})
}

func buildArrayTree(branch treeprint.Tree, arr []any, opts TreeOptions, depth int) {
	for i, elem := range arr {
		addNodeForValue(branch, FormatArrayIndex(i, opts.ArrayStyle), elem, opts, depth)
	}
}

func addNodeForValue(branch treeprint.Tree, key string, val value.Value, opts TreeOptions, depth int) {
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		branch.AddNode(formatKeyValue(key, "..."))
		return
	}

	switch v := val.(type) {
	case *value.Map:
		switch {
		case isSyntaxNode(v):
			addSyntaxNode(branch, v, opts, depth)
		case v.Len() == 0:
			addLeaf(branch, key, "{}", opts)
		default:
			child := branch.AddBranch(formatKeyOnly(key))
			buildMapTree(child, v, opts, depth+1)
		}
	case []any:
		addArrayNode(branch, key, v, opts, depth)
	default:
		addLeaf(branch, key, formatScalar(v, opts), opts)
	}
}

func addLeaf(branch treeprint.Tree, key, val string, opts TreeOptions) {
	if opts.NoValues {
		branch.AddNode(formatKeyOnly(key))
		return
	}
	branch.AddNode(formatKeyValue(key, val))
}

func addArrayNode(branch treeprint.Tree, key string, v []any, opts TreeOptions, depth int) {
	switch {
	case len(v) == 0:
		addLeaf(branch, key, "[]", opts)
	case !opts.ExpandArrays && isScalarArray(v) && len(v) <= opts.MaxArrayInline:
		addLeaf(branch, key, formatInlineArray(v), opts)
	case !opts.ExpandArrays && isScalarArray(v):
		addLeaf(branch, key, fmt.Sprintf("[%d items]", len(v)), opts)
	default:
		child := branch.AddBranch(formatKeyOnly(key))
		buildArrayTree(child, v, opts, depth+1)
	}
}

// addSyntaxNode adds one line for a syntax node and a branch per child node.
// Index keys are dropped: the kind already identifies each child.
func addSyntaxNode(branch treeprint.Tree, n *value.Map, opts TreeOptions, depth int) {
	label := syntaxLabel(n, opts)
	children, _ := n.Lookup("children").([]any)
	if len(children) == 0 {
		branch.AddNode(label)
		return
	}
	child := branch.AddBranch(label)
	if opts.MaxDepth > 0 && depth+1 >= opts.MaxDepth {
		child.AddNode("...")
		return
	}
	for _, c := range children {
		if m, ok := c.(*value.Map); ok && isSyntaxNode(m) {
			addSyntaxNode(child, m, opts, depth+1)
			continue
		}
		buildTree(child, c, opts, depth+1)
	}
}

// isSyntaxNode reports whether m looks like a parsed node: a mapping with a
// string "kind" field.
func isSyntaxNode(m *value.Map) bool {
	kind, ok := m.Lookup("kind").(string)
	return ok && kind != ""
}

// syntaxLabel renders "kind #id content [span]".
func syntaxLabel(n *value.Map, opts TreeOptions) string {
	parts := []string{n.Lookup("kind").(string)}
	if id, ok := n.Lookup("id").(string); ok && id != "" {
		parts = append(parts, "#"+id)
	}
	if !opts.NoValues {
		if c := contentSummary(n.Lookup("content"), opts); c != "" {
			parts = append(parts, c)
		}
	}
	if !opts.NoPositions {
		if span, ok := spanOf(n); ok {
			parts = append(parts, span)
		}
	}
	return strings.Join(parts, " ")
}

// contentSummary renders node content inline: scalars quoted, mappings as
// key=value pairs, sequences inline when short.
func contentSummary(c value.Value, opts TreeOptions) string {
	switch t := c.(type) {
	case *value.Map:
		var pairs []string
		t.Each(func(k string, v value.Value) {
			if value.IsUndefined(v) {
				return
			}
			pairs = append(pairs, k+"="+inlineValue(v, opts))
		})
		return strings.Join(pairs, " ")
	default:
		if value.IsUndefined(c) {
			return ""
		}
		return inlineValue(c, opts)
	}
}

func inlineValue(v value.Value, opts TreeOptions) string {
	switch t := v.(type) {
	case string:
		return fmt.Sprintf("%q", truncate(t, opts.MaxStringLen))
	case []any:
		if isScalarArray(t) && len(t) <= opts.MaxArrayInline {
			return formatInlineArray(t)
		}
		return fmt.Sprintf("[%d items]", len(t))
	case *value.Map:
		return fmt.Sprintf("{%d keys}", t.Len())
	default:
		return formatScalarSimple(v)
	}
}

// spanOf renders the start and end positions as [l:c-l:c].
func spanOf(n *value.Map) (string, bool) {
	start, ok := value.PositionOf(n.Lookup("start"))
	if !ok {
		return "", false
	}
	end, ok := value.PositionOf(n.Lookup("end"))
	if !ok {
		return "", false
	}
	return "[" + start.String() + "-" + end.String() + "]", true
}

// isScalarArray returns true if all elements are scalars (not maps or arrays).
func isScalarArray(arr []any) bool {
	for _, elem := range arr {
		if value.IsContainer(elem) {
			return false
		}
	}
	return true
}

// formatInlineArray formats a scalar array as [a, b, c].
func formatInlineArray(arr []any) string {
	parts := make([]string, len(arr))
	for i, elem := range arr {
		parts[i] = formatScalarSimple(elem)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatScalar(v value.Value, opts TreeOptions) string {
	return truncate(formatScalarSimple(v), opts.MaxStringLen)
}

// formatScalarSimple converts a scalar to string without truncation.
func formatScalarSimple(v value.Value) string {
	return Stringify(v)
}
