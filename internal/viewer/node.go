// Package viewer renders a Displayable Value as a collapsible outline and
// provides a bubbletea model for navigating it.
package viewer

import (
	"fmt"
	"math"
	"reflect"

	"github.com/oakwood-commons/mdplay/internal/value"
)

// ClickHandler receives the start and end fields of an activated mapping
// node. Either may be value.Undefined.
type ClickHandler func(start, end value.Value)

// Node is one rendered entry of the outline. Container children are built
// on first expansion and kept, so their collapse state survives the parent
// being collapsed and expanded again.
type Node struct {
	data       value.Value
	name       string
	hasName    bool
	depth      int
	last       bool
	arrayIndex int
	inArray    bool
	onClick    ClickHandler

	collapsed bool
	children  []*Node
	built     bool
}

// Option configures a Node.
type Option func(*Node)

// WithName sets the mapping key the node is displayed under.
func WithName(name string) Option {
	return func(n *Node) {
		n.name = name
		n.hasName = true
	}
}

// WithDepth sets the nesting depth, which drives the default collapse state.
func WithDepth(depth int) Option {
	return func(n *Node) { n.depth = depth }
}

// WithLast marks whether the node is the last of its siblings.
func WithLast(last bool) Option {
	return func(n *Node) { n.last = last }
}

// WithClickHandler sets the handler invoked when the node is activated.
func WithClickHandler(h ClickHandler) Option {
	return func(n *Node) { n.onClick = h }
}

// WithArrayIndex marks the node as a sequence element.
func WithArrayIndex(i int) Option {
	return func(n *Node) {
		n.arrayIndex = i
		n.inArray = true
	}
}

// New builds the node for v. Without options the node is a root: depth 0,
// expanded, last of its level.
func New(v value.Value, opts ...Option) *Node {
	n := &Node{data: value.Normalize(v), last: true}
	for _, opt := range opts {
		opt(n)
	}
	n.collapsed = n.depth > 1
	return n
}

// Value returns the data the node renders.
func (n *Node) Value() value.Value { return n.data }

// Depth returns the nesting depth.
func (n *Node) Depth() int { return n.depth }

// IsLast reports whether no sibling follows the node.
func (n *Node) IsLast() bool { return n.last }

// IsContainer reports whether the node is a sequence or mapping.
func (n *Node) IsContainer() bool { return value.IsContainer(n.data) }

// IsSequence reports whether the node renders with square brackets.
func (n *Node) IsSequence() bool { return value.KindOf(n.data) == value.KindSequence }

// Collapsed reports whether a container hides its children.
func (n *Node) Collapsed() bool { return n.collapsed }

// SetCollapsed sets the collapse flag.
func (n *Node) SetCollapsed(c bool) { n.collapsed = c }

// Toggle flips the collapse flag. It never invokes the click handler.
func (n *Node) Toggle() { n.collapsed = !n.collapsed }

// Label returns the text shown before the value: the mapping key, or the
// kind field of a mapping inside a sequence. ok is false when nothing is shown.
func (n *Node) Label() (label string, ok bool) {
	if n.hasName {
		return n.name, true
	}
	if !n.inArray {
		return "", false
	}
	m, isMap := n.data.(*value.Map)
	if !isMap {
		return "", false
	}
	kind, found := m.Get("kind")
	if !found || !truthy(kind) {
		return "", false
	}
	if s, isStr := kind.(string); isStr {
		return s, true
	}
	return fmt.Sprint(kind), true
}

func truthy(v value.Value) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case bool:
		return t
	}
	if value.KindOf(v) == value.KindNumber {
		return !zeroOrNaN(v)
	}
	return !value.IsUndefined(v)
}

// zeroOrNaN reports whether the number v is 0 or NaN, whatever its Go type.
func zeroOrNaN(v value.Value) bool {
	rv := reflect.ValueOf(v)
	switch {
	case rv.CanInt():
		return rv.Int() == 0
	case rv.CanUint():
		return rv.Uint() == 0
	case rv.CanFloat():
		f := rv.Float()
		return f == 0 || math.IsNaN(f)
	}
	return false
}

// Preview returns the collapsed summary: "N items" for sequences, "K keys"
// for mappings, and "" when empty or not a container.
func (n *Node) Preview() string {
	switch t := n.data.(type) {
	case []any:
		if len(t) == 0 {
			return ""
		}
		return fmt.Sprintf("%d items", len(t))
	case *value.Map:
		if t.Len() == 0 {
			return ""
		}
		return fmt.Sprintf("%d keys", t.Len())
	}
	return ""
}

// Children returns the child nodes in iteration order, building them once.
func (n *Node) Children() []*Node {
	if n.built {
		return n.children
	}
	n.built = true
	switch t := n.data.(type) {
	case []any:
		n.children = make([]*Node, len(t))
		for i, item := range t {
			n.children[i] = New(item,
				WithDepth(n.depth+1),
				WithLast(i == len(t)-1),
				WithClickHandler(n.onClick),
				WithArrayIndex(i),
			)
		}
	case *value.Map:
		keys := t.Keys()
		n.children = make([]*Node, len(keys))
		for i, k := range keys {
			n.children[i] = New(t.Lookup(k),
				WithName(k),
				WithDepth(n.depth+1),
				WithLast(i == len(keys)-1),
				WithClickHandler(n.onClick),
			)
		}
	}
	return n.children
}

// Click activates the node's main line. Mappings pass their start and end
// fields to the handler; nodes with neither field, primitives and sequences
// are ignored. It reports whether the handler ran.
func (n *Node) Click() bool {
	if n.onClick == nil {
		return false
	}
	m, ok := n.data.(*value.Map)
	if !ok {
		return false
	}
	start, end := m.Lookup("start"), m.Lookup("end")
	if value.IsUndefined(start) && value.IsUndefined(end) {
		return false
	}
	n.onClick(start, end)
	return true
}

// ExpandAll expands the node and every descendant container.
func (n *Node) ExpandAll() {
	n.walk(func(c *Node) { c.collapsed = false })
}

// CollapseAll collapses every descendant container and keeps the node
// itself expanded.
func (n *Node) CollapseAll() {
	n.walk(func(c *Node) { c.collapsed = c != n })
}

func (n *Node) walk(fn func(*Node)) {
	if !n.IsContainer() {
		return
	}
	fn(n)
	for _, c := range n.Children() {
		c.walk(fn)
	}
}
