package viewer

import (
	"strings"

	"github.com/oakwood-commons/mdplay/internal/value"
)

// Class tags a segment of a rendered line for styling.
type Class int

const (
	ClassSpace Class = iota
	ClassToggle
	ClassKey
	ClassColon
	ClassLabel
	ClassBracket
	ClassPreview
	ClassComma
	ClassString
	ClassNumber
	ClassBool
	ClassNull
	ClassUndefined
)

// Segment is a run of text with one style class.
type Segment struct {
	Text  string
	Class Class
}

// Role says which line of a node a Line is.
type Role int

const (
	// RoleMain is the node's first line: value, or opening bracket.
	RoleMain Role = iota
	// RoleClose is the closing bracket line of an expanded container.
	RoleClose
)

// Line is one visible row of the outline.
type Line struct {
	Node     *Node
	Role     Role
	Segments []Segment
}

// Toggle glyphs and the spacer that aligns lines without a toggle.
const (
	GlyphCollapsed = "▸"
	GlyphExpanded  = "▾"
	spacer         = "  "
)

// DefaultIndent is the number of columns per nesting level.
const DefaultIndent = 2

// Text returns the line without styling.
func (l Line) Text() string {
	var sb strings.Builder
	for _, s := range l.Segments {
		sb.WriteString(s.Text)
	}
	return sb.String()
}

// ToggleSpan returns the column range of the toggle glyph, or ok=false for
// lines that have none.
func (l Line) ToggleSpan(indent int) (from, to int, ok bool) {
	if l.Role != RoleMain || !l.Node.IsContainer() {
		return 0, 0, false
	}
	from = l.Node.depth * indent
	return from, from + len(spacer), true
}

// Lines flattens the visible outline using DefaultIndent.
func (n *Node) Lines() []Line {
	return n.LinesIndent(DefaultIndent)
}

// LinesIndent flattens the visible outline with indent columns per level.
func (n *Node) LinesIndent(indent int) []Line {
	var out []Line
	n.appendLines(&out, max(indent, 0))
	return out
}

// PlainText renders the visible outline without styling, one line per row.
func (n *Node) PlainText() string {
	lines := n.Lines()
	texts := make([]string, len(lines))
	for i, l := range lines {
		texts[i] = l.Text()
	}
	return strings.Join(texts, "\n")
}

func (n *Node) appendLines(out *[]Line, indent int) {
	pad := Segment{Text: strings.Repeat(" ", n.depth*indent), Class: ClassSpace}
	if !n.IsContainer() {
		segs := []Segment{pad, {Text: spacer, Class: ClassSpace}}
		if n.hasName {
			segs = append(segs, n.keySegments()...)
		}
		segs = append(segs, primitive(n.data))
		if !n.last {
			segs = append(segs, Segment{Text: ",", Class: ClassComma})
		}
		*out = append(*out, Line{Node: n, Role: RoleMain, Segments: segs})
		return
	}

	open, closing := "{", "}"
	if n.IsSequence() {
		open, closing = "[", "]"
	}
	glyph := GlyphExpanded
	if n.collapsed {
		glyph = GlyphCollapsed
	}
	segs := []Segment{pad, {Text: glyph + " ", Class: ClassToggle}}
	segs = append(segs, n.keySegments()...)
	segs = append(segs, Segment{Text: open, Class: ClassBracket})
	if n.collapsed {
		segs = append(segs,
			Segment{Text: " " + n.Preview() + " ", Class: ClassPreview},
			Segment{Text: closing, Class: ClassBracket},
		)
		if !n.last {
			segs = append(segs, Segment{Text: ",", Class: ClassComma})
		}
		*out = append(*out, Line{Node: n, Role: RoleMain, Segments: segs})
		return
	}
	*out = append(*out, Line{Node: n, Role: RoleMain, Segments: segs})

	for _, c := range n.Children() {
		c.appendLines(out, indent)
	}

	closeSegs := []Segment{pad, {Text: spacer, Class: ClassSpace}, {Text: closing, Class: ClassBracket}}
	if !n.last {
		closeSegs = append(closeSegs, Segment{Text: ",", Class: ClassComma})
	}
	*out = append(*out, Line{Node: n, Role: RoleClose, Segments: closeSegs})
}

func (n *Node) keySegments() []Segment {
	label, ok := n.Label()
	if !ok {
		return nil
	}
	if n.inArray && !n.hasName {
		return []Segment{{Text: label, Class: ClassLabel}, {Text: " ", Class: ClassColon}}
	}
	return []Segment{{Text: `"` + label + `"`, Class: ClassKey}, {Text: ": ", Class: ClassColon}}
}

// primitive renders a scalar. Strings are quoted without escaping.
func primitive(v value.Value) Segment {
	switch value.KindOf(v) {
	case value.KindNull:
		return Segment{Text: "null", Class: ClassNull}
	case value.KindUndefined:
		return Segment{Text: "undefined", Class: ClassUndefined}
	case value.KindString:
		return Segment{Text: `"` + v.(string) + `"`, Class: ClassString}
	case value.KindNumber:
		return Segment{Text: value.FormatNumber(v), Class: ClassNumber}
	case value.KindBool:
		if v.(bool) {
			return Segment{Text: "true", Class: ClassBool}
		}
		return Segment{Text: "false", Class: ClassBool}
	default:
		return Segment{Text: value.FormatNumber(v), Class: ClassSpace}
	}
}
