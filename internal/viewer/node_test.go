package viewer

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/mdplay/internal/value"
)

func sampleTree() *value.Map {
	return value.MapOf(
		"kind", "document",
		"children", []any{
			value.MapOf(
				"kind", "heading",
				"content", value.MapOf("level", "H1"),
				"start", value.MapOf("line", 1, "column", 1),
				"end", value.MapOf("line", 1, "column", 8),
				"children", []any{
					value.MapOf("kind", "text", "content", "Title"),
				},
			),
			value.MapOf("kind", "thematic-break"),
		},
		"flags", []any{true, nil, 1.5, value.Undefined},
	)
}

func TestPrimitiveRendering(t *testing.T) {
	tests := []struct {
		in   value.Value
		want string
	}{
		{"x", `  "x"`},
		{`say "hi"`, `  "say "hi""`},
		{nil, "  null"},
		{value.Undefined, "  undefined"},
		{42, "  42"},
		{2.5, "  2.5"},
		{true, "  true"},
		{false, "  false"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, New(tt.in).PlainText())
	}
}

func TestPreview(t *testing.T) {
	assert.Equal(t, "3 items", New([]any{1, 2, 3}).Preview())
	assert.Equal(t, "", New([]any{}).Preview())
	assert.Equal(t, "2 keys", New(value.MapOf("a", 1, "b", 2)).Preview())
	assert.Equal(t, "", New(value.NewMap()).Preview())
	assert.Equal(t, "", New("x").Preview())
}

func TestCollapsedPreviewLine(t *testing.T) {
	n := New([]any{1, 2, 3}, WithDepth(2), WithName("xs"), WithLast(false))
	assert.Equal(t, `    ▸ "xs": [ 3 items ],`, n.PlainText())

	empty := New(value.NewMap(), WithDepth(2))
	assert.Equal(t, "    ▸ {  }", empty.PlainText())
}

func TestDefaultCollapsePolicy(t *testing.T) {
	assert.False(t, New([]any{1}).Collapsed())
	assert.False(t, New([]any{1}, WithDepth(1)).Collapsed())
	assert.True(t, New([]any{1}, WithDepth(2)).Collapsed())
	assert.True(t, New([]any{1}, WithDepth(5)).Collapsed())
}

func TestExpandedRendering(t *testing.T) {
	root := New(value.MapOf("a", 1, "b", []any{"x", value.MapOf("kind", "text")}))
	root.Children()[1].ExpandAll()
	want := strings.Join([]string{
		"▾ {",
		`    "a": 1,`,
		`  ▾ "b": [`,
		`      "x",`,
		`    ▾ text {`,
		`        "kind": "text"`,
		`      }`,
		`    ]`,
		`  }`,
	}, "\n")
	assert.Equal(t, want, root.PlainText())
}

func TestArrayLabelUsesKind(t *testing.T) {
	root := New([]any{
		value.MapOf("kind", "paragraph"),
		value.MapOf("other", 1),
		"plain",
	})
	kids := root.Children()
	label, ok := kids[0].Label()
	assert.True(t, ok)
	assert.Equal(t, "paragraph", label)

	_, ok = kids[1].Label()
	assert.False(t, ok)
	_, ok = kids[2].Label()
	assert.False(t, ok)

	lines := root.Lines()
	assert.Equal(t, "  ▾ paragraph {", lines[1].Text())
	assert.Equal(t, "  ▾ {", lines[4].Text())
	assert.Equal(t, `    "plain"`, lines[7].Text())
}

func TestArrayLabelHidesFalsyKind(t *testing.T) {
	for _, kind := range []any{0, int64(0), uint8(0), float32(0), math.NaN(), "", false, nil} {
		root := New([]any{value.MapOf("kind", kind)})
		_, ok := root.Children()[0].Label()
		assert.False(t, ok, "kind %#v", kind)
		assert.Equal(t, "  ▾ {", root.Lines()[1].Text(), "kind %#v", kind)
	}

	root := New([]any{value.MapOf("kind", int64(2))})
	label, ok := root.Children()[0].Label()
	assert.True(t, ok)
	assert.Equal(t, "2", label)
}

func TestTrailingCommas(t *testing.T) {
	root := New(value.MapOf("a", []any{1, 2}, "b", 3))
	lines := root.Lines()
	var texts []string
	for _, l := range lines {
		texts = append(texts, l.Text())
	}
	assert.Equal(t, []string{
		"▾ {",
		`  ▾ "a": [`,
		"      1,",
		"      2",
		"    ],",
		`    "b": 3`,
		"  }",
	}, texts)
}

func TestToggleDoesNotClick(t *testing.T) {
	calls := 0
	root := New(sampleTree(), WithClickHandler(func(_, _ value.Value) { calls++ }))
	root.Toggle()
	root.Toggle()
	assert.Equal(t, 0, calls)
}

func TestToggleIdempotence(t *testing.T) {
	root := New(sampleTree())
	root.ExpandAll()
	before := root.PlainText()

	var all []*Node
	var collect func(n *Node)
	collect = func(n *Node) {
		if !n.IsContainer() {
			return
		}
		all = append(all, n)
		for _, c := range n.Children() {
			collect(c)
		}
	}
	collect(root)
	require.NotEmpty(t, all)

	for _, n := range all {
		n.Toggle()
	}
	assert.NotEqual(t, before, root.PlainText())
	for _, n := range all {
		n.Toggle()
	}
	assert.Equal(t, before, root.PlainText())
}

func TestChildStateSurvivesParentToggle(t *testing.T) {
	root := New(sampleTree())
	children := root.Children()[1]
	heading := children.Children()[0]
	require.True(t, heading.Collapsed())
	heading.Toggle()

	children.Toggle()
	children.Toggle()
	assert.False(t, children.Children()[0].Collapsed())
}

func TestClickPassesPositions(t *testing.T) {
	var gotStart, gotEnd value.Value
	calls := 0
	root := New(sampleTree(), WithClickHandler(func(s, e value.Value) {
		calls++
		gotStart, gotEnd = s, e
	}))
	heading := root.Children()[1].Children()[0]
	assert.True(t, heading.Click())
	assert.Equal(t, 1, calls)
	p, ok := value.PositionOf(gotStart)
	require.True(t, ok)
	assert.Equal(t, value.Position{Line: 1, Column: 1}, p)
	p, ok = value.PositionOf(gotEnd)
	require.True(t, ok)
	assert.Equal(t, value.Position{Line: 1, Column: 8}, p)
}

func TestClickWithoutPositionsIsIgnored(t *testing.T) {
	calls := 0
	root := New(sampleTree(), WithClickHandler(func(_, _ value.Value) { calls++ }))

	assert.False(t, root.Click())
	breakNode := root.Children()[1].Children()[1]
	assert.False(t, breakNode.Click())
	assert.False(t, root.Children()[2].Click())
	assert.Equal(t, 0, calls)

	noHandler := New(value.MapOf("start", value.MapOf("line", 1, "column", 1)))
	assert.False(t, noHandler.Click())
}

func TestClickWithOnePositionStillCalls(t *testing.T) {
	var gotEnd value.Value = "unset"
	root := New(value.MapOf("start", value.MapOf("line", 1, "column", 1)), WithClickHandler(func(_, e value.Value) { gotEnd = e }))
	assert.True(t, root.Click())
	assert.True(t, value.IsUndefined(gotEnd))
}

func TestExpandCollapseAll(t *testing.T) {
	root := New(sampleTree())
	root.ExpandAll()
	assert.NotContains(t, root.PlainText(), GlyphCollapsed)

	root.CollapseAll()
	assert.False(t, root.Collapsed())
	for _, c := range root.Children() {
		if c.IsContainer() {
			assert.True(t, c.Collapsed())
		}
	}
	assert.Len(t, root.Lines(), 5)
}

func TestGoMapsAreNormalized(t *testing.T) {
	root := New(map[string]any{"b": 1, "a": 2})
	lines := root.Lines()
	require.Len(t, lines, 4)
	assert.Equal(t, `    "a": 2,`, lines[1].Text())
}

func TestToggleSpan(t *testing.T) {
	root := New(value.MapOf("a", []any{1}))
	lines := root.Lines()
	from, to, ok := lines[1].ToggleSpan(DefaultIndent)
	assert.True(t, ok)
	assert.Equal(t, 2, from)
	assert.Equal(t, 4, to)

	_, _, ok = lines[2].ToggleSpan(DefaultIndent)
	assert.False(t, ok)
	_, _, ok = lines[3].ToggleSpan(DefaultIndent)
	assert.False(t, ok)
}
