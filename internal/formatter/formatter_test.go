package formatter

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/mdplay/internal/value"
)

func pos(line, col int) *value.Map {
	return value.MapOf("line", line, "column", col)
}

func sampleDoc() *value.Map {
	text := value.MapOf("kind", "text", "content", "Title", "start", pos(1, 3), "end", pos(1, 8), "children", []any{})
	heading := value.MapOf(
		"kind", "heading",
		"id", "title",
		"content", value.MapOf("level", "H1"),
		"start", pos(1, 1),
		"end", pos(1, 8),
		"children", []any{text},
	)
	para := value.MapOf("kind", "paragraph", "start", pos(3, 1), "end", pos(3, 6), "children", []any{})
	return value.MapOf("kind", "document", "start", pos(1, 1), "end", pos(3, 6), "children", []any{heading, para})
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("YAML")
	require.NoError(t, err)
	assert.Equal(t, FormatYAML, f)

	f, err = ParseFormat("")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	assert.ErrorContains(t, err, "valid values are json, yaml, toml, tree, outline, mermaid")
}

func TestRenderJSONKeepsOrder(t *testing.T) {
	out, err := Render(value.MapOf("b", 1, "a", "<x>", "skip", value.Undefined), FormatJSON, Options{})
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"b\": 1,\n  \"a\": \"<x>\"\n}\n", out)
}

func TestRenderYAML(t *testing.T) {
	out, err := Render(sampleDoc(), FormatYAML, Options{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "kind: document\nstart: {line: 1, column: 1}\n"), out)
	assert.Less(t, strings.Index(out, "kind: heading"), strings.Index(out, "kind: paragraph"))
}

func TestYAMLLiteralBlocks(t *testing.T) {
	out, err := FormatAsYAML(value.MapOf("html", "<p>a</p>\n<p>b</p>\n"), YAMLFormatOptions{LiteralBlockStrings: true})
	require.NoError(t, err)
	assert.Contains(t, out, "html: |")
}

func TestFormatTOML(t *testing.T) {
	out, err := FormatAsTOML(value.MapOf("a", nil, "b", true, "c", value.Undefined))
	require.NoError(t, err)
	assert.Equal(t, "b = true\n", out)

	out, err = FormatAsTOML(3)
	require.NoError(t, err)
	assert.Equal(t, "value = 3\n", out)

	out, err = FormatAsTOML(sampleDoc())
	require.NoError(t, err)
	assert.Contains(t, out, "[[children]]")
}

func TestRenderTreeExpandsEverything(t *testing.T) {
	out, err := Render(sampleDoc(), FormatTree, Options{})
	require.NoError(t, err)
	assert.Contains(t, out, `"content": "Title"`)
	assert.True(t, strings.HasSuffix(out, "}\n"))
}

func TestRenderUnknownFormat(t *testing.T) {
	_, err := Render(1, Format("xml"), Options{})
	assert.Error(t, err)
}

func TestStringify(t *testing.T) {
	assert.Equal(t, "null", Stringify(nil))
	assert.Equal(t, "undefined", Stringify(value.Undefined))
	assert.Equal(t, "1.5", Stringify(1.5))
	assert.Equal(t, "[2 items]", Stringify([]any{1, 2}))
	assert.Equal(t, "{1 keys}", Stringify(value.MapOf("a", 1)))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "hello", truncate("hello", 0))
	assert.Equal(t, "hello", truncate("hello", 5))
	assert.Equal(t, "he...", truncate("hello world", 5))
	assert.Equal(t, "...", truncate("hello", 2))
}
