package htmlfmt

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNesting(t *testing.T) {
	got := Format("<div><span>hi</span></div>")
	assert.Equal(t, "<div>\n  <span>\n    hi\n  </span>\n</div>", got)
}

func TestFormatVoidAndSelfClosing(t *testing.T) {
	got := Format("<p>a<br>b<img src=\"x.png\" /></p><hr>")
	want := strings.Join([]string{
		"<p>",
		"  a",
		"  <br>",
		"  b",
		`  <img src="x.png" />`,
		"</p>",
		"<hr>",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestFormatColgroupTreatedAsVoid(t *testing.T) {
	got := Format("<table><colgroup></colgroup><tr></tr></table>")
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "  <colgroup>", lines[1])
	// <col prefix match keeps depth, so the closing tag dedents below it.
	assert.Equal(t, "</colgroup>", lines[2])
}

func TestFormatNeverNegativeDepth(t *testing.T) {
	got := Format("</p></div><em>x</em>")
	assert.Equal(t, "</p>\n</div>\n<em>\n  x\n</em>", got)
}

func TestFormatDropsWhitespaceAndTrims(t *testing.T) {
	got := Format("<h1 id=\"a\">  Title  </h1>\n\n<p>text</p>\n")
	assert.Equal(t, "<h1 id=\"a\">\n  Title\n</h1>\n<p>\n  text\n</p>", got)
	assert.Equal(t, "", Format(""))
	assert.Equal(t, "", Format("  \n "))
}

func TestRenderHighlights(t *testing.T) {
	res := Render(context.Background(), NewHighlighter("", ""), "<p>hi</p>")
	require.NoError(t, res.Err)
	assert.True(t, res.Highlighted)
	assert.Contains(t, res.Text, "\x1b[")
	assert.Contains(t, res.Text, "hi")
}

func TestRenderFallsBack(t *testing.T) {
	res := Render(context.Background(), NewHighlighter("no-such-style", ""), "<p>hi</p>")
	assert.False(t, res.Highlighted)
	assert.Error(t, res.Err)
	assert.Equal(t, "<p>\n  hi\n</p>", res.Text)

	res = Render(context.Background(), nil, "<p>hi</p>")
	assert.False(t, res.Highlighted)
	assert.NoError(t, res.Err)
	assert.Equal(t, Fallback("<p>\n  hi\n</p>"), res)
}

func TestHighlightCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := NewHighlighter("", "").Highlight(ctx, "<p></p>", "html")
	assert.ErrorIs(t, err, context.Canceled)

	res := Render(ctx, NewHighlighter("", ""), "<p></p>")
	assert.False(t, res.Highlighted)
	assert.ErrorIs(t, res.Err, context.Canceled)
}

func TestHighlightUnknownLanguage(t *testing.T) {
	_, err := NewHighlighter("", "").Highlight(context.Background(), "x", "not-a-language-xyz")
	assert.Error(t, err)
}
