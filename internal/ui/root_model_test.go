package ui

import (
	"context"
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/mdplay/internal/htmlfmt"
	"github.com/oakwood-commons/mdplay/internal/markdown"
	"github.com/oakwood-commons/mdplay/internal/playground"
	"github.com/oakwood-commons/mdplay/internal/selection"
	"github.com/oakwood-commons/mdplay/internal/value"
	"github.com/oakwood-commons/mdplay/internal/viewer"
)

type countingParser struct {
	calls int
	last  markdown.Options
}

func (p *countingParser) Parse(text string, opts markdown.Options) (playground.Result, error) {
	p.calls++
	p.last = opts
	return playground.MarkdownParser{}.Parse(text, opts)
}

func newTestModel(t *testing.T, text string, mutate ...func(*Config)) (*RootModel, *countingParser) {
	t.Helper()
	p := &countingParser{}
	cfg := Config{
		Text:        text,
		Options:     markdown.DefaultOptions(),
		Parser:      p,
		NoColor:     true,
		LineNumbers: true,
	}
	for _, fn := range mutate {
		fn(&cfg)
	}
	m := NewRootModel(cfg)
	t.Cleanup(m.Close)
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	_ = m.Render()
	return m, p
}

func key(s string) tea.KeyPressMsg {
	switch s {
	case "esc":
		return tea.KeyPressMsg{Code: tea.KeyEscape}
	case "enter":
		return tea.KeyPressMsg{Code: tea.KeyEnter}
	case "space":
		return tea.KeyPressMsg{Code: tea.KeySpace, Text: " "}
	case "tab":
		return tea.KeyPressMsg{Code: tea.KeyTab}
	}
	if msgs, ok := keyMsgsFromToken("<" + s + ">"); ok {
		return msgs[0]
	}
	r := []rune(s)[0]
	return tea.KeyPressMsg{Code: r, Text: s}
}

// press sends keys and runs the resulting commands.
func press(m *RootModel, keys ...string) {
	for _, k := range keys {
		send(m, key(k))
	}
}

func TestInitialParseFillsViews(t *testing.T) {
	m, p := newTestModel(t, playground.DefaultInput)
	assert.Equal(t, 1, p.calls)
	assert.Equal(t, playground.ViewTree, m.Shell().Mode())
	assert.True(t, m.tree.hasData)
	assert.True(t, m.meta.hasData)

	view := m.Render()
	assert.Contains(t, view, `"kind": "document"`)
	assert.Contains(t, view, "1 AST")
	assert.Len(t, strings.Split(view, "\n"), 40)
}

func TestTypingReparsesOncePerEdit(t *testing.T) {
	m, p := newTestModel(t, "# Title")
	press(m, "C-end", "!")
	assert.Equal(t, 2, p.calls)
	assert.Equal(t, "# Title!", m.Shell().Text())

	// Cursor movement does not change the text and must not parse.
	press(m, "left")
	assert.Equal(t, 2, p.calls)
}

func TestPasteUpdatesShell(t *testing.T) {
	m, _ := newTestModel(t, "")
	send(m, tea.PasteMsg{Content: "## pasted"})
	assert.Equal(t, "## pasted", m.Shell().Text())
}

func TestOptionsPanelTogglesExactlyOneFlag(t *testing.T) {
	m, p := newTestModel(t, "~~strike~~")
	before := m.Shell().Options()

	press(m, "C-o")
	require.True(t, m.showOptions)
	require.Equal(t, focusOptions, m.focus)
	assert.Contains(t, m.Render(), "GitHub Flavored")

	calls := p.calls
	press(m, "space")
	assert.Equal(t, calls+1, p.calls, "toggle must parse exactly once")
	after := m.Shell().Options()
	assert.False(t, after.GitHubFlavored)
	assert.Equal(t, before.With(markdown.FlagGitHubFlavored, false), after)
	assert.Equal(t, after, p.last)

	press(m, "esc")
	assert.False(t, m.showOptions)
	assert.Equal(t, focusOutput, m.focus)
}

func TestViewSwitching(t *testing.T) {
	m, p := newTestModel(t, "# Hi")
	calls := p.calls

	press(m, "F4")
	assert.Equal(t, playground.ViewHTML, m.Shell().Mode())
	assert.Contains(t, m.html.Content(), "<h1")

	press(m, "esc", "4")
	assert.Equal(t, playground.ViewPreview, m.Shell().Mode())
	assert.Contains(t, m.preview.Content(), "Hi")

	press(m, "]")
	assert.Equal(t, playground.ViewTree, m.Shell().Mode())
	press(m, "[")
	assert.Equal(t, playground.ViewPreview, m.Shell().Mode())

	assert.Equal(t, calls, p.calls, "switching views never parses")
}

func TestMetadataPlaceholder(t *testing.T) {
	m, _ := newTestModel(t, "no frontmatter here")
	press(m, "F3")
	assert.False(t, m.meta.hasData)
	assert.Contains(t, m.Render(), NoFrontmatter)
}

func TestCopyUsesModePayload(t *testing.T) {
	var copied string
	restore := StubClipboard(func(s string) error {
		copied = s
		return nil
	})
	defer restore()

	m, _ := newTestModel(t, "# Hi")
	press(m, "C-y")
	assert.True(t, strings.HasPrefix(copied, "{\n"), copied)
	assert.Contains(t, copied, `"kind": "document"`)
	assert.Equal(t, statusSuccess, m.statusKind)

	press(m, "F4", "C-y")
	assert.Equal(t, m.Shell().Outputs().HTML, copied)
}

func TestCopyFailureIsReported(t *testing.T) {
	restore := StubClipboard(func(string) error { return assert.AnError })
	defer restore()

	m, _ := newTestModel(t, "x")
	press(m, "C-y")
	assert.Equal(t, statusError, m.statusKind)
	assert.Contains(t, m.status, "copy failed")
}

func TestClearEmptiesInputAndParsesOnce(t *testing.T) {
	m, p := newTestModel(t, "# Hi")
	calls := p.calls
	press(m, "C-l")
	assert.Equal(t, "", m.Shell().Text())
	assert.Equal(t, "", m.input.ed.Value())
	assert.Equal(t, calls+1, p.calls)
}

func TestParseErrorKeepsPreviousOutputs(t *testing.T) {
	m, _ := newTestModel(t, "# Hi", func(c *Config) { c.Options.MaxInputBytes = 6 })
	press(m, "C-end", "a", "b")
	tree := m.Shell().Outputs().Tree
	press(m, "c")
	assert.Equal(t, statusError, m.statusKind)
	assert.Contains(t, m.status, "parse error")
	assert.Same(t, tree.(*value.Map), m.Shell().Outputs().Tree.(*value.Map))

	press(m, "backspace")
	assert.Empty(t, m.status)
	assert.Equal(t, "# Hiab", m.Shell().Text())
}

func TestStaleHighlightIsDiscarded(t *testing.T) {
	m, _ := newTestModel(t, "# One", func(c *Config) {
		c.HighlightEnabled = true
		c.NoColor = false
	})
	want := m.htmlWant
	m.Update(highlightedMsg{Gen: want, Result: htmlfmt.Result{Text: "current"}})
	assert.Equal(t, "current", m.html.Content())

	m.Update(highlightedMsg{Gen: want - 1, Result: htmlfmt.Result{Text: "stale"}})
	assert.Equal(t, "current", m.html.Content())
}

func TestHighlightFailureShowsPlainCodeBlock(t *testing.T) {
	m, _ := newTestModel(t, "# One", func(c *Config) {
		c.HighlightEnabled = true
		c.NoColor = false
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	m.Update(highlightedMsg{Gen: m.htmlWant, Result: htmlfmt.Render(ctx, m.highlighter, `<h1 id="one">One</h1>`)})
	assert.True(t, m.html.codeBlock)
	assert.Equal(t, "<h1 id=\"one\">\n  One\n</h1>", m.html.Content())

	m.Update(highlightedMsg{Gen: m.htmlWant, Result: htmlfmt.Result{Text: "colored", Highlighted: true}})
	assert.False(t, m.html.codeBlock)
	assert.Equal(t, "colored", m.html.Content())
}

func TestUnhighlightedHTMLIsCodeBlock(t *testing.T) {
	m, _ := newTestModel(t, "# One")
	assert.Nil(t, m.highlighter)
	assert.True(t, m.html.codeBlock)
	assert.Contains(t, m.html.Content(), "<h1")
}

func TestAsyncHighlightIsReturnedAsCommand(t *testing.T) {
	m, _ := newTestModel(t, "# One", func(c *Config) {
		c.HighlightEnabled = true
		c.HighlightFormatter = "noop"
	})
	press(m, "C-end")
	_, cmd := m.Update(key("x"))
	require.NotNil(t, cmd)
	press(m, "y")
	assert.Contains(t, m.html.Content(), "<h1>")
}

func headingRow(t *testing.T, m *RootModel) (int, *value.Map) {
	t.Helper()
	for i, l := range m.tree.vw.Lines() {
		if l.Role != viewer.RoleMain {
			continue
		}
		if mp, ok := l.Node.Value().(*value.Map); ok && mp.Lookup("kind") == "heading" {
			return i, mp
		}
	}
	t.Fatalf("no heading row in tree")
	return 0, nil
}

func TestClickOnTreeNodeSelectsSource(t *testing.T) {
	text := "intro\n\n## Section\n\nbody\n"
	m, _ := newTestModel(t, text)
	press(m, "esc")

	row, node := headingRow(t, m)
	inner := m.layout.Output.inner()
	cmd := m.handleClick(tea.MouseClickMsg{X: inner.X + inner.W - 1, Y: inner.Y + row - m.tree.vw.Offset(), Button: tea.MouseLeft})
	require.NotNil(t, cmd)
	drain(m, cmd, new(int))

	sp, _ := value.PositionOf(node.Lookup("start"))
	ep, _ := value.PositionOf(node.Lookup("end"))
	ws, we := selection.Range(text, sp, ep)
	gs, ge := m.input.ed.Selection()
	assert.Equal(t, ws, gs)
	assert.Equal(t, we, ge)
	assert.Equal(t, focusInput, m.focus)
	assert.Contains(t, m.input.ed.SelectedText(), "Section")
}

func TestClickOnTabSwitchesView(t *testing.T) {
	m, _ := newTestModel(t, "x")
	for _, tab := range m.tabs {
		if tab.mode == playground.ViewHTML {
			m.handleClick(tea.MouseClickMsg{X: tab.from, Y: 0, Button: tea.MouseLeft})
		}
	}
	assert.Equal(t, playground.ViewHTML, m.Shell().Mode())
	assert.Equal(t, focusOutput, m.focus)
}

func TestQueryPrompt(t *testing.T) {
	m, _ := newTestModel(t, "# A\n\n# B\n")
	press(m, "esc", ":")
	require.True(t, m.promptActive)

	sendText(m, `_.children.filter(n, n.kind == "heading")`)
	press(m, "enter")
	assert.False(t, m.promptActive)
	assert.NotEmpty(t, m.queries[playground.ViewTree])
	assert.Contains(t, m.tree.Title(), "_.children")
	items, ok := m.tree.vw.Root().Value().([]any)
	require.True(t, ok)
	assert.Len(t, items, 2)

	// The query follows new input.
	press(m, "i", "C-end", "enter", "#", " ", "C")
	items, _ = m.tree.vw.Root().Value().([]any)
	assert.Len(t, items, 3)

	press(m, "esc", ":", "esc")
	assert.Empty(t, m.queries[playground.ViewTree])
	_, isMap := m.tree.vw.Root().Value().(*value.Map)
	assert.True(t, isMap)
}

func TestQueryPromptCompletion(t *testing.T) {
	m, _ := newTestModel(t, "# A\n")
	press(m, "esc", ":")
	sendText(m, "_.chi")
	press(m, "tab")
	assert.Equal(t, "_.children", m.prompt.Value())
	assert.Contains(t, m.status, "completion 1/1")

	sendText(m, "[0].")
	press(m, "tab")
	assert.Equal(t, "_.children[0].kind", m.prompt.Value())
	press(m, "tab")
	assert.NotEqual(t, "_.children[0].kind", m.prompt.Value(), "repeated tab cycles")

	press(m, "enter")
	assert.Equal(t, statusSuccess, m.statusKind)
}

func TestInvalidQueryReportsError(t *testing.T) {
	m, _ := newTestModel(t, "# A")
	press(m, "esc", ":")
	sendText(m, "_.(")
	press(m, "enter")
	assert.Equal(t, statusError, m.statusKind)
	assert.Empty(t, m.queries)
}

func TestQueryNotAvailableInHTMLView(t *testing.T) {
	m, _ := newTestModel(t, "# A")
	press(m, "esc", "3", ":")
	assert.False(t, m.promptActive)
	assert.Contains(t, m.status, "queries apply")
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t, "# A", func(c *Config) { c.About = []string{"about line"} })
	press(m, "F1")
	require.True(t, m.showHelp)
	view := m.Render()
	assert.Contains(t, view, "Help")
	assert.Contains(t, view, "about line")
	press(m, "esc")
	assert.False(t, m.showHelp)
}

func TestQuitKeys(t *testing.T) {
	m, _ := newTestModel(t, "")
	_, cmd := m.Update(key("C-c"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	m2, _ := newTestModel(t, "")
	_, cmd = m2.Update(key("q"))
	assert.False(t, m2.quitting, "q types into the editor")
	m2.Update(key("esc"))
	_, cmd = m2.Update(key("q"))
	assert.True(t, m2.quitting)
	assert.NotNil(t, cmd)
}
