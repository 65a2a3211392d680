package ui

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/charmbracelet/x/ansi"

	"github.com/oakwood-commons/mdplay/internal/editor"
	"github.com/oakwood-commons/mdplay/internal/markdown"
	"github.com/oakwood-commons/mdplay/internal/value"
	"github.com/oakwood-commons/mdplay/internal/viewer"
)

// inputPane wraps the editor.
type inputPane struct {
	ed *editor.Model
}

func newInputPane(text string) *inputPane {
	return &inputPane{ed: editor.New(text)}
}

func (p *inputPane) Init() tea.Cmd { return nil }

func (p *inputPane) Update(msg tea.Msg) (ChildModel, tea.Cmd) {
	var cmd tea.Cmd
	p.ed, cmd = p.ed.Update(msg)
	return p, cmd
}

func (p *inputPane) View() string { return p.ed.View() }

func (p *inputPane) Title() string { return "Input" }

func (p *inputPane) SetSize(width, height int) { p.ed.SetSize(width, height) }

func (p *inputPane) Focus() tea.Cmd {
	p.ed.Focus()
	return nil
}

func (p *inputPane) Blur() { p.ed.Blur() }

func (p *inputPane) Focused() bool { return p.ed.Focused() }

func (p *inputPane) ClickAt(x, y int) tea.Cmd {
	p.ed.Focus()
	p.ed.ClickAt(x, y)
	return nil
}

// treePane shows a Displayable Value in the collapsible viewer. The tree and
// metadata views each own one, so collapse state survives tab switches until
// the next parse rebuilds the data.
type treePane struct {
	title string
	vw    *viewer.Model
	// empty is shown instead of the viewer when data is absent.
	empty   string
	hasData bool
	// query is the expression whose result is shown, if any.
	query string
}

func newTreePane(title string, onClick viewer.ClickHandler) *treePane {
	return &treePane{title: title, vw: viewer.NewModel(nil, onClick)}
}

func (p *treePane) SetData(v value.Value, ok bool) {
	p.hasData = ok
	p.vw.SetData(v)
}

func (p *treePane) Init() tea.Cmd { return nil }

func (p *treePane) Update(msg tea.Msg) (ChildModel, tea.Cmd) {
	if !p.hasData {
		return p, nil
	}
	var cmd tea.Cmd
	p.vw, cmd = p.vw.Update(msg)
	return p, cmd
}

func (p *treePane) View() string {
	if !p.hasData {
		return p.empty
	}
	return p.vw.View()
}

func (p *treePane) Title() string {
	if p.query != "" {
		return p.title + " · " + p.query
	}
	return p.title
}

func (p *treePane) SetSize(width, height int) { p.vw.SetSize(width, height) }

func (p *treePane) Focus() tea.Cmd { return p.vw.Focus() }

func (p *treePane) Blur() { p.vw.Blur() }

func (p *treePane) Focused() bool { return p.vw.Focused() }

func (p *treePane) ClickAt(x, y int) tea.Cmd {
	if !p.hasData {
		return nil
	}
	p.vw.Focus()
	return p.vw.ClickAt(x, y)
}

// textPane is a read-only scrolling view of pre-rendered lines, used for
// the HTML source and the preview.
type textPane struct {
	title   string
	lines   []string
	top     int
	width   int
	height  int
	focused bool

	// block styles every row when the content is an unhighlighted code block.
	block     lipgloss.Style
	codeBlock bool
}

func newTextPane(title string) *textPane {
	return &textPane{title: title, width: 80, height: 20}
}

// SetContent replaces the text. The scroll position is kept when possible.
func (p *textPane) SetContent(s string) {
	p.lines = strings.Split(strings.TrimRight(s, "\n"), "\n")
	p.clamp()
}

// SetCodeBlock marks the content as a plain code block rendered with style.
func (p *textPane) SetCodeBlock(on bool, style lipgloss.Style) {
	p.codeBlock = on
	p.block = style
}

// Content returns the text as set.
func (p *textPane) Content() string { return strings.Join(p.lines, "\n") }

func (p *textPane) maxTop() int { return max(len(p.lines)-p.height, 0) }

func (p *textPane) clamp() { p.top = min(max(p.top, 0), p.maxTop()) }

func (p *textPane) scroll(delta int) {
	p.top += delta
	p.clamp()
}

func (p *textPane) Init() tea.Cmd { return nil }

func (p *textPane) Update(msg tea.Msg) (ChildModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			p.scroll(-1)
		case "down", "j":
			p.scroll(1)
		case "pgup", "b":
			p.scroll(-p.height)
		case "pgdown", "space", " ", "f":
			p.scroll(p.height)
		case "home", "g":
			p.top = 0
		case "end", "G":
			p.top = p.maxTop()
		}
	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelUp:
			p.scroll(-3)
		case tea.MouseWheelDown:
			p.scroll(3)
		}
	}
	return p, nil
}

func (p *textPane) View() string {
	end := min(p.top+p.height, len(p.lines))
	rows := make([]string, 0, max(end-p.top, 0))
	for i := p.top; i < end; i++ {
		row := ansi.Truncate(p.lines[i], p.width, "…")
		if p.codeBlock {
			row = p.block.Render(row)
		}
		rows = append(rows, row)
	}
	return strings.Join(rows, "\n")
}

func (p *textPane) Title() string { return p.title }

func (p *textPane) SetSize(width, height int) {
	p.width = max(width, 1)
	p.height = max(height, 1)
	p.clamp()
}

func (p *textPane) Focus() tea.Cmd {
	p.focused = true
	return nil
}

func (p *textPane) Blur() { p.focused = false }

func (p *textPane) Focused() bool { return p.focused }

func (p *textPane) ClickAt(int, int) tea.Cmd {
	p.focused = true
	return nil
}

// optionToggledMsg is emitted by the options pane. The root model applies
// it to the playground shell.
type optionToggledMsg struct {
	Flag markdown.Flag
}

// optionsPane lists the parser flags as checkboxes.
type optionsPane struct {
	opts    markdown.Options
	cursor  int
	width   int
	focused bool
	styles  Styles
}

func newOptionsPane(opts markdown.Options, styles Styles) *optionsPane {
	return &optionsPane{opts: opts, width: 40, styles: styles}
}

func (p *optionsPane) SetOptions(o markdown.Options) { p.opts = o }

func (p *optionsPane) Height() int { return len(markdown.Flags) }

func (p *optionsPane) toggle() tea.Cmd {
	f := markdown.Flags[p.cursor].Flag
	return func() tea.Msg { return optionToggledMsg{Flag: f} }
}

func (p *optionsPane) Init() tea.Cmd { return nil }

func (p *optionsPane) Update(msg tea.Msg) (ChildModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyPressMsg); ok {
		switch msg.String() {
		case "up", "k":
			p.cursor = max(p.cursor-1, 0)
		case "down", "j":
			p.cursor = min(p.cursor+1, len(markdown.Flags)-1)
		case "space", " ", "enter", "x":
			return p, p.toggle()
		}
	}
	return p, nil
}

func (p *optionsPane) View() string {
	rows := make([]string, 0, len(markdown.Flags))
	for i, info := range markdown.Flags {
		box := "[ ]"
		if p.opts.Enabled(info.Flag) {
			box = "[" + p.styles.Check.Render("x") + "]"
		}
		line := fmt.Sprintf("%s %s  %s", box, info.Label, p.styles.Muted.Render(info.Description))
		line = ansi.Truncate(line, p.width, "…")
		if i == p.cursor && p.focused {
			line = p.styles.Cursor.Render(ansi.Strip(line))
		}
		rows = append(rows, line)
	}
	return strings.Join(rows, "\n")
}

func (p *optionsPane) Title() string { return "Options" }

func (p *optionsPane) SetSize(width, _ int) { p.width = max(width, 1) }

func (p *optionsPane) Focus() tea.Cmd {
	p.focused = true
	return nil
}

func (p *optionsPane) Blur() { p.focused = false }

func (p *optionsPane) Focused() bool { return p.focused }

// ClickAt moves to the clicked flag and toggles it.
func (p *optionsPane) ClickAt(_, y int) tea.Cmd {
	if y < 0 || y >= len(markdown.Flags) {
		return nil
	}
	p.focused = true
	p.cursor = y
	return p.toggle()
}
