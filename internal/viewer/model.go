package viewer

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"github.com/mattn/go-runewidth"

	"github.com/oakwood-commons/mdplay/internal/value"
)

// ActivatedMsg is returned as a command result after a node was activated
// and its click handler ran.
type ActivatedMsg struct {
	Start value.Value
	End   value.Value
}

// Model is a scrollable outline with a line cursor.
type Model struct {
	root    *Node
	onClick ClickHandler
	lines   []Line

	cursor int
	offset int
	width  int
	height int
	indent int

	focused bool
	styles  Styles
}

// NewModel builds the outline for v. onClick may be nil.
func NewModel(v value.Value, onClick ClickHandler) *Model {
	m := &Model{
		onClick: onClick,
		width:   80,
		height:  20,
		indent:  DefaultIndent,
		styles:  DefaultStyles(),
	}
	m.SetData(v)
	return m
}

// SetData replaces the outline. All collapse state is recreated.
func (m *Model) SetData(v value.Value) {
	m.root = New(v, WithClickHandler(m.onClick))
	m.refresh()
}

// Root returns the root node.
func (m *Model) Root() *Node { return m.root }

// SetStyles replaces the styles.
func (m *Model) SetStyles(s Styles) { m.styles = s }

// SetIndent sets the columns per nesting level.
func (m *Model) SetIndent(n int) {
	if n < 0 {
		n = 0
	}
	m.indent = n
	m.refresh()
}

// SetSize sets the viewport size.
func (m *Model) SetSize(width, height int) {
	m.width = max(width, 1)
	m.height = max(height, 1)
	m.clamp()
}

// Focus gives the model keyboard focus.
func (m *Model) Focus() tea.Cmd {
	m.focused = true
	return nil
}

// Blur removes keyboard focus.
func (m *Model) Blur() { m.focused = false }

// Focused reports whether the model has keyboard focus.
func (m *Model) Focused() bool { return m.focused }

// Lines returns the visible outline rows.
func (m *Model) Lines() []Line { return m.lines }

// Cursor returns the cursor row.
func (m *Model) Cursor() int { return m.cursor }

// Offset returns the first row shown.
func (m *Model) Offset() int { return m.offset }

// CursorLine returns the row under the cursor.
func (m *Model) CursorLine() (Line, bool) {
	if m.cursor < 0 || m.cursor >= len(m.lines) {
		return Line{}, false
	}
	return m.lines[m.cursor], true
}

func (m *Model) refresh() {
	m.lines = m.root.LinesIndent(m.indent)
	m.clamp()
}

func (m *Model) clamp() {
	m.cursor = min(max(m.cursor, 0), max(len(m.lines)-1, 0))
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+m.height {
		m.offset = m.cursor - m.height + 1
	}
	m.offset = min(max(m.offset, 0), max(len(m.lines)-m.height, 0))
}

func (m *Model) move(delta int) {
	m.cursor += delta
	m.clamp()
}

// Toggle flips the node under the cursor.
func (m *Model) Toggle() {
	line, ok := m.CursorLine()
	if !ok || !line.Node.IsContainer() {
		return
	}
	line.Node.Toggle()
	m.cursorTo(line.Node)
}

// Activate runs the click handler of the node under the cursor. Closing
// bracket rows are not clickable.
func (m *Model) Activate() tea.Cmd {
	line, ok := m.CursorLine()
	if !ok || line.Role != RoleMain {
		return nil
	}
	if !line.Node.Click() {
		return nil
	}
	data, _ := line.Node.Value().(*value.Map)
	msg := ActivatedMsg{Start: data.Lookup("start"), End: data.Lookup("end")}
	return func() tea.Msg { return msg }
}

// ExpandAll expands every container.
func (m *Model) ExpandAll() {
	cur, _ := m.CursorLine()
	m.root.ExpandAll()
	m.refresh()
	m.cursorTo(cur.Node)
}

// CollapseAll collapses everything below the root.
func (m *Model) CollapseAll() {
	m.root.CollapseAll()
	m.cursor = 0
	m.refresh()
}

// cursorTo rebuilds the rows and moves the cursor to n's main line.
func (m *Model) cursorTo(n *Node) {
	m.refresh()
	if n == nil {
		return
	}
	for i, l := range m.lines {
		if l.Node == n && l.Role == RoleMain {
			m.cursor = i
			m.clamp()
			return
		}
	}
}

func (m *Model) parentOf(n *Node) *Node {
	var found *Node
	var visit func(p *Node) bool
	visit = func(p *Node) bool {
		if !p.built {
			return false
		}
		for _, c := range p.children {
			if c == n {
				found = p
				return true
			}
			if visit(c) {
				return true
			}
		}
		return false
	}
	visit(m.root)
	return found
}

// ClickAt handles a click at view-local cell coordinates. A click on the
// toggle glyph toggles; anywhere else on a main row activates the node.
func (m *Model) ClickAt(x, y int) tea.Cmd {
	idx := m.offset + y
	if y < 0 || idx >= len(m.lines) {
		return nil
	}
	m.cursor = idx
	line := m.lines[idx]
	if from, to, ok := line.ToggleSpan(m.indent); ok && x >= from && x < to {
		m.Toggle()
		return nil
	}
	return m.Activate()
}

func (m *Model) Init() tea.Cmd { return nil }

// Update handles navigation keys and mouse input.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyPressMsg:
		switch msg.String() {
		case "up", "k":
			m.move(-1)
		case "down", "j":
			m.move(1)
		case "pgup":
			m.move(-m.height)
		case "pgdown":
			m.move(m.height)
		case "home", "g":
			m.cursor = 0
			m.clamp()
		case "end", "G":
			m.cursor = len(m.lines) - 1
			m.clamp()
		case "space", " ":
			m.Toggle()
		case "right", "l":
			if line, ok := m.CursorLine(); ok && line.Node.IsContainer() && line.Node.Collapsed() {
				m.Toggle()
			} else {
				m.move(1)
			}
		case "left", "h":
			line, ok := m.CursorLine()
			if !ok {
				break
			}
			if line.Node.IsContainer() && !line.Node.Collapsed() {
				line.Node.SetCollapsed(true)
				m.cursorTo(line.Node)
			} else if p := m.parentOf(line.Node); p != nil {
				m.cursorTo(p)
			}
		case "enter":
			return m, m.Activate()
		case "E":
			m.ExpandAll()
		case "C":
			m.CollapseAll()
		}
	case tea.MouseClickMsg:
		if msg.Button == tea.MouseLeft {
			return m, m.ClickAt(msg.X, msg.Y)
		}
	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelUp:
			m.move(-3)
		case tea.MouseWheelDown:
			m.move(3)
		}
	}
	return m, nil
}

// View renders the rows in the viewport.
func (m *Model) View() string {
	end := min(m.offset+m.height, len(m.lines))
	rows := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		rows = append(rows, m.renderLine(m.lines[i], i == m.cursor))
	}
	return strings.Join(rows, "\n")
}

func (m *Model) renderLine(l Line, selected bool) string {
	if selected && m.focused {
		return m.styles.Cursor.Render(runewidth.Truncate(l.Text(), m.width, "…"))
	}
	var sb strings.Builder
	used := 0
	for _, seg := range l.Segments {
		text := seg.Text
		w := runewidth.StringWidth(text)
		if used+w > m.width {
			text = runewidth.Truncate(text, m.width-used, "…")
			w = m.width - used
		}
		if st, ok := m.styles.forClass(seg.Class); ok {
			sb.WriteString(st.Render(text))
		} else {
			sb.WriteString(text)
		}
		used += w
		if used >= m.width {
			break
		}
	}
	return sb.String()
}
