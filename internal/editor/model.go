// Package editor is the multi-line input buffer: a rune text area with a
// selection, a gutter and animated scrolling.
package editor

import (
	"fmt"
	"strings"
	"time"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"
	"github.com/mattn/go-runewidth"
)

// FrameInterval is the delay between smooth scroll steps.
const FrameInterval = 16 * time.Millisecond

// TabText is inserted for the tab key.
const TabText = "  "

// ScrollTickMsg advances a smooth scroll. Ticks from a superseded scroll
// are ignored.
type ScrollTickMsg struct {
	ID int
}

// Styles for the editor.
type Styles struct {
	Text        lipgloss.Style
	Gutter      lipgloss.Style
	Selection   lipgloss.Style
	Cursor      lipgloss.Style
	Placeholder lipgloss.Style
}

// DefaultStyles returns the colored editor styles.
func DefaultStyles() Styles {
	return Styles{
		Text:        lipgloss.NewStyle(),
		Gutter:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Selection:   lipgloss.NewStyle().Background(lipgloss.Color("24")).Foreground(lipgloss.Color("255")),
		Cursor:      lipgloss.NewStyle().Reverse(true),
		Placeholder: lipgloss.NewStyle().Foreground(lipgloss.Color("242")).Italic(true),
	}
}

// PlainStyles renders without color.
func PlainStyles() Styles {
	return Styles{
		Text:        lipgloss.NewStyle(),
		Gutter:      lipgloss.NewStyle(),
		Selection:   lipgloss.NewStyle().Reverse(true),
		Cursor:      lipgloss.NewStyle().Reverse(true),
		Placeholder: lipgloss.NewStyle(),
	}
}

// Model is an editable text buffer. Offsets are rune offsets.
type Model struct {
	text *text

	cursor  int
	anchor  int // selection anchor; equal to cursor when nothing is selected
	goalCol int

	top  int
	left int

	scrollTarget int
	scrollID     int
	scrolling    bool
	tickPending  bool

	width       int
	height      int
	gutter      bool
	focused     bool
	version     int
	Placeholder string

	styles Styles
}

// New returns an editor holding s with the cursor at the start.
func New(s string) *Model {
	return &Model{
		text:   newText(s),
		width:  80,
		height: 20,
		gutter: true,
		styles: DefaultStyles(),
	}
}

// Value returns the buffer contents.
func (m *Model) Value() string { return m.text.String() }

// SetValue replaces the contents, moves the cursor to the end and bumps the
// version.
func (m *Model) SetValue(s string) {
	m.text.set([]rune(s))
	m.cursor = m.text.Len()
	m.anchor = m.cursor
	m.changed()
}

// Version increases on every content change.
func (m *Model) Version() int { return m.version }

func (m *Model) changed() {
	m.version++
	m.ensureVisible()
}

// SetStyles replaces the styles.
func (m *Model) SetStyles(s Styles) { m.styles = s }

// ShowGutter toggles the line number gutter.
func (m *Model) ShowGutter(on bool) { m.gutter = on }

// SetSize sets the view size including the gutter.
func (m *Model) SetSize(width, height int) {
	m.width = max(width, 1)
	m.height = max(height, 1)
	m.top = m.clampTop(m.top)
	m.scrollTarget = m.clampTop(m.scrollTarget)
}

// Focus gives the buffer keyboard focus.
func (m *Model) Focus() { m.focused = true }

// Blur removes keyboard focus.
func (m *Model) Blur() { m.focused = false }

// Focused reports whether the buffer has keyboard focus.
func (m *Model) Focused() bool { return m.focused }

// Cursor returns the cursor offset.
func (m *Model) Cursor() int { return m.cursor }

// Selection returns the ordered selected range. start == end when nothing
// is selected.
func (m *Model) Selection() (int, int) {
	if m.anchor <= m.cursor {
		return m.anchor, m.cursor
	}
	return m.cursor, m.anchor
}

// SelectedText returns the text in the selection.
func (m *Model) SelectedText() string {
	s, e := m.Selection()
	return string(m.text.runes[s:e])
}

// SetSelection selects [start, end) and leaves the cursor at end. Offsets
// are clamped to the buffer.
func (m *Model) SetSelection(start, end int) {
	n := m.text.Len()
	m.anchor = min(max(start, 0), n)
	m.cursor = min(max(end, 0), n)
	_, m.goalCol = m.text.pos(m.cursor)
}

// ViewportHeight is the number of visible text lines.
func (m *Model) ViewportHeight() int { return m.height }

// LineHeight is one cell per line.
func (m *Model) LineHeight() int { return 1 }

// Top returns the first visible line.
func (m *Model) Top() int { return m.top }

// Scrolling reports whether a smooth scroll is in progress.
func (m *Model) Scrolling() bool { return m.scrolling }

func (m *Model) maxTop() int {
	return max(m.text.LineCount()-m.height, 0)
}

func (m *Model) clampTop(top int) int {
	return min(max(top, 0), m.maxTop())
}

// ScrollTo moves the first visible line to top. Smooth scrolls advance on
// ScrollTickMsg; AnimateCmd starts them.
func (m *Model) ScrollTo(top int, smooth bool) {
	top = m.clampTop(top)
	m.scrollID++
	if !smooth || top == m.top {
		m.top = top
		m.scrolling = false
		m.tickPending = false
		return
	}
	m.scrollTarget = top
	m.scrolling = true
	m.tickPending = false
}

// AnimateCmd returns the tick that drives a pending smooth scroll, or nil.
func (m *Model) AnimateCmd() tea.Cmd {
	if !m.scrolling || m.tickPending {
		return nil
	}
	m.tickPending = true
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	id := m.scrollID
	return tea.Tick(FrameInterval, func(time.Time) tea.Msg {
		return ScrollTickMsg{ID: id}
	})
}

// step moves a third of the remaining distance, at least one line.
func (m *Model) step() bool {
	diff := m.scrollTarget - m.top
	if diff == 0 {
		return false
	}
	delta := diff / 3
	if delta == 0 {
		if diff > 0 {
			delta = 1
		} else {
			delta = -1
		}
	}
	m.top += delta
	return m.top != m.scrollTarget
}

func (m *Model) lineCol() (int, int) { return m.text.pos(m.cursor) }

// ensureVisible scrolls so the cursor line and column are on screen.
func (m *Model) ensureVisible() {
	line, col := m.lineCol()
	if line < m.top {
		m.top = line
	}
	if line >= m.top+m.height {
		m.top = line - m.height + 1
	}
	m.top = m.clampTop(m.top)
	m.scrolling = false

	textW := m.textWidth()
	if col < m.left {
		m.left = col
	}
	if col >= m.left+textW {
		m.left = col - textW + 1
	}
	m.left = max(m.left, 0)
}

func (m *Model) gutterWidth() int {
	if !m.gutter {
		return 0
	}
	return len(fmt.Sprint(m.text.LineCount())) + 1
}

func (m *Model) textWidth() int {
	return max(m.width-m.gutterWidth(), 1)
}

// Insert replaces the selection with s.
func (m *Model) Insert(s string) {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	start, end := m.Selection()
	m.cursor = m.text.replace(start, end, []rune(s))
	m.anchor = m.cursor
	_, m.goalCol = m.lineCol()
	m.changed()
}

// Clear empties the buffer.
func (m *Model) Clear() {
	m.text.set(nil)
	m.cursor, m.anchor, m.top, m.left = 0, 0, 0, 0
	m.changed()
}

func (m *Model) deleteBackward() {
	start, end := m.Selection()
	if start == end {
		if start == 0 {
			return
		}
		start--
	}
	m.cursor = m.text.replace(start, end, nil)
	m.anchor = m.cursor
	_, m.goalCol = m.lineCol()
	m.changed()
}

func (m *Model) deleteForward() {
	start, end := m.Selection()
	if start == end {
		if end >= m.text.Len() {
			return
		}
		end++
	}
	m.cursor = m.text.replace(start, end, nil)
	m.anchor = m.cursor
	m.changed()
}

// moveTo places the cursor at off. With extend the selection anchor stays.
func (m *Model) moveTo(off int, extend bool) {
	m.cursor = min(max(off, 0), m.text.Len())
	if !extend {
		m.anchor = m.cursor
	}
	m.ensureVisible()
}

func (m *Model) moveHorizontal(delta int, extend bool) {
	s, e := m.Selection()
	switch {
	case !extend && s != e && delta < 0:
		m.moveTo(s, false)
	case !extend && s != e && delta > 0:
		m.moveTo(e, false)
	default:
		m.moveTo(m.cursor+delta, extend)
	}
	_, m.goalCol = m.lineCol()
}

func (m *Model) moveVertical(delta int, extend bool) {
	line, _ := m.lineCol()
	target := line + delta
	switch {
	case target < 0:
		m.moveTo(0, extend)
		return
	case target >= m.text.LineCount():
		m.moveTo(m.text.Len(), extend)
		return
	}
	m.moveTo(m.text.offset(target, m.goalCol), extend)
}

func (m *Model) lineBoundary(end, extend bool) {
	line, _ := m.lineCol()
	s, e := m.text.lineRange(line)
	if end {
		m.moveTo(e, extend)
	} else {
		m.moveTo(s, extend)
	}
	_, m.goalCol = m.lineCol()
}

// ClickAt places the cursor at view-local cell coordinates and focuses the
// buffer.
func (m *Model) ClickAt(x, y int) {
	m.focused = true
	line := min(m.top+max(y, 0), m.text.LineCount()-1)
	runes := m.text.line(line)
	want := max(x-m.gutterWidth(), 0)
	col, w := m.left, 0
	for col < len(runes) {
		rw := runewidth.RuneWidth(runes[col])
		if w+rw > want {
			break
		}
		w += rw
		col++
	}
	m.cursor = m.text.offset(line, col)
	m.anchor = m.cursor
	m.goalCol = col
}

func (m *Model) Init() tea.Cmd { return nil }

// Update applies editing keys, paste, mouse and scroll ticks. Keys are
// ignored while blurred.
func (m *Model) Update(msg tea.Msg) (*Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ScrollTickMsg:
		if msg.ID != m.scrollID || !m.scrolling {
			return m, nil
		}
		if m.step() {
			return m, m.tick()
		}
		m.scrolling = false
		m.tickPending = false
		return m, nil

	case tea.PasteMsg:
		if m.focused {
			m.Insert(msg.Content)
		}
		return m, nil

	case tea.MouseClickMsg:
		if msg.Button == tea.MouseLeft {
			m.ClickAt(msg.X, msg.Y)
		}
		return m, nil

	case tea.MouseWheelMsg:
		switch msg.Button {
		case tea.MouseWheelUp:
			m.ScrollTo(m.top-3, false)
		case tea.MouseWheelDown:
			m.ScrollTo(m.top+3, false)
		}
		return m, nil

	case tea.KeyPressMsg:
		if !m.focused {
			return m, nil
		}
		m.handleKey(msg)
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyPressMsg) {
	switch msg.String() {
	case "left":
		m.moveHorizontal(-1, false)
	case "right":
		m.moveHorizontal(1, false)
	case "shift+left":
		m.moveHorizontal(-1, true)
	case "shift+right":
		m.moveHorizontal(1, true)
	case "up":
		m.moveVertical(-1, false)
	case "down":
		m.moveVertical(1, false)
	case "shift+up":
		m.moveVertical(-1, true)
	case "shift+down":
		m.moveVertical(1, true)
	case "pgup":
		m.moveVertical(-m.height, false)
	case "pgdown":
		m.moveVertical(m.height, false)
	case "home", "ctrl+a":
		m.lineBoundary(false, false)
	case "end", "ctrl+e":
		m.lineBoundary(true, false)
	case "shift+home":
		m.lineBoundary(false, true)
	case "shift+end":
		m.lineBoundary(true, true)
	case "ctrl+home":
		m.moveTo(0, false)
	case "ctrl+end":
		m.moveTo(m.text.Len(), false)
	case "backspace":
		m.deleteBackward()
	case "delete", "ctrl+d":
		m.deleteForward()
	case "enter":
		m.Insert("\n")
	case "tab":
		m.Insert(TabText)
	case "space":
		m.Insert(" ")
	default:
		if msg.Text != "" && msg.Mod&(tea.ModCtrl|tea.ModAlt) == 0 {
			m.Insert(msg.Text)
		}
	}
}

// View renders the visible lines with the gutter, selection and cursor.
func (m *Model) View() string {
	if m.text.Len() == 0 && m.Placeholder != "" && !m.focused {
		return m.styles.Placeholder.Render(runewidth.Truncate(m.Placeholder, m.width, "…"))
	}
	gw := m.gutterWidth()
	textW := m.textWidth()
	selStart, selEnd := m.Selection()
	showCursor := m.focused && selStart == selEnd

	end := min(m.top+m.height, m.text.LineCount())
	rows := make([]string, 0, end-m.top)
	for line := m.top; line < end; line++ {
		var sb strings.Builder
		if gw > 0 {
			sb.WriteString(m.styles.Gutter.Render(fmt.Sprintf("%*d ", gw-1, line+1)))
		}
		ls, le := m.text.lineRange(line)
		var run strings.Builder
		runKind := cellText
		flush := func() {
			if run.Len() > 0 {
				sb.WriteString(m.styleFor(runKind).Render(run.String()))
				run.Reset()
			}
		}
		emit := func(k cellKind, cell string) {
			if k != runKind {
				flush()
				runKind = k
			}
			run.WriteString(cell)
		}

		w := 0
		col := m.left
		for ; ls+col < le; col++ {
			off := ls + col
			r := m.text.runes[off]
			rw := runewidth.RuneWidth(r)
			if w+rw > textW {
				break
			}
			w += rw
			emit(m.cellKindAt(off, showCursor, selStart, selEnd), string(r))
		}
		// The line break itself shows as a selected or cursor cell.
		if w < textW && ls+col == le {
			if k := m.cellKindAt(le, showCursor, selStart, selEnd); k != cellText {
				emit(k, " ")
			}
		}
		flush()
		rows = append(rows, sb.String())
	}
	return strings.Join(rows, "\n")
}

type cellKind int

const (
	cellText cellKind = iota
	cellSelected
	cellCursor
)

func (m *Model) cellKindAt(off int, showCursor bool, selStart, selEnd int) cellKind {
	switch {
	case showCursor && off == m.cursor:
		return cellCursor
	case off >= selStart && off < selEnd:
		return cellSelected
	default:
		return cellText
	}
}

func (m *Model) styleFor(k cellKind) lipgloss.Style {
	switch k {
	case cellCursor:
		return m.styles.Cursor
	case cellSelected:
		return m.styles.Selection
	default:
		return m.styles.Text
	}
}
