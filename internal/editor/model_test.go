package editor

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oakwood-commons/mdplay/internal/selection"
	"github.com/oakwood-commons/mdplay/internal/value"
)

var _ selection.Buffer = (*Model)(nil)

func typeText(m *Model, s string) {
	for _, r := range s {
		m.Update(tea.KeyPressMsg{Code: r, Text: string(r)})
	}
}

func key(m *Model, code rune, mod tea.KeyMod) {
	m.Update(tea.KeyPressMsg{Code: code, Mod: mod})
}

func TestTextPositions(t *testing.T) {
	tx := newText("ab\n中文x\n")
	assert.Equal(t, 3, tx.LineCount())
	line, col := tx.pos(4)
	assert.Equal(t, 1, line)
	assert.Equal(t, 1, col)
	assert.Equal(t, 6, tx.offset(1, 99))
	assert.Equal(t, 7, tx.offset(2, 0))
	assert.Equal(t, "中文x", string(tx.line(1)))

	end := tx.replace(1, 4, []rune("Z"))
	assert.Equal(t, 2, end)
	assert.Equal(t, "aZ文x\n", tx.String())
	assert.Equal(t, 2, tx.LineCount())
}

func TestTypingBumpsVersion(t *testing.T) {
	m := New("")
	m.Focus()
	v := m.Version()
	typeText(m, "hi")
	key(m, tea.KeyEnter, 0)
	typeText(m, "yo")
	assert.Equal(t, "hi\nyo", m.Value())
	assert.Equal(t, v+5, m.Version())
}

func TestBlurredIgnoresKeys(t *testing.T) {
	m := New("abc")
	typeText(m, "x")
	assert.Equal(t, "abc", m.Value())
	assert.Equal(t, 0, m.Version())
}

func TestBackspaceAndDelete(t *testing.T) {
	m := New("abc")
	m.Focus()
	m.SetSelection(1, 1)
	key(m, tea.KeyBackspace, 0)
	assert.Equal(t, "bc", m.Value())
	key(m, tea.KeyBackspace, 0)
	assert.Equal(t, "bc", m.Value())
	key(m, tea.KeyDelete, 0)
	assert.Equal(t, "c", m.Value())
}

func TestTypingReplacesSelection(t *testing.T) {
	m := New("hello world")
	m.Focus()
	m.SetSelection(6, 11)
	assert.Equal(t, "world", m.SelectedText())
	typeText(m, "go")
	assert.Equal(t, "hello go", m.Value())
	s, e := m.Selection()
	assert.Equal(t, 8, s)
	assert.Equal(t, 8, e)
}

func TestShiftArrowsExtendSelection(t *testing.T) {
	m := New("abcdef")
	m.Focus()
	m.SetSelection(2, 2)
	key(m, tea.KeyRight, tea.ModShift)
	key(m, tea.KeyRight, tea.ModShift)
	assert.Equal(t, "cd", m.SelectedText())
	key(m, tea.KeyLeft, 0)
	s, e := m.Selection()
	assert.Equal(t, 2, s)
	assert.Equal(t, 2, e)
}

func TestVerticalMovementKeepsGoalColumn(t *testing.T) {
	m := New("abcdef\nab\nabcdef")
	m.Focus()
	m.SetSelection(5, 5)
	key(m, tea.KeyDown, 0)
	assert.Equal(t, 9, m.Cursor())
	key(m, tea.KeyDown, 0)
	assert.Equal(t, 15, m.Cursor())
	key(m, tea.KeyUp, 0)
	key(m, tea.KeyUp, 0)
	assert.Equal(t, 5, m.Cursor())
}

func TestPasteNormalizesLineEndings(t *testing.T) {
	m := New("")
	m.Focus()
	m.Update(tea.PasteMsg{Content: "a\r\nb"})
	assert.Equal(t, "a\nb", m.Value())
}

func TestClear(t *testing.T) {
	m := New("abc\ndef")
	m.Clear()
	assert.Equal(t, "", m.Value())
	assert.Equal(t, 0, m.Cursor())
	assert.Equal(t, 1, m.Version())
}

func TestSmoothScroll(t *testing.T) {
	m := New(strings.Repeat("line\n", 100))
	m.SetSize(40, 10)

	m.ScrollTo(30, true)
	assert.True(t, m.Scrolling())
	assert.Equal(t, 0, m.Top())
	cmd := m.AnimateCmd()
	require.NotNil(t, cmd)
	assert.Nil(t, m.AnimateCmd(), "tick already scheduled")

	id := m.scrollID
	for i := 0; i < 100 && m.Scrolling(); i++ {
		m.Update(ScrollTickMsg{ID: id})
	}
	assert.False(t, m.Scrolling())
	assert.Equal(t, 30, m.Top())
}

func TestSmoothScrollSuperseded(t *testing.T) {
	m := New(strings.Repeat("line\n", 100))
	m.SetSize(40, 10)
	m.ScrollTo(30, true)
	old := m.scrollID
	m.ScrollTo(5, false)
	assert.Equal(t, 5, m.Top())

	_, cmd := m.Update(ScrollTickMsg{ID: old})
	assert.Nil(t, cmd)
	assert.Equal(t, 5, m.Top())
}

func TestScrollClampsToContent(t *testing.T) {
	m := New("a\nb\nc")
	m.SetSize(10, 10)
	m.ScrollTo(50, false)
	assert.Equal(t, 0, m.Top())
}

func TestBridgeDrivesEditor(t *testing.T) {
	m := New(strings.Repeat("x\n", 40) + "target here")
	m.SetSize(40, 10)
	b := selection.NewBridge(m)

	ok := b.Select(value.MapOf("line", 41, "column", 1), value.MapOf("line", 41, "column", 7))
	require.True(t, ok)
	assert.True(t, m.Focused())
	assert.Equal(t, "target", m.SelectedText())
	assert.True(t, m.Scrolling())

	for i := 0; i < 100 && m.Scrolling(); i++ {
		m.Update(ScrollTickMsg{ID: m.scrollID})
	}
	assert.Equal(t, 31, m.Top())
}

func TestClickAt(t *testing.T) {
	m := New("abc\ndefgh")
	m.SetSize(20, 5)
	m.ClickAt(m.gutterWidth()+2, 1)
	assert.True(t, m.Focused())
	assert.Equal(t, 6, m.Cursor())

	m.ClickAt(99, 9)
	assert.Equal(t, 9, m.Cursor())
}

func TestViewShowsGutterAndText(t *testing.T) {
	m := New("one\ntwo")
	m.SetStyles(PlainStyles())
	m.SetSize(20, 5)
	rows := strings.Split(m.View(), "\n")
	require.Len(t, rows, 2)
	assert.Equal(t, "1 one", rows[0])
	assert.Equal(t, "2 two", rows[1])
}

func TestPlaceholder(t *testing.T) {
	m := New("")
	m.SetStyles(PlainStyles())
	m.Placeholder = "type markdown"
	assert.Equal(t, "type markdown", m.View())
}
