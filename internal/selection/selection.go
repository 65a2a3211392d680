// Package selection maps node positions from the syntax tree back onto the
// source text and drives a text buffer's selection and scroll.
package selection

import (
	"strings"
	"unicode/utf8"

	"github.com/oakwood-commons/mdplay/internal/value"
)

// Buffer is the editable text area the bridge selects in. Offsets are rune
// offsets into Value().
type Buffer interface {
	Value() string
	Focus()
	SetSelection(start, end int)
	ScrollTo(top int, smooth bool)
	ViewportHeight() int
	LineHeight() int
}

// Offset converts a 1-based position into a rune offset within text: the
// lengths of all preceding lines plus one per line break, plus column-1.
// Lines past the end clamp to the last line and columns clamp to the line
// length.
func Offset(text string, p value.Position) int {
	lines := strings.Split(text, "\n")
	line := min(max(p.Line, 1), len(lines))

	off := 0
	for _, l := range lines[:line-1] {
		off += utf8.RuneCountInString(l) + 1
	}
	col := min(max(p.Column, 1)-1, utf8.RuneCountInString(lines[line-1]))
	return off + col
}

// Range converts a start/end pair into an ordered [start, end) offset range.
func Range(text string, start, end value.Position) (int, int) {
	s, e := Offset(text, start), Offset(text, end)
	if e < s {
		s, e = e, s
	}
	return s, e
}

// CenteredTop returns the scroll offset that places line (1-based) in the
// vertical middle of a viewport, floored at zero.
func CenteredTop(line, lineHeight, viewport int) int {
	top := (line-1)*lineHeight - viewport/2 + lineHeight/2
	return max(top, 0)
}

// Bridge applies tree node clicks to a buffer.
type Bridge struct {
	buf Buffer
}

// NewBridge returns a bridge bound to buf, which may be nil.
func NewBridge(buf Buffer) *Bridge {
	return &Bridge{buf: buf}
}

// Bind replaces the target buffer.
func (b *Bridge) Bind(buf Buffer) {
	b.buf = buf
}

// Select focuses the buffer, selects the text between start and end, and
// scrolls the start line to the middle of the viewport. It does nothing and
// returns false when no buffer is bound or either position is absent.
func (b *Bridge) Select(start, end value.Value) bool {
	if b == nil || b.buf == nil {
		return false
	}
	sp, ok := value.PositionOf(start)
	if !ok {
		return false
	}
	ep, ok := value.PositionOf(end)
	if !ok {
		return false
	}

	text := b.buf.Value()
	s, e := Range(text, sp, ep)
	b.buf.Focus()
	b.buf.SetSelection(s, e)

	line := min(sp.Line, ep.Line)
	b.buf.ScrollTo(CenteredTop(line, max(b.buf.LineHeight(), 1), b.buf.ViewportHeight()), true)
	return true
}
