package markdown

import (
	"bytes"
	"sort"
	"unicode/utf8"

	"github.com/oakwood-commons/mdplay/internal/value"
)

// lineIndex maps byte offsets in the source to 1-based line/column
// positions. Columns count runes.
type lineIndex struct {
	src    []byte
	starts []int
}

func newLineIndex(src []byte) *lineIndex {
	starts := []int{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{src: src, starts: starts}
}

func (ix *lineIndex) position(off int) value.Position {
	off = max(0, min(off, len(ix.src)))
	line := sort.Search(len(ix.starts), func(i int) bool { return ix.starts[i] > off }) - 1
	col := utf8.RuneCount(ix.src[ix.starts[line]:off]) + 1
	return value.Position{Line: line + 1, Column: col}
}

// lineStart returns the offset of the first byte of the line holding off.
func (ix *lineIndex) lineStart(off int) int {
	off = max(0, min(off, len(ix.src)))
	line := sort.Search(len(ix.starts), func(i int) bool { return ix.starts[i] > off }) - 1
	return ix.starts[line]
}

// lineEnd returns the offset of the newline ending the line holding off, or
// the end of the source.
func (ix *lineIndex) lineEnd(off int) int {
	off = max(0, min(off, len(ix.src)))
	if i := bytes.IndexByte(ix.src[off:], '\n'); i >= 0 {
		end := off + i
		if end > 0 && ix.src[end-1] == '\r' {
			end--
		}
		return end
	}
	return len(ix.src)
}

// nextLineStart returns the offset just after the newline ending the line
// holding off. ok is false on the last line.
func (ix *lineIndex) nextLineStart(off int) (int, bool) {
	off = max(0, min(off, len(ix.src)))
	if i := bytes.IndexByte(ix.src[off:], '\n'); i >= 0 {
		return off + i + 1, true
	}
	return len(ix.src), false
}

// firstNonSpace skips spaces and tabs from off within the line.
func (ix *lineIndex) firstNonSpace(off int) int {
	for off < len(ix.src) && (ix.src[off] == ' ' || ix.src[off] == '\t') {
		off++
	}
	return off
}

// extendBack moves off left over bytes accepted by allow without crossing
// the start of the line.
func (ix *lineIndex) extendBack(off int, allow func(byte) bool) int {
	for off > 0 && ix.src[off-1] != '\n' && allow(ix.src[off-1]) {
		off--
	}
	return off
}

// trimNewline drops trailing line terminators from an exclusive end offset.
func (ix *lineIndex) trimNewline(start, stop int) int {
	for stop > start && (ix.src[stop-1] == '\n' || ix.src[stop-1] == '\r') {
		stop--
	}
	return stop
}

// span is a half-open byte range. The zero value means unknown.
type span struct {
	start, stop int
	ok          bool
}

func (s span) union(o span) span {
	switch {
	case !o.ok:
		return s
	case !s.ok:
		return o
	}
	return span{start: min(s.start, o.start), stop: max(s.stop, o.stop), ok: true}
}
