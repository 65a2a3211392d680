package editor

// text is a rune buffer with a line index.
type text struct {
	runes  []rune
	starts []int
}

func newText(s string) *text {
	t := &text{}
	t.set([]rune(s))
	return t
}

func (t *text) set(r []rune) {
	t.runes = r
	t.starts = t.starts[:0]
	t.starts = append(t.starts, 0)
	for i, c := range r {
		if c == '\n' {
			t.starts = append(t.starts, i+1)
		}
	}
}

func (t *text) String() string { return string(t.runes) }

func (t *text) Len() int { return len(t.runes) }

func (t *text) LineCount() int { return len(t.starts) }

// lineRange returns the [start, end) rune range of line (0-based), excluding
// the line break.
func (t *text) lineRange(line int) (int, int) {
	line = min(max(line, 0), len(t.starts)-1)
	start := t.starts[line]
	end := len(t.runes)
	if line+1 < len(t.starts) {
		end = t.starts[line+1] - 1
	}
	return start, end
}

func (t *text) line(line int) []rune {
	s, e := t.lineRange(line)
	return t.runes[s:e]
}

// pos converts a rune offset to a 0-based line and column.
func (t *text) pos(off int) (int, int) {
	off = min(max(off, 0), len(t.runes))
	lo, hi := 0, len(t.starts)-1
	for lo < hi {
		mid := (lo + hi + 1) / 2
		if t.starts[mid] <= off {
			lo = mid
		} else {
			hi = mid - 1
		}
	}
	return lo, off - t.starts[lo]
}

// offset converts a 0-based line and column to a rune offset, clamping both.
func (t *text) offset(line, col int) int {
	s, e := t.lineRange(line)
	return s + min(max(col, 0), e-s)
}

// replace swaps the runes in [start, end) for ins and returns the offset
// just past the inserted text.
func (t *text) replace(start, end int, ins []rune) int {
	start = min(max(start, 0), len(t.runes))
	end = min(max(end, start), len(t.runes))
	out := make([]rune, 0, len(t.runes)-(end-start)+len(ins))
	out = append(out, t.runes[:start]...)
	out = append(out, ins...)
	out = append(out, t.runes[end:]...)
	t.set(out)
	return start + len(ins)
}
