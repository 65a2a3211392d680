package markdown

import (
	"bytes"

	"github.com/oakwood-commons/mdplay/internal/value"
)

// frontmatterBlock locates a leading "---" fenced YAML block, the same
// shape goldmark-meta consumes.
type frontmatterBlock struct {
	stop    int
	content value.Value
}

func isFence(line []byte) bool {
	line = bytes.TrimSpace(line)
	if len(line) < 3 {
		return false
	}
	for _, c := range line {
		if c != '-' {
			return false
		}
	}
	return true
}

// findFrontmatter returns the end offset of the frontmatter block (the end
// of its closing fence line) or false when the source does not open with one.
func findFrontmatter(src []byte) (int, bool) {
	ix := newLineIndex(src)
	first := ix.lineEnd(0)
	if !isFence(src[:first]) {
		return 0, false
	}
	off, ok := ix.nextLineStart(0)
	for ok {
		end := ix.lineEnd(off)
		if isFence(src[off:end]) {
			return end, true
		}
		off, ok = ix.nextLineStart(off)
	}
	return len(src), true
}

// nounsFromMetadata reads a string or a list of strings from the named
// metadata field.
func nounsFromMetadata(meta value.Value, field string) []string {
	m, ok := meta.(*value.Map)
	if !ok || field == "" {
		return nil
	}
	switch v := m.Lookup(field).(type) {
	case string:
		if v == "" {
			return nil
		}
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok && s != "" {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}
