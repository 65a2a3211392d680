// Package cjk implements the text corrections applied to CJK prose: spacing
// between CJK ideographs and ASCII alphanumerics, and normalization of
// half-width punctuation written inside Chinese sentences.
package cjk

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// IsIdeograph reports whether r is a CJK ideograph or kana. Only these trigger
// space insertion; CJK punctuation and full-width forms do not.
func IsIdeograph(r rune) bool {
	return isIdeographOrKana(r) || (r >= 0x31F0 && r <= 0x31FF)
}

func isIdeographOrKana(r rune) bool {
	switch {
	case r >= 0x4E00 && r <= 0x9FFF,
		r >= 0x3400 && r <= 0x4DBF,
		r >= 0xF900 && r <= 0xFAFF,
		r >= 0x20000 && r <= 0x2A6DF,
		r >= 0x2A700 && r <= 0x2B73F,
		r >= 0x2B740 && r <= 0x2B81F,
		r >= 0x2B820 && r <= 0x2CEAF,
		r >= 0x2CEB0 && r <= 0x2EBEF,
		r >= 0x30000 && r <= 0x3134F,
		r >= 0x3040 && r <= 0x309F,
		r >= 0x30A0 && r <= 0x30FF:
		return true
	}
	return false
}

// IsCJK reports whether r is an ideograph, kana, CJK punctuation, or a
// full-width form.
func IsCJK(r rune) bool {
	if IsIdeograph(r) {
		return true
	}
	return (r >= 0x3000 && r <= 0x303F) ||
		(r >= 0xFF00 && r <= 0xFFEF) ||
		(r >= 0xFE30 && r <= 0xFE4F)
}

func isASCIIAlnum(r rune) bool {
	return (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

// Autospace inserts a single space between a CJK ideograph and an adjacent
// ASCII letter or digit. Boundaries touching any occurrence of a noun are
// left alone, so "豆瓣FM" stays intact. Text that needs no change is returned
// as is.
func Autospace(text string, nouns ...string) string {
	skip := nounRanges(text, nouns)

	var b *strings.Builder
	last := 0
	prev, prevSize := utf8.DecodeRuneInString(text)
	for i := prevSize; i < len(text); {
		r, size := utf8.DecodeRuneInString(text[i:])
		need := (IsIdeograph(prev) && isASCIIAlnum(r)) || (isASCIIAlnum(prev) && IsIdeograph(r))
		if need && !inRanges(skip, i) {
			if b == nil {
				b = &strings.Builder{}
				b.Grow(len(text) + 16)
			}
			b.WriteString(text[last:i])
			b.WriteByte(' ')
			last = i
		}
		prev = r
		i += size
	}
	if b == nil {
		return text
	}
	b.WriteString(text[last:])
	return b.String()
}

type byteRange struct{ start, end int }

func nounRanges(text string, nouns []string) []byteRange {
	var out []byteRange
	for _, noun := range nouns {
		if noun == "" {
			continue
		}
		from := 0
		for {
			idx := strings.Index(text[from:], noun)
			if idx < 0 {
				break
			}
			start := from + idx
			out = append(out, byteRange{start: start, end: start + len(noun)})
			from = start + len(noun)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].start < out[j].start })
	return out
}

// inRanges treats both edges as inclusive: a boundary at either end of a noun
// belongs to the noun.
func inRanges(ranges []byteRange, pos int) bool {
	for _, r := range ranges {
		if pos >= r.start && pos <= r.end {
			return true
		}
	}
	return false
}
