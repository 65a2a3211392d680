package cjk

import "strings"

var halfToFull = map[rune]rune{
	',': '，',
	'.': '。',
	'!': '！',
	'?': '？',
	':': '：',
	';': '；',
	'(': '（',
	')': '）',
}

func isFullWidthPunct(r rune) bool {
	switch r {
	case '，', '。', '！', '？', '：', '；', '（', '）', '、', '《', '》', '「', '」', '『', '』':
		return true
	}
	return false
}

func isSentenceEnd(r rune) bool {
	return r == '。' || r == '！' || r == '？'
}

func isConvertible(r rune) bool {
	_, ok := halfToFull[r]
	return ok
}

// NormalizePunctuation rewrites half-width ,.!?:;() to their full-width
// forms when they follow Chinese text, and collapses runs of the same
// punctuation mark into one. The Chinese context starts at an ideograph or
// kana and ends after a full-width sentence terminator.
func NormalizePunctuation(text string) string {
	if !needsNormalization(text) {
		return text
	}

	rs := []rune(text)
	var b strings.Builder
	b.Grow(len(text))
	inContext := false
	for i := 0; i < len(rs); i++ {
		r := rs[i]
		if isIdeographOrKana(r) {
			inContext = true
			b.WriteRune(r)
			continue
		}

		if isFullWidthPunct(r) {
			b.WriteRune(r)
			for i+1 < len(rs) && rs[i+1] == r {
				i++
			}
			if isSentenceEnd(r) {
				inContext = false
			}
			continue
		}

		if inContext {
			if full, ok := halfToFull[r]; ok {
				b.WriteRune(full)
				for i+1 < len(rs) && rs[i+1] == r {
					i++
				}
				for i+1 < len(rs) && (halfToFull[rs[i+1]] == full || rs[i+1] == full) {
					i++
				}
				if isSentenceEnd(full) && !(i+1 < len(rs) && (isConvertible(rs[i+1]) || isFullWidthPunct(rs[i+1]))) {
					inContext = false
				}
				continue
			}
		}

		b.WriteRune(r)
	}
	return b.String()
}

func needsNormalization(text string) bool {
	hasCJK := false
	var prevFull rune
	for _, r := range text {
		if isFullWidthPunct(r) {
			if prevFull == r {
				return true
			}
			prevFull = r
			continue
		}
		prevFull = 0

		if isIdeographOrKana(r) {
			hasCJK = true
		}
		if hasCJK && isConvertible(r) {
			return true
		}
	}
	return false
}
