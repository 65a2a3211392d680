package query

import (
	"strings"
	"unicode"

	"github.com/oakwood-commons/mdplay/internal/value"
)

// Complete returns candidate inputs that finish the identifier at the end
// of input. After a dot the candidates are the keys of the value the
// prefix evaluates to, then functions; elsewhere the root variable and
// functions. Candidates keep the text before the identifier.
//
// Example: Complete("_.chi", tree) returns ["_.children"].
func (e *Evaluator) Complete(input string, data value.Value) []string {
	partial := trailingIdent(input)
	head := input[:len(input)-len(partial)]

	var names []string
	if base, ok := strings.CutSuffix(head, "."); ok {
		names = append(names, e.keysOf(base, data)...)
	} else {
		names = append(names, Variable)
	}
	names = append(names, e.Functions()...)

	seen := make(map[string]bool, len(names))
	var out []string
	for _, name := range names {
		if seen[name] || !strings.HasPrefix(name, partial) || name == partial {
			continue
		}
		seen[name] = true
		out = append(out, head+name)
	}
	return out
}

// keysOf lists the keys of the mapping base evaluates to. A base that does
// not evaluate to a mapping offers the syntax node keys.
func (e *Evaluator) keysOf(base string, data value.Value) []string {
	if strings.TrimSpace(base) != "" {
		if v, err := e.Evaluate(base, data); err == nil {
			if m, ok := v.(*value.Map); ok {
				return m.Keys()
			}
			return nil
		}
	}
	return NodeKeyOrder
}

func trailingIdent(s string) string {
	i := len(s)
	for i > 0 {
		r := rune(s[i-1])
		if r != '_' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		i--
	}
	return s[i:]
}
