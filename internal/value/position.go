package value

import "fmt"

// Position is a 1-based line and column pair. Columns count Unicode scalar
// values, not bytes.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Map renders the position as {line, column}.
func (p Position) Map() *Map {
	return MapOf("line", p.Line, "column", p.Column)
}

// PositionOf extracts a Position from a {line, column} mapping. It returns
// false for Undefined, null, or anything without two numeric fields.
func PositionOf(v Value) (Position, bool) {
	switch t := v.(type) {
	case Position:
		return t, true
	case *Map:
		line, ok := toInt(t.Lookup("line"))
		if !ok {
			return Position{}, false
		}
		col, ok := toInt(t.Lookup("column"))
		if !ok {
			return Position{}, false
		}
		return Position{Line: line, Column: col}, true
	default:
		return Position{}, false
	}
}

func toInt(v Value) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case int32:
		return int(n), true
	case uint64:
		return int(n), true
	case float64:
		return int(n), true
	default:
		return 0, false
	}
}
