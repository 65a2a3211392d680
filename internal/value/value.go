// Package value holds the displayable value model shared by the parser adapter,
// the tree viewer, the query engine, and the output formatters.
//
// A Value is any of: nil (null), Undefined, string, bool, a number (int,
// int64, float64), []any, or *Map. Mappings keep insertion order so a parsed
// syntax tree renders its fields in the order the adapter produced them.
package value

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"time"

	yamlv2 "gopkg.in/yaml.v2"
)

// Value is a displayable value. See the package doc for the accepted shapes.
type Value = any

// Kind classifies a Value for rendering.
type Kind int

const (
	KindNull Kind = iota
	KindUndefined
	KindString
	KindNumber
	KindBool
	KindSequence
	KindMapping
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindUndefined:
		return "undefined"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "boolean"
	case KindSequence:
		return "array"
	case KindMapping:
		return "object"
	default:
		return "other"
	}
}

type undefinedValue struct{}

func (undefinedValue) String() string { return "undefined" }

// MarshalJSON renders undefined as null inside sequences. Map entries holding
// Undefined are skipped entirely.
func (undefinedValue) MarshalJSON() ([]byte, error) { return []byte("null"), nil }

func (undefinedValue) MarshalYAML() (interface{}, error) { return nil, nil }

// Undefined marks an absent field. It is distinct from nil, which is null.
var Undefined Value = undefinedValue{}

// IsUndefined reports whether v is the Undefined marker.
func IsUndefined(v Value) bool {
	_, ok := v.(undefinedValue)
	return ok
}

// KindOf returns the rendering kind of v.
func KindOf(v Value) Kind {
	switch v.(type) {
	case nil:
		return KindNull
	case undefinedValue:
		return KindUndefined
	case string:
		return KindString
	case bool:
		return KindBool
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return KindNumber
	case []any:
		return KindSequence
	case *Map:
		return KindMapping
	default:
		return KindOther
	}
}

// IsContainer reports whether v is a sequence or a mapping.
func IsContainer(v Value) bool {
	k := KindOf(v)
	return k == KindSequence || k == KindMapping
}

// FormatNumber renders a number the way a JSON document would show it:
// integral values without a fraction, others in shortest form.
func FormatNumber(v Value) string {
	switch n := v.(type) {
	case int:
		return strconv.Itoa(n)
	case int8, int16, int32, int64:
		return strconv.FormatInt(reflect.ValueOf(n).Int(), 10)
	case uint, uint8, uint16, uint32, uint64:
		return strconv.FormatUint(reflect.ValueOf(n).Uint(), 10)
	case float32:
		return formatFloat(float64(n))
	case float64:
		return formatFloat(n)
	default:
		return fmt.Sprint(v)
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.Abs(f) >= 1e21:
		return strconv.FormatFloat(f, 'g', -1, 64)
	default:
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
}

// Normalize converts decoded data (yaml.v2 MapSlice, map[string]any,
// map[any]any, typed slices, time values) into the Value model. Plain Go maps
// get their keys sorted so the result is deterministic.
func Normalize(v any) Value {
	switch t := v.(type) {
	case nil:
		return nil
	case undefinedValue, string, bool, int, int64, float64:
		return t
	case int8, int16, int32, uint, uint8, uint16, uint32, uint64, float32:
		return t
	case *Map:
		return t
	case Position:
		return t.Map()
	case yamlv2.MapSlice:
		m := NewMap()
		for _, item := range t {
			m.Set(keyString(item.Key), Normalize(item.Value))
		}
		return m
	case map[string]any:
		m := NewMap()
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			m.Set(k, Normalize(t[k]))
		}
		return m
	case map[any]any:
		m := NewMap()
		keys := make([]string, 0, len(t))
		byKey := make(map[string]any, len(t))
		for k, val := range t {
			ks := keyString(k)
			keys = append(keys, ks)
			byKey[ks] = val
		}
		sort.Strings(keys)
		for _, k := range keys {
			m.Set(k, Normalize(byKey[k]))
		}
		return m
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Normalize(item)
		}
		return out
	case []string:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = item
		}
		return out
	case time.Time:
		if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 && t.Nanosecond() == 0 {
			return t.Format(time.DateOnly)
		}
		return t.Format(time.RFC3339)
	case fmt.Stringer:
		return t.String()
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = Normalize(rv.Index(i).Interface())
		}
		return out
	case reflect.Map:
		m := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			m[keyString(iter.Key().Interface())] = iter.Value().Interface()
		}
		return Normalize(m)
	case reflect.Pointer:
		if rv.IsNil() {
			return nil
		}
		return Normalize(rv.Elem().Interface())
	default:
		return fmt.Sprint(v)
	}
}

func keyString(k any) string {
	if s, ok := k.(string); ok {
		return s
	}
	return fmt.Sprint(k)
}

// ToNative converts a Value into plain Go maps and slices. Undefined entries
// are dropped from mappings and become nil in sequences.
func ToNative(v Value) any {
	switch t := v.(type) {
	case *Map:
		out := make(map[string]any, t.Len())
		t.Each(func(k string, val Value) {
			if IsUndefined(val) {
				return
			}
			out[k] = ToNative(val)
		})
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = ToNative(item)
		}
		return out
	case undefinedValue:
		return nil
	default:
		return t
	}
}
