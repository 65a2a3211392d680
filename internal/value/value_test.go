package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	yamlv2 "gopkg.in/yaml.v2"
	"gopkg.in/yaml.v3"
)

func TestMapKeepsInsertionOrder(t *testing.T) {
	m := NewMap()
	m.Set("kind", "text")
	m.Set("start", 1)
	m.Set("end", 2)
	m.Set("kind", "heading")

	assert.Equal(t, []string{"kind", "start", "end"}, m.Keys())
	v, ok := m.Get("kind")
	require.True(t, ok)
	assert.Equal(t, "heading", v)
	assert.Equal(t, 3, m.Len())
}

func TestMapDeleteAndReorder(t *testing.T) {
	m := MapOf("a", 1, "b", 2, "c", 3, "d", 4)
	m.Delete("b")
	assert.Equal(t, []string{"a", "c", "d"}, m.Keys())

	m.Reorder("d", "missing", "a")
	assert.Equal(t, []string{"d", "a", "c"}, m.Keys())
}

func TestLookupReturnsUndefined(t *testing.T) {
	m := MapOf("present", nil)
	assert.Nil(t, m.Lookup("present"))
	assert.True(t, IsUndefined(m.Lookup("absent")))
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		in   Value
		want Kind
	}{
		{nil, KindNull},
		{Undefined, KindUndefined},
		{"s", KindString},
		{3, KindNumber},
		{int64(3), KindNumber},
		{1.5, KindNumber},
		{true, KindBool},
		{[]any{}, KindSequence},
		{NewMap(), KindMapping},
		{struct{}{}, KindOther},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, KindOf(tc.in), "%#v", tc.in)
	}
}

func TestFormatNumber(t *testing.T) {
	assert.Equal(t, "42", FormatNumber(42))
	assert.Equal(t, "-7", FormatNumber(int64(-7)))
	assert.Equal(t, "3", FormatNumber(3.0))
	assert.Equal(t, "0.25", FormatNumber(0.25))
	assert.Equal(t, "1e+21", FormatNumber(1e21))
}

func TestMarshalIndentJSONKeepsOrderAndSkipsUndefined(t *testing.T) {
	m := MapOf("z", 1, "a", "<b>", "gone", Undefined, "list", []any{true, nil, Undefined})
	out, err := MarshalIndentJSON(m, "  ")
	require.NoError(t, err)
	want := "{\n  \"z\": 1,\n  \"a\": \"<b>\",\n  \"list\": [\n    true,\n    null,\n    null\n  ]\n}"
	assert.Equal(t, want, out)
}

func TestMarshalYAMLKeepsOrder(t *testing.T) {
	m := MapOf("title", "Hello", "draft", false, "tags", []any{"a", "b"})
	out, err := yaml.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, "title: Hello\ndraft: false\ntags:\n    - a\n    - b\n", string(out))
}

func TestNormalizeMapSliceKeepsOrder(t *testing.T) {
	in := yamlv2.MapSlice{
		{Key: "title", Value: "Doc"},
		{Key: "author", Value: "someone"},
		{Key: "tags", Value: []interface{}{"x", "y"}},
		{Key: "nested", Value: yamlv2.MapSlice{{Key: "k", Value: 1}}},
	}
	got, ok := Normalize(in).(*Map)
	require.True(t, ok)
	assert.Equal(t, []string{"title", "author", "tags", "nested"}, got.Keys())
	assert.Equal(t, []any{"x", "y"}, got.Lookup("tags"))
	nested, ok := got.Lookup("nested").(*Map)
	require.True(t, ok)
	assert.Equal(t, 1, nested.Lookup("k"))
}

func TestNormalizeGoMapsSortKeys(t *testing.T) {
	got, ok := Normalize(map[string]any{"b": 1, "a": map[any]any{"y": 2, "x": 1}}).(*Map)
	require.True(t, ok)
	assert.Equal(t, []string{"a", "b"}, got.Keys())
	inner := got.Lookup("a").(*Map)
	assert.Equal(t, []string{"x", "y"}, inner.Keys())
}

func TestToNativeDropsUndefined(t *testing.T) {
	m := MapOf("a", 1, "b", Undefined, "c", []any{MapOf("d", "e")})
	native := ToNative(m).(map[string]any)
	assert.Equal(t, map[string]any{"a": 1, "c": []any{map[string]any{"d": "e"}}}, native)
}

func TestPositionOf(t *testing.T) {
	p, ok := PositionOf(MapOf("line", 3, "column", 5))
	require.True(t, ok)
	assert.Equal(t, Position{Line: 3, Column: 5}, p)

	p, ok = PositionOf(MapOf("line", int64(2), "column", float64(1)))
	require.True(t, ok)
	assert.Equal(t, Position{Line: 2, Column: 1}, p)

	_, ok = PositionOf(Undefined)
	assert.False(t, ok)
	_, ok = PositionOf(nil)
	assert.False(t, ok)
	_, ok = PositionOf(MapOf("line", 1))
	assert.False(t, ok)
}
