// Package query evaluates CEL expressions over syntax trees and metadata.
package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"
	celext "github.com/google/cel-go/ext"

	"github.com/oakwood-commons/mdplay/internal/value"
)

// Variable is the name the input is bound to in expressions.
const Variable = "_"

// NodeKeyOrder is the key order restored on mappings in results.
var NodeKeyOrder = []string{"kind", "id", "content", "start", "end", "children"}

// Evaluator compiles and evaluates CEL expressions.
type Evaluator struct {
	env *cel.Env
}

// NewEvaluator creates an evaluator with the string, encoder, list and math
// extensions.
func NewEvaluator() (*Evaluator, error) {
	env, err := newEnv()
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}
	return &Evaluator{env: env}, nil
}

func newEnv(opts ...cel.EnvOption) (*cel.Env, error) {
	all := make([]cel.EnvOption, 0, 5+len(opts))
	all = append(all,
		cel.Variable(Variable, cel.DynType),
		celext.Strings(),
		celext.Encoders(),
		celext.Lists(),
		celext.Math(),
	)
	all = append(all, opts...)
	return cel.NewEnv(all...)
}

// Evaluate runs expr with data bound to "_". Mappings in the result come
// back with node keys first, so positions stay usable for selection.
//
// Example: _.children.filter(n, n.kind == "heading")
func (e *Evaluator) Evaluate(expr string, data value.Value) (value.Value, error) {
	expr = strings.TrimSpace(expr)
	if expr == "" {
		return data, nil
	}
	ast, issues := e.env.Compile(expr)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("compilation error: %w", issues.Err())
	}
	prg, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("program error: %w", err)
	}
	out, _, err := prg.Eval(map[string]any{Variable: value.ToNative(data)})
	if err != nil {
		return nil, fmt.Errorf("eval error: %w", err)
	}
	result := value.Normalize(ToGo(out))
	restoreOrder(result)
	return result, nil
}

func restoreOrder(v value.Value) {
	switch t := v.(type) {
	case *value.Map:
		t.Reorder(NodeKeyOrder...)
		t.Each(func(_ string, child value.Value) { restoreOrder(child) })
	case []any:
		for _, child := range t {
			restoreOrder(child)
		}
	}
}

// ToGo converts CEL values to plain Go values recursively.
func ToGo(val ref.Val) any {
	if val == nil {
		return nil
	}
	switch v := val.(type) {
	case types.Null:
		return nil
	case types.Bool:
		return bool(v)
	case types.Int:
		return int64(v)
	case types.Uint:
		return uint64(v)
	case types.Double:
		return float64(v)
	case types.String:
		return string(v)
	case types.Bytes:
		return []byte(v)
	}

	valuer, ok := val.(interface{ Value() any })
	if !ok {
		return val
	}
	inner := valuer.Value()
	switch t := inner.(type) {
	case []ref.Val:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = ToGo(elem)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = convert(elem)
		}
		return out
	case map[string]any:
		return convertMap(t)
	case map[ref.Val]ref.Val:
		out := make(map[string]any, len(t))
		for k, v := range t {
			out[keyString(k)] = ToGo(v)
		}
		return out
	}
	return inner
}

func convert(v any) any {
	switch t := v.(type) {
	case ref.Val:
		return ToGo(t)
	case map[string]any:
		return convertMap(t)
	case []any:
		out := make([]any, len(t))
		for i, elem := range t {
			out[i] = convert(elem)
		}
		return out
	}
	return v
}

func convertMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = convert(v)
	}
	return out
}

func keyString(k ref.Val) string {
	if s, ok := k.(types.String); ok {
		return string(s)
	}
	if v, ok := k.(interface{ Value() any }); ok {
		return fmt.Sprintf("%v", v.Value())
	}
	return fmt.Sprintf("%v", k)
}

// Functions lists the callable functions and macros, skipping operators,
// sorted by name.
func (e *Evaluator) Functions() []string {
	seen := make(map[string]bool)
	for _, fn := range e.env.Functions() {
		if !isOperator(fn.Name()) {
			seen[fn.Name()] = true
		}
	}
	for _, m := range e.env.Macros() {
		if !isOperator(m.Function()) {
			seen[m.Function()] = true
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isOperator(name string) bool {
	if strings.HasPrefix(name, "@") {
		return true
	}
	if strings.HasPrefix(name, "_") && strings.HasSuffix(name, "_") {
		return true
	}
	switch name {
	case "!_", "-_", "_[_]", "_?_:_":
		return true
	}
	return false
}
