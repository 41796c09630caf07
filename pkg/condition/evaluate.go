package condition

import (
	"fmt"
	"reflect"
	"strings"
)

// Evaluate runs the expression against the supplied value map. It is pure and
// deterministic: the same expression and values always produce the same
// result, and nothing is written anywhere. Missing fields resolve to nil and
// take part in emptiness and equality tests like any other value.
func Evaluate(e *Expression, values map[string]any) Result {
	switch e.Kind() {
	case KindAnd:
		for _, child := range e.And {
			if !Evaluate(child, values).Result {
				return e.fail()
			}
		}
		return e.succeed()
	case KindOr:
		for _, child := range e.Or {
			if Evaluate(child, values).Result {
				return e.succeed()
			}
		}
		return e.fail()
	case KindNot:
		if Evaluate(e.Not, values).Result {
			return e.fail()
		}
		return e.succeed()
	case KindSequence:
		return e.evaluateSequence(values)
	case KindLeaf:
		for _, name := range e.When {
			if e.matches(lookupValue(values, name)) {
				return e.succeed()
			}
		}
		return e.fail()
	default:
		return Result{}
	}
}

// evaluateSequence is an accumulator, not a gate: every child contributes its
// assignment maps in declaration order while visibility is the OR over
// children.
func (e *Expression) evaluateSequence(values map[string]any) Result {
	var out Result
	for _, child := range e.Sequence {
		res := Evaluate(child, values)
		out.Visible = out.Visible || res.Visible
		out.Result = out.Result || res.Result
		if len(res.Set) > 0 {
			out.Sets = append(out.Sets, res.Set)
		}
		out.Sets = append(out.Sets, res.Sets...)
	}
	return out
}

// matches applies the leaf predicate to a single value. First test wins:
// isNotEmpty, isEmpty, pattern, then the is membership/equality check.
func (e *Expression) matches(value any) bool {
	switch {
	case e.IsNotEmpty:
		return !isEmptyValue(value)
	case e.IsEmpty:
		return isEmptyValue(value)
	case e.Pattern != "":
		matched := e.regexp().MatchString(stringValue(value))
		return matched != e.NotMatch
	default:
		matched := false
		if list, ok := e.Is.([]any); ok {
			for _, candidate := range list {
				if valueEqual(value, candidate) {
					matched = true
					break
				}
			}
		} else {
			matched = valueEqual(value, e.Is)
		}
		return matched != e.NotMatch
	}
}

func (e *Expression) succeed() Result {
	out := Result{Visible: true, Result: true}
	e.Then.apply(&out)
	return out
}

func (e *Expression) fail() Result {
	out := Result{}
	e.Else.apply(&out)
	return out
}

func (b *Branch) apply(out *Result) {
	if b == nil {
		return
	}
	if b.Visible != nil {
		out.Visible = *b.Visible
	}
	if len(b.Set) > 0 {
		out.Set = b.Set
	}
}

// lookupValue resolves a field name against the value map, preferring an exact
// flattened key before walking dotted segments into nested maps.
func lookupValue(values map[string]any, name string) any {
	if len(values) == 0 || name == "" {
		return nil
	}
	if v, ok := values[name]; ok {
		return v
	}

	var current any = values
	for _, part := range strings.Split(name, ".") {
		typed, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		next, ok := typed[part]
		if !ok {
			return nil
		}
		current = next
	}
	return current
}

// isEmptyValue implements the schema's emptiness contract: numbers and a true
// boolean are never empty, everything else follows structural emptiness.
func isEmptyValue(value any) bool {
	if value == nil {
		return true
	}
	switch v := value.(type) {
	case bool:
		return !v
	case string:
		return v == ""
	case []any:
		return len(v) == 0
	case map[string]any:
		return len(v) == 0
	}
	if _, ok := numberValue(value); ok {
		return false
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return rv.Len() == 0
	default:
		return false
	}
}

// valueEqual compares a form value with a schema literal. Numbers compare
// numerically regardless of decoded width (YAML ints vs JSON floats); every
// other pairing requires deep equality.
func valueEqual(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if af, ok := numberValue(a); ok {
		bf, ok := numberValue(b)
		return ok && af == bf
	}
	if _, ok := numberValue(b); ok {
		return false
	}
	return reflect.DeepEqual(a, b)
}

func numberValue(value any) (float64, bool) {
	switch v := value.(type) {
	case int:
		return float64(v), true
	case int8:
		return float64(v), true
	case int16:
		return float64(v), true
	case int32:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint8:
		return float64(v), true
	case uint16:
		return float64(v), true
	case uint32:
		return float64(v), true
	case uint64:
		return float64(v), true
	case float32:
		return float64(v), true
	case float64:
		return v, true
	default:
		return 0, false
	}
}

func stringValue(value any) string {
	if value == nil {
		return ""
	}
	switch v := value.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprint(value)
	}
}
