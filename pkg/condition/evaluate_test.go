package condition

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func leaf(when string, is any) *Expression {
	return &Expression{When: []string{when}, Is: is}
}

func TestEvaluateLeafEquality(t *testing.T) {
	t.Parallel()

	expr := leaf("country", "US")

	res := Evaluate(expr, map[string]any{"country": "US"})
	if !res.Visible || !res.Result {
		t.Fatalf("expected visible for matching value, got %+v", res)
	}

	res = Evaluate(expr, map[string]any{"country": "CA"})
	if res.Visible || res.Result {
		t.Fatalf("expected hidden for non-matching value, got %+v", res)
	}

	res = Evaluate(expr, map[string]any{})
	if res.Visible {
		t.Fatalf("expected hidden for missing value, got %+v", res)
	}
}

func TestEvaluateLeafMembership(t *testing.T) {
	t.Parallel()

	expr := leaf("country", []any{"US", "CA"})

	if !Evaluate(expr, map[string]any{"country": "CA"}).Visible {
		t.Fatalf("expected member value to match")
	}
	if Evaluate(expr, map[string]any{"country": "MX"}).Visible {
		t.Fatalf("expected non-member value to fail")
	}
}

func TestEvaluateLeafNotMatch(t *testing.T) {
	t.Parallel()

	expr := leaf("country", "US")
	expr.NotMatch = true

	if Evaluate(expr, map[string]any{"country": "US"}).Visible {
		t.Fatalf("notMatch should invert a match")
	}
	if !Evaluate(expr, map[string]any{"country": "CA"}).Visible {
		t.Fatalf("notMatch should invert a mismatch")
	}
}

func TestEvaluateLeafNumericCoercion(t *testing.T) {
	t.Parallel()

	expr := leaf("count", 3)

	if !Evaluate(expr, map[string]any{"count": float64(3)}).Visible {
		t.Fatalf("expected int literal to match JSON-decoded float")
	}
	if Evaluate(expr, map[string]any{"count": "3"}).Visible {
		t.Fatalf("string value must not numerically equal a number literal")
	}
}

func TestEvaluateEmptiness(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		value any
		empty bool
	}{
		{"nil", nil, true},
		{"empty string", "", true},
		{"blank-ish string", " ", false},
		{"string", "x", false},
		{"zero number", float64(0), false},
		{"number", 42, false},
		{"true", true, false},
		{"false", false, true},
		{"empty slice", []any{}, true},
		{"slice", []any{1}, false},
		{"empty map", map[string]any{}, true},
		{"map", map[string]any{"a": 1}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			notEmpty := &Expression{When: []string{"field"}, IsNotEmpty: true}
			isEmpty := &Expression{When: []string{"field"}, IsEmpty: true}
			values := map[string]any{"field": tt.value}

			gotEmpty := Evaluate(isEmpty, values).Visible
			gotNotEmpty := Evaluate(notEmpty, values).Visible
			if gotEmpty != tt.empty {
				t.Errorf("isEmpty = %v, want %v", gotEmpty, tt.empty)
			}
			if gotEmpty == gotNotEmpty {
				t.Errorf("isEmpty and isNotEmpty agreed (%v); they must be exclusive", gotEmpty)
			}
		})
	}
}

func TestEvaluatePattern(t *testing.T) {
	t.Parallel()

	expr := &Expression{When: []string{"email"}, Pattern: `@example\.com$`}
	if !Evaluate(expr, map[string]any{"email": "dev@example.com"}).Visible {
		t.Fatalf("expected pattern match")
	}
	if Evaluate(expr, map[string]any{"email": "dev@other.com"}).Visible {
		t.Fatalf("expected pattern mismatch")
	}

	flagged := &Expression{When: []string{"code"}, Pattern: `^us-`, Flags: "i"}
	if !Evaluate(flagged, map[string]any{"code": "US-east"}).Visible {
		t.Fatalf("expected case-insensitive match via flags")
	}

	negated := &Expression{When: []string{"email"}, Pattern: `@example\.com$`, NotMatch: true}
	if !Evaluate(negated, map[string]any{"email": "dev@other.com"}).Visible {
		t.Fatalf("expected notMatch to invert pattern")
	}
}

func TestEvaluatePrecedence(t *testing.T) {
	t.Parallel()

	// isNotEmpty wins over a contradictory is test.
	expr := &Expression{When: []string{"field"}, IsNotEmpty: true, Is: "never"}
	if !Evaluate(expr, map[string]any{"field": "anything"}).Visible {
		t.Fatalf("isNotEmpty should take precedence over is")
	}

	// pattern wins over is.
	expr = &Expression{When: []string{"field"}, Pattern: "^a", Is: "b"}
	if !Evaluate(expr, map[string]any{"field": "abc"}).Visible {
		t.Fatalf("pattern should take precedence over is")
	}
}

func TestEvaluateWhenList(t *testing.T) {
	t.Parallel()

	expr := &Expression{When: []string{"shipping", "billing"}, Is: "US"}

	if !Evaluate(expr, map[string]any{"billing": "US"}).Visible {
		t.Fatalf("any watched field matching should satisfy the leaf")
	}
	if Evaluate(expr, map[string]any{"shipping": "CA", "billing": "MX"}).Visible {
		t.Fatalf("no field matching should fail the leaf")
	}
}

func TestEvaluateNestedPath(t *testing.T) {
	t.Parallel()

	expr := leaf("address.country", "US")

	if !Evaluate(expr, map[string]any{"address": map[string]any{"country": "US"}}).Visible {
		t.Fatalf("expected nested map traversal")
	}
	if !Evaluate(expr, map[string]any{"address.country": "US"}).Visible {
		t.Fatalf("expected flattened dotted key to win")
	}
}

func TestEvaluateComposites(t *testing.T) {
	t.Parallel()

	a := leaf("a", 1)
	b := leaf("b", 2)
	values := map[string]any{"a": 1, "b": 0}

	tests := []struct {
		name string
		expr *Expression
		want bool
	}{
		{"and both", &Expression{And: []*Expression{a, leaf("a", 1)}}, true},
		{"and one fails", &Expression{And: []*Expression{a, b}}, false},
		{"or one passes", &Expression{Or: []*Expression{b, a}}, true},
		{"or none pass", &Expression{Or: []*Expression{b, leaf("a", 9)}}, false},
		{"not of false", &Expression{Not: b}, true},
		{"not of true", &Expression{Not: a}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Evaluate(tt.expr, values)
			if got.Visible != tt.want || got.Result != tt.want {
				t.Errorf("Evaluate() = %+v, want visible=%v", got, tt.want)
			}
		})
	}
}

func TestEvaluateThenElse(t *testing.T) {
	t.Parallel()

	expr := &Expression{
		When:    []string{"age"},
		IsEmpty: true,
		Then:    &Branch{Set: AssignmentMap{"category": "unknown"}},
		Else:    &Branch{Set: AssignmentMap{"category": "known"}},
	}

	res := Evaluate(expr, map[string]any{})
	if !res.Visible {
		t.Fatalf("expected visible for empty age")
	}
	if diff := cmp.Diff(AssignmentMap{"category": "unknown"}, res.Set); diff != "" {
		t.Fatalf("then set mismatch (-want +got):\n%s", diff)
	}

	res = Evaluate(expr, map[string]any{"age": 30})
	if res.Visible {
		t.Fatalf("expected hidden for present age")
	}
	if diff := cmp.Diff(AssignmentMap{"category": "known"}, res.Set); diff != "" {
		t.Fatalf("else set mismatch (-want +got):\n%s", diff)
	}
}

func TestEvaluateThenVisibleOverride(t *testing.T) {
	t.Parallel()

	hidden := false
	expr := &Expression{
		When: []string{"mode"},
		Is:   "silent",
		Then: &Branch{Visible: &hidden, Set: AssignmentMap{"muted": true}},
	}

	res := Evaluate(expr, map[string]any{"mode": "silent"})
	if res.Visible {
		t.Fatalf("then.visible should override the default")
	}
	if !res.Result {
		t.Fatalf("result must stay true even when visibility is overridden")
	}
	if len(res.Set) == 0 {
		t.Fatalf("set must still be injected")
	}
}

func TestEvaluateSequence(t *testing.T) {
	t.Parallel()

	expr := &Expression{Sequence: []*Expression{
		{When: []string{"a"}, Is: 1, Then: &Branch{Set: AssignmentMap{"x": 1}}},
		{When: []string{"b"}, Is: 2, Then: &Branch{Set: AssignmentMap{"y": 2}}},
	}}

	res := Evaluate(expr, map[string]any{"a": 1, "b": 2})
	if !res.Visible || !res.Result {
		t.Fatalf("expected visible when any child passes, got %+v", res)
	}
	want := []AssignmentMap{{"x": 1}, {"y": 2}}
	if diff := cmp.Diff(want, res.Sets); diff != "" {
		t.Fatalf("sets mismatch (-want +got):\n%s", diff)
	}

	res = Evaluate(expr, map[string]any{"a": 1, "b": 9})
	if !res.Visible {
		t.Fatalf("one passing child should keep the sequence visible")
	}
	if diff := cmp.Diff([]AssignmentMap{{"x": 1}}, res.Sets); diff != "" {
		t.Fatalf("sets mismatch (-want +got):\n%s", diff)
	}

	res = Evaluate(expr, map[string]any{"a": 0, "b": 0})
	if res.Visible || len(res.Sets) != 0 {
		t.Fatalf("expected negative empty result, got %+v", res)
	}
}

func TestEvaluateSequenceCollectsElseSets(t *testing.T) {
	t.Parallel()

	expr := &Expression{Sequence: []*Expression{
		{When: []string{"a"}, Is: 1, Else: &Branch{Set: AssignmentMap{"fallback": true}}},
	}}

	res := Evaluate(expr, map[string]any{"a": 0})
	if res.Visible {
		t.Fatalf("failed child must not make the sequence visible")
	}
	if diff := cmp.Diff([]AssignmentMap{{"fallback": true}}, res.Sets); diff != "" {
		t.Fatalf("else sets should still accumulate (-want +got):\n%s", diff)
	}
}

func TestEvaluateUnknownShape(t *testing.T) {
	t.Parallel()

	res := Evaluate(&Expression{}, map[string]any{"a": 1})
	if res.Visible || res.Result || res.Set != nil || res.Sets != nil {
		t.Fatalf("unknown node must evaluate to the default negative result, got %+v", res)
	}

	res = Evaluate(nil, map[string]any{})
	if res.Visible {
		t.Fatalf("nil expression must evaluate negatively")
	}
}

func TestExpressionFields(t *testing.T) {
	t.Parallel()

	expr := &Expression{And: []*Expression{
		leaf("a", 1),
		{Or: []*Expression{leaf("b", 2), leaf("a", 3)}},
		{Sequence: []*Expression{{When: []string{"c", "d"}, Is: 4}}},
	}}

	want := []string{"a", "b", "c", "d"}
	if diff := cmp.Diff(want, expr.Fields()); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}
