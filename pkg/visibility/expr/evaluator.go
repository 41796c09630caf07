// Package expr evaluates string visibility rules with the expr-lang engine.
//
// Rules are ordinary expr expressions over the form values, with dotted value
// keys expanded into nested maps so `address.country == "US"` works whether
// the store holds a flattened key or a nested one. Extras are exposed under
// the `extras` identifier. Undefined identifiers resolve to nil rather than
// erroring, keeping rules forgiving about fields that do not exist yet.
package expr

import (
	"fmt"
	"strings"

	exprlang "github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/goliatone/go-formcond/pkg/visibility"
)

// Evaluator compiles rules once and caches the programs; evaluation happens on
// every store update, so recompiling per pass would dominate the cost.
type Evaluator struct {
	programs map[string]*vm.Program
}

func New() *Evaluator {
	return &Evaluator{programs: make(map[string]*vm.Program)}
}

func (e *Evaluator) Eval(fieldPath, rule string, ctx visibility.Context) (bool, error) {
	_ = fieldPath
	trimmed := strings.TrimSpace(rule)
	if trimmed == "" {
		return true, nil
	}

	program, err := e.compile(trimmed)
	if err != nil {
		return false, err
	}

	out, err := exprlang.Run(program, buildEnv(ctx))
	if err != nil {
		return false, fmt.Errorf("visibility/expr: evaluate %q: %w", trimmed, err)
	}
	return truthy(out), nil
}

func (e *Evaluator) compile(rule string) (*vm.Program, error) {
	if program, ok := e.programs[rule]; ok {
		return program, nil
	}
	program, err := exprlang.Compile(rule, exprlang.AllowUndefinedVariables())
	if err != nil {
		return nil, fmt.Errorf("visibility/expr: compile %q: %w", rule, err)
	}
	e.programs[rule] = program
	return program, nil
}

// buildEnv expands flattened dotted keys into nested maps and mounts extras
// under their own identifier.
func buildEnv(ctx visibility.Context) map[string]any {
	env := make(map[string]any, len(ctx.Values)+1)
	for key, value := range ctx.Values {
		if !strings.Contains(key, ".") {
			env[key] = value
			continue
		}
		expandKey(env, key, value)
	}
	if ctx.Extras != nil {
		env["extras"] = ctx.Extras
	}
	return env
}

func expandKey(env map[string]any, key string, value any) {
	parts := strings.Split(key, ".")
	current := env
	for _, part := range parts[:len(parts)-1] {
		next, ok := current[part].(map[string]any)
		if !ok {
			next = make(map[string]any)
			current[part] = next
		}
		current = next
	}
	leaf := parts[len(parts)-1]
	if _, exists := current[leaf]; !exists {
		current[leaf] = value
	}
}

// truthy mirrors the condition engine's leniency: rules may return the value
// itself rather than an explicit comparison.
func truthy(value any) bool {
	switch v := value.(type) {
	case nil:
		return false
	case bool:
		return v
	case string:
		return strings.TrimSpace(v) != ""
	case int:
		return v != 0
	case int64:
		return v != 0
	case float64:
		return v != 0
	case float32:
		return v != 0
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	default:
		return true
	}
}
