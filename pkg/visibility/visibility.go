// Package visibility defines the contract for evaluating VisibleWhen rule
// strings. Rules are the lightweight counterpart to structured conditions:
// a boolean expression over form values with no value-setting or sequencing,
// checked during the session's visible-field walk.
package visibility

// Evaluator decides whether the field at fieldPath stays in the visible set.
// A field whose rule evaluates false is dropped entirely, nested fields
// included, matching how condition runtimes treat a false visibility result.
type Evaluator interface {
	Eval(fieldPath, rule string, ctx Context) (bool, error)
}

// Context carries the inputs a rule may reference. Values is the mounted
// store's value map at walk time; Extras holds host-supplied context that
// lives outside the form, such as user roles or feature flags.
type Context struct {
	Values map[string]any
	Extras map[string]any
}

// EvaluatorFunc adapts a function into an Evaluator.
type EvaluatorFunc func(fieldPath, rule string, ctx Context) (bool, error)

// Eval delegates to the underlying function.
func (fn EvaluatorFunc) Eval(fieldPath, rule string, ctx Context) (bool, error) {
	return fn(fieldPath, rule, ctx)
}
