// Package formcond drives conditional visibility and value-setting for
// declarative forms. Conditions are recursive expressions over form values;
// mounting them against a store makes visibility and field assignments react
// to every change until the state settles.
package formcond

import (
	"github.com/goliatone/go-formcond/pkg/condition"
	"github.com/goliatone/go-formcond/pkg/formstate"
	"github.com/goliatone/go-formcond/pkg/model"
	"github.com/goliatone/go-formcond/pkg/orchestrator"
)

// Expression is a node in the recursive condition tree.
type Expression = condition.Expression

// Branch carries the set and visibility overrides of a then/else clause.
type Branch = condition.Branch

// AssignmentMap holds field-path → value pairs a condition wants written.
type AssignmentMap = condition.AssignmentMap

// Result is the outcome of evaluating an expression against form values.
type Result = condition.Result

// Field and FormModel re-export the form definition types.
type Field = model.Field
type FormModel = model.FormModel

// Store is the batched form-state container runtimes mount against.
type Store = formstate.Store

// Session wires a form model to a live store with runtimes mounted.
type Session = orchestrator.Session

// ParseCondition builds an expression from a decoded JSON or YAML value.
func ParseCondition(raw any) (*Expression, error) {
	return condition.Parse(raw)
}

// Evaluate runs an expression against a snapshot of form values.
func Evaluate(expr *Expression, values map[string]any) Result {
	return condition.Evaluate(expr, values)
}

// NewStore builds a store seeded with the given values.
func NewStore(prefill map[string]any) *Store {
	return formstate.New(prefill)
}

// NewRuntime binds an expression to a store without mounting it.
func NewRuntime(expr *Expression, store condition.Store) (*condition.Runtime, error) {
	return condition.NewRuntime(expr, store)
}

// Open validates a form model and mounts a session against a fresh store. It
// is the simplest entry point for hosts that just want reactive visibility.
func Open(form *FormModel, options ...orchestrator.Option) (*Session, error) {
	return orchestrator.Open(form, options...)
}
