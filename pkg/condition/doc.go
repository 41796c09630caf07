// Package condition implements the conditional visibility and value-setting
// engine behind declarative forms. Schema authors describe conditions as a
// recursive expression tree (when/is leaves combined with and, or, not, and
// sequence nodes); Evaluate maps an expression plus the current form values to
// a visibility verdict and optional assignment maps, and Runtime keeps that
// verdict live against a mutable form-state store without redundant writes or
// unbounded update loops.
package condition
