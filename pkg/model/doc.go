// Package model defines the typed form model the condition engine mounts
// against a store. Fields carry at most two conditional hooks: a structured
// condition expression (visibility plus value-setting, see pkg/condition) and
// a visibleWhen rule string for plain boolean checks (see pkg/visibility).
// Builders live in internal/model but return the types defined here.
package model
