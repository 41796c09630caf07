package model

import "github.com/goliatone/go-formcond/pkg/condition"

// FieldType is the simplified enum for form-friendly field kinds.
type FieldType string

const (
	FieldTypeString  FieldType = "string"
	FieldTypeInteger FieldType = "integer"
	FieldTypeNumber  FieldType = "number"
	FieldTypeBoolean FieldType = "boolean"
	FieldTypeArray   FieldType = "array"
	FieldTypeObject  FieldType = "object"
)

// Field models an individual input inside a form definition. The rendering
// surface lives elsewhere; what matters here is the conditional wiring: an
// optional structured Condition controlling visibility and value-setting, and
// an optional VisibleWhen rule string for the simple cases.
type Field struct {
	Name        string                `json:"name" yaml:"name"`
	Type        FieldType             `json:"type" yaml:"type"`
	Required    bool                  `json:"required,omitempty" yaml:"required,omitempty"`
	Label       string                `json:"label,omitempty" yaml:"label,omitempty"`
	Description string                `json:"description,omitempty" yaml:"description,omitempty"`
	Default     any                   `json:"default,omitempty" yaml:"default,omitempty"`
	Enum        []any                 `json:"enum,omitempty" yaml:"enum,omitempty"`
	Nested      []Field               `json:"nested,omitempty" yaml:"nested,omitempty"`
	Condition   *condition.Expression `json:"condition,omitempty" yaml:"condition,omitempty"`
	VisibleWhen string                `json:"visibleWhen,omitempty" yaml:"visibleWhen,omitempty"`
	Metadata    map[string]string     `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// FormModel is the top-level representation the orchestrator mounts against a
// store.
type FormModel struct {
	ID          string            `json:"id" yaml:"id"`
	Title       string            `json:"title,omitempty" yaml:"title,omitempty"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Fields      []Field           `json:"fields" yaml:"fields"`
	Metadata    map[string]string `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

// Path returns the dotted path of a field below an optional parent prefix.
func Path(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
