package model

import internalmodel "github.com/goliatone/go-formcond/internal/model"

// FieldType re-exports the internal FieldType enumeration.
type FieldType = internalmodel.FieldType

const (
	FieldTypeString  = internalmodel.FieldTypeString
	FieldTypeInteger = internalmodel.FieldTypeInteger
	FieldTypeNumber  = internalmodel.FieldTypeNumber
	FieldTypeBoolean = internalmodel.FieldTypeBoolean
	FieldTypeArray   = internalmodel.FieldTypeArray
	FieldTypeObject  = internalmodel.FieldTypeObject
)

type Field = internalmodel.Field
type FormModel = internalmodel.FormModel

// Prefill merges field defaults with host-provided values into the map a
// store is seeded with.
func Prefill(form *FormModel, overrides map[string]any) map[string]any {
	return internalmodel.Prefill(form, overrides)
}

// Validate rejects empty or duplicate field names and malformed conditions.
func Validate(form *FormModel) error {
	return internalmodel.Validate(form)
}

// Path joins a parent prefix and a field name into a dotted path.
func Path(prefix, name string) string {
	return internalmodel.Path(prefix, name)
}
