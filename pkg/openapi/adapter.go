package openapi

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-formcond/pkg/condition"
	"github.com/goliatone/go-formcond/pkg/model"
)

// Schema extensions recognized on request-body properties.
const (
	ExtensionCondition = "x-formcond-condition"
	ExtensionVisible   = "x-formcond-visible"
)

// Forms parses an OpenAPI document and derives one form model per operation
// that accepts a JSON object request body, keyed by operation id. Conditions
// declared via the x-formcond-condition extension are parsed and validated
// strictly, matching the formschema loader's behavior.
func Forms(ctx context.Context, raw []byte) (map[string]model.FormModel, error) {
	if len(raw) == 0 {
		return nil, errors.New("openapi: document payload is empty")
	}

	loader := &openapi3.Loader{Context: ctx}
	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi: load document: %w", err)
	}
	if spec.Paths == nil || spec.Paths.Len() == 0 {
		return nil, errors.New("openapi: document does not contain any paths")
	}

	forms := make(map[string]model.FormModel)
	for path, item := range spec.Paths.Map() {
		if item == nil {
			continue
		}
		for method, op := range item.Operations() {
			form, ok, err := formFromOperation(method, path, op)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
			if _, exists := forms[form.ID]; exists {
				return nil, fmt.Errorf("openapi: duplicate operation id %q", form.ID)
			}
			forms[form.ID] = form
		}
	}

	if len(forms) == 0 {
		return nil, errors.New("openapi: no operations with a JSON request body")
	}
	return forms, nil
}

func formFromOperation(method, path string, op *openapi3.Operation) (model.FormModel, bool, error) {
	if op == nil {
		return model.FormModel{}, false, nil
	}
	schema := requestSchema(op)
	if schema == nil || !schema.Type.Is(openapi3.TypeObject) {
		return model.FormModel{}, false, nil
	}

	id := op.OperationID
	if id == "" {
		id = strings.ToLower(method) + ":" + path
	}

	fields, err := fieldsFromSchema(schema, id)
	if err != nil {
		return model.FormModel{}, false, err
	}

	form := model.FormModel{
		ID:          id,
		Title:       op.Summary,
		Description: op.Description,
		Fields:      fields,
	}
	if err := model.Validate(&form); err != nil {
		return model.FormModel{}, false, fmt.Errorf("openapi: operation %q: %w", id, err)
	}
	return form, true, nil
}

func requestSchema(op *openapi3.Operation) *openapi3.Schema {
	if op.RequestBody == nil || op.RequestBody.Value == nil {
		return nil
	}
	content := op.RequestBody.Value.Content.Get("application/json")
	if content == nil || content.Schema == nil {
		return nil
	}
	return content.Schema.Value
}

func fieldsFromSchema(schema *openapi3.Schema, opID string) ([]model.Field, error) {
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]model.Field, 0, len(names))
	for _, name := range names {
		ref := schema.Properties[name]
		if ref == nil || ref.Value == nil {
			continue
		}
		field, err := fieldFromSchema(name, ref.Value, required[name], opID)
		if err != nil {
			return nil, err
		}
		fields = append(fields, field)
	}
	return fields, nil
}

func fieldFromSchema(name string, schema *openapi3.Schema, required bool, opID string) (model.Field, error) {
	field := model.Field{
		Name:        name,
		Type:        fieldType(schema),
		Required:    required,
		Label:       schema.Title,
		Description: schema.Description,
		Default:     schema.Default,
		Enum:        append([]any(nil), schema.Enum...),
	}

	if raw, ok := schema.Extensions[ExtensionCondition]; ok {
		expr, err := condition.Parse(raw)
		if err != nil {
			return model.Field{}, fmt.Errorf("openapi: operation %q field %q: %w", opID, name, err)
		}
		if err := condition.Validate(expr); err != nil {
			return model.Field{}, fmt.Errorf("openapi: operation %q field %q: %w", opID, name, err)
		}
		field.Condition = expr
	}
	if raw, ok := schema.Extensions[ExtensionVisible]; ok {
		rule, ok := raw.(string)
		if !ok {
			return model.Field{}, fmt.Errorf("openapi: operation %q field %q: %s expects a string", opID, name, ExtensionVisible)
		}
		field.VisibleWhen = rule
	}

	if field.Type == model.FieldTypeObject {
		nested, err := fieldsFromSchema(schema, opID)
		if err != nil {
			return model.Field{}, err
		}
		field.Nested = nested
	}
	return field, nil
}

func fieldType(schema *openapi3.Schema) model.FieldType {
	switch {
	case schema.Type.Is(openapi3.TypeInteger):
		return model.FieldTypeInteger
	case schema.Type.Is(openapi3.TypeNumber):
		return model.FieldTypeNumber
	case schema.Type.Is(openapi3.TypeBoolean):
		return model.FieldTypeBoolean
	case schema.Type.Is(openapi3.TypeArray):
		return model.FieldTypeArray
	case schema.Type.Is(openapi3.TypeObject):
		return model.FieldTypeObject
	default:
		return model.FieldTypeString
	}
}
