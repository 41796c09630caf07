package model

import (
	"fmt"
	"strings"

	"github.com/goliatone/go-formcond/pkg/condition"
)

// Validate checks a form model for the mistakes that would otherwise only show
// up as silently missing fields at mount time: empty or duplicate field names
// and malformed condition trees.
func Validate(form *FormModel) error {
	if form == nil {
		return fmt.Errorf("model: form is nil")
	}
	if strings.TrimSpace(form.ID) == "" {
		return fmt.Errorf("model: form id is empty")
	}
	seen := make(map[string]struct{})
	return validateFields(form.Fields, "", seen)
}

func validateFields(fields []Field, prefix string, seen map[string]struct{}) error {
	for _, field := range fields {
		if strings.TrimSpace(field.Name) == "" {
			return fmt.Errorf("model: field under %q has an empty name", prefix)
		}
		path := Path(prefix, field.Name)
		if _, dup := seen[path]; dup {
			return fmt.Errorf("model: duplicate field path %q", path)
		}
		seen[path] = struct{}{}

		if field.Condition != nil {
			if err := condition.Validate(field.Condition); err != nil {
				return fmt.Errorf("model: field %q: %w", path, err)
			}
		}
		if err := validateFields(field.Nested, path, seen); err != nil {
			return err
		}
	}
	return nil
}
