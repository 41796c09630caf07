package formschema

import "github.com/goliatone/go-formcond/pkg/model"

// Catalog holds the form definitions parsed from one or more schema files,
// keyed by form id.
type Catalog struct {
	forms map[string]model.FormModel
}

// Form returns the definition for the supplied form id.
func (c *Catalog) Form(id string) (model.FormModel, bool) {
	if c == nil {
		return model.FormModel{}, false
	}
	form, ok := c.forms[id]
	return form, ok
}

// IDs lists the known form ids; order is unspecified.
func (c *Catalog) IDs() []string {
	if c == nil {
		return nil
	}
	out := make([]string, 0, len(c.forms))
	for id := range c.forms {
		out = append(out, id)
	}
	return out
}

// Empty reports whether the catalog holds any forms.
func (c *Catalog) Empty() bool {
	return c == nil || len(c.forms) == 0
}
