package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/goliatone/go-formcond/pkg/formschema"
	"github.com/goliatone/go-formcond/pkg/model"
	"github.com/goliatone/go-formcond/pkg/openapi"
	"github.com/goliatone/go-formcond/pkg/orchestrator"
)

func main() {
	schema := flag.String("schema", "", "form document path (JSON or YAML)")
	openapiDoc := flag.String("openapi", "", "OpenAPI document path, alternative to -schema")
	formID := flag.String("form", "", "form id to mount (operation id for OpenAPI sources)")
	valuesJSON := flag.String("values", "", "initial values as a JSON object")
	flag.Parse()

	form, err := resolveForm(*schema, *openapiDoc, *formID)
	if err != nil {
		log.Fatalf("Failed to resolve form: %v", err)
	}

	var options []orchestrator.Option
	if *valuesJSON != "" {
		values := map[string]any{}
		if err := json.Unmarshal([]byte(*valuesJSON), &values); err != nil {
			log.Fatalf("Failed to parse values: %v", err)
		}
		options = append(options, orchestrator.WithValues(values))
	}

	session, err := orchestrator.Open(&form, options...)
	if err != nil {
		log.Fatalf("Failed to open session: %v", err)
	}
	defer session.Close()

	for _, pair := range flag.Args() {
		path, value, err := parseAssignment(pair)
		if err != nil {
			log.Fatalf("Failed to apply change: %v", err)
		}
		session.Change(path, value)
	}

	fields, err := session.VisibleFields()
	if err != nil {
		log.Fatalf("Failed to compute visibility: %v", err)
	}

	report := struct {
		Form    string         `json:"form"`
		Visible []string       `json:"visible"`
		Values  map[string]any `json:"values"`
	}{
		Form:    form.ID,
		Visible: fieldPaths(fields, ""),
		Values:  session.Values(),
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(report); err != nil {
		log.Fatalf("Failed to write report: %v", err)
	}
}

func resolveForm(schemaPath, openapiPath, formID string) (model.FormModel, error) {
	switch {
	case schemaPath != "":
		raw, err := os.ReadFile(schemaPath)
		if err != nil {
			return model.FormModel{}, err
		}
		catalog, err := formschema.LoadBytes(raw, schemaPath)
		if err != nil {
			return model.FormModel{}, err
		}
		return pickForm(catalog.IDs(), formID, catalog.Form)
	case openapiPath != "":
		raw, err := os.ReadFile(openapiPath)
		if err != nil {
			return model.FormModel{}, err
		}
		forms, err := openapi.Forms(context.Background(), raw)
		if err != nil {
			return model.FormModel{}, err
		}
		ids := make([]string, 0, len(forms))
		for id := range forms {
			ids = append(ids, id)
		}
		return pickForm(ids, formID, func(id string) (model.FormModel, bool) {
			form, ok := forms[id]
			return form, ok
		})
	default:
		return model.FormModel{}, fmt.Errorf("either -schema or -openapi is required")
	}
}

func pickForm(ids []string, formID string, lookup func(string) (model.FormModel, bool)) (model.FormModel, error) {
	if formID == "" {
		if len(ids) != 1 {
			return model.FormModel{}, fmt.Errorf("-form is required, document defines %v", ids)
		}
		formID = ids[0]
	}
	form, ok := lookup(formID)
	if !ok {
		return model.FormModel{}, fmt.Errorf("form %q not found, document defines %v", formID, ids)
	}
	return form, nil
}

// parseAssignment turns a path=value argument into a store write. The value is
// decoded as JSON when it parses, otherwise kept as a plain string.
func parseAssignment(pair string) (string, any, error) {
	path, raw, ok := strings.Cut(pair, "=")
	if !ok || strings.TrimSpace(path) == "" {
		return "", nil, fmt.Errorf("expected path=value, got %q", pair)
	}
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		value = raw
	}
	return strings.TrimSpace(path), value, nil
}

func fieldPaths(fields []model.Field, prefix string) []string {
	var out []string
	for _, field := range fields {
		path := model.Path(prefix, field.Name)
		out = append(out, path)
		out = append(out, fieldPaths(field.Nested, path)...)
	}
	return out
}
