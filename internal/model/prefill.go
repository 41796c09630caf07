package model

// Prefill collects field defaults into the value map a formstate store is
// seeded with. Nested fields contribute dotted paths; explicit values passed
// by the host win over defaults.
func Prefill(form *FormModel, overrides map[string]any) map[string]any {
	out := make(map[string]any)
	if form != nil {
		collectDefaults(form.Fields, "", out)
	}
	for key, value := range overrides {
		out[key] = value
	}
	return out
}

func collectDefaults(fields []Field, prefix string, out map[string]any) {
	for _, field := range fields {
		path := Path(prefix, field.Name)
		if field.Default != nil {
			out[path] = field.Default
		}
		collectDefaults(field.Nested, path, out)
	}
}
