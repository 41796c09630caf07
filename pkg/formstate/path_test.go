package formstate

import "testing"

func TestSetPathCreatesIntermediateMaps(t *testing.T) {
	t.Parallel()

	root := map[string]any{}
	setPath(root, "address.country", "US")

	got, ok := getPath(root, "address.country")
	if !ok || got != "US" {
		t.Fatalf("address.country = %v (ok=%v), want US", got, ok)
	}
	if _, ok := root["address"].(map[string]any); !ok {
		t.Fatalf("intermediate map not created: %#v", root)
	}
}

func TestSetPathOverwritesScalar(t *testing.T) {
	t.Parallel()

	root := map[string]any{"address": "nope"}
	setPath(root, "address.country", "US")

	if got, _ := getPath(root, "address.country"); got != "US" {
		t.Fatalf("scalar should give way to a nested map, got %v", got)
	}
}

func TestGetPath(t *testing.T) {
	t.Parallel()

	root := map[string]any{
		"items": []any{
			map[string]any{"price": 10},
			map[string]any{"price": 20},
		},
		"plain": "value",
	}

	tests := []struct {
		name  string
		path  string
		want  any
		found bool
	}{
		{"top level", "plain", "value", true},
		{"slice index", "items.1.price", 20, true},
		{"missing key", "missing", nil, false},
		{"index out of range", "items.5.price", nil, false},
		{"non-numeric index", "items.first", nil, false},
		{"descend into scalar", "plain.nested", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := getPath(root, tt.path)
			if ok != tt.found {
				t.Fatalf("found = %v, want %v", ok, tt.found)
			}
			if tt.found && got != tt.want {
				t.Fatalf("value = %v, want %v", got, tt.want)
			}
		})
	}
}
