package model

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formcond/pkg/condition"
)

func TestPrefillCollectsNestedDefaults(t *testing.T) {
	t.Parallel()

	form := &FormModel{
		ID: "profile",
		Fields: []Field{
			{Name: "country", Type: FieldTypeString, Default: "US"},
			{Name: "address", Type: FieldTypeObject, Nested: []Field{
				{Name: "city", Type: FieldTypeString, Default: "NYC"},
				{Name: "zip", Type: FieldTypeString},
			}},
		},
	}

	got := Prefill(form, map[string]any{"country": "DE"})
	want := map[string]any{
		"country":      "DE",
		"address.city": "NYC",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("Prefill() mismatch (-want +got):\n%s", diff)
	}
}

func TestPrefillNilForm(t *testing.T) {
	t.Parallel()

	got := Prefill(nil, map[string]any{"a": 1})
	if diff := cmp.Diff(map[string]any{"a": 1}, got); diff != "" {
		t.Fatalf("Prefill() mismatch (-want +got):\n%s", diff)
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name    string
		form    *FormModel
		wantErr bool
	}{
		{
			name:    "nil form",
			form:    nil,
			wantErr: true,
		},
		{
			name:    "empty id",
			form:    &FormModel{Fields: []Field{{Name: "a"}}},
			wantErr: true,
		},
		{
			name: "duplicate nested path",
			form: &FormModel{ID: "f", Fields: []Field{
				{Name: "a", Nested: []Field{{Name: "b"}, {Name: "b"}}},
			}},
			wantErr: true,
		},
		{
			name: "empty field name",
			form: &FormModel{ID: "f", Fields: []Field{{Name: "  "}}},
			wantErr: true,
		},
		{
			name: "unknown condition shape",
			form: &FormModel{ID: "f", Fields: []Field{
				{Name: "a", Condition: &condition.Expression{}},
			}},
			wantErr: true,
		},
		{
			name: "valid form",
			form: &FormModel{ID: "f", Fields: []Field{
				{Name: "a"},
				{Name: "b", Condition: &condition.Expression{When: []string{"a"}, Is: 1}},
			}},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := Validate(tc.form)
			if (err != nil) != tc.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestPath(t *testing.T) {
	t.Parallel()

	if got := Path("", "a"); got != "a" {
		t.Errorf("Path(\"\", a) = %q", got)
	}
	if got := Path("a.b", "c"); got != "a.b.c" {
		t.Errorf("Path(a.b, c) = %q", got)
	}
}
