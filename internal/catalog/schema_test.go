// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package catalog_test

import (
	"strings"
	"testing"

	"github.com/fitforge/fitforge/internal/catalog"
)

const schemaValidYAML = `
version: 1.0.0
plans:
  - name: Test Plan
    workouts:
      - name: Test Workout
        target_muscle: chest
        duration_minutes: 10
        calories: 50
`

func TestGenerateSchema(t *testing.T) {
	data, err := catalog.GenerateSchema()
	if err != nil {
		t.Fatalf("GenerateSchema() error = %v", err)
	}

	schema := string(data)
	for _, want := range []string{
		`"$id"`,
		catalog.GetSchemaID(),
		"FitForge Workout Catalog",
		`"version"`,
		`"plans"`,
		`"target_muscle"`,
		`"duration_minutes"`,
		`"calories"`,
	} {
		if !strings.Contains(schema, want) {
			t.Errorf("schema missing %s", want)
		}
	}
}

func TestValidateSchema(t *testing.T) {
	if err := catalog.ValidateSchema([]byte(schemaValidYAML)); err != nil {
		t.Errorf("ValidateSchema() error = %v, want nil", err)
	}
}

func TestValidateSchema_DefaultCatalog(t *testing.T) {
	if err := catalog.ValidateSchema(catalog.DefaultYAML()); err != nil {
		t.Errorf("embedded catalog fails its own schema: %v", err)
	}
}

func TestValidateSchema_MissingRequired(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "missing version",
			yaml: `
plans:
  - name: Test Plan
    workouts:
      - name: Test Workout
        target_muscle: chest
        duration_minutes: 10
        calories: 50
`,
		},
		{
			name: "missing plans",
			yaml: `version: 1.0.0`,
		},
		{
			name: "workout missing target_muscle",
			yaml: `
version: 1.0.0
plans:
  - name: Test Plan
    workouts:
      - name: Test Workout
        duration_minutes: 10
        calories: 50
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := catalog.ValidateSchema([]byte(tt.yaml)); err == nil {
				t.Error("ValidateSchema() = nil, want error")
			}
		})
	}
}

func TestValidateSchema_MinimumViolated(t *testing.T) {
	yaml := `
version: 1.0.0
plans:
  - name: Test Plan
    workouts:
      - name: Test Workout
        target_muscle: chest
        duration_minutes: 0
        calories: 50
`
	if err := catalog.ValidateSchema([]byte(yaml)); err == nil {
		t.Error("ValidateSchema() accepted duration_minutes 0, want error")
	}
}

func TestValidateSchema_WrongType(t *testing.T) {
	yaml := `
version: 1.0.0
plans:
  - name: Test Plan
    workouts:
      - name: Test Workout
        target_muscle: chest
        duration_minutes: twenty
        calories: 50
`
	if err := catalog.ValidateSchema([]byte(yaml)); err == nil {
		t.Error("ValidateSchema() accepted string duration, want error")
	}
}

func TestValidateSchema_UnknownField(t *testing.T) {
	yaml := `
version: 1.0.0
plans:
  - name: Test Plan
    workouts:
      - name: Test Workout
        target_muscle: chest
        duration_minutes: 10
        calories: 50
        reps: 12
`
	if err := catalog.ValidateSchema([]byte(yaml)); err == nil {
		t.Error("ValidateSchema() accepted unknown field, want error")
	}
}

func TestValidateSchema_Empty(t *testing.T) {
	if err := catalog.ValidateSchema(nil); err == nil {
		t.Error("ValidateSchema() = nil for empty data, want error")
	}
}

func TestValidateSchema_InvalidYAML(t *testing.T) {
	if err := catalog.ValidateSchema([]byte("plans: [broken")); err == nil {
		t.Error("ValidateSchema() = nil for invalid YAML, want error")
	}
}

func TestResetSchemaCache(t *testing.T) {
	if err := catalog.ValidateSchema([]byte(schemaValidYAML)); err != nil {
		t.Fatalf("ValidateSchema() before reset error = %v", err)
	}

	catalog.ResetSchemaCache()

	if err := catalog.ValidateSchema([]byte(schemaValidYAML)); err != nil {
		t.Errorf("ValidateSchema() after reset error = %v", err)
	}
}

func TestFormatSchemaError(t *testing.T) {
	if got := catalog.FormatSchemaError(nil); got != "" {
		t.Errorf("FormatSchemaError(nil) = %q, want empty", got)
	}

	err := catalog.ValidateSchema([]byte(`version: 1.0.0`))
	if err == nil {
		t.Fatal("ValidateSchema() = nil, want error")
	}
	got := catalog.FormatSchemaError(err)
	if got == "" {
		t.Error("FormatSchemaError() = empty, want message")
	}
	if strings.Contains(got, "schema validation failed:") {
		t.Errorf("FormatSchemaError() did not trim prefix: %q", got)
	}
}
