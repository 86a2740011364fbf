// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

// Package catalog loads and validates workout catalog files, the seed
// input for workout plans and their workouts.
package catalog

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"gopkg.in/yaml.v3"
)

// SupportedMajor is the catalog format major version this build understands.
const SupportedMajor = 1

// Catalog is the root of a catalog.yaml file.
type Catalog struct {
	Version string      `yaml:"version" json:"version" jsonschema:"minLength=1"`
	Plans   []PlanEntry `yaml:"plans" json:"plans"`
}

// PlanEntry describes one workout plan and the workouts it contains.
type PlanEntry struct {
	Name        string         `yaml:"name" json:"name" jsonschema:"minLength=1"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Workouts    []WorkoutEntry `yaml:"workouts" json:"workouts"`
}

// WorkoutEntry describes one workout inside a plan.
type WorkoutEntry struct {
	Name            string `yaml:"name" json:"name" jsonschema:"minLength=1"`
	TargetMuscle    string `yaml:"target_muscle" json:"target_muscle" jsonschema:"minLength=1"`
	DurationMinutes int    `yaml:"duration_minutes" json:"duration_minutes" jsonschema:"minimum=1"`
	Description     string `yaml:"description,omitempty" json:"description,omitempty"`
	Calories        int    `yaml:"calories" json:"calories" jsonschema:"minimum=0"`
}

// ParseCatalog parses and validates a catalog file.
func ParseCatalog(data []byte) (*Catalog, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("catalog data is empty")
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("invalid YAML: %w", err)
	}

	if err := c.Validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

// Validate checks catalog constraints.
func (c *Catalog) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("version is required")
	}
	v, err := semver.StrictNewVersion(c.Version)
	if err != nil {
		return fmt.Errorf("version %q is not valid semver: %w", c.Version, err)
	}
	if v.Major() != SupportedMajor {
		return fmt.Errorf("catalog version %s is not supported, want major version %d", c.Version, SupportedMajor)
	}

	if len(c.Plans) == 0 {
		return fmt.Errorf("catalog has no plans")
	}

	planNames := make(map[string]struct{}, len(c.Plans))
	for i, plan := range c.Plans {
		if plan.Name == "" {
			return fmt.Errorf("plans[%d]: name is required", i)
		}
		if _, ok := planNames[plan.Name]; ok {
			return fmt.Errorf("duplicate plan name %q", plan.Name)
		}
		planNames[plan.Name] = struct{}{}

		if len(plan.Workouts) == 0 {
			return fmt.Errorf("plan %q has no workouts", plan.Name)
		}
		workoutNames := make(map[string]struct{}, len(plan.Workouts))
		for j, workout := range plan.Workouts {
			if workout.Name == "" {
				return fmt.Errorf("plan %q workouts[%d]: name is required", plan.Name, j)
			}
			if _, ok := workoutNames[workout.Name]; ok {
				return fmt.Errorf("plan %q has duplicate workout %q", plan.Name, workout.Name)
			}
			workoutNames[workout.Name] = struct{}{}

			if workout.TargetMuscle == "" {
				return fmt.Errorf("workout %q: target_muscle is required", workout.Name)
			}
			if workout.DurationMinutes <= 0 {
				return fmt.Errorf("workout %q: duration_minutes must be positive, got %d", workout.Name, workout.DurationMinutes)
			}
			if workout.Calories < 0 {
				return fmt.Errorf("workout %q: calories cannot be negative, got %d", workout.Name, workout.Calories)
			}
		}
	}

	return nil
}
