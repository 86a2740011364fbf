// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

// Package fitness provides coach enrollment and workout records.
//
// # Domain Types
//
// Domain types (Coach, WorkoutPlan, Workout) should be created using their
// respective constructors:
//   - NewCoach - creates a Coach enrollment for a validated user ID
//   - NewWorkoutPlan - creates a WorkoutPlan with a unique name
//   - NewWorkout - creates a Workout linked to a validated plan ID
//
// Direct struct initialization bypasses validation and may create invalid state.
// Repository implementations receive pre-validated types from these constructors.
//
// # Read Models
//
// CoachDetail bundles a coach with its user and profile, loaded in a single
// query. It is a read-only view; the identity package owns the user and
// profile records themselves.
package fitness
