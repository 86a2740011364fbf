// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package fitness

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Status constants for fitness metrics.
const (
	StatusSuccess   = "success"
	StatusError     = "error"
	StatusDuplicate = "duplicate"
	StatusFound     = "found"
	StatusNotFound  = "not_found"
)

// CoachEnrollments is the counter for coach enrollment attempts.
// Use RegisterMetrics to register this with a Prometheus registry.
var CoachEnrollments = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fitforge_coach_enrollments_total",
		Help: "Total number of coach enrollment attempts",
	},
	[]string{"status"},
)

// CoachLookups is the counter for coach detail lookups.
// Use RegisterMetrics to register this with a Prometheus registry.
var CoachLookups = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fitforge_coach_lookups_total",
		Help: "Total number of coach detail lookups",
	},
	[]string{"status"},
)

// WorkoutSaves is the counter for workout insert attempts.
// Use RegisterMetrics to register this with a Prometheus registry.
var WorkoutSaves = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fitforge_workout_saves_total",
		Help: "Total number of workout save attempts",
	},
	[]string{"status"},
)

// WorkoutLookups is the counter for workout lookups.
// Use RegisterMetrics to register this with a Prometheus registry.
var WorkoutLookups = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fitforge_workout_lookups_total",
		Help: "Total number of workout lookups",
	},
	[]string{"status"},
)

// RegisterMetrics registers fitness package metrics with the given Prometheus registry.
// This must be called at startup to make metrics available on /metrics.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(CoachEnrollments)
	reg.MustRegister(CoachLookups)
	reg.MustRegister(WorkoutSaves)
	reg.MustRegister(WorkoutLookups)
}

// RecordCoachEnrollment increments the coach enrollment counter.
// Parameters:
//   - status: enrollment result (use Status* constants)
func RecordCoachEnrollment(status string) {
	CoachEnrollments.WithLabelValues(status).Inc()
}

// RecordCoachLookup increments the coach lookup counter.
// Parameters:
//   - status: lookup result (use Status* constants)
func RecordCoachLookup(status string) {
	CoachLookups.WithLabelValues(status).Inc()
}

// RecordWorkoutSave increments the workout save counter.
// Parameters:
//   - status: save result (use Status* constants)
func RecordWorkoutSave(status string) {
	WorkoutSaves.WithLabelValues(status).Inc()
}

// RecordWorkoutLookup increments the workout lookup counter.
// Parameters:
//   - status: lookup result (use Status* constants)
func RecordWorkoutLookup(status string) {
	WorkoutLookups.WithLabelValues(status).Inc()
}
