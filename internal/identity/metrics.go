// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package identity

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Status constants for identity metrics.
const (
	StatusSuccess     = "success"
	StatusError       = "error"
	StatusDuplicate   = "duplicate"
	StatusUnknownUser = "unknown_user"
	StatusMismatch    = "password_mismatch"
	StatusSkipped     = "skipped"
)

// Registrations is the counter for user registrations.
// Use RegisterMetrics to register this with a Prometheus registry.
var Registrations = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fitforge_registrations_total",
		Help: "Total number of registration attempts",
	},
	[]string{"status"},
)

// Authentications is the counter for authentication attempts.
// Use RegisterMetrics to register this with a Prometheus registry.
var Authentications = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fitforge_authentications_total",
		Help: "Total number of authentication attempts",
	},
	[]string{"status"},
)

// TokensIssued is the counter for issued JWTs.
// Use RegisterMetrics to register this with a Prometheus registry.
var TokensIssued = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fitforge_tokens_issued_total",
		Help: "Total number of issued tokens",
	},
	[]string{"type"},
)

// VerificationEmails is the counter for verification email dispatches.
// Use RegisterMetrics to register this with a Prometheus registry.
var VerificationEmails = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fitforge_verification_emails_total",
		Help: "Total number of verification email dispatches",
	},
	[]string{"status"},
)

// RegisterMetrics registers identity package metrics with the given Prometheus registry.
// This must be called at startup to make metrics available on /metrics.
// Panics if registration fails (following prometheus convention).
func RegisterMetrics(reg prometheus.Registerer) {
	reg.MustRegister(Registrations)
	reg.MustRegister(Authentications)
	reg.MustRegister(TokensIssued)
	reg.MustRegister(VerificationEmails)
}

// RecordRegistration increments the registration counter.
// Parameters:
//   - status: registration result (use Status* constants)
func RecordRegistration(status string) {
	Registrations.WithLabelValues(status).Inc()
}

// RecordAuthentication increments the authentication counter.
// Parameters:
//   - status: authentication result (use Status* constants)
func RecordAuthentication(status string) {
	Authentications.WithLabelValues(status).Inc()
}

// RecordTokenIssued increments the issued-token counter.
// Parameters:
//   - tokenType: "access" or "refresh"
func RecordTokenIssued(tokenType string) {
	TokensIssued.WithLabelValues(tokenType).Inc()
}

// RecordVerificationEmail increments the verification email counter.
// Parameters:
//   - status: dispatch result (use Status* constants)
func RecordVerificationEmail(status string) {
	VerificationEmails.WithLabelValues(status).Inc()
}
