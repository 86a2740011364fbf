// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

// Package api provides the HTTP API adapter.
//
// Handlers bind and validate transport input, delegate to the identity and
// fitness services, and translate coded errors into HTTP responses. Each
// handler declares the narrow service interface it consumes; wiring happens
// in cmd/fitforge.
package api
