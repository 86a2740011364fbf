// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

// Package identity provides account primitives for FitForge.
//
// # Domain Types
//
// Domain types (User, Profile, Verification) should be created using their
// respective constructors:
//   - NewUser - creates a User with normalized email/name and a password hash
//   - NewProfile - creates a Profile linked to a validated user ID
//   - NewVerification - creates a Verification carrying a raw email token
//
// Direct struct initialization bypasses validation and may create invalid state.
// Repository implementations receive pre-validated types from these constructors.
//
// # Services
//
// Service types coordinate domain operations:
//   - Service - registration, profile creation, authentication
//   - VerificationService - verification token issuance and mail dispatch
//   - TokenIssuer - access and refresh token signing
//
// TokenIssuer deliberately has no verify/decode counterpart; token
// consumption is outside this layer.
package identity
