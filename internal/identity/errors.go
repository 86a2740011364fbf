// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package identity

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint,
// such as an already-registered email or a second profile for a user.
var ErrDuplicate = errors.New("duplicate")
