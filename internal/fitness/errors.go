// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package fitness

import "errors"

// ErrNotFound is returned when a requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert violates a uniqueness constraint,
// such as a second coach record for a user or a reused workout name within
// a plan.
var ErrDuplicate = errors.New("duplicate")
