// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

// Package ids generates and parses the ULID identifiers used by every
// persisted record.
package ids

import (
	"crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	entropy     = ulid.Monotonic(rand.Reader, 0)
	entropyLock sync.Mutex
)

// New generates a new ULID. Safe for concurrent use; IDs generated within
// the same millisecond remain monotonically increasing.
func New() ulid.ULID {
	entropyLock.Lock()
	defer entropyLock.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy)
}

// Parse parses a ULID string.
func Parse(s string) (ulid.ULID, error) {
	id, err := ulid.Parse(s)
	if err != nil {
		return ulid.ULID{}, fmt.Errorf("invalid ULID %q: %w", s, err)
	}
	return id, nil
}
