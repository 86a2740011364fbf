// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package errutil_test

import (
	"testing"

	"github.com/samber/oops"

	"github.com/fitforge/fitforge/pkg/errutil"
)

func TestAssertErrorCode_MatchingCode(t *testing.T) {
	err := oops.Code("EMAIL_TAKEN").Errorf("duplicate email")
	errutil.AssertErrorCode(t, err, "EMAIL_TAKEN")
}

func TestAssertErrorContext_MatchingKeyValue(t *testing.T) {
	err := oops.With("email", "jo@example.com").Errorf("lookup failed")
	errutil.AssertErrorContext(t, err, "email", "jo@example.com")
}
