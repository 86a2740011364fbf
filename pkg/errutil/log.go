// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

// Package errutil bridges coded oops errors into structured slog output and
// provides test assertions for error codes and context.
package errutil

import (
	"log/slog"

	"github.com/samber/oops"
)

// LogError logs err at error level. Coded oops errors contribute their code
// and key/value context as structured attributes; plain errors log as-is.
func LogError(logger *slog.Logger, msg string, err error) {
	logger.Error(msg, attrs(err)...)
}

// LogWarn logs err at warn level with the same attribute extraction as
// LogError. Used for paths that tolerate the failure and continue.
func LogWarn(logger *slog.Logger, msg string, err error) {
	logger.Warn(msg, attrs(err)...)
}

func attrs(err error) []any {
	oopsErr, ok := oops.AsOops(err)
	if !ok {
		return []any{"error", err}
	}
	out := []any{"error", oopsErr.Error()}
	if code := oopsErr.Code(); code != "" {
		out = append(out, "code", code)
	}
	if ctx := oopsErr.Context(); len(ctx) > 0 {
		out = append(out, "context", ctx)
	}
	return out
}
