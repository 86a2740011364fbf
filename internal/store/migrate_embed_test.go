// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package store

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsFS_EmbeddedFiles(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err, "should read embedded migrations directory")

	// We have 6 migrations, each with up and down = 12 files
	assert.GreaterOrEqual(t, len(entries), 12, "should have at least 12 migration files (6 up + 6 down)")

	// Verify naming pattern - check first migration exists
	expectedFiles := []string{
		"000001_create_users.up.sql",
		"000001_create_users.down.sql",
	}

	fileNames := make(map[string]bool)
	for _, entry := range entries {
		fileNames[entry.Name()] = true
	}

	for _, expected := range expectedFiles {
		assert.True(t, fileNames[expected], "should contain %s", expected)
	}

	// Verify all files follow expected naming pattern
	pattern := regexp.MustCompile(`^\d{6}_\w+\.(up|down)\.sql$`)
	for _, entry := range entries {
		assert.True(t, pattern.MatchString(entry.Name()),
			"file %s should match pattern NNNNNN_name.(up|down).sql", entry.Name())
	}
}

// TestMigrationsFS_UpDownPairs verifies every up migration has a matching
// down migration, so rollbacks never strand the schema mid-sequence.
func TestMigrationsFS_UpDownPairs(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	require.NoError(t, err)

	ups := make(map[string]bool)
	downs := make(map[string]bool)
	for _, entry := range entries {
		name := entry.Name()
		switch {
		case regexp.MustCompile(`\.up\.sql$`).MatchString(name):
			ups[name[:len(name)-len(".up.sql")]] = true
		case regexp.MustCompile(`\.down\.sql$`).MatchString(name):
			downs[name[:len(name)-len(".down.sql")]] = true
		}
	}

	for base := range ups {
		assert.True(t, downs[base], "up migration %s has no matching down migration", base)
	}
	for base := range downs {
		assert.True(t, ups[base], "down migration %s has no matching up migration", base)
	}
}
