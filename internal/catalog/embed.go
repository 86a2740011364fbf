// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 FitForge Contributors

package catalog

import (
	_ "embed"
)

//go:embed catalog.yaml
var defaultCatalogYAML []byte

// DefaultYAML returns the raw embedded default catalog file.
func DefaultYAML() []byte {
	return defaultCatalogYAML
}

// Default parses and validates the embedded default catalog.
func Default() (*Catalog, error) {
	return ParseCatalog(defaultCatalogYAML)
}
