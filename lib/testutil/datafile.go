// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

package testutil

import (
	"os"
	"path/filepath"
)

// WriteDataFile writes a catalog-format fixture (one "<itemId> <value>"
// record per line) under the test's temporary directory and returns its
// path.
func WriteDataFile(t interface {
	Helper()
	Fatalf(format string, args ...any)
	TempDir() string
}, name, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture %s: %v", name, err)
	}
	return path
}
