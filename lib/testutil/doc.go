// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

// Package testutil provides shared test helpers for storefront
// packages.
//
// [RequireReceive] and [RequireClosed] encapsulate the timeout safety
// valve pattern (select with a time.After fallback) so that individual
// tests do not need direct time.After calls when waiting on server
// goroutines.
//
// [WriteDataFile] creates a catalog-format fixture file under the
// test's temporary directory.
//
// All helpers call t.Fatalf on failure rather than returning errors,
// since test setup failures are not recoverable.
package testutil
