// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

// Package catalog loads the static data files the store and the
// content repository serve from: plain text, one "<itemId> <value>"
// record per line, single-space separated. Files are read once at
// startup and never mutated at runtime; a malformed line is a fatal
// startup error, not something to skip over.
package catalog
