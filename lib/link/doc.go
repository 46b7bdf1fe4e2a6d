// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

// Package link provides the client side of the storefront wire
// protocol: single-connection text links to named peers, one-shot
// registry RPCs, and the per-process dependency directory built at
// startup.
//
// A [Link] wraps one open duplex connection. It is a manual connection
// pool of size one: created by the first successful dial, dead after
// the first send or receive error, never reconnected. Owners that need
// the peer again must re-resolve its address and dial a new link. A
// Link is not safe for concurrent use; callers serialize access so
// only one request is in flight per link.
//
// A [Directory] is built once at process startup: it registers the
// process with the registry, resolves each declared dependency through
// fresh one-shot registry RPCs, and dials a long-lived link per
// dependency. The registry connection is not retained after startup.
// If a dependency link later dies, the directory does not re-resolve
// it — a known limitation of the design, not a bug.
package link
