// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

// Package lineserver provides the shared TCP accept loop for storefront
// processes: newline-delimited text requests dispatched to a handler,
// with two session modes.
//
// In one-shot mode (the registry and the store) each connection carries
// exactly one request-response cycle: read one line, reply, close. In
// session mode (the validator and the repository) the connection stays
// open and the loop reads request lines until the peer disconnects.
//
// A handler returning no reply lines is a silent drop: the request is
// ignored without a diagnostic, which is the deliberate policy for
// malformed registry and validator messages.
//
// Read or write errors on an accepted connection abort only that
// connection; the server keeps accepting. An error from Accept itself
// ends Serve, because it usually means the listener is gone or the
// process is out of descriptors.
package lineserver
