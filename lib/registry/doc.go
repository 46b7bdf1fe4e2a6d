// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

// Package registry implements the service registry: an in-memory
// name→address table and the request handler that serves it over the
// wire protocol.
//
// The table is owned by the registry process for its entire lifetime.
// There is no persistence, no TTL, and no de-registration:
// re-registering a name overwrites the previous record, and the table
// is wiped on restart. Lookups for unknown names always return the
// fixed sentinel string, never a partial record.
//
// Malformed registration and lookup requests are dropped without a
// diagnostic reply. This is a deliberate ignore-malformed-input policy
// inherited from the protocol, not an error path to harden.
package registry
