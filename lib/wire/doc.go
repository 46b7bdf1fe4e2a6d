// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

// Package wire defines the storefront text protocol: the exact tokens
// exchanged between processes, typed parse/format helpers for each
// message kind, and the validation rules the registry applies to
// registrations.
//
// Every message is one UTF-8 line, newline-terminated, with tokens
// separated by a single space:
//
//	REG <name> <port> <ip>        registration (reply: REGISTRATION_SUCCESS)
//	LOOKUP <name>                 lookup (reply: "<ip> <port>" or sentinel)
//	LIST                          catalog listing request
//	BUY <creditCard> <itemId>     purchase request
//	<itemId> <price> <creditCard> charge authorization (reply: 1 or 0)
//	REQ <itemId>                  content fetch
//
// Parsing is strict: a malformed line yields an error, never a partial
// message. The token values are fixed protocol constants — changing
// any of them breaks interoperability with deployed peers.
package wire
