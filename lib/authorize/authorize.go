// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

// Package authorize decides whether a charge goes through. The
// decision sits behind an interface so a real financial check can be
// substituted without touching the orchestration protocol; the
// deployed rule is the deterministic parity check.
package authorize

import "github.com/storefront-foundation/storefront/lib/wire"

// Authorizer approves or denies one charge.
type Authorizer interface {
	Authorize(charge wire.ChargeRequest) bool
}

// ParityRule approves items with even ids and denies odd ones,
// regardless of price or card. Deterministic so the end-to-end flow is
// testable without fixture coordination.
type ParityRule struct{}

// Authorize implements Authorizer.
func (ParityRule) Authorize(charge wire.ChargeRequest) bool {
	return charge.ItemID%2 == 0
}
