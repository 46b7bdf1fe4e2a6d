// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"

	"github.com/storefront-foundation/storefront/lib/authorize"
	"github.com/storefront-foundation/storefront/lib/lineserver"
	"github.com/storefront-foundation/storefront/lib/wire"
)

// chargeHandler answers charge authorization requests using the given
// rule. Lines that do not parse as a charge request are dropped
// without a reply, leaving the connection open for the next cycle.
func chargeHandler(rule authorize.Authorizer, logger *slog.Logger) lineserver.Handler {
	return func(ctx context.Context, line string) []string {
		request, err := wire.ParseCharge(line)
		if err != nil {
			logger.Debug("dropping malformed charge request", "line", line, "error", err)
			return nil
		}
		if rule.Authorize(request) {
			logger.Info("charge approved", "item", request.ItemID, "price", request.Price)
			return []string{wire.ChargeApproved}
		}
		logger.Info("charge denied", "item", request.ItemID, "price", request.Price)
		return []string{wire.ChargeDenied}
	}
}
