// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"

	"github.com/storefront-foundation/storefront/lib/catalog"
	"github.com/storefront-foundation/storefront/lib/lineserver"
	"github.com/storefront-foundation/storefront/lib/wire"
)

// contentHandler answers REQ requests from the content table. A valid
// request for an unknown id gets an empty line, so the store can tell
// "no content" apart from a dead repository. Malformed lines are
// dropped without a reply.
func contentHandler(contents *catalog.ContentSet, logger *slog.Logger) lineserver.Handler {
	return func(ctx context.Context, line string) []string {
		request, err := wire.ParseContentRequest(line)
		if err != nil {
			logger.Debug("dropping malformed content request", "line", line, "error", err)
			return nil
		}
		content, ok := contents.Content(request.ItemID)
		if !ok {
			logger.Info("content not found", "item", request.ItemID)
			return []string{""}
		}
		logger.Info("content served", "item", request.ItemID)
		return []string{content}
	}
}
