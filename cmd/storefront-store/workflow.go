// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"log/slog"
	"strings"
	"sync"

	"github.com/storefront-foundation/storefront/lib/catalog"
	"github.com/storefront-foundation/storefront/lib/lineserver"
	"github.com/storefront-foundation/storefront/lib/link"
	"github.com/storefront-foundation/storefront/lib/wire"
)

// Outcome classifies how a purchase attempt ended. Every outcome other
// than OutcomeApproved is reported to the client as the same abort
// line; the distinction exists for logging and tests.
type Outcome int

const (
	// OutcomeApproved means the charge was authorized and content was
	// retrieved.
	OutcomeApproved Outcome = iota
	// OutcomeDenied means the item is unknown or the validator refused
	// the charge.
	OutcomeDenied
	// OutcomeContentMissing means the charge was approved but the
	// repository holds no content for the item.
	OutcomeContentMissing
	// OutcomeLinkError means a downstream link died mid-purchase.
	OutcomeLinkError
)

// String returns the outcome name for logs.
func (o Outcome) String() string {
	switch o {
	case OutcomeApproved:
		return "approved"
	case OutcomeDenied:
		return "denied"
	case OutcomeContentMissing:
		return "content-missing"
	case OutcomeLinkError:
		return "link-error"
	default:
		return "unknown"
	}
}

// Workflow orchestrates the store's two operations over its static
// stock and its long-lived downstream links. The links are not safe
// for concurrent use, so purchases are serialized: each BUY runs its
// bank and repository conversation under the workflow mutex.
type Workflow struct {
	stock   *catalog.PriceList
	bank    *link.Link
	content *link.Link
	logger  *slog.Logger

	mu sync.Mutex
}

// NewWorkflow builds a workflow over loaded stock and established
// downstream links.
func NewWorkflow(stock *catalog.PriceList, bank, content *link.Link, logger *slog.Logger) *Workflow {
	return &Workflow{stock: stock, bank: bank, content: content, logger: logger}
}

// Handler adapts the workflow to the line server. LIST and BUY are the
// only recognized requests; anything else is dropped without a reply.
func (w *Workflow) Handler() lineserver.Handler {
	return func(ctx context.Context, line string) []string {
		switch {
		case line == wire.ListRequest:
			return w.listing()
		case strings.HasPrefix(line, wire.KeywordBuy+" "):
			request, err := wire.ParseBuy(line)
			if err != nil {
				// A BUY that does not parse still gets an abort so the
				// client is not left waiting; item id 0 tags it.
				w.logger.Warn("malformed buy request", "line", line, "error", err)
				return []string{wire.FormatAbort(0)}
			}
			outcome, content := w.purchase(request)
			if outcome == OutcomeApproved {
				return []string{content}
			}
			return []string{wire.FormatAbort(request.ItemID)}
		default:
			w.logger.Debug("dropping unrecognized request", "line", line)
			return nil
		}
	}
}

// listing renders the full stock catalog between the start and end
// markers.
func (w *Workflow) listing() []string {
	entries := w.stock.Entries()
	reply := make([]string, 0, len(entries)+2)
	reply = append(reply, wire.ListStart)
	for _, entry := range entries {
		reply = append(reply, wire.FormatListEntry(entry.ItemID, entry.Price))
	}
	reply = append(reply, wire.ListEnd)
	w.logger.Info("catalog listed", "items", len(entries))
	return reply
}

// purchase runs one purchase attempt end to end and classifies the
// result. Items absent from stock are denied without contacting either
// downstream service.
func (w *Workflow) purchase(request wire.BuyRequest) (Outcome, string) {
	price, ok := w.stock.Price(request.ItemID)
	if !ok {
		w.logger.Info("purchase denied, unknown item", "item", request.ItemID)
		return OutcomeDenied, ""
	}

	outcome, content := w.charge(wire.ChargeRequest{
		ItemID: request.ItemID,
		Price:  price,
		Card:   request.Card,
	})
	w.logger.Info("purchase finished",
		"item", request.ItemID, "price", price, "outcome", outcome)
	return outcome, content
}

// charge performs the authorization and content retrieval sequence on
// the shared downstream links. The mutex keeps the two request-reply
// conversations of concurrent purchases from interleaving. An approved
// charge is not reversed when content retrieval fails afterwards.
func (w *Workflow) charge(request wire.ChargeRequest) (Outcome, string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.bank.Send(request.Encode()); err != nil {
		w.logger.Error("bank link failed", "error", err)
		return OutcomeLinkError, ""
	}
	verdict, err := w.bank.ReceiveLine()
	if err != nil {
		w.logger.Error("bank link failed", "error", err)
		return OutcomeLinkError, ""
	}
	if verdict != wire.ChargeApproved {
		return OutcomeDenied, ""
	}

	if err := w.content.Send(wire.ContentRequest{ItemID: request.ItemID}.Encode()); err != nil {
		w.logger.Error("content link failed", "error", err)
		return OutcomeLinkError, ""
	}
	contentLine, err := w.content.ReceiveLine()
	if err != nil {
		w.logger.Error("content link failed", "error", err)
		return OutcomeLinkError, ""
	}
	if contentLine == "" {
		return OutcomeContentMissing, ""
	}
	return OutcomeApproved, contentLine
}
