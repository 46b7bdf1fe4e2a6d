// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"context"
	"log/slog"
	"strings"

	"github.com/storefront-foundation/storefront/lib/lineserver"
	"github.com/storefront-foundation/storefront/lib/wire"
)

// Handler returns the lineserver handler for the registry protocol.
// Each connection carries exactly one request: a REG line is answered
// with the success token (or dropped if invalid), a LOOKUP line is
// answered with the stored address or the fixed error sentinel, and
// anything else is dropped.
func Handler(table *Table, logger *slog.Logger) lineserver.Handler {
	return func(ctx context.Context, line string) []string {
		switch {
		case strings.HasPrefix(line, wire.KeywordRegister+" "):
			return handleRegister(table, logger, line)
		case strings.HasPrefix(line, wire.KeywordLookup+" "):
			return handleLookup(table, line)
		default:
			return nil
		}
	}
}

func handleRegister(table *Table, logger *slog.Logger, line string) []string {
	request, err := wire.ParseRegister(line)
	if err != nil {
		return nil
	}
	if err := table.Register(request.Name, request.Port, request.IP); err != nil {
		// Silent drop: the registering peer gets no reply and will
		// observe the connection closing.
		logger.Debug("registration dropped", "line", line, "error", err)
		return nil
	}
	logger.Info("registered", "name", request.Name, "ip", request.IP, "port", request.Port)
	return []string{wire.RegistrationSuccess}
}

func handleLookup(table *Table, line string) []string {
	request, err := wire.ParseLookup(line)
	if err != nil {
		return nil
	}
	record, ok := table.Lookup(request.Name)
	if !ok {
		return []string{wire.LookupErrorSentinel}
	}
	return []string{wire.FormatLookupReply(record.IP, record.Port)}
}
