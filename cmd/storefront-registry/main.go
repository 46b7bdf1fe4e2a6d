// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

// storefront-registry is the service registry: an in-memory
// name→address table serving REG and LOOKUP requests, one request per
// connection. Peers register their listening address under a unique
// name at startup and resolve each other by name instead of hardcoded
// addresses.
//
// Usage:
//
//	storefront-registry [flags] <port>
//
// Exit codes: 1 bad arguments, 2 cannot listen on the given port,
// 3 accept failure.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/spf13/pflag"

	"github.com/storefront-foundation/storefront/lib/config"
	"github.com/storefront-foundation/storefront/lib/exitcode"
	"github.com/storefront-foundation/storefront/lib/lineserver"
	"github.com/storefront-foundation/storefront/lib/registry"
	"github.com/storefront-foundation/storefront/lib/version"
	"github.com/storefront-foundation/storefront/lib/wire"
)

const (
	exitBadArgs       = 1
	exitListenFailure = 2
	exitAcceptFailure = 3
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitcode.From(err))
	}
}

func run() error {
	var (
		configPath  string
		showVersion bool
	)
	flags := pflag.NewFlagSet("storefront-registry", pflag.ContinueOnError)
	flags.StringVar(&configPath, "config", "", "YAML config file (also $"+config.EnvVar+")")
	flags.BoolVar(&showVersion, "version", false, "print version information and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return exitcode.New(exitBadArgs, err)
	}

	if showVersion {
		fmt.Printf("storefront-registry %s\n", version.Info())
		return nil
	}

	configuration, err := config.Load(configPath)
	if err != nil {
		return exitcode.New(exitBadArgs, err)
	}

	port := configuration.Registry.Port
	switch args := flags.Args(); len(args) {
	case 0:
		if port == 0 {
			return exitcode.New(exitBadArgs, errors.New("usage: storefront-registry [flags] <port>"))
		}
	case 1:
		port, err = wire.ParsePort(args[0])
		if err != nil {
			return exitcode.New(exitBadArgs, err)
		}
	default:
		return exitcode.New(exitBadArgs, fmt.Errorf("expected 1 positional argument, got %d", len(args)))
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	listener, err := net.Listen("tcp", ":"+strconv.Itoa(port))
	if err != nil {
		return exitcode.New(exitListenFailure, fmt.Errorf("cannot listen on port %d: %w", port, err))
	}

	table := registry.NewTable()
	server := lineserver.New("registry", registry.Handler(table, logger), logger)

	logger.Info("registry waiting for incoming connections", "port", port)
	if err := server.Serve(ctx, listener); err != nil {
		return exitcode.New(exitAcceptFailure, fmt.Errorf("accept failed: %w", err))
	}
	return nil
}
