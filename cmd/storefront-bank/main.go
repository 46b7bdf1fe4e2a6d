// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

// storefront-bank is the financial validator. It registers as "Bank",
// then serves charge authorization requests of the form
// "<itemId> <price> <creditCard>", replying "1" (approve) or "0"
// (deny). Connections stay open across request cycles; the store holds
// one long-lived link to this process. Malformed requests are ignored
// without a reply.
//
// Usage:
//
//	storefront-bank [flags] <port> <registry-port>
//
// Exit codes: 1 bad arguments, 2 cannot listen, 3 accept failure,
// 4 registration with the registry failed.
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

	"github.com/storefront-foundation/storefront/lib/authorize"
	"github.com/storefront-foundation/storefront/lib/config"
	"github.com/storefront-foundation/storefront/lib/exitcode"
	"github.com/storefront-foundation/storefront/lib/lineserver"
	"github.com/storefront-foundation/storefront/lib/link"
	"github.com/storefront-foundation/storefront/lib/version"
	"github.com/storefront-foundation/storefront/lib/wire"
)

const (
	exitBadArgs             = 1
	exitListenFailure       = 2
	exitAcceptFailure       = 3
	exitRegistrationFailure = 4
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(exitcode.From(err))
	}
}

func run() error {
	var (
		configPath   string
		registryHost string
		showVersion  bool
	)
	flags := pflag.NewFlagSet("storefront-bank", pflag.ContinueOnError)
	flags.StringVar(&configPath, "config", "", "YAML config file (also $"+config.EnvVar+")")
	flags.StringVar(&registryHost, "registry-host", "", "registry host (default from config, then localhost)")
	flags.BoolVar(&showVersion, "version", false, "print version information and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return exitcode.New(exitBadArgs, err)
	}

	if showVersion {
		fmt.Printf("storefront-bank %s\n", version.Info())
		return nil
	}

	configuration, err := config.Load(configPath)
	if err != nil {
		return exitcode.New(exitBadArgs, err)
	}

	port := configuration.Bank.Port
	registryPort := configuration.Registry.Port
	switch args := flags.Args(); len(args) {
	case 0:
		if port == 0 || registryPort == 0 {
			return exitcode.New(exitBadArgs, errors.New("usage: storefront-bank [flags] <port> <registry-port>"))
		}
	case 2:
		if port, err = wire.ParsePort(args[0]); err != nil {
			return exitcode.New(exitBadArgs, err)
		}
		if registryPort, err = wire.ParsePort(args[1]); err != nil {
			return exitcode.New(exitBadArgs, err)
		}
	default:
		return exitcode.New(exitBadArgs, fmt.Errorf("expected 2 positional arguments, got %d", len(args)))
	}
	if registryHost == "" {
		registryHost = configuration.Registry.Host
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registryAddr := link.RegistryAddress{Host: registryHost, Port: registryPort}
	if err := link.Register(registryAddr, wire.ServiceBank, port, "localhost"); err != nil {
		return exitcode.New(exitRegistrationFailure, err)
	}
	logger.Info("registered with registry", "name", wire.ServiceBank, "port", port)

	listener, err := net.Listen("tcp", ":"+strconv.Itoa(port))
	if err != nil {
		return exitcode.New(exitListenFailure, fmt.Errorf("cannot listen on port %d: %w", port, err))
	}

	server := lineserver.New("bank", chargeHandler(authorize.ParityRule{}, logger), logger, lineserver.KeepOpen())

	logger.Info("bank waiting for incoming connections", "port", port)
	if err := server.Serve(ctx, listener); err != nil {
		return exitcode.New(exitAcceptFailure, fmt.Errorf("accept failed: %w", err))
	}
	return nil
}
