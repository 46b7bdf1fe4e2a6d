// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

// storefront-store is the purchase orchestrator. It loads a static
// stock catalog, registers as "Store", establishes long-lived links to
// the Bank and Content services through the registry, and serves LIST
// and BUY requests, one request per client connection.
//
// Usage:
//
//	storefront-store [flags] <port> <stock-file> <registry-port>
//
// Exit codes: 1 bad arguments or unreadable stock file, 2 registration
// rejected, 3 cannot listen, 4 accept failure, 5 a dependency has not
// registered, 6 the registry or a dependency could not be reached.
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

	"github.com/storefront-foundation/storefront/lib/catalog"
	"github.com/storefront-foundation/storefront/lib/config"
	"github.com/storefront-foundation/storefront/lib/exitcode"
	"github.com/storefront-foundation/storefront/lib/lineserver"
	"github.com/storefront-foundation/storefront/lib/link"
	"github.com/storefront-foundation/storefront/lib/version"
	"github.com/storefront-foundation/storefront/lib/wire"
)

const (
	exitBadArgs             = 1
	exitRegistrationFailure = 2
	exitListenFailure       = 3
	exitAcceptFailure       = 4
	exitDependencyMissing   = 5
	exitRegistryUnreachable = 6
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
	flags := pflag.NewFlagSet("storefront-store", pflag.ContinueOnError)
	flags.StringVar(&configPath, "config", "", "YAML config file (also $"+config.EnvVar+")")
	flags.StringVar(&registryHost, "registry-host", "", "registry host (default from config, then localhost)")
	flags.BoolVar(&showVersion, "version", false, "print version information and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return exitcode.New(exitBadArgs, err)
	}

	if showVersion {
		fmt.Printf("storefront-store %s\n", version.Info())
		return nil
	}

	configuration, err := config.Load(configPath)
	if err != nil {
		return exitcode.New(exitBadArgs, err)
	}

	port := configuration.Store.Port
	stockFile := configuration.Store.DataFile
	registryPort := configuration.Registry.Port
	switch args := flags.Args(); len(args) {
	case 0:
		if port == 0 || stockFile == "" || registryPort == 0 {
			return exitcode.New(exitBadArgs, errors.New("usage: storefront-store [flags] <port> <stock-file> <registry-port>"))
		}
	case 3:
		if port, err = wire.ParsePort(args[0]); err != nil {
			return exitcode.New(exitBadArgs, err)
		}
		stockFile = args[1]
		if registryPort, err = wire.ParsePort(args[2]); err != nil {
			return exitcode.New(exitBadArgs, err)
		}
	default:
		return exitcode.New(exitBadArgs, fmt.Errorf("expected 3 positional arguments, got %d", len(args)))
	}
	if registryHost == "" {
		registryHost = configuration.Registry.Host
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	stock, err := catalog.LoadPrices(stockFile)
	if err != nil {
		return exitcode.New(exitBadArgs, err)
	}
	logger.Info("stock catalog loaded", "path", stockFile, "items", stock.Len())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registryAddr := link.RegistryAddress{Host: registryHost, Port: registryPort}
	directory, err := link.Build(registryAddr,
		link.Registration{Name: wire.ServiceStore, Port: port, IP: "localhost"},
		[]string{wire.ServiceBank, wire.ServiceContent}, logger)
	if err != nil {
		return exitcode.New(directoryExitCode(err), err)
	}
	defer directory.Close()

	listener, err := net.Listen("tcp", ":"+strconv.Itoa(port))
	if err != nil {
		return exitcode.New(exitListenFailure, fmt.Errorf("cannot listen on port %d: %w", port, err))
	}

	workflow := NewWorkflow(stock,
		directory.Link(wire.ServiceBank), directory.Link(wire.ServiceContent), logger)
	server := lineserver.New("store", workflow.Handler(), logger)

	logger.Info("store waiting for incoming connections", "port", port)
	if err := server.Serve(ctx, listener); err != nil {
		return exitcode.New(exitAcceptFailure, fmt.Errorf("accept failed: %w", err))
	}
	return nil
}

// directoryExitCode maps a directory build failure onto the documented
// exit codes: a dependency that never registered, anything that could
// not be reached, and a rejected self-registration all exit
// differently.
func directoryExitCode(err error) int {
	var notRegistered *link.NotRegisteredError
	if errors.As(err, &notRegistered) {
		return exitDependencyMissing
	}
	if errors.Is(err, link.ErrRegistryUnreachable) {
		return exitRegistryUnreachable
	}
	var phase *link.PhaseError
	if errors.As(err, &phase) {
		switch phase.Phase {
		case link.PhaseRegister:
			return exitRegistrationFailure
		case link.PhaseDial:
			return exitRegistryUnreachable
		}
	}
	return exitRegistrationFailure
}
