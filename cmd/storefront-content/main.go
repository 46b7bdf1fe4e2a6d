// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

// storefront-content is the content repository. It loads a static
// item-id→content table from a data file, registers as "Content", and
// serves REQ requests over connections that stay open across cycles.
// A REQ for an id the table does not hold is answered with an empty
// line so the store can report the item as unavailable.
//
// Usage:
//
//	storefront-content [flags] <port> <content-file> <registry-port>
//
// Exit codes: 1 bad arguments or unreadable data file, 2 registration
// with the registry failed, 3 cannot listen, 4 accept failure.
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
	flags := pflag.NewFlagSet("storefront-content", pflag.ContinueOnError)
	flags.StringVar(&configPath, "config", "", "YAML config file (also $"+config.EnvVar+")")
	flags.StringVar(&registryHost, "registry-host", "", "registry host (default from config, then localhost)")
	flags.BoolVar(&showVersion, "version", false, "print version information and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return exitcode.New(exitBadArgs, err)
	}

	if showVersion {
		fmt.Printf("storefront-content %s\n", version.Info())
		return nil
	}

	configuration, err := config.Load(configPath)
	if err != nil {
		return exitcode.New(exitBadArgs, err)
	}

	port := configuration.Content.Port
	dataFile := configuration.Content.DataFile
	registryPort := configuration.Registry.Port
	switch args := flags.Args(); len(args) {
	case 0:
		if port == 0 || dataFile == "" || registryPort == 0 {
			return exitcode.New(exitBadArgs, errors.New("usage: storefront-content [flags] <port> <content-file> <registry-port>"))
		}
	case 3:
		if port, err = wire.ParsePort(args[0]); err != nil {
			return exitcode.New(exitBadArgs, err)
		}
		dataFile = args[1]
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

	contents, err := catalog.LoadContent(dataFile)
	if err != nil {
		return exitcode.New(exitBadArgs, err)
	}
	logger.Info("content table loaded", "path", dataFile)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	registryAddr := link.RegistryAddress{Host: registryHost, Port: registryPort}
	if err := link.Register(registryAddr, wire.ServiceContent, port, "localhost"); err != nil {
		return exitcode.New(exitRegistrationFailure, err)
	}
	logger.Info("registered with registry", "name", wire.ServiceContent, "port", port)

	listener, err := net.Listen("tcp", ":"+strconv.Itoa(port))
	if err != nil {
		return exitcode.New(exitListenFailure, fmt.Errorf("cannot listen on port %d: %w", port, err))
	}

	server := lineserver.New("content", contentHandler(contents, logger), logger, lineserver.KeepOpen())

	logger.Info("content repository waiting for incoming connections", "port", port)
	if err := server.Serve(ctx, listener); err != nil {
		return exitcode.New(exitAcceptFailure, fmt.Errorf("accept failed: %w", err))
	}
	return nil
}
