// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

// storefront-client is the one-shot shopper. It registers itself with
// the registry, resolves the store, fetches the catalog listing, and
// either prints it (request 0) or buys the Nth listed item (request N)
// and prints the purchased content or the store's abort line. The
// store serves one request per connection, so the purchase uses a
// fresh connection after the listing.
//
// Usage:
//
//	storefront-client [flags] <request> <registry-port>
//
// Exit codes: 1 bad arguments or a request past the end of the
// listing, 5 the store has not registered, 6 the registry could not be
// reached, 7 the store could not be reached.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/pflag"

	"github.com/storefront-foundation/storefront/lib/config"
	"github.com/storefront-foundation/storefront/lib/exitcode"
	"github.com/storefront-foundation/storefront/lib/link"
	"github.com/storefront-foundation/storefront/lib/version"
	"github.com/storefront-foundation/storefront/lib/wire"
)

const (
	exitBadArgs             = 1
	exitStoreMissing        = 5
	exitRegistryUnreachable = 6
	exitStoreUnreachable    = 7
)

// creditCard is the fixed card number sent with every purchase.
const creditCard int64 = 1234567812345678

// clientRegistration is the client's own registry entry. The client
// never listens; the entry only announces its presence.
const (
	clientName = "client"
	clientPort = 6465
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
	flags := pflag.NewFlagSet("storefront-client", pflag.ContinueOnError)
	flags.StringVar(&configPath, "config", "", "YAML config file (also $"+config.EnvVar+")")
	flags.StringVar(&registryHost, "registry-host", "", "registry host (default from config, then localhost)")
	flags.BoolVar(&showVersion, "version", false, "print version information and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		return exitcode.New(exitBadArgs, err)
	}

	if showVersion {
		fmt.Printf("storefront-client %s\n", version.Info())
		return nil
	}

	configuration, err := config.Load(configPath)
	if err != nil {
		return exitcode.New(exitBadArgs, err)
	}

	args := flags.Args()
	if len(args) != 2 {
		return exitcode.New(exitBadArgs, errors.New("usage: storefront-client [flags] <request> <registry-port>"))
	}
	request, err := strconv.Atoi(args[0])
	if err != nil || request < 0 {
		return exitcode.New(exitBadArgs, fmt.Errorf("request must be 0 (list) or a positive item number, got %q", args[0]))
	}
	registryPort, err := wire.ParsePort(args[1])
	if err != nil {
		return exitcode.New(exitBadArgs, err)
	}
	if registryHost == "" {
		registryHost = configuration.Registry.Host
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	registryAddr := link.RegistryAddress{Host: registryHost, Port: registryPort}
	if err := link.Register(registryAddr, clientName, clientPort, "localhost"); err != nil {
		return exitcode.New(exitRegistryUnreachable, err)
	}

	storeIP, storePort, err := link.Lookup(registryAddr, wire.ServiceStore)
	if err != nil {
		var notRegistered *link.NotRegisteredError
		if errors.As(err, &notRegistered) {
			return exitcode.New(exitStoreMissing, err)
		}
		return exitcode.New(exitRegistryUnreachable, err)
	}
	logger.Debug("store resolved", "ip", storeIP, "port", storePort)

	entries, err := fetchListing(storeIP, storePort)
	if err != nil {
		return exitcode.New(exitStoreUnreachable, err)
	}

	if request == 0 {
		printListing(os.Stdout, entries)
		return nil
	}
	if request > len(entries) {
		return exitcode.New(exitBadArgs, fmt.Errorf("item number %d past the end of the listing (%d items)", request, len(entries)))
	}
	return buy(storeIP, storePort, entries[request-1])
}

// listEntry is one catalog line as the store sent it. The price stays
// a string so output echoes the store's formatting.
type listEntry struct {
	itemID int64
	price  string
}

// fetchListing runs one LIST cycle against the store and collects the
// entries between the start and end markers.
func fetchListing(ip string, port int) ([]listEntry, error) {
	store, err := link.Dial(wire.ServiceStore, ip, port)
	if err != nil {
		return nil, err
	}
	defer store.Close()

	if err := store.Send(wire.ListRequest); err != nil {
		return nil, err
	}
	first, err := store.ReceiveLine()
	if err != nil {
		return nil, err
	}
	if first != wire.ListStart {
		return nil, fmt.Errorf("listing began with %q", first)
	}

	var entries []listEntry
	for {
		line, err := store.ReceiveLine()
		if err != nil {
			return nil, err
		}
		if line == wire.ListEnd {
			return entries, nil
		}
		itemID, price, err := wire.ParseListEntry(line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, listEntry{itemID: itemID, price: price})
	}
}

// printListing writes the numbered catalog. The number is what a
// later purchase request refers to.
func printListing(out io.Writer, entries []listEntry) {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tITEM\tPRICE")
	for i, entry := range entries {
		fmt.Fprintf(w, "%d\t%d\t%s\n", i+1, entry.itemID, entry.price)
	}
	w.Flush()
}

// buy purchases one listed item over a fresh store connection and
// prints the result. An aborted transaction is printed as the store
// sent it and still exits cleanly; the abort is an answer, not a
// failure to communicate.
func buy(ip string, port int, entry listEntry) error {
	store, err := link.Dial(wire.ServiceStore, ip, port)
	if err != nil {
		return exitcode.New(exitStoreUnreachable, err)
	}
	defer store.Close()

	request := wire.BuyRequest{Card: creditCard, ItemID: entry.itemID}
	if err := store.Send(request.Encode()); err != nil {
		return exitcode.New(exitStoreUnreachable, err)
	}
	reply, err := store.ReceiveLine()
	if err != nil {
		return exitcode.New(exitStoreUnreachable, err)
	}

	if reply == wire.FormatAbort(entry.itemID) {
		fmt.Println(reply)
		return nil
	}
	fmt.Printf("%d ($ %s) CONTENT %s\n", entry.itemID, entry.price, reply)
	return nil
}
