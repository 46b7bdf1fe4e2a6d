// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

package link

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"os"
	"testing"

	"github.com/storefront-foundation/storefront/lib/lineserver"
	"github.com/storefront-foundation/storefront/lib/registry"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

// startRegistry runs a real registry server on loopback and returns
// its address.
func startRegistry(t *testing.T) (RegistryAddress, *registry.Table) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	table := registry.NewTable()
	server := lineserver.New("registry", registry.Handler(table, testLogger()), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		server.Serve(ctx, listener)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	host, port := listenerHostPort(t, listener)
	return RegistryAddress{Host: host, Port: port}, table
}

// startIdlePeer listens on loopback and holds accepted connections
// open without reading them.
func startIdlePeer(t *testing.T) (string, int) {
	t.Helper()
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { listener.Close() })
	go func() {
		for {
			conn, err := listener.Accept()
			if err != nil {
				return
			}
			defer conn.Close()
		}
	}()
	return listenerHostPort(t, listener)
}

func TestRegisterAndLookupRPC(t *testing.T) {
	registryAddr, _ := startRegistry(t)

	if err := Register(registryAddr, "Bank", 4000, "localhost"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	ip, port, err := Lookup(registryAddr, "Bank")
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if ip != "localhost" || port != 4000 {
		t.Errorf("resolved %q %d", ip, port)
	}
}

func TestRegisterInvalidRejected(t *testing.T) {
	registryAddr, _ := startRegistry(t)

	// Port 0 fails registry validation; the registry drops the
	// request silently, which the client reports as a rejection.
	err := Register(registryAddr, "Bank", 0, "localhost")
	if !errors.Is(err, ErrRegistrationRejected) {
		t.Errorf("err = %v, want ErrRegistrationRejected", err)
	}
}

func TestLookupNotRegistered(t *testing.T) {
	registryAddr, _ := startRegistry(t)

	_, _, err := Lookup(registryAddr, "Ghost")
	var notRegistered *NotRegisteredError
	if !errors.As(err, &notRegistered) {
		t.Fatalf("err = %v, want NotRegisteredError", err)
	}
	if notRegistered.Name != "Ghost" {
		t.Errorf("Name = %q", notRegistered.Name)
	}
}

func TestRegistryUnreachable(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	host, port := listenerHostPort(t, listener)
	listener.Close()

	if err := Register(RegistryAddress{Host: host, Port: port}, "Bank", 4000, "localhost"); !errors.Is(err, ErrRegistryUnreachable) {
		t.Errorf("Register err = %v, want ErrRegistryUnreachable", err)
	}
	if _, _, err := Lookup(RegistryAddress{Host: host, Port: port}, "Bank"); !errors.Is(err, ErrRegistryUnreachable) {
		t.Errorf("Lookup err = %v, want ErrRegistryUnreachable", err)
	}
}

func TestBuildDirectory(t *testing.T) {
	registryAddr, _ := startRegistry(t)

	bankHost, bankPort := startIdlePeer(t)
	contentHost, contentPort := startIdlePeer(t)
	if err := Register(registryAddr, "Bank", bankPort, bankHost); err != nil {
		t.Fatalf("register Bank: %v", err)
	}
	if err := Register(registryAddr, "Content", contentPort, contentHost); err != nil {
		t.Fatalf("register Content: %v", err)
	}

	directory, err := Build(registryAddr,
		Registration{Name: "Store", Port: 5000, IP: "localhost"},
		[]string{"Bank", "Content"}, testLogger())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer directory.Close()

	for _, name := range []string{"Bank", "Content"} {
		l := directory.Link(name)
		if l == nil {
			t.Fatalf("Link(%s) = nil", name)
		}
		if !l.Alive() {
			t.Errorf("link %s not alive", name)
		}
	}
	if directory.Link("Ghost") != nil {
		t.Error("Link(Ghost) returned a link for an undeclared dependency")
	}

	// The build also registered the store itself.
	if _, _, err := Lookup(registryAddr, "Store"); err != nil {
		t.Errorf("Store not visible after Build: %v", err)
	}
}

func TestBuildFailsWhenDependencyMissing(t *testing.T) {
	registryAddr, _ := startRegistry(t)

	_, err := Build(registryAddr,
		Registration{Name: "Store", Port: 5000, IP: "localhost"},
		[]string{"Bank"}, testLogger())
	var notRegistered *NotRegisteredError
	if !errors.As(err, &notRegistered) {
		t.Fatalf("err = %v, want NotRegisteredError", err)
	}
	var phase *PhaseError
	if !errors.As(err, &phase) || phase.Phase != PhaseLookup {
		t.Errorf("err = %v, want PhaseLookup", err)
	}
}

func TestBuildFailsWhenDependencyUnreachable(t *testing.T) {
	registryAddr, _ := startRegistry(t)

	// Register an address nothing listens on.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	host, port := listenerHostPort(t, listener)
	listener.Close()
	if err := Register(registryAddr, "Bank", port, host); err != nil {
		t.Fatalf("register Bank: %v", err)
	}

	_, err = Build(registryAddr,
		Registration{Name: "Store", Port: 5000, IP: "localhost"},
		[]string{"Bank"}, testLogger())
	if err == nil {
		t.Fatal("Build succeeded with unreachable dependency")
	}
	var phase *PhaseError
	if !errors.As(err, &phase) || phase.Phase != PhaseDial {
		t.Errorf("err = %v, want PhaseDial", err)
	}
}
