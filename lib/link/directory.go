// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

package link

import (
	"fmt"
	"log/slog"
)

// Phase names the startup step a directory build failed in. Mains map
// phases to their documented exit codes.
type Phase string

const (
	// PhaseRegister is the self-registration RPC.
	PhaseRegister Phase = "register"
	// PhaseLookup is a dependency address lookup RPC.
	PhaseLookup Phase = "lookup"
	// PhaseDial is the direct connection to a resolved dependency.
	PhaseDial Phase = "dial"
)

// PhaseError wraps a directory build failure with the phase it
// occurred in.
type PhaseError struct {
	Phase Phase
	Err   error
}

func (e *PhaseError) Error() string { return e.Err.Error() }

// Unwrap exposes the underlying error for errors.Is/As.
func (e *PhaseError) Unwrap() error { return e.Err }

// Registration describes the local process for the registry.
type Registration struct {
	Name string
	Port int
	IP   string
}

// Directory holds one long-lived link per declared dependency, keyed
// by the dependency's registry name. Built once at startup and reused
// for every subsequent request during the process's lifetime.
type Directory struct {
	links map[string]*Link
}

// Build registers the local process with the registry and resolves
// each declared dependency, in order:
//
//  1. Register(self) — fails with ErrRegistryUnreachable or
//     ErrRegistrationRejected.
//  2. For each dependency name: a fresh registry lookup (one RPC per
//     lookup), then a direct dial to the resolved address. Fails with
//     NotRegisteredError if the dependency never registered, or a
//     wrapped dial error if the direct connection fails.
//
// The registry connection is one-shot per RPC and nothing is retained
// from it. On any failure the partially built directory is torn down.
func Build(registry RegistryAddress, self Registration, dependencies []string, logger *slog.Logger) (*Directory, error) {
	if err := Register(registry, self.Name, self.Port, self.IP); err != nil {
		return nil, &PhaseError{Phase: PhaseRegister, Err: err}
	}
	logger.Info("registered with registry", "name", self.Name, "port", self.Port)

	directory := &Directory{links: make(map[string]*Link)}
	for _, name := range dependencies {
		ip, port, err := Lookup(registry, name)
		if err != nil {
			directory.Close()
			return nil, &PhaseError{Phase: PhaseLookup, Err: err}
		}
		l, err := Dial(name, ip, port)
		if err != nil {
			directory.Close()
			return nil, &PhaseError{Phase: PhaseDial, Err: fmt.Errorf("dialing dependency %s: %w", name, err)}
		}
		logger.Info("dependency link established", "name", name, "address", l.Addr())
		directory.links[name] = l
	}
	return directory, nil
}

// Link returns the long-lived link for a dependency name, or nil if
// the name was not declared at build time.
func (d *Directory) Link(name string) *Link {
	return d.links[name]
}

// Close tears down every dependency link.
func (d *Directory) Close() {
	for _, l := range d.links {
		l.Close()
	}
}
