// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

package link

import (
	"errors"
	"fmt"

	"github.com/storefront-foundation/storefront/lib/wire"
)

// RegistryAddress locates the registry process.
type RegistryAddress struct {
	Host string
	Port int
}

// ErrRegistryUnreachable wraps any failure to open or converse on a
// registry connection. Mains translate it into the
// registry-unreachable exit code.
var ErrRegistryUnreachable = errors.New("registry unreachable")

// ErrRegistrationRejected reports that the registry's reply to a
// registration was not the success token. Because the registry drops
// invalid registrations silently, rejection is observed as a closed
// connection with no reply.
var ErrRegistrationRejected = errors.New("registration rejected")

// NotRegisteredError reports a lookup for a dependency that never
// registered.
type NotRegisteredError struct {
	Name string
}

func (e *NotRegisteredError) Error() string {
	return fmt.Sprintf("%s has not registered", e.Name)
}

// Register announces (name, port, ip) to the registry over a one-shot
// connection and verifies the success token.
func Register(registry RegistryAddress, name string, port int, ip string) error {
	reply, err := registryRPC(registry, wire.RegisterRequest{Name: name, Port: port, IP: ip}.Encode())
	if err != nil {
		// No reply covers both an unreachable registry and a silent
		// drop of an invalid registration; the latter is a caller bug,
		// so surface it as a rejection.
		if errors.Is(err, errNoReply) {
			return fmt.Errorf("registering %s: %w", name, ErrRegistrationRejected)
		}
		return fmt.Errorf("registering %s: %w", name, err)
	}
	if reply != wire.RegistrationSuccess {
		return fmt.Errorf("registering %s: unexpected reply %q: %w", name, reply, ErrRegistrationRejected)
	}
	return nil
}

// Lookup resolves a name through the registry over a one-shot
// connection. Returns a NotRegisteredError when the registry answers
// with the error sentinel.
func Lookup(registry RegistryAddress, name string) (ip string, port int, err error) {
	reply, err := registryRPC(registry, wire.LookupRequest{Name: name}.Encode())
	if err != nil {
		if errors.Is(err, errNoReply) {
			return "", 0, fmt.Errorf("looking up %s: %w", name, ErrRegistryUnreachable)
		}
		return "", 0, fmt.Errorf("looking up %s: %w", name, err)
	}
	if reply == wire.LookupErrorSentinel {
		return "", 0, &NotRegisteredError{Name: name}
	}
	ip, port, err = wire.ParseLookupReply(reply)
	if err != nil {
		return "", 0, fmt.Errorf("looking up %s: %w", name, err)
	}
	return ip, port, nil
}

// errNoReply marks a registry conversation that ended without a reply
// line.
var errNoReply = errors.New("no reply")

// registryRPC performs one request-response cycle on a fresh registry
// connection. The registry handles each request over its own
// connection, so the link is never reused across RPCs.
func registryRPC(registry RegistryAddress, request string) (string, error) {
	l, err := Dial(wire.ServiceRegistry, registry.Host, registry.Port)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrRegistryUnreachable, err)
	}
	defer l.Close()

	if err := l.Send(request); err != nil {
		return "", fmt.Errorf("%w: %w", ErrRegistryUnreachable, err)
	}
	reply, err := l.ReceiveLine()
	if err != nil {
		return "", errNoReply
	}
	return reply, nil
}
