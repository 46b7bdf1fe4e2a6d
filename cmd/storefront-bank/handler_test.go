// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bufio"
	"context"
	"log/slog"
	"net"
	"os"
	"testing"
	"time"

	"github.com/storefront-foundation/storefront/lib/authorize"
	"github.com/storefront-foundation/storefront/lib/lineserver"
	"github.com/storefront-foundation/storefront/lib/testutil"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
}

func TestChargeHandler(t *testing.T) {
	handler := chargeHandler(authorize.ParityRule{}, testLogger())
	ctx := context.Background()

	tests := []struct {
		name string
		line string
		want []string
	}{
		{"even item approved", "2 20.0 1234567812345678", []string{"1"}},
		{"odd item denied", "3 22.5 1234567812345678", []string{"0"}},
		{"zero item approved", "0 1.0 1234567812345678", []string{"1"}},
		{"wrong token count", "2 20.0", nil},
		{"non-numeric item", "abc 20.0 1234567812345678", nil},
		{"non-numeric price", "2 cheap 1234567812345678", nil},
		{"empty line", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := handler(ctx, tt.line)
			if len(got) != len(tt.want) {
				t.Fatalf("handler(%q) = %v, want %v", tt.line, got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("handler(%q)[%d] = %q, want %q", tt.line, i, got[i], tt.want[i])
				}
			}
		})
	}
}

// TestChargeConnectionStaysOpen verifies that one connection serves
// several authorization cycles, the way the store's long-lived link
// uses it.
func TestChargeConnectionStaysOpen(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	server := lineserver.New("bank", chargeHandler(authorize.ParityRule{}, testLogger()),
		testLogger(), lineserver.KeepOpen())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		server.Serve(ctx, listener)
	}()
	t.Cleanup(func() {
		cancel()
		testutil.RequireClosed(t, done, 5*time.Second, "bank shutdown")
	})

	conn, err := net.Dial("tcp", listener.Addr().String())
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()
	reader := bufio.NewReader(conn)

	for _, cycle := range []struct {
		request string
		want    string
	}{
		{"2 20.0 1234567812345678", "1\n"},
		{"3 22.5 1234567812345678", "0\n"},
		{"4 8.0 1234567812345678", "1\n"},
	} {
		if _, err := conn.Write([]byte(cycle.request + "\n")); err != nil {
			t.Fatalf("write %q: %v", cycle.request, err)
		}
		reply, err := reader.ReadString('\n')
		if err != nil {
			t.Fatalf("read reply to %q: %v", cycle.request, err)
		}
		if reply != cycle.want {
			t.Errorf("reply to %q = %q, want %q", cycle.request, reply, cycle.want)
		}
	}
}
