// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

package link

import (
	"bufio"
	"net"
	"strconv"
	"strings"
	"testing"
)

// startEchoPeer accepts one connection and echoes each line back
// prefixed with "echo ". Returns the listener address split into host
// and port.
func startEchoPeer(t *testing.T) (string, int) {
	t.Helper()

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { listener.Close() })

	go func() {
		conn, err := listener.Accept()
		if err != nil {
			return
		}
		defer conn.Close()
		reader := bufio.NewReader(conn)
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				return
			}
			conn.Write([]byte("echo " + line))
		}
	}()

	return listenerHostPort(t, listener)
}

func listenerHostPort(t *testing.T, listener net.Listener) (string, int) {
	t.Helper()
	host, portText, err := net.SplitHostPort(listener.Addr().String())
	if err != nil {
		t.Fatalf("split addr: %v", err)
	}
	port, err := strconv.Atoi(portText)
	if err != nil {
		t.Fatalf("parse port: %v", err)
	}
	return host, port
}

func TestDialSendReceive(t *testing.T) {
	host, port := startEchoPeer(t)

	l, err := Dial("peer", host, port)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer l.Close()

	if !l.Alive() {
		t.Fatal("fresh link not alive")
	}
	if l.Peer() != "peer" {
		t.Errorf("Peer() = %q", l.Peer())
	}

	if err := l.Send("hello"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	reply, err := l.ReceiveLine()
	if err != nil {
		t.Fatalf("ReceiveLine: %v", err)
	}
	if reply != "echo hello" {
		t.Errorf("reply = %q", reply)
	}
	if !l.Alive() {
		t.Error("link died after successful round trip")
	}
}

func TestDialFailure(t *testing.T) {
	// Dial a port nothing listens on. Binding and closing a listener
	// reserves a port that is then free.
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	host, port := listenerHostPort(t, listener)
	listener.Close()

	if _, err := Dial("ghost", host, port); err == nil {
		t.Fatal("Dial to closed port succeeded")
	}
}

func TestLinkDeadAfterPeerClose(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	t.Cleanup(func() { listener.Close() })

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := listener.Accept()
		if err == nil {
			accepted <- conn
		}
	}()

	host, port := listenerHostPort(t, listener)
	l, err := Dial("peer", host, port)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer l.Close()

	conn := <-accepted
	conn.Close()

	if _, err := l.ReceiveLine(); err == nil {
		t.Fatal("ReceiveLine after peer close succeeded")
	}
	if l.Alive() {
		t.Error("link still alive after receive error")
	}

	// A dead link refuses further use instead of touching the
	// connection.
	if err := l.Send("anything"); err == nil {
		t.Error("Send on dead link succeeded")
	}
	if !strings.Contains(l.Addr(), ":") {
		t.Errorf("Addr() = %q", l.Addr())
	}
}
