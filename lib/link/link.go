// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

package link

import (
	"bufio"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// dialTimeout bounds how long a dial waits for the peer to accept.
// Established links have no I/O deadlines: a stalled peer stalls the
// owning workflow, which is the specified behavior.
const dialTimeout = 10 * time.Second

// Link is one open newline-delimited text connection to a named peer.
// Owned exclusively by the process that dialed it; not safe for
// concurrent use.
type Link struct {
	peer   string
	addr   string
	conn   net.Conn
	reader *bufio.Reader
	alive  bool
}

// Dial opens a link to the named peer at ip:port.
func Dial(peer, ip string, port int) (*Link, error) {
	addr := net.JoinHostPort(ip, strconv.Itoa(port))
	conn, err := net.DialTimeout("tcp", addr, dialTimeout)
	if err != nil {
		return nil, fmt.Errorf("connecting to %s at %s: %w", peer, addr, err)
	}
	return &Link{
		peer:   peer,
		addr:   addr,
		conn:   conn,
		reader: bufio.NewReader(conn),
		alive:  true,
	}, nil
}

// Peer returns the name the link was dialed for.
func (l *Link) Peer() string { return l.peer }

// Addr returns the dialed address in host:port form.
func (l *Link) Addr() string { return l.addr }

// Alive reports whether the link has seen no send or receive error.
// A dead link must be discarded; there is no reconnection.
func (l *Link) Alive() bool { return l.alive }

// Send writes one newline-terminated message. No batching: the line
// goes out immediately. A write error marks the link dead.
func (l *Link) Send(line string) error {
	if !l.alive {
		return fmt.Errorf("link to %s is dead", l.peer)
	}
	if _, err := l.conn.Write([]byte(line + "\n")); err != nil {
		l.alive = false
		return fmt.Errorf("sending to %s: %w", l.peer, err)
	}
	return nil
}

// ReceiveLine blocks for one reply line, stripped of its line ending.
// Any error, including a clean close by the peer, marks the link dead.
func (l *Link) ReceiveLine() (string, error) {
	if !l.alive {
		return "", fmt.Errorf("link to %s is dead", l.peer)
	}
	line, err := l.reader.ReadString('\n')
	if err != nil {
		l.alive = false
		return "", fmt.Errorf("receiving from %s: %w", l.peer, err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// Close tears down the underlying connection. The link is dead
// afterwards.
func (l *Link) Close() error {
	l.alive = false
	return l.conn.Close()
}
