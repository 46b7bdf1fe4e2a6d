// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

package lineserver

import (
	"bufio"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"sync"
)

// Handler processes one request line and returns the reply lines to
// write back, in order. Returning nil (or an empty slice) drops the
// request silently — nothing is written and, in one-shot mode, the
// connection simply closes.
type Handler func(ctx context.Context, line string) []string

// Server accepts TCP connections and dispatches newline-delimited
// request lines to a handler. Construct with New, then call Serve with
// a bound listener. The listener is owned by the caller so that a bind
// failure can be reported with its own exit code before Serve runs.
type Server struct {
	name     string
	handler  Handler
	keepOpen bool
	logger   *slog.Logger

	// activeConnections tracks in-flight connection handlers so that
	// Serve can drain them before returning.
	activeConnections sync.WaitGroup
}

// Option configures a Server.
type Option func(*Server)

// KeepOpen makes the server hold each accepted connection open across
// multiple request-response cycles instead of closing after the first
// reply. The validator and repository serve long-lived peer links and
// use this mode.
func KeepOpen() Option {
	return func(s *Server) { s.keepOpen = true }
}

// New creates a server named for log attribution. The handler is
// invoked once per request line.
func New(name string, handler Handler, logger *slog.Logger, opts ...Option) *Server {
	s := &Server{
		name:    name,
		handler: handler,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Serve accepts connections until ctx is cancelled or Accept fails.
// Each accepted connection runs on its own goroutine; Serve waits for
// in-flight connections to finish before returning. Returns nil on
// cancellation and the Accept error otherwise.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	// Unblock Accept when the context is cancelled.
	go func() {
		<-ctx.Done()
		listener.Close()
	}()

	s.logger.Info("listening", "server", s.name, "address", listener.Addr().String())

	var acceptErr error
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				break
			}
			acceptErr = err
			break
		}

		s.activeConnections.Add(1)
		go func() {
			defer s.activeConnections.Done()
			s.handleConnection(ctx, conn)
		}()
	}

	s.activeConnections.Wait()
	return acceptErr
}

// handleConnection drains one connection. A read error (including a
// clean peer disconnect) ends the session; the error aborts only this
// connection.
func (s *Server) handleConnection(ctx context.Context, conn net.Conn) {
	defer conn.Close()

	reader := bufio.NewReader(conn)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.logger.Debug("read failed", "server", s.name, "error", err)
			}
			return
		}
		line = strings.TrimRight(line, "\r\n")
		s.logger.Info("request", "server", s.name, "line", line)

		for _, reply := range s.handler(ctx, line) {
			if _, err := conn.Write([]byte(reply + "\n")); err != nil {
				s.logger.Debug("write failed", "server", s.name, "error", err)
				return
			}
		}

		if !s.keepOpen {
			return
		}
	}
}
