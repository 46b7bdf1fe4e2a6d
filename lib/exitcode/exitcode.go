// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

// Package exitcode carries a process exit code alongside an error from
// run() back to main(), so that each startup failure kind maps to
// exactly one documented code. Mains wrap fatal errors with New and
// exit with From.
package exitcode

import "errors"

// Error is an error annotated with the process exit code to use.
type Error struct {
	Code int
	Err  error
}

// New wraps err with an exit code. Returns nil if err is nil.
func New(code int, err error) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Err: err}
}

func (e *Error) Error() string { return e.Err.Error() }

// Unwrap exposes the wrapped error for errors.Is/As.
func (e *Error) Unwrap() error { return e.Err }

// From extracts the exit code from an error chain, defaulting to 1 for
// errors without an annotation and 0 for nil.
func From(err error) int {
	if err == nil {
		return 0
	}
	var coded *Error
	if errors.As(err, &coded) {
		return coded.Code
	}
	return 1
}
