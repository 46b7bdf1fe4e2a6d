// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

package exitcode

import (
	"errors"
	"fmt"
	"testing"
)

func TestFrom(t *testing.T) {
	if got := From(nil); got != 0 {
		t.Errorf("From(nil) = %d, want 0", got)
	}
	if got := From(errors.New("plain")); got != 1 {
		t.Errorf("From(plain) = %d, want 1", got)
	}
	if got := From(New(5, errors.New("lookup"))); got != 5 {
		t.Errorf("From(New(5)) = %d, want 5", got)
	}
}

func TestFromWrapped(t *testing.T) {
	err := fmt.Errorf("outer context: %w", New(3, errors.New("listen")))
	if got := From(err); got != 3 {
		t.Errorf("From(wrapped) = %d, want 3", got)
	}
}

func TestNewNil(t *testing.T) {
	if New(4, nil) != nil {
		t.Error("New(4, nil) != nil")
	}
}

func TestUnwrap(t *testing.T) {
	inner := errors.New("inner")
	if !errors.Is(New(2, fmt.Errorf("ctx: %w", inner)), inner) {
		t.Error("errors.Is through exitcode.Error failed")
	}
}
