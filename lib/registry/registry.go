// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"sync"

	"github.com/storefront-foundation/storefront/lib/wire"
)

// Record is one registered service: a name bound to a listening
// address. At most one record exists per name.
type Record struct {
	Name string
	IP   string
	Port int
}

// Table is the mutex-guarded name→record map. Registrations and
// lookups are short, so a single mutex suffices even with one
// goroutine per connection.
type Table struct {
	mu      sync.Mutex
	records map[string]Record
}

// NewTable creates an empty registry table.
func NewTable() *Table {
	return &Table{records: make(map[string]Record)}
}

// Register validates the registration and stores the record,
// overwriting any previous record for the same name. The returned
// error describes the validation failure; the server translates any
// error into a silent drop.
func (t *Table) Register(name string, port int, ip string) error {
	request := wire.RegisterRequest{Name: name, Port: port, IP: ip}
	if err := request.Validate(); err != nil {
		return err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.records[name] = Record{Name: name, IP: ip, Port: port}
	return nil
}

// Lookup returns the record for name. Names are case-sensitive exact
// strings.
func (t *Table) Lookup(name string) (Record, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	record, ok := t.records[name]
	return record, ok
}

// Len returns the number of registered names.
func (t *Table) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.records)
}
