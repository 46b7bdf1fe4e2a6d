// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

package registry

import (
	"fmt"
	"testing"
)

func TestRegisterThenLookup(t *testing.T) {
	table := NewTable()
	if err := table.Register("Bank", 4000, "localhost"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	record, ok := table.Lookup("Bank")
	if !ok {
		t.Fatal("Lookup(Bank) not found")
	}
	want := Record{Name: "Bank", IP: "localhost", Port: 4000}
	if record != want {
		t.Errorf("record = %+v, want %+v", record, want)
	}
}

func TestRegisterOverwrites(t *testing.T) {
	table := NewTable()
	if err := table.Register("Store", 5000, "localhost"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if err := table.Register("Store", 5001, "10.0.0.2"); err != nil {
		t.Fatalf("second Register: %v", err)
	}

	record, ok := table.Lookup("Store")
	if !ok {
		t.Fatal("Lookup(Store) not found")
	}
	if record.Port != 5001 || record.IP != "10.0.0.2" {
		t.Errorf("record = %+v, want second registration", record)
	}
	if table.Len() != 1 {
		t.Errorf("Len = %d, want 1 (overwrite, not append)", table.Len())
	}
}

func TestLookupUnknown(t *testing.T) {
	table := NewTable()
	if _, ok := table.Lookup("Nobody"); ok {
		t.Error("Lookup of unregistered name reported found")
	}
}

func TestLookupIsCaseSensitive(t *testing.T) {
	table := NewTable()
	if err := table.Register("Bank", 4000, "localhost"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	if _, ok := table.Lookup("bank"); ok {
		t.Error("Lookup(bank) found record registered as Bank")
	}
}

func TestRegisterRejectsInvalid(t *testing.T) {
	table := NewTable()
	cases := []struct {
		name string
		port int
		ip   string
	}{
		{"", 4000, "localhost"},
		{"Bank", 0, "localhost"},
		{"Bank", 65536, "localhost"},
		{"Bank", 4000, "999.0.0.1"},
		{"Bank", 4000, "1.2.3"},
		{"Bank", 4000, ""},
	}
	for _, c := range cases {
		if err := table.Register(c.name, c.port, c.ip); err == nil {
			t.Errorf("Register(%q, %d, %q) succeeded, want error", c.name, c.port, c.ip)
		}
	}
	if table.Len() != 0 {
		t.Errorf("Len = %d after only invalid registrations", table.Len())
	}
}

func TestRegisterValidRange(t *testing.T) {
	// Any valid (name, port, ip) must survive a register/lookup round
	// trip with the address reproduced exactly.
	table := NewTable()
	ports := []int{1, 80, 5000, 65535}
	ips := []string{"localhost", "127.0.0.1", "0.0.0.0", "255.255.255.255"}
	for i, port := range ports {
		for j, ip := range ips {
			name := fmt.Sprintf("svc-%d-%d", i, j)
			if err := table.Register(name, port, ip); err != nil {
				t.Fatalf("Register(%s, %d, %s): %v", name, port, ip, err)
			}
			record, ok := table.Lookup(name)
			if !ok || record.IP != ip || record.Port != port {
				t.Errorf("round trip %s: got %+v", name, record)
			}
		}
	}
}
