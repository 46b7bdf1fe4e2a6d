// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

package catalog

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// PriceEntry is one stock item: an id and its price.
type PriceEntry struct {
	ItemID int64
	Price  float64
}

// PriceList is the store's static stock catalog, queried by exact
// item id.
type PriceList struct {
	prices map[int64]float64
	order  []int64
}

// LoadPrices reads a stock file. Each line must be exactly
// "<itemId> <price>".
func LoadPrices(path string) (*PriceList, error) {
	list := &PriceList{prices: make(map[int64]float64)}
	err := eachRecord(path, func(itemID int64, value string) error {
		price, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("price %q: %w", value, err)
		}
		if _, exists := list.prices[itemID]; !exists {
			list.order = append(list.order, itemID)
		}
		list.prices[itemID] = price
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(list.order, func(i, j int) bool { return list.order[i] < list.order[j] })
	return list, nil
}

// Price returns the price for an item id.
func (p *PriceList) Price(itemID int64) (float64, bool) {
	price, ok := p.prices[itemID]
	return price, ok
}

// Entries returns all entries in ascending item-id order.
func (p *PriceList) Entries() []PriceEntry {
	entries := make([]PriceEntry, 0, len(p.order))
	for _, itemID := range p.order {
		entries = append(entries, PriceEntry{ItemID: itemID, Price: p.prices[itemID]})
	}
	return entries
}

// Len returns the catalog size.
func (p *PriceList) Len() int { return len(p.order) }

// ContentSet is the repository's static item-id→content table.
type ContentSet struct {
	contents map[int64]string
}

// LoadContent reads a content file. Each line must be exactly
// "<itemId> <content>" where content is a single token.
func LoadContent(path string) (*ContentSet, error) {
	set := &ContentSet{contents: make(map[int64]string)}
	err := eachRecord(path, func(itemID int64, value string) error {
		set.contents[itemID] = value
		return nil
	})
	if err != nil {
		return nil, err
	}
	return set, nil
}

// Content returns the content registered for an item id.
func (c *ContentSet) Content(itemID int64) (string, bool) {
	content, ok := c.contents[itemID]
	return content, ok
}

// eachRecord parses a two-token-per-line data file, invoking record
// for every line. Blank trailing lines are tolerated; anything else
// malformed is an error carrying the path and line number.
func eachRecord(path string, record func(itemID int64, value string) error) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening data file: %w", err)
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			continue
		}
		parts := strings.Split(line, " ")
		if len(parts) != 2 {
			return fmt.Errorf("%s:%d: malformed record %q", path, lineNumber, line)
		}
		itemID, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return fmt.Errorf("%s:%d: item id %q: %w", path, lineNumber, parts[0], err)
		}
		if err := record(itemID, parts[1]); err != nil {
			return fmt.Errorf("%s:%d: %w", path, lineNumber, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}
	return nil
}
