// Copyright 2026 The Storefront Authors
// SPDX-License-Identifier: Apache-2.0

package wire

import (
	"fmt"
	"strconv"
	"strings"
)

// Protocol keywords and reply tokens. These are exact byte strings on
// the wire.
const (
	// KeywordRegister opens a registration request to the registry.
	KeywordRegister = "REG"

	// KeywordLookup opens a lookup request to the registry.
	KeywordLookup = "LOOKUP"

	// RegistrationSuccess is the registry's reply to a valid
	// registration. Invalid registrations receive no reply at all.
	RegistrationSuccess = "REGISTRATION_SUCCESS"

	// LookupErrorSentinel is the registry's reply, verbatim, to a
	// lookup for a name that was never registered.
	LookupErrorSentinel = "Error: Process has not registered with the Name Server"

	// ListRequest asks the store for its catalog listing.
	ListRequest = "LIST"

	// ListStart and ListEnd bracket the catalog listing reply.
	ListStart = "LIST_START"
	ListEnd   = "LIST_END"

	// KeywordBuy opens a purchase request to the store.
	KeywordBuy = "BUY"

	// KeywordContent opens a content fetch request to the repository.
	KeywordContent = "REQ"

	// ChargeApproved and ChargeDenied are the validator's replies to a
	// charge authorization request.
	ChargeApproved = "1"
	ChargeDenied   = "0"

	// TransactionAborted is the abort token sent to the client,
	// including the quotes, prefixed with the item id.
	TransactionAborted = `"transaction aborted"`
)

// Canonical service names used for registration and lookup. Names are
// case-sensitive on the wire.
const (
	ServiceRegistry = "NameServer"
	ServiceStore    = "Store"
	ServiceBank     = "Bank"
	ServiceContent  = "Content"
)

// separator joins tokens within a message line.
const separator = " "

// ipv4Octets is the number of dot-separated parts in a dotted-quad
// address.
const ipv4Octets = 4

// ValidPort reports whether port lies in the valid TCP range 1-65535.
func ValidPort(port int) bool {
	return port >= 1 && port <= 65535
}

// ParsePort converts a decimal string to a port number, rejecting
// values outside 1-65535.
func ParsePort(s string) (int, error) {
	port, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid port %q: %w", s, err)
	}
	if !ValidPort(port) {
		return 0, fmt.Errorf("port %d out of range 1-65535", port)
	}
	return port, nil
}

// ValidAddress reports whether s is an acceptable peer address: the
// literal "localhost" (compared case-insensitively) or a dotted quad
// with each octet in 0-255.
func ValidAddress(s string) bool {
	if strings.EqualFold(s, "localhost") {
		return true
	}
	if s == "" {
		return false
	}
	parts := strings.Split(s, ".")
	if len(parts) != ipv4Octets {
		return false
	}
	for _, part := range parts {
		octet, err := strconv.Atoi(part)
		if err != nil {
			return false
		}
		if octet < 0 || octet > 255 {
			return false
		}
	}
	return true
}

// ValidName reports whether s is usable as a registry name: non-empty
// and free of the token separator.
func ValidName(s string) bool {
	return s != "" && !strings.Contains(s, separator)
}

// RegisterRequest is a REG message.
type RegisterRequest struct {
	Name string
	Port int
	IP   string
}

// Encode renders the request as a wire line (without the newline).
func (r RegisterRequest) Encode() string {
	return KeywordRegister + separator + r.Name + separator +
		strconv.Itoa(r.Port) + separator + r.IP
}

// Validate applies the registry's admission rules: valid port, valid
// address, non-empty name.
func (r RegisterRequest) Validate() error {
	if !ValidName(r.Name) {
		return fmt.Errorf("invalid service name %q", r.Name)
	}
	if !ValidPort(r.Port) {
		return fmt.Errorf("port %d out of range 1-65535", r.Port)
	}
	if !ValidAddress(r.IP) {
		return fmt.Errorf("invalid address %q", r.IP)
	}
	return nil
}

// ParseRegister parses a REG line. The port is range-checked but the
// name and address are not — admission validation is the registry's
// decision, made via Validate.
func ParseRegister(line string) (RegisterRequest, error) {
	parts := strings.Split(line, separator)
	if len(parts) != 4 || parts[0] != KeywordRegister {
		return RegisterRequest{}, fmt.Errorf("not a registration message: %q", line)
	}
	port, err := strconv.Atoi(parts[2])
	if err != nil {
		return RegisterRequest{}, fmt.Errorf("registration port %q: %w", parts[2], err)
	}
	return RegisterRequest{Name: parts[1], Port: port, IP: parts[3]}, nil
}

// LookupRequest is a LOOKUP message.
type LookupRequest struct {
	Name string
}

// Encode renders the request as a wire line.
func (r LookupRequest) Encode() string {
	return KeywordLookup + separator + r.Name
}

// ParseLookup parses a LOOKUP line.
func ParseLookup(line string) (LookupRequest, error) {
	parts := strings.Split(line, separator)
	if len(parts) != 2 || parts[0] != KeywordLookup {
		return LookupRequest{}, fmt.Errorf("not a lookup message: %q", line)
	}
	return LookupRequest{Name: parts[1]}, nil
}

// FormatLookupReply renders a successful lookup reply: "<ip> <port>".
func FormatLookupReply(ip string, port int) string {
	return ip + separator + strconv.Itoa(port)
}

// ParseLookupReply parses a lookup reply line into an address. The
// caller must check for LookupErrorSentinel before calling.
func ParseLookupReply(line string) (ip string, port int, err error) {
	parts := strings.Split(line, separator)
	if len(parts) != 2 {
		return "", 0, fmt.Errorf("malformed lookup reply: %q", line)
	}
	port, err = strconv.Atoi(parts[1])
	if err != nil {
		return "", 0, fmt.Errorf("lookup reply port %q: %w", parts[1], err)
	}
	return parts[0], port, nil
}

// BuyRequest is a BUY message from the client to the store. The raw
// item id token is preserved so that an abort reply can echo whatever
// the client sent, parseable or not.
type BuyRequest struct {
	Card   int64
	ItemID int64
}

// Encode renders the request as a wire line.
func (r BuyRequest) Encode() string {
	return KeywordBuy + separator + strconv.FormatInt(r.Card, 10) +
		separator + strconv.FormatInt(r.ItemID, 10)
}

// ParseBuy parses a BUY line.
func ParseBuy(line string) (BuyRequest, error) {
	parts := strings.Split(line, separator)
	if len(parts) != 3 || parts[0] != KeywordBuy {
		return BuyRequest{}, fmt.Errorf("not a buy message: %q", line)
	}
	card, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return BuyRequest{}, fmt.Errorf("buy credit card %q: %w", parts[1], err)
	}
	itemID, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return BuyRequest{}, fmt.Errorf("buy item id %q: %w", parts[2], err)
	}
	return BuyRequest{Card: card, ItemID: itemID}, nil
}

// ChargeRequest is the charge authorization message from the store to
// the validator: "<itemId> <price> <creditCard>".
type ChargeRequest struct {
	ItemID int64
	Price  float64
	Card   int64
}

// Encode renders the request as a wire line.
func (r ChargeRequest) Encode() string {
	return strconv.FormatInt(r.ItemID, 10) + separator +
		FormatPrice(r.Price) + separator + strconv.FormatInt(r.Card, 10)
}

// ParseCharge parses a charge authorization line.
func ParseCharge(line string) (ChargeRequest, error) {
	parts := strings.Split(line, separator)
	if len(parts) != 3 {
		return ChargeRequest{}, fmt.Errorf("not a charge message: %q", line)
	}
	itemID, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return ChargeRequest{}, fmt.Errorf("charge item id %q: %w", parts[0], err)
	}
	price, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return ChargeRequest{}, fmt.Errorf("charge price %q: %w", parts[1], err)
	}
	card, err := strconv.ParseInt(parts[2], 10, 64)
	if err != nil {
		return ChargeRequest{}, fmt.Errorf("charge credit card %q: %w", parts[2], err)
	}
	return ChargeRequest{ItemID: itemID, Price: price, Card: card}, nil
}

// ContentRequest is a REQ message from the store to the repository.
type ContentRequest struct {
	ItemID int64
}

// Encode renders the request as a wire line.
func (r ContentRequest) Encode() string {
	return KeywordContent + separator + strconv.FormatInt(r.ItemID, 10)
}

// ParseContentRequest parses a REQ line.
func ParseContentRequest(line string) (ContentRequest, error) {
	parts := strings.Split(line, separator)
	if len(parts) != 2 || parts[0] != KeywordContent {
		return ContentRequest{}, fmt.Errorf("not a content request: %q", line)
	}
	itemID, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return ContentRequest{}, fmt.Errorf("content item id %q: %w", parts[1], err)
	}
	return ContentRequest{ItemID: itemID}, nil
}

// FormatAbort renders the purchase abort reply sent to the client:
// the item id followed by the quoted abort token.
func FormatAbort(itemID int64) string {
	return strconv.FormatInt(itemID, 10) + separator + TransactionAborted
}

// FormatPrice renders a price using the minimal decimal representation
// with at least one fractional digit, so an integral price reads
// "20.0" rather than "20". This matches the listing format peers
// already parse.
func FormatPrice(price float64) string {
	s := strconv.FormatFloat(price, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}

// FormatListEntry renders one catalog line of a listing reply.
func FormatListEntry(itemID int64, price float64) string {
	return strconv.FormatInt(itemID, 10) + separator + FormatPrice(price)
}

// ParseListEntry parses one catalog line of a listing reply. The price
// is returned as its wire string so callers that only display it do
// not reformat the value.
func ParseListEntry(line string) (itemID int64, price string, err error) {
	parts := strings.Split(line, separator)
	if len(parts) != 2 {
		return 0, "", fmt.Errorf("malformed list entry: %q", line)
	}
	itemID, err = strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return 0, "", fmt.Errorf("list entry item id %q: %w", parts[0], err)
	}
	if _, err := strconv.ParseFloat(parts[1], 64); err != nil {
		return 0, "", fmt.Errorf("list entry price %q: %w", parts[1], err)
	}
	return itemID, parts[1], nil
}
