// Package types defines meshd's base value types.
//
// This is the lowest-level package in the module: it depends on nothing
// else internal, so every other package can import it without creating
// import cycles.
package types

import (
	"encoding/hex"
	"errors"
	"strconv"

	"github.com/mr-tron/base58"
)

// ============================================================================
//                              PeerAddress
// ============================================================================

// PeerAddress is a node's short address, derived from its public identity.
// It is the canonical way peers and supernodes refer to each other in logs,
// topology records, and control-plane output.
type PeerAddress [5]byte

// EmptyPeerAddress is the zero address.
var EmptyPeerAddress PeerAddress

// ErrInvalidPeerAddress is returned when a string cannot be parsed as an address.
var ErrInvalidPeerAddress = errors.New("invalid peer address")

// String returns the canonical lowercase hex form, e.g. "51f9a3c2b1".
func (a PeerAddress) String() string {
	return hex.EncodeToString(a[:])
}

// Base58 returns a base58-rendered form, used for compact display.
func (a PeerAddress) Base58() string {
	if a.IsEmpty() {
		return ""
	}
	return base58.Encode(a[:])
}

// Bytes returns the address as a byte slice.
func (a PeerAddress) Bytes() []byte {
	return a[:]
}

// IsEmpty reports whether the address is the zero value.
func (a PeerAddress) IsEmpty() bool {
	return a == EmptyPeerAddress
}

// Equal compares two addresses.
func (a PeerAddress) Equal(other PeerAddress) bool {
	return a == other
}

// ParsePeerAddress parses the canonical hex form produced by String.
func ParsePeerAddress(s string) (PeerAddress, error) {
	if len(s) != 10 {
		return EmptyPeerAddress, ErrInvalidPeerAddress
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return EmptyPeerAddress, ErrInvalidPeerAddress
	}
	var a PeerAddress
	copy(a[:], b)
	return a, nil
}

// PeerAddressFromBytes builds an address from exactly 5 bytes.
func PeerAddressFromBytes(b []byte) (PeerAddress, error) {
	if len(b) != 5 {
		return EmptyPeerAddress, ErrInvalidPeerAddress
	}
	var a PeerAddress
	copy(a[:], b)
	return a, nil
}

// ============================================================================
//                              NetworkID
// ============================================================================

// NetworkID identifies one virtual network a node may join, carried as the
// 64-bit "nwid" field on the wire and in netconf bridge messages.
type NetworkID uint64

// String renders the network id as 16 lowercase hex digits.
func (n NetworkID) String() string {
	return hex.EncodeToString([]byte{
		byte(n >> 56), byte(n >> 48), byte(n >> 40), byte(n >> 32),
		byte(n >> 24), byte(n >> 16), byte(n >> 8), byte(n),
	})
}

// ParseNetworkID parses a network id written in hex, with or without
// zero-padding (e.g. both "10" and "0000000000000010" parse to the same
// value), matching how the netconf bridge's helper subprocess renders
// "nwid".
func ParseNetworkID(s string) (NetworkID, error) {
	n, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, errors.New("invalid network id: must be hexadecimal")
	}
	return NetworkID(n), nil
}

// ============================================================================
//                              PacketID
// ============================================================================

// PacketID identifies one overlay wire packet, carried as the 64-bit
// "requestId"/"inRePacketId" field the netconf bridge correlates a
// NETWORK_CONFIG_REQUEST with its OK/ERROR reply.
type PacketID uint64

// ParsePacketID parses a packet id written in hex, with or without
// zero-padding (e.g. both "abc" and "0000000000000abc" parse to the
// same value), matching how the netconf bridge's helper subprocess
// renders "requestId"/"inRePacketId".
func ParsePacketID(s string) (PacketID, error) {
	n, err := strconv.ParseUint(s, 16, 64)
	if err != nil {
		return 0, errors.New("invalid packet id: must be hexadecimal")
	}
	return PacketID(n), nil
}

// String renders the packet id as 16 lowercase hex digits.
func (p PacketID) String() string {
	return hex.EncodeToString([]byte{
		byte(p >> 56), byte(p >> 48), byte(p >> 40), byte(p >> 32),
		byte(p >> 24), byte(p >> 16), byte(p >> 8), byte(p),
	})
}

// ============================================================================
//                              ConversationId
// ============================================================================

// ConversationId correlates a control-plane request with its response
// packets. It is always non-zero once in use.
type ConversationId uint32

// IsValid reports whether the id is non-zero.
func (c ConversationId) IsValid() bool {
	return c != 0
}

// ============================================================================
//                              NetworkConfigurationFingerprint
// ============================================================================

// NetworkConfigurationFingerprint summarizes the host's network interfaces
// and routing state. Inequality between two samples implies "something
// changed, resync" — equality is not a guarantee that nothing changed.
type NetworkConfigurationFingerprint uint64
