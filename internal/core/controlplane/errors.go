package controlplane

import "errors"

var (
	// ErrBadMagic means a datagram's first four bytes were not "MCP1".
	ErrBadMagic = errors.New("controlplane: bad magic")

	// ErrBadHMAC means a datagram's HMAC did not match the locally
	// derived control key.
	ErrBadHMAC = errors.New("controlplane: hmac mismatch")

	// ErrTooShort means a datagram was smaller than the fixed header.
	ErrTooShort = errors.New("controlplane: packet too short")

	// ErrTooLarge means a payload would exceed MaxPacketSize.
	ErrTooLarge = errors.New("controlplane: payload too large")

	// ErrZeroConversationID means an encode was attempted with a zero
	// conversation id, which the wire format forbids.
	ErrZeroConversationID = errors.New("controlplane: zero conversation id")

	// ErrNoPort means the client exhausted its bind-retry budget.
	ErrNoPort = errors.New("controlplane: no local port available")
)
