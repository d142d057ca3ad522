// Package netconf defines the contract between the Supervisor and the
// NetConf Bridge, keeping callers decoupled from the helper subprocess's
// line protocol in internal/core/netconf.
package netconf

import "github.com/meshnet-io/meshd/pkg/types"

// ReplyKind distinguishes a successful config blob from an error code.
type ReplyKind int

const (
	// ReplyOK carries a network configuration blob.
	ReplyOK ReplyKind = iota
	// ReplyError carries a symbolic error code.
	ReplyError
)

// ErrorCode is the overlay error this reply maps to.
type ErrorCode int

const (
	// ErrorInvalidRequest is the default mapping for any helper error
	// code other than NOT_FOUND.
	ErrorInvalidRequest ErrorCode = iota
	// ErrorNotFound maps the helper's "NOT_FOUND" code.
	ErrorNotFound
)

// Reply is one decoded netconf-response message, ready to become either
// an overlay OK or ERROR NETWORK_CONFIG_REQUEST reply.
type Reply struct {
	Kind      ReplyKind
	RequestID types.PacketID
	Network   types.NetworkID
	Peer      types.PeerAddress
	Blob      []byte
	Error     ErrorCode
}

// ReplyHandler is invoked once per well-formed reply decoded from the
// helper's stdout.
type ReplyHandler func(Reply)

// Bridge relays network-configuration requests to the helper subprocess
// and decodes its replies.
type Bridge interface {
	// Start launches the helper subprocess and begins reading its
	// stdout in a background goroutine. A no-op, returning nil, if no
	// helper path is configured.
	Start() error

	// Request writes one netconf-request line to the helper's stdin.
	Request(requestID types.PacketID, network types.NetworkID, peer types.PeerAddress) error

	// Stop terminates the helper subprocess and waits for the reader
	// goroutine to exit.
	Stop() error
}
