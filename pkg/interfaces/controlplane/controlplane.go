// Package controlplane defines the contracts for the loopback-only
// authenticated request/response channel between the node and its
// companion CLI, keeping callers decoupled from the wire codec and
// transport details in internal/core/controlplane.
package controlplane

import "github.com/meshnet-io/meshd/pkg/types"

// CommandHandler executes one decoded command synchronously against the
// node-config facade and returns the result lines to send back, one
// packet (or fragment set) per line.
type CommandHandler func(command string) []string

// ResultHandler is invoked once per decoded response line, from the
// client's receiver goroutine.
type ResultHandler func(conversationID types.ConversationId, line string)

// Server is the Local Control Server's contract: bind, serve, and stop.
type Server interface {
	// Start binds the loopback socket and begins serving in a background
	// goroutine.
	Start() error

	// Stop closes the socket and waits for the receiver goroutine to
	// exit.
	Stop() error
}

// Client is the Local Control Client's contract.
type Client interface {
	// Send encodes command into one or more authenticated packets sent
	// to the server, returning the conversation id used, or 0 on
	// encode/send failure.
	Send(command string) types.ConversationId

	// Close drains and closes the client's socket.
	Close() error
}
