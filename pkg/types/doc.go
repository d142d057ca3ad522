// Package types defines meshd's shared value types: PeerAddress, NetworkID,
// ConversationId, TerminationReason, and KeyType. It has no internal
// dependencies so every other package can import it freely.
package types
