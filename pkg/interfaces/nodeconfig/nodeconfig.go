// Package nodeconfig defines the contract for the node-config facade:
// the per-network transient state and tap-adjacent operations the
// service loop drives every cycle. The tap adapter itself is out of
// scope; this facade only tracks the bookkeeping the Supervisor needs
// to re-kick it and clean it up.
package nodeconfig

import "github.com/meshnet-io/meshd/pkg/types"

// NodeConfig is the node-config facade's contract.
type NodeConfig interface {
	// WhackAllTaps re-kicks every attached network's tap state, called
	// after a network-environment fingerprint change.
	WhackAllTaps() error

	// CleanNetwork clears one network's transient state, called by the
	// housekeeping step alongside topology's EvictExpired.
	CleanNetwork(network types.NetworkID) error
}
