// Package multicaster declares the local multicast group membership
// tracker contract.
package multicaster

import "github.com/meshnet-io/meshd/pkg/types"

// Multicaster tracks per-network local multicast group membership and
// forwards announcements through the switch.
type Multicaster interface {
	// Update recomputes network's local multicast group membership and
	// reports whether it changed since the last call.
	Update(network types.NetworkID) (changed bool, err error)

	// Announce asks the multicaster to announce membership for networks.
	Announce(networks []types.NetworkID) error
}
