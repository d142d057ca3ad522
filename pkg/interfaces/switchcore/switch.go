// Package switchcore declares the packet switch contract: the component
// that routes packets between peers and tap devices and owns packet
// scheduling.
package switchcore

import (
	"time"

	netconfif "github.com/meshnet-io/meshd/pkg/interfaces/netconf"
	"github.com/meshnet-io/meshd/pkg/types"
)

// Switch routes packets between peers and tap devices and schedules
// outbound work per peer.
type Switch interface {
	// NextDelay returns the minimum of all peers' next retry deadlines,
	// used by the Supervisor's timer-tasks step to size its sleep.
	NextDelay(now time.Time) time.Duration

	// Announce asks the switch to announce multicast membership for the
	// given networks to every relevant peer.
	Announce(networks []types.NetworkID) error

	// SendHello sends a HELLO/keepalive datagram to addr.
	SendHello(addr types.PeerAddress) error

	// SendFirewallOpener sends a small firewall-punching datagram to addr.
	SendFirewallOpener(addr types.PeerAddress) error

	// EnqueueNetConfReply turns a decoded NetConf Bridge reply into an
	// overlay NETWORK_CONFIG_REQUEST response (OK or ERROR, carrying
	// reply.RequestID as the in-re packet id) addressed back to
	// reply.Peer.
	EnqueueNetConfReply(reply netconfif.Reply) error
}
