// Package topology declares the persistent peer database and supernode
// registry contract the Supervisor's service loop drives every cycle.
package topology

import (
	"time"

	"github.com/meshnet-io/meshd/pkg/types"
)

// PeerRecord is one peer's durable state.
type PeerRecord struct {
	Address        types.PeerAddress
	PublicKey      []byte
	LastDirectSend time.Time
	LastReceive    time.Time
	HasDirectPath  bool
}

// Topology is the persistent peer database and supernode registry.
// Implementations must be safe for concurrent use; the Supervisor calls
// it once per service loop iteration from a single goroutine, but the
// Local Control Server's "peers" command may read it concurrently.
type Topology interface {
	// InstallSupernodes replaces the unevictable supernode set, resolving
	// any hostname:port entries via DNS. Called once at startup (step 10)
	// and again on the control plane's "supernodes refresh" command.
	InstallSupernodes(supernodes []SupernodeSpec) error

	// Supernodes returns the addresses of all installed supernodes.
	Supernodes() []types.PeerAddress

	// IsSupernode reports whether addr is one of the installed supernodes.
	IsSupernode(addr types.PeerAddress) bool

	// Touch records or updates a peer's record, inserting it into the LRU
	// cache if new. Supernodes bypass the LRU's eviction policy.
	Touch(rec PeerRecord)

	// Get returns a peer's record and whether it is known.
	Get(addr types.PeerAddress) (PeerRecord, bool)

	// RecordDirectSend updates a peer's LastDirectSend to now.
	RecordDirectSend(addr types.PeerAddress, now time.Time)

	// ActiveDirectPeers returns every peer with an active direct path,
	// for the ping_all case.
	ActiveDirectPeers() []types.PeerAddress

	// NeedingPing returns non-supernode peers whose LastDirectSend is
	// older than peerDirectPingDelay.
	NeedingPing(now time.Time, peerDirectPingDelay time.Duration) []types.PeerAddress

	// NeedingFirewallOpener returns peers that have a known address but no
	// confirmed direct path, and so need a firewall-opener datagram.
	NeedingFirewallOpener(now time.Time) []types.PeerAddress

	// StaleSupernodes returns supernodes that have not received a direct
	// send within peerDirectPingDelay, for the supernode-to-supernode
	// HELLO path.
	StaleSupernodes(now time.Time, peerDirectPingDelay time.Duration) []types.PeerAddress

	// EvictExpired removes peers whose state has aged out, per the
	// implementation's own policy. Supernodes are never evicted.
	EvictExpired(now time.Time) int

	// Close flushes any pending writes and releases the backing store.
	Close() error
}

// SupernodeSpec is one configured supernode, before DNS resolution.
type SupernodeSpec struct {
	// Address is the supernode's expected short address, hex-encoded.
	Address string

	// HostPort is either an IP:port or a hostname:port.
	HostPort string
}
