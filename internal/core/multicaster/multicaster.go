package multicaster

import (
	"fmt"
	"net"
	"sync"

	"github.com/meshnet-io/meshd/internal/util/logger"
	switchif "github.com/meshnet-io/meshd/pkg/interfaces/switchcore"
	"github.com/meshnet-io/meshd/pkg/types"
)

var log = logger.Logger("multicaster")

// Multicaster is the file-backed implementation of
// multicasterif.Multicaster.
type Multicaster struct {
	sw switchif.Switch

	mu         sync.Mutex
	membership map[types.NetworkID]map[string]struct{}
}

// New constructs a Multicaster that forwards announcements through sw.
func New(sw switchif.Switch) *Multicaster {
	return &Multicaster{
		sw:         sw,
		membership: make(map[types.NetworkID]map[string]struct{}),
	}
}

// tapInterfaceName is the naming convention the (out-of-scope) tap
// adapter uses for a network's virtual interface.
func tapInterfaceName(network types.NetworkID) string {
	return fmt.Sprintf("meshd%016x", uint64(network))
}

// Update implements multicasterif.Multicaster.
func (m *Multicaster) Update(network types.NetworkID) (bool, error) {
	ifaceName := tapInterfaceName(network)
	iface, err := net.InterfaceByName(ifaceName)
	if err != nil {
		// No tap for this network yet; nothing joined, not an error.
		return m.setMembership(network, nil), nil
	}

	groups, err := readIGMPGroups(iface.Index)
	if err != nil {
		return false, fmt.Errorf("multicaster: read igmp snapshot: %w", err)
	}

	return m.setMembership(network, groups), nil
}

func (m *Multicaster) setMembership(network types.NetworkID, groups map[string]struct{}) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.membership[network]
	changed := !sameGroups(prev, groups)
	if groups == nil {
		delete(m.membership, network)
	} else {
		m.membership[network] = groups
	}
	if changed {
		log.Debug("multicast membership changed", "network", network, "groups", len(groups))
	}
	return changed
}

func sameGroups(a, b map[string]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}

// Announce implements multicasterif.Multicaster, forwarding to the
// switch as a thin wrapper.
func (m *Multicaster) Announce(networks []types.NetworkID) error {
	return m.sw.Announce(networks)
}
