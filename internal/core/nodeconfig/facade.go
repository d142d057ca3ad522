package nodeconfig

import (
	"sync"
	"time"

	"github.com/meshnet-io/meshd/internal/util/logger"
	nodeconfigif "github.com/meshnet-io/meshd/pkg/interfaces/nodeconfig"
	"github.com/meshnet-io/meshd/pkg/types"
)

var log = logger.Logger("nodeconfig")

// Facade is the in-memory implementation of nodeconfigif.NodeConfig.
type Facade struct {
	mu           sync.Mutex
	lastWhackAll time.Time
	lastClean    map[types.NetworkID]time.Time
	whackCount   int
	cleanCount   int
}

// New constructs an empty Facade.
func New() *Facade {
	return &Facade{lastClean: make(map[types.NetworkID]time.Time)}
}

// WhackAllTaps implements nodeconfigif.NodeConfig.
func (f *Facade) WhackAllTaps() error {
	f.mu.Lock()
	f.lastWhackAll = time.Now()
	f.whackCount++
	f.mu.Unlock()

	log.Info("whacking all taps after network-environment change")
	return nil
}

// CleanNetwork implements nodeconfigif.NodeConfig.
func (f *Facade) CleanNetwork(network types.NetworkID) error {
	f.mu.Lock()
	f.lastClean[network] = time.Now()
	f.cleanCount++
	f.mu.Unlock()

	log.Debug("cleaned network transient state", "network", network)
	return nil
}

// LastWhackAll reports when WhackAllTaps was last called.
func (f *Facade) LastWhackAll() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.lastWhackAll
}

var _ nodeconfigif.NodeConfig = (*Facade)(nil)
