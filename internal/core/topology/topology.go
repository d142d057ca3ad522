package topology

import (
	"sync"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/meshnet-io/meshd/internal/util/logger"
	topologyif "github.com/meshnet-io/meshd/pkg/interfaces/topology"
	"github.com/meshnet-io/meshd/pkg/types"
)

var log = logger.Logger("topology")

// defaultCacheSize bounds how many non-supernode peer records are kept
// hot in memory; peer.db itself has no such bound.
const defaultCacheSize = 4096

// Topology is the file-backed implementation of topologyif.Topology.
type Topology struct {
	store *store

	mu         sync.RWMutex
	cache      *lru.Cache[types.PeerAddress, topologyif.PeerRecord]
	supernodes map[types.PeerAddress]topologyif.PeerRecord

	resolve supernodeResolveFunc

	writes int
}

// New opens (or creates) peer.db under homeDir and replays it into the
// hot-set cache.
func New(homeDir string) (*Topology, error) {
	return newWithCacheSize(homeDir, defaultCacheSize)
}

func newWithCacheSize(homeDir string, cacheSize int) (*Topology, error) {
	s, err := openStore(peerDBPath(homeDir))
	if err != nil {
		return nil, err
	}

	records, err := s.load()
	if err != nil {
		s.close()
		return nil, err
	}

	cache, err := lru.New[types.PeerAddress, topologyif.PeerRecord](cacheSize)
	if err != nil {
		s.close()
		return nil, err
	}
	for addr, rec := range records {
		cache.Add(addr, rec)
	}

	return &Topology{
		store:      s,
		cache:      cache,
		supernodes: make(map[types.PeerAddress]topologyif.PeerRecord),
		resolve:    resolveSupernodeHost,
	}, nil
}

func peerDBPath(homeDir string) string {
	if homeDir == "" {
		homeDir = "."
	}
	return homeDir + "/peer.db"
}

// Touch implements topologyif.Topology.
func (t *Topology) Touch(rec topologyif.PeerRecord) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.supernodes[rec.Address]; ok {
		t.supernodes[rec.Address] = rec
	} else {
		t.cache.Add(rec.Address, rec)
	}

	if err := t.store.append(rec); err != nil {
		log.Warn("failed to persist peer record", "addr", rec.Address, "err", err)
	}
	t.writes++
	if t.writes%1000 == 0 {
		t.compactLocked()
	}
}

// Get implements topologyif.Topology.
func (t *Topology) Get(addr types.PeerAddress) (topologyif.PeerRecord, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	if rec, ok := t.supernodes[addr]; ok {
		return rec, true
	}
	return t.cache.Get(addr)
}

// RecordDirectSend implements topologyif.Topology.
func (t *Topology) RecordDirectSend(addr types.PeerAddress, now time.Time) {
	t.mu.Lock()
	rec, ok := t.supernodes[addr]
	if ok {
		rec.LastDirectSend = now
		rec.HasDirectPath = true
		t.supernodes[addr] = rec
		t.mu.Unlock()
		if err := t.store.append(rec); err != nil {
			log.Warn("failed to persist peer record", "addr", addr, "err", err)
		}
		return
	}
	rec, ok = t.cache.Get(addr)
	if !ok {
		rec = topologyif.PeerRecord{Address: addr}
	}
	rec.LastDirectSend = now
	rec.HasDirectPath = true
	t.cache.Add(addr, rec)
	t.mu.Unlock()

	if err := t.store.append(rec); err != nil {
		log.Warn("failed to persist peer record", "addr", addr, "err", err)
	}
}

// ActiveDirectPeers implements topologyif.Topology.
func (t *Topology) ActiveDirectPeers() []types.PeerAddress {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []types.PeerAddress
	for _, addr := range t.cache.Keys() {
		rec, ok := t.cache.Peek(addr)
		if ok && rec.HasDirectPath {
			out = append(out, addr)
		}
	}
	for addr, rec := range t.supernodes {
		if rec.HasDirectPath {
			out = append(out, addr)
		}
	}
	return out
}

// NeedingPing implements topologyif.Topology.
func (t *Topology) NeedingPing(now time.Time, peerDirectPingDelay time.Duration) []types.PeerAddress {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []types.PeerAddress
	for _, addr := range t.cache.Keys() {
		rec, ok := t.cache.Peek(addr)
		if ok && now.Sub(rec.LastDirectSend) >= peerDirectPingDelay {
			out = append(out, addr)
		}
	}
	return out
}

// NeedingFirewallOpener implements topologyif.Topology.
func (t *Topology) NeedingFirewallOpener(now time.Time) []types.PeerAddress {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []types.PeerAddress
	for _, addr := range t.cache.Keys() {
		rec, ok := t.cache.Peek(addr)
		if ok && !rec.HasDirectPath {
			out = append(out, addr)
		}
	}
	return out
}

// StaleSupernodes implements topologyif.Topology.
func (t *Topology) StaleSupernodes(now time.Time, peerDirectPingDelay time.Duration) []types.PeerAddress {
	t.mu.RLock()
	defer t.mu.RUnlock()

	var out []types.PeerAddress
	for addr, rec := range t.supernodes {
		if now.Sub(rec.LastDirectSend) >= peerDirectPingDelay {
			out = append(out, addr)
		}
	}
	return out
}

// EvictExpired implements topologyif.Topology. Supernodes are never
// evicted regardless of age.
func (t *Topology) EvictExpired(now time.Time) int {
	const maxAge = 24 * time.Hour

	t.mu.Lock()
	defer t.mu.Unlock()

	removed := 0
	for _, addr := range t.cache.Keys() {
		rec, ok := t.cache.Peek(addr)
		if !ok {
			continue
		}
		last := rec.LastReceive
		if last.IsZero() || rec.LastDirectSend.After(last) {
			last = rec.LastDirectSend
		}
		if last.IsZero() || now.Sub(last) > maxAge {
			t.cache.Remove(addr)
			if err := t.store.appendTombstone(addr); err != nil {
				log.Warn("failed to persist tombstone", "addr", addr, "err", err)
			}
			removed++
		}
	}
	if removed > 0 {
		t.compactLocked()
	}
	return removed
}

// compactLocked rewrites peer.db to drop superseded/tombstoned lines.
// Callers must hold t.mu.
func (t *Topology) compactLocked() {
	live := make(map[types.PeerAddress]topologyif.PeerRecord, t.cache.Len()+len(t.supernodes))
	for _, addr := range t.cache.Keys() {
		if rec, ok := t.cache.Peek(addr); ok {
			live[addr] = rec
		}
	}
	for addr, rec := range t.supernodes {
		live[addr] = rec
	}
	if err := t.store.compact(live); err != nil {
		log.Warn("peer.db compaction failed", "err", err)
	}
	t.writes = 0
}

// Close implements topologyif.Topology.
func (t *Topology) Close() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.store.close()
}
