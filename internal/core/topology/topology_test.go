package topology

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	topologyif "github.com/meshnet-io/meshd/pkg/interfaces/topology"
	"github.com/meshnet-io/meshd/pkg/types"
)

func mustAddr(t *testing.T, hex string) types.PeerAddress {
	t.Helper()
	a, err := types.ParsePeerAddress(hex)
	require.NoError(t, err)
	return a
}

func TestTouchAndGet(t *testing.T) {
	dir := t.TempDir()
	top, err := newWithCacheSize(dir, 16)
	require.NoError(t, err)
	defer top.Close()

	addr := mustAddr(t, "00112233ff")
	top.Touch(topologyif.PeerRecord{Address: addr, HasDirectPath: true})

	got, ok := top.Get(addr)
	require.True(t, ok)
	assert.True(t, got.HasDirectPath)
}

func TestReopenReplaysPeerDB(t *testing.T) {
	dir := t.TempDir()
	addr := mustAddr(t, "aabbccddee")

	top, err := newWithCacheSize(dir, 16)
	require.NoError(t, err)
	top.Touch(topologyif.PeerRecord{Address: addr, HasDirectPath: true})
	require.NoError(t, top.Close())

	reopened, err := newWithCacheSize(dir, 16)
	require.NoError(t, err)
	defer reopened.Close()

	got, ok := reopened.Get(addr)
	require.True(t, ok)
	assert.True(t, got.HasDirectPath)
}

func TestNeedingPingExcludesRecentlySent(t *testing.T) {
	dir := t.TempDir()
	top, err := newWithCacheSize(dir, 16)
	require.NoError(t, err)
	defer top.Close()

	now := time.Now()
	fresh := mustAddr(t, "0000000001")
	stale := mustAddr(t, "0000000002")

	top.RecordDirectSend(fresh, now)
	top.RecordDirectSend(stale, now.Add(-time.Hour))

	due := top.NeedingPing(now, 10*time.Minute)
	assert.Contains(t, due, stale)
	assert.NotContains(t, due, fresh)
}

func TestSupernodesAreUnevictable(t *testing.T) {
	dir := t.TempDir()
	top, err := newWithCacheSize(dir, 16)
	require.NoError(t, err)
	defer top.Close()

	top.resolve = func(string) (string, error) { return "127.0.0.1:9993", nil }
	err = top.InstallSupernodes([]topologyif.SupernodeSpec{{Address: "1122334455", HostPort: "127.0.0.1:9993"}})
	require.NoError(t, err)

	addr := mustAddr(t, "1122334455")
	assert.True(t, top.IsSupernode(addr))

	top.EvictExpired(time.Now().Add(100 * 24 * time.Hour))
	assert.True(t, top.IsSupernode(addr), "supernode must survive eviction")
}
