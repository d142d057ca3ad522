package supervisor

import (
	"sync"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshnet-io/meshd/internal/core/envwatch"
	netconfif "github.com/meshnet-io/meshd/pkg/interfaces/netconf"
	topologyif "github.com/meshnet-io/meshd/pkg/interfaces/topology"
	"github.com/meshnet-io/meshd/pkg/types"
)

// fakeIdentity is the minimal identityif.Identity double this package's
// tests need.
type fakeIdentity struct{ addr types.PeerAddress }

func (f fakeIdentity) Address() types.PeerAddress    { return f.addr }
func (f fakeIdentity) KeyType() types.KeyType        { return types.KeyTypeHybrid }
func (f fakeIdentity) PublicBytes() []byte           { return nil }
func (f fakeIdentity) SecretBytes() []byte           { return nil }
func (f fakeIdentity) Sign(data []byte) []byte       { return nil }
func (f fakeIdentity) Verify(data, sig []byte) bool  { return true }
func (f fakeIdentity) Agree(pub []byte) ([]byte, error) { return nil, nil }

// fakeTopology records calls instead of maintaining real peer state.
type fakeTopology struct {
	mu             sync.Mutex
	supernodes     map[types.PeerAddress]bool
	activeDirect   []types.PeerAddress
	needingPing    []types.PeerAddress
	needingOpener  []types.PeerAddress
	staleSupernode []types.PeerAddress
	sent           []types.PeerAddress
	evictedCount   int
}

func newFakeTopology() *fakeTopology {
	return &fakeTopology{supernodes: make(map[types.PeerAddress]bool)}
}

func (f *fakeTopology) InstallSupernodes([]topologyif.SupernodeSpec) error { return nil }
func (f *fakeTopology) Supernodes() []types.PeerAddress                   { return nil }
func (f *fakeTopology) Get(types.PeerAddress) (topologyif.PeerRecord, bool) {
	return topologyif.PeerRecord{}, false
}

func (f *fakeTopology) IsSupernode(addr types.PeerAddress) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.supernodes[addr]
}
func (f *fakeTopology) Touch(topologyif.PeerRecord) {}
func (f *fakeTopology) RecordDirectSend(addr types.PeerAddress, now time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, addr)
}
func (f *fakeTopology) ActiveDirectPeers() []types.PeerAddress { return f.activeDirect }
func (f *fakeTopology) NeedingPing(time.Time, time.Duration) []types.PeerAddress {
	return f.needingPing
}
func (f *fakeTopology) NeedingFirewallOpener(time.Time) []types.PeerAddress {
	return f.needingOpener
}
func (f *fakeTopology) StaleSupernodes(time.Time, time.Duration) []types.PeerAddress {
	return f.staleSupernode
}
func (f *fakeTopology) EvictExpired(time.Time) int { return f.evictedCount }
func (f *fakeTopology) Close() error                { return nil }

// fakeSwitch always succeeds.
type fakeSwitch struct {
	mu           sync.Mutex
	hellosSent   []types.PeerAddress
	openersSent  []types.PeerAddress
	announced    [][]types.NetworkID
	nextDelay    time.Duration
}

func (f *fakeSwitch) NextDelay(time.Time) time.Duration { return f.nextDelay }
func (f *fakeSwitch) Announce(networks []types.NetworkID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.announced = append(f.announced, networks)
	return nil
}
func (f *fakeSwitch) SendHello(addr types.PeerAddress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.hellosSent = append(f.hellosSent, addr)
	return nil
}
func (f *fakeSwitch) SendFirewallOpener(addr types.PeerAddress) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.openersSent = append(f.openersSent, addr)
	return nil
}
func (f *fakeSwitch) EnqueueNetConfReply(netconfif.Reply) error { return nil }

type fakeMulticaster struct {
	changed map[types.NetworkID]bool
}

func (f *fakeMulticaster) Update(nw types.NetworkID) (bool, error) { return f.changed[nw], nil }
func (f *fakeMulticaster) Announce([]types.NetworkID) error        { return nil }

type fakeNodeConfig struct {
	mu         sync.Mutex
	whackCount int
	cleaned    []types.NetworkID
}

func (f *fakeNodeConfig) WhackAllTaps() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.whackCount++
	return nil
}
func (f *fakeNodeConfig) CleanNetwork(nw types.NetworkID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleaned = append(f.cleaned, nw)
	return nil
}

func newTestSupervisor(t *testing.T, clk clock.Clock) (*Supervisor, *fakeTopology, *fakeSwitch, *fakeNodeConfig) {
	t.Helper()
	topo := newFakeTopology()
	sw := &fakeSwitch{nextDelay: time.Second}
	mc := &fakeMulticaster{changed: map[types.NetworkID]bool{}}
	nc := &fakeNodeConfig{}

	s := New(Config{
		MinServiceLoopInterval:     time.Second,
		PingPeriod:                 time.Hour,
		MulticastPeriod:            time.Hour,
		DBCleanPeriod:              time.Hour,
		MulticastAnnounceAllPeriod: time.Hour,
		PeerDirectPingDelay:        time.Minute,
		SleepWakeThreshold:         10 * time.Second,
		SleepSettleInterval:        time.Second,
		FingerprintCheckInterval:   time.Hour,
		Networks:                   []types.NetworkID{0x0102030405060708},
	}, Deps{
		Identity:   fakeIdentity{addr: types.PeerAddress{1, 2, 3, 4, 5}},
		Topology:   topo,
		Switch:     sw,
		Multicast:  mc,
		NodeConfig: nc,
		Memory:     envwatch.NewMemoryMonitor(clk, 0),
		Clock:      clk,
	})
	return s, topo, sw, nc
}

func TestRunTwiceRejectsSecondCall(t *testing.T) {
	clk := clock.New()
	s, _, _, _ := newTestSupervisor(t, clk)

	go s.Terminate()
	reason := s.Run()
	assert.Equal(t, types.ReasonNormal, reason)

	assert.Equal(t, types.ReasonUnrecoverableError, s.Run())
}

func TestTerminateBeforeRunStillQuiesces(t *testing.T) {
	clk := clock.New()
	s, _, _, _ := newTestSupervisor(t, clk)

	s.Terminate()
	reason := s.Run()
	assert.Equal(t, types.ReasonNormal, reason)

	msg, ok := s.ReasonForTermination()
	require.True(t, ok)
	assert.NotEmpty(t, msg)
}

func TestReasonForTerminationBlankWhileRunning(t *testing.T) {
	clk := clock.New()
	s, _, _, _ := newTestSupervisor(t, clk)

	_, ok := s.ReasonForTermination()
	assert.False(t, ok)

	s.Terminate()
	_ = s.Run()

	_, ok = s.ReasonForTermination()
	assert.True(t, ok)
}

func TestCheckFingerprintSkipsUntilIntervalElapses(t *testing.T) {
	mock := clock.NewMock()
	s, _, _, nc := newTestSupervisor(t, mock)

	s.lastFingerprintAt = mock.Now()
	s.checkFingerprint(mock.Now())
	assert.Equal(t, 0, nc.whackCount, "interval has not elapsed, nothing should fire yet")
}

func TestCheckFingerprintChangeForcesResyncAndWhack(t *testing.T) {
	mock := clock.NewMock()
	s, _, _, nc := newTestSupervisor(t, mock)

	s.lastFingerprint ^= 1 // guaranteed to disagree with the live sample
	s.lastFullAnnounceAt = mock.Now()
	s.lastMulticastAt = mock.Now()
	s.lastFingerprintAt = time.Time{} // due immediately

	s.checkFingerprint(mock.Now())

	assert.Equal(t, 1, nc.whackCount)
	assert.True(t, s.pingAll)
	assert.True(t, s.lastMulticastAt.IsZero(), "multicast timer must be zeroed to force an immediate recheck")
}

func TestCheckMulticastAnnouncesChangedNetworks(t *testing.T) {
	mock := clock.NewMock()
	s, _, sw, _ := newTestSupervisor(t, mock)

	nw := types.NetworkID(0x0102030405060708)
	s.deps.Multicast.(*fakeMulticaster).changed[nw] = true

	s.checkMulticast(mock.Now())

	require.Len(t, sw.announced, 1)
	assert.Equal(t, []types.NetworkID{nw}, sw.announced[0])
}

func TestCheckMulticastFullAnnounceResetsTimerOnlyWhenSent(t *testing.T) {
	mock := clock.NewMock()
	s, _, sw, _ := newTestSupervisor(t, mock)
	s.cfg.MulticastAnnounceAllPeriod = 0 // always due

	s.checkMulticast(mock.Now())

	require.Len(t, sw.announced, 1)
	assert.Equal(t, s.cfg.Networks, sw.announced[0])
	assert.Equal(t, mock.Now(), s.lastFullAnnounceAt)
}

func TestCheckPingSupernodeOnlyPingsStaleSupernodes(t *testing.T) {
	mock := clock.NewMock()
	s, topo, sw, _ := newTestSupervisor(t, mock)

	self := types.PeerAddress{1, 2, 3, 4, 5}
	topo.supernodes[self] = true
	other := types.PeerAddress{9, 9, 9, 9, 9}
	topo.staleSupernode = []types.PeerAddress{other}
	s.isSupernode = true

	s.checkPing(mock.Now())

	assert.Equal(t, []types.PeerAddress{other}, sw.hellosSent)
	assert.Empty(t, sw.openersSent, "supernodes never emit firewall openers")
}

func TestCheckPingAllOnResyncPingsEveryActivePeer(t *testing.T) {
	mock := clock.NewMock()
	s, _, sw, _ := newTestSupervisor(t, mock)

	a := types.PeerAddress{1, 1, 1, 1, 1}
	b := types.PeerAddress{2, 2, 2, 2, 2}
	s.deps.Topology.(*fakeTopology).activeDirect = []types.PeerAddress{a, b}
	s.pingAll = true

	s.checkPing(mock.Now())

	assert.ElementsMatch(t, []types.PeerAddress{a, b}, sw.hellosSent)
	assert.False(t, s.pingAll, "ping_all must be consumed after one pass")
}

func TestCheckPingDueAndOpenerPeers(t *testing.T) {
	mock := clock.NewMock()
	s, topo, sw, _ := newTestSupervisor(t, mock)

	due := types.PeerAddress{3, 3, 3, 3, 3}
	opener := types.PeerAddress{4, 4, 4, 4, 4}
	topo.needingPing = []types.PeerAddress{due}
	topo.needingOpener = []types.PeerAddress{opener}

	s.checkPing(mock.Now())

	assert.Equal(t, []types.PeerAddress{due}, sw.hellosSent)
	assert.Equal(t, []types.PeerAddress{opener}, sw.openersSent)
}

func TestCheckHousekeepingCleansEachNetwork(t *testing.T) {
	mock := clock.NewMock()
	s, topo, _, nc := newTestSupervisor(t, mock)
	topo.evictedCount = 3

	s.checkHousekeeping(mock.Now())

	assert.Equal(t, s.cfg.Networks, nc.cleaned)
}

func TestSleepInterruptibleWakesOnTerminate(t *testing.T) {
	clk := clock.New()
	s, _, _, _ := newTestSupervisor(t, clk)

	done := make(chan bool, 1)
	go func() {
		done <- s.sleepInterruptible(time.Hour)
	}()

	time.Sleep(10 * time.Millisecond)
	s.Terminate()

	select {
	case stopped := <-done:
		assert.True(t, stopped)
	case <-time.After(time.Second):
		t.Fatal("sleepInterruptible did not wake on Terminate")
	}
}
