package multicaster

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	netconfif "github.com/meshnet-io/meshd/pkg/interfaces/netconf"
	switchif "github.com/meshnet-io/meshd/pkg/interfaces/switchcore"
	"github.com/meshnet-io/meshd/pkg/types"
)

func TestParseIGMPHexAddr(t *testing.T) {
	// 224.0.0.1 stored little-endian is "010000E0".
	assert.Equal(t, "224.0.0.1", parseIGMPHexAddr("010000E0"))
	assert.Equal(t, "", parseIGMPHexAddr("bad"))
}

func TestSameGroups(t *testing.T) {
	a := map[string]struct{}{"224.0.0.1": {}}
	b := map[string]struct{}{"224.0.0.1": {}}
	c := map[string]struct{}{"224.0.0.2": {}}

	assert.True(t, sameGroups(a, b))
	assert.False(t, sameGroups(a, c))
	assert.False(t, sameGroups(a, nil))
}

type forwardingSwitch struct {
	announced [][]types.NetworkID
	err       error
}

var _ switchif.Switch = (*forwardingSwitch)(nil)

func (f *forwardingSwitch) NextDelay(time.Time) time.Duration { return 0 }

func (f *forwardingSwitch) Announce(networks []types.NetworkID) error {
	f.announced = append(f.announced, networks)
	return f.err
}

func (f *forwardingSwitch) SendHello(types.PeerAddress) error          { return nil }
func (f *forwardingSwitch) SendFirewallOpener(types.PeerAddress) error { return nil }
func (f *forwardingSwitch) EnqueueNetConfReply(netconfif.Reply) error  { return nil }

func TestAnnounceForwardsToSwitch(t *testing.T) {
	sw := &forwardingSwitch{}
	m := New(sw)

	err := m.Announce([]types.NetworkID{1, 2})
	assert.NoError(t, err)
	assert.Equal(t, [][]types.NetworkID{{1, 2}}, sw.announced)

	sw.err = errors.New("boom")
	assert.ErrorIs(t, m.Announce(nil), sw.err)
}
