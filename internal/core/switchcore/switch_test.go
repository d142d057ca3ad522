package switchcore

import (
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshnet-io/meshd/pkg/types"
)

func TestSendHelloRateLimited(t *testing.T) {
	mock := clock.NewMock()
	sw := New(mock, 1.0, 1, time.Second)

	addr := types.PeerAddress{1, 2, 3, 4, 5}

	require.NoError(t, sw.SendHello(addr))
	assert.ErrorIs(t, sw.SendHello(addr), ErrRateLimited)

	mock.Add(2 * time.Second)
	assert.NoError(t, sw.SendHello(addr))
}

func TestNextDelayReflectsPendingRetry(t *testing.T) {
	mock := clock.NewMock()
	sw := New(mock, 1.0, 1, time.Second)
	addr := types.PeerAddress{9, 9, 9, 9, 9}

	assert.Equal(t, defaultNextDelay, sw.NextDelay(mock.Now()))

	require.NoError(t, sw.SendHello(addr))
	require.ErrorIs(t, sw.SendHello(addr), ErrRateLimited)

	delay := sw.NextDelay(mock.Now())
	assert.LessOrEqual(t, delay, time.Second)
	assert.Greater(t, delay, time.Duration(0))
}
