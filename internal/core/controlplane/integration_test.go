package controlplane

import (
	"net"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshnet-io/meshd/pkg/types"
)

func TestClientServerRoundTrip(t *testing.T) {
	key := [32]byte{9, 9, 9}

	handled := make(chan string, 1)
	srv, err := NewServer(key, 0, func(cmd string) []string {
		handled <- cmd
		return []string{"200 ok"}
	})
	require.NoError(t, err)
	require.NoError(t, srv.Start())
	defer srv.Stop()

	serverPort := srv.conn.LocalAddr().(*net.UDPAddr).Port

	var mu sync.Mutex
	var lines []string
	done := make(chan struct{}, 1)
	client, err := NewClient(key, serverPort, func(_ types.ConversationId, line string) {
		mu.Lock()
		lines = append(lines, line)
		mu.Unlock()
		done <- struct{}{}
	})
	require.NoError(t, err)
	defer client.Close()

	convID := client.Send("status")
	assert.NotZero(t, convID)

	select {
	case cmd := <-handled:
		assert.Equal(t, "status", cmd)
	case <-time.After(2 * time.Second):
		t.Fatal("server never received command")
	}

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("client never received response")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"200 ok"}, lines)
}
