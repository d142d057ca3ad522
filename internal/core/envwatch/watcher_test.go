package envwatch

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprint_Stable(t *testing.T) {
	a := Fingerprint()
	b := Fingerprint()
	assert.Equal(t, a, b, "fingerprint should be stable across immediately consecutive calls")
}

func TestWatcher_NoChangeNoEvent(t *testing.T) {
	mock := clock.NewMock()
	w := NewWatcher(mock, func() time.Duration { return time.Second })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	w.Start(ctx)
	defer w.Stop()

	mock.Add(time.Second)

	select {
	case <-w.Events():
		t.Fatal("expected no event when the fingerprint has not changed")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestWatcher_CurrentUpdatesBaseline(t *testing.T) {
	mock := clock.NewMock()
	w := NewWatcher(mock, func() time.Duration { return time.Second })

	fp := w.Current()
	require.NotZero(t, fp, "a populated interface list should hash to a non-zero fingerprint")
	assert.Equal(t, fp, w.last, "Current must record the sample as the new baseline")
}
