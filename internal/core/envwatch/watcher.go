package envwatch

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"

	"github.com/meshnet-io/meshd/internal/util/logger"
	"github.com/meshnet-io/meshd/pkg/types"
)

var log = logger.Logger("envwatch")

// Change is delivered on a Watcher's Events channel whenever a sampled
// fingerprint differs from the previous one.
type Change struct {
	Previous types.NetworkConfigurationFingerprint
	Current  types.NetworkConfigurationFingerprint
}

// Watcher samples Fingerprint on a timer and reports changes. The zero
// value is not usable; construct with NewWatcher.
type Watcher struct {
	clock    clock.Clock
	interval func() time.Duration

	events  chan Change
	running atomic.Bool

	mu   sync.Mutex
	last types.NetworkConfigurationFingerprint

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWatcher constructs a Watcher that samples every interval() on clk.
// interval() is read once, when polling starts; a later change to the
// value it returns has no effect until the next Start.
func NewWatcher(clk clock.Clock, interval func() time.Duration) *Watcher {
	return &Watcher{
		clock:    clk,
		interval: interval,
		events:   make(chan Change, 4),
	}
}

// Events returns the channel Changes are delivered on. The channel is
// unbuffered beyond a small slack; a slow consumer drops events rather
// than blocking the poll loop, since the Supervisor only cares about the
// latest fingerprint, not every intermediate one.
func (w *Watcher) Events() <-chan Change {
	return w.events
}

// Current samples the fingerprint immediately, without waiting for the
// next tick, and records it as the new baseline.
func (w *Watcher) Current() types.NetworkConfigurationFingerprint {
	fp := Fingerprint()
	w.mu.Lock()
	w.last = fp
	w.mu.Unlock()
	return fp
}

// Start begins polling in the background. Calling Start twice is a no-op.
func (w *Watcher) Start(ctx context.Context) {
	if !w.running.CompareAndSwap(false, true) {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	w.cancel = cancel

	w.mu.Lock()
	w.last = Fingerprint()
	w.mu.Unlock()

	w.wg.Add(1)
	go w.loop(ctx)
}

// Stop halts polling and waits for the background goroutine to exit.
func (w *Watcher) Stop() {
	if !w.running.CompareAndSwap(true, false) {
		return
	}
	w.cancel()
	w.wg.Wait()
}

func (w *Watcher) loop(ctx context.Context) {
	defer w.wg.Done()

	ticker := w.clock.Ticker(w.interval())
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.sample()
		}
	}
}

func (w *Watcher) sample() {
	current := Fingerprint()

	w.mu.Lock()
	previous := w.last
	w.last = current
	w.mu.Unlock()

	if current == previous {
		return
	}

	log.Info("network configuration fingerprint changed")

	select {
	case w.events <- Change{Previous: previous, Current: current}:
	default:
		log.Warn("envwatch event buffer full, dropping change notification")
	}
}
