package envwatch

import (
	"context"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/raulk/go-watchdog"
)

func init() {
	watchdog.Logger = &watchdogLogAdapter{}
}

// watchdogLogAdapter routes go-watchdog's internal logging through the
// envwatch subsystem logger instead of its default stderr writer.
type watchdogLogAdapter struct{}

func (watchdogLogAdapter) Debugf(format string, args ...interface{}) { log.Debug(format, args...) }
func (watchdogLogAdapter) Infof(format string, args ...interface{})  { log.Info(format, args...) }
func (watchdogLogAdapter) Warnf(format string, args ...interface{})  { log.Warn(format, args...) }
func (watchdogLogAdapter) Errorf(format string, args ...interface{}) { log.Error(format, args...) }

// MemoryMonitor watches resident memory against a configured limit. Below
// 90% of the limit it is silent; above 90% it logs a warning; at or past
// the limit it flips Exhausted, which the Supervisor checks once per
// iteration via Err.
type MemoryMonitor struct {
	limit uint64
	clock clock.Clock

	exhausted atomic.Bool
	cancel    context.CancelFunc
}

// NewMemoryMonitor constructs a monitor for limitBytes. A limitBytes of
// zero disables monitoring entirely; Start becomes a no-op and Err always
// returns nil.
func NewMemoryMonitor(clk clock.Clock, limitBytes int64) *MemoryMonitor {
	var limit uint64
	if limitBytes > 0 {
		limit = uint64(limitBytes)
	}
	return &MemoryMonitor{limit: limit, clock: clk}
}

// Start launches the watchdog's adaptive heap policy (which forces extra
// GC cycles as usage approaches the limit) and begins this monitor's own
// sampling loop used to derive Err.
func (m *MemoryMonitor) Start(ctx context.Context) {
	if m.limit == 0 {
		return
	}

	if err, _ := watchdog.HeapDriven(m.limit, 0, watchdog.NewAdaptivePolicy(0.5)); err != nil {
		log.Warn("go-watchdog heap policy failed to start", "err", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel

	go m.loop(ctx)
}

// Stop halts this monitor's sampling loop. The go-watchdog heap policy,
// once started, runs for the life of the process; it has no Stop.
func (m *MemoryMonitor) Stop() {
	if m.cancel != nil {
		m.cancel()
	}
}

func (m *MemoryMonitor) loop(ctx context.Context) {
	ticker := m.clock.Ticker(5 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.sample()
		}
	}
}

func (m *MemoryMonitor) sample() {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)

	switch {
	case stats.Sys >= m.limit:
		if !m.exhausted.Swap(true) {
			log.Error("resident memory at or past configured limit", "sys", stats.Sys, "limit", m.limit)
		}
	case stats.Sys >= m.limit*9/10:
		log.Warn("resident memory approaching configured limit", "sys", stats.Sys, "limit", m.limit)
		m.exhausted.Store(false)
	default:
		m.exhausted.Store(false)
	}
}

// Err returns ErrMemoryExhausted if the last sample found resident memory
// at or past the configured limit, else nil. The Supervisor calls this
// once per service loop iteration.
func (m *MemoryMonitor) Err() error {
	if m.exhausted.Load() {
		return ErrMemoryExhausted
	}
	return nil
}
