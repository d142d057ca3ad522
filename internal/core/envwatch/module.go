package envwatch

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"
)

// Params are the named config values this module needs. The fingerprint
// interval and memory limit are read once at construction; config is not
// hot-reloaded.
type Params struct {
	fx.In

	FingerprintInterval time.Duration `name:"recovery_fingerprint_interval"`
	MemoryLimitBytes    int64         `name:"recovery_memory_limit_bytes"`
}

func provideClock() clock.Clock {
	return clock.New()
}

func provideWatcher(p Params, clk clock.Clock) *Watcher {
	return NewWatcher(clk, func() time.Duration { return p.FingerprintInterval })
}

func provideMemoryMonitor(p Params, clk clock.Clock) *MemoryMonitor {
	return NewMemoryMonitor(clk, p.MemoryLimitBytes)
}

type lifecycleParams struct {
	fx.In
	LC      fx.Lifecycle
	Watcher *Watcher
	Memory  *MemoryMonitor
}

func registerLifecycle(p lifecycleParams) {
	p.LC.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			p.Watcher.Start(ctx)
			p.Memory.Start(ctx)
			return nil
		},
		OnStop: func(_ context.Context) error {
			p.Memory.Stop()
			p.Watcher.Stop()
			return nil
		},
	})
}

// Module provides the Watcher and MemoryMonitor and starts them alongside
// the fx app. Other modules depending on *Watcher or *MemoryMonitor get
// running instances without needing their own lifecycle hooks.
//
// This module is the sole provider of clock.Clock in the graph; anything
// else needing a shared, mockable clock (the Supervisor's service loop,
// in particular) should depend on it here rather than constructing its
// own real clock.
func Module() fx.Option {
	return fx.Module("envwatch",
		fx.Provide(
			provideClock,
			provideWatcher,
			provideMemoryMonitor,
		),
		fx.Invoke(registerLifecycle),
	)
}
