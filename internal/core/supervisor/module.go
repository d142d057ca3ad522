package supervisor

import (
	"context"
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	"github.com/meshnet-io/meshd/internal/core/envwatch"
	identityif "github.com/meshnet-io/meshd/pkg/interfaces/identity"
	multicasterif "github.com/meshnet-io/meshd/pkg/interfaces/multicaster"
	netconfif "github.com/meshnet-io/meshd/pkg/interfaces/netconf"
	nodeconfigif "github.com/meshnet-io/meshd/pkg/interfaces/nodeconfig"
	switchif "github.com/meshnet-io/meshd/pkg/interfaces/switchcore"
	topologyif "github.com/meshnet-io/meshd/pkg/interfaces/topology"
	"github.com/meshnet-io/meshd/pkg/types"
)

// Params are the named config values and collaborators the Supervisor
// needs. Bridge is optional: a node with no NetConf helper configured
// still runs, just without the netconf reply-correlation side of things.
type Params struct {
	fx.In

	Identity   identityif.Identity
	Topology   topologyif.Topology
	Switch     switchif.Switch
	Multicast  multicasterif.Multicaster
	NodeConfig nodeconfigif.NodeConfig
	Memory     *envwatch.MemoryMonitor
	Clock      clock.Clock
	Bridge     netconfif.Bridge `optional:"true"`

	MinServiceLoopInterval     time.Duration      `name:"min_service_loop_interval"`
	PingPeriod                 time.Duration      `name:"ping_period"`
	MulticastPeriod            time.Duration      `name:"multicast_period"`
	DBCleanPeriod              time.Duration      `name:"db_clean_period"`
	MulticastAnnounceAllPeriod time.Duration      `name:"multicast_announce_all_period"`
	PeerDirectPingDelay        time.Duration      `name:"peer_direct_ping_delay"`
	SleepWakeThreshold         time.Duration      `name:"sleep_wake_threshold"`
	SleepSettleInterval        time.Duration      `name:"sleep_settle_interval"`
	FingerprintCheckInterval   time.Duration      `name:"recovery_fingerprint_interval"`
	Networks                   []types.NetworkID  `name:"networks"`
}

func provideSupervisor(p Params) *Supervisor {
	return New(Config{
		MinServiceLoopInterval:     p.MinServiceLoopInterval,
		PingPeriod:                 p.PingPeriod,
		MulticastPeriod:            p.MulticastPeriod,
		DBCleanPeriod:              p.DBCleanPeriod,
		MulticastAnnounceAllPeriod: p.MulticastAnnounceAllPeriod,
		PeerDirectPingDelay:        p.PeerDirectPingDelay,
		SleepWakeThreshold:         p.SleepWakeThreshold,
		SleepSettleInterval:        p.SleepSettleInterval,
		FingerprintCheckInterval:   p.FingerprintCheckInterval,
		Networks:                   p.Networks,
	}, Deps{
		Identity:   p.Identity,
		Topology:   p.Topology,
		Switch:     p.Switch,
		Multicast:  p.Multicast,
		NodeConfig: p.NodeConfig,
		Memory:     p.Memory,
		Bridge:     p.Bridge,
		Clock:      p.Clock,
	})
}

type lifecycleParams struct {
	fx.In

	LC         fx.Lifecycle
	Supervisor *Supervisor
}

// registerLifecycle launches Run in a background goroutine on OnStart and
// requests termination, waiting for the loop to quiesce, on OnStop.
func registerLifecycle(p lifecycleParams) {
	done := make(chan struct{})

	p.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go func() {
				p.Supervisor.Run()
				close(done)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			p.Supervisor.Terminate()
			select {
			case <-done:
			case <-ctx.Done():
			}
			return nil
		},
	})
}

// Module provides the Supervisor and starts its service loop alongside
// the fx app.
func Module() fx.Option {
	return fx.Module("supervisor",
		fx.Provide(provideSupervisor),
		fx.Invoke(registerLifecycle),
	)
}
