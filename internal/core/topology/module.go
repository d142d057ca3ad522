package topology

import (
	"context"

	"go.uber.org/fx"

	"github.com/meshnet-io/meshd/config"
	topologyif "github.com/meshnet-io/meshd/pkg/interfaces/topology"
)

// Params are the named config values this module needs.
type Params struct {
	fx.In

	HomeDir string `name:"home_dir"`
}

func provideTopology(p Params) (*Topology, error) {
	return New(p.HomeDir)
}

type lifecycleParams struct {
	fx.In

	LC         fx.Lifecycle
	Topology   *Topology
	Supernodes []config.Supernode `name:"supernodes"`
}

func registerLifecycle(p lifecycleParams) {
	specs := make([]topologyif.SupernodeSpec, 0, len(p.Supernodes))
	for _, s := range p.Supernodes {
		specs = append(specs, topologyif.SupernodeSpec{Address: s.Address, HostPort: s.HostPort})
	}

	p.LC.Append(fx.Hook{
		OnStart: func(context.Context) error {
			return p.Topology.InstallSupernodes(specs)
		},
		OnStop: func(context.Context) error {
			return p.Topology.Close()
		},
	})
}

// Module provides *Topology (also exported as topologyif.Topology) and
// installs the configured supernode list during OnStart.
func Module() fx.Option {
	return fx.Module("topology",
		fx.Provide(
			provideTopology,
			func(t *Topology) topologyif.Topology { return t },
		),
		fx.Invoke(registerLifecycle),
	)
}
