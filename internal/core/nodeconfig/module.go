package nodeconfig

import (
	"go.uber.org/fx"

	nodeconfigif "github.com/meshnet-io/meshd/pkg/interfaces/nodeconfig"
)

// Module provides the node-config facade.
func Module() fx.Option {
	return fx.Module("nodeconfig",
		fx.Provide(
			fx.Annotate(New, fx.As(new(nodeconfigif.NodeConfig))),
		),
	)
}
