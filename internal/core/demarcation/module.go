package demarcation

import (
	"context"
	"time"

	"go.uber.org/fx"

	demarcationif "github.com/meshnet-io/meshd/pkg/interfaces/demarcation"
)

// Params configures the overlay UDP bind range and NAT mapping behavior.
type Params struct {
	fx.In

	BasePort        int           `name:"overlay_udp_port"`
	EnableUPnP      bool          `name:"nat_enable_upnp"`
	EnableNATPMP    bool          `name:"nat_enable_natpmp"`
	MappingLifetime time.Duration `name:"nat_mapping_lifetime"`
}

func providePoint(p Params) (*Point, error) {
	return Bind(p.BasePort, p.EnableUPnP, p.EnableNATPMP, p.MappingLifetime)
}

type lifecycleParams struct {
	fx.In

	LC    fx.Lifecycle
	Point *Point
}

func registerLifecycle(p lifecycleParams) {
	p.LC.Append(fx.Hook{
		OnStop: func(context.Context) error { return p.Point.Close() },
	})
}

// Module provides *Point (also exported as demarcationif.Point),
// binding the overlay UDP socket at construction time and releasing it
// on shutdown.
func Module() fx.Option {
	return fx.Module("demarcation",
		fx.Provide(
			providePoint,
			func(p *Point) demarcationif.Point { return p },
		),
		fx.Invoke(registerLifecycle),
	)
}
