package switchcore

import (
	"time"

	"github.com/benbjohnson/clock"
	"go.uber.org/fx"

	switchif "github.com/meshnet-io/meshd/pkg/interfaces/switchcore"
)

// perPeerBurst and retryBackoff are deliberately not configuration
// knobs: they bound how aggressively one peer can be retried, not a
// policy a deployment should need to tune. The per-peer rate itself is
// sized from HelloRateLimitPerSecond.
const (
	perPeerBurst = 4
	retryBackoff = 5 * time.Second
)

type Params struct {
	fx.In

	Clock          clock.Clock
	HelloRateLimit float64 `name:"hello_rate_limit_per_second"`
}

func provideSwitch(p Params) *Switch {
	return New(p.Clock, p.HelloRateLimit, perPeerBurst, retryBackoff)
}

// Module provides *Switch (also exported as switchif.Switch). It depends
// on the clock.Clock provided by envwatch.Module, so that module must be
// included in the same fx graph.
func Module() fx.Option {
	return fx.Module("switchcore",
		fx.Provide(
			provideSwitch,
			func(s *Switch) switchif.Switch { return s },
		),
	)
}
