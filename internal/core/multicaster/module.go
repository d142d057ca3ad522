package multicaster

import (
	"go.uber.org/fx"

	multicasterif "github.com/meshnet-io/meshd/pkg/interfaces/multicaster"
	switchif "github.com/meshnet-io/meshd/pkg/interfaces/switchcore"
)

// Module provides *Multicaster, also exported as
// multicasterif.Multicaster.
func Module() fx.Option {
	return fx.Module("multicaster",
		fx.Provide(
			func(sw switchif.Switch) *Multicaster { return New(sw) },
			func(m *Multicaster) multicasterif.Multicaster { return m },
		),
	)
}
