package authtoken

import (
	"go.uber.org/fx"

	"github.com/meshnet-io/meshd/internal/util/logger"
	authtokenif "github.com/meshnet-io/meshd/pkg/interfaces/authtoken"
)

var log = logger.Logger("authtoken")

// Params configures the authtoken module's Load call.
type Params struct {
	fx.In

	HomeDir string `name:"home_dir"`
}

func provideToken(p Params) (authtokenif.Token, error) {
	return NewStore().Load(p.HomeDir)
}

// Module loads or creates authtoken.secret under the configured home
// directory and makes the resulting Token available to every other fx
// module, in particular the Local Control Server and Client.
func Module() fx.Option {
	return fx.Module("authtoken",
		fx.Provide(
			fx.Annotate(NewStore, fx.As(new(authtokenif.Store))),
			fx.Annotate(provideToken, fx.As(new(authtokenif.Token))),
		),
	)
}
