package controlplane

import (
	"context"

	"go.uber.org/fx"

	authtokenif "github.com/meshnet-io/meshd/pkg/interfaces/authtoken"
	controlplaneif "github.com/meshnet-io/meshd/pkg/interfaces/controlplane"
)

// Params configures the Server's bind port and, optionally, the handler
// it dispatches decoded commands to. A caller that wants to wire its own
// node-config facade provides controlplaneif.CommandHandler; otherwise
// the server answers every command with no result lines.
type Params struct {
	fx.In

	Token      authtokenif.Token
	ServerPort int                           `name:"control_udp_port"`
	Handler    controlplaneif.CommandHandler `optional:"true"`
}

func provideServer(p Params) (*Server, error) {
	handler := p.Handler
	if handler == nil {
		handler = func(string) []string { return nil }
	}
	return NewServer(p.Token.Key(), p.ServerPort, handler)
}

type lifecycleParams struct {
	fx.In

	LC     fx.Lifecycle
	Server *Server
}

func registerLifecycle(p lifecycleParams) {
	p.LC.Append(fx.Hook{
		OnStart: func(context.Context) error { return p.Server.Start() },
		OnStop:  func(context.Context) error { return p.Server.Stop() },
	})
}

// Module provides *Server (also exported as controlplaneif.Server),
// bound to the configured loopback control port and keyed from the
// authtoken module's Token.
func Module() fx.Option {
	return fx.Module("controlplane",
		fx.Provide(
			provideServer,
			func(s *Server) controlplaneif.Server { return s },
		),
		fx.Invoke(registerLifecycle),
	)
}
