package netconf

import (
	"context"

	"go.uber.org/fx"

	netconfif "github.com/meshnet-io/meshd/pkg/interfaces/netconf"
)

// Params configures the Bridge's helper path and reply handler.
type Params struct {
	fx.In

	HelperPath string                 `name:"netconf_helper_path"`
	OnReply    netconfif.ReplyHandler `optional:"true"`
}

func provideBridge(p Params) *Bridge {
	onReply := p.OnReply
	if onReply == nil {
		onReply = func(netconfif.Reply) {}
	}
	return New(p.HelperPath, onReply)
}

type lifecycleParams struct {
	fx.In

	LC     fx.Lifecycle
	Bridge *Bridge
}

func registerLifecycle(p lifecycleParams) {
	p.LC.Append(fx.Hook{
		OnStart: func(context.Context) error { return p.Bridge.Start() },
		OnStop:  func(context.Context) error { return p.Bridge.Stop() },
	})
}

// Module provides *Bridge (also exported as netconfif.Bridge), a no-op
// if no helper path is configured.
func Module() fx.Option {
	return fx.Module("netconf",
		fx.Provide(
			provideBridge,
			func(b *Bridge) netconfif.Bridge { return b },
		),
		fx.Invoke(registerLifecycle),
	)
}
