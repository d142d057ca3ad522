package app

import (
	"fmt"
	"strings"

	"go.uber.org/fx"

	"github.com/meshnet-io/meshd/config"
	"github.com/meshnet-io/meshd/internal/core/supervisor"
	controlplaneif "github.com/meshnet-io/meshd/pkg/interfaces/controlplane"
	identityif "github.com/meshnet-io/meshd/pkg/interfaces/identity"
	topologyif "github.com/meshnet-io/meshd/pkg/interfaces/topology"
	"github.com/meshnet-io/meshd/pkg/version"
)

type handlerParams struct {
	fx.In

	Identity   identityif.Identity
	Topology   topologyif.Topology
	Supervisor *supervisor.Supervisor
	Supernodes []config.Supernode `name:"supernodes"`
}

// provideCommandHandler builds the Local Control Server's
// controlplaneif.CommandHandler: "info", "peers", and
// "supernodes refresh".
func provideCommandHandler(p handlerParams) controlplaneif.CommandHandler {
	return func(command string) []string {
		fields := strings.Fields(command)
		if len(fields) == 0 {
			return []string{"400 ERROR empty command"}
		}

		switch fields[0] {
		case "info":
			return []string{handleInfo(p)}
		case "peers":
			return handlePeers(p)
		case "supernodes":
			if len(fields) >= 2 && fields[1] == "refresh" {
				return handleSupernodesRefresh(p)
			}
			return []string{"400 ERROR unknown supernodes subcommand"}
		default:
			return []string{"400 ERROR unknown command"}
		}
	}
}

func handleInfo(p handlerParams) string {
	reason, ok := p.Supervisor.Reason()
	msg, _ := p.Supervisor.ReasonForTermination()
	state := reason.String()
	if !ok {
		msg = "running"
	}
	return fmt.Sprintf("200 info %s %s %s %s", p.Identity.Address(), version.String(), state, msg)
}

func handlePeers(p handlerParams) []string {
	peers := p.Topology.ActiveDirectPeers()
	lines := make([]string, 0, len(peers)+1)
	lines = append(lines, fmt.Sprintf("200 peers %d", len(peers)))
	for _, addr := range peers {
		lines = append(lines, fmt.Sprintf("200 peer %s supernode=%t", addr, p.Topology.IsSupernode(addr)))
	}
	return lines
}

func handleSupernodesRefresh(p handlerParams) []string {
	specs := make([]topologyif.SupernodeSpec, 0, len(p.Supernodes))
	for _, s := range p.Supernodes {
		specs = append(specs, topologyif.SupernodeSpec{Address: s.Address, HostPort: s.HostPort})
	}
	if err := p.Topology.InstallSupernodes(specs); err != nil {
		return []string{fmt.Sprintf("500 ERROR %s", err)}
	}
	return []string{fmt.Sprintf("200 supernodes refreshed %d", len(specs))}
}
