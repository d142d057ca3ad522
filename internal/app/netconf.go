package app

import (
	netconfif "github.com/meshnet-io/meshd/pkg/interfaces/netconf"
	switchif "github.com/meshnet-io/meshd/pkg/interfaces/switchcore"
)

// provideNetConfReplyHandler wires the NetConf Bridge's decoded replies
// into the switch's overlay NETWORK_CONFIG_REQUEST response path.
func provideNetConfReplyHandler(sw switchif.Switch) netconfif.ReplyHandler {
	return func(reply netconfif.Reply) {
		if err := sw.EnqueueNetConfReply(reply); err != nil {
			log.Warn("netconf reply enqueue failed", "peer", reply.Peer, "err", err)
		}
	}
}
