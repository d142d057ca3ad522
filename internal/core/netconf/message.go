package netconf

import (
	"encoding/base64"
	"fmt"

	netconfif "github.com/meshnet-io/meshd/pkg/interfaces/netconf"
	"github.com/meshnet-io/meshd/pkg/types"
)

// maxBlobSize is the strict upper bound on a netconf blob: blobs of
// exactly 2048 bytes are rejected, same as blobs larger than that.
const maxBlobSize = 2048

// wireMessage is the untyped dictionary the helper subprocess speaks,
// decoded field-by-field rather than as a single tagged Go type.
type wireMessage struct {
	Type      string `json:"type"`
	RequestID string `json:"requestId,omitempty"`
	NetworkID string `json:"nwid,omitempty"`
	Peer      string `json:"peer,omitempty"`
	Error     string `json:"error,omitempty"`
	NetConf   string `json:"netconf,omitempty"`
}

func decodeReply(m wireMessage) (netconfif.Reply, error) {
	if m.Type != "netconf-response" {
		return netconfif.Reply{}, fmt.Errorf("netconf: unrecognized message type %q", m.Type)
	}

	reqID, err := types.ParsePacketID(m.RequestID)
	if err != nil {
		return netconfif.Reply{}, fmt.Errorf("netconf: bad requestId: %w", err)
	}
	nwid, err := types.ParseNetworkID(m.NetworkID)
	if err != nil {
		return netconfif.Reply{}, fmt.Errorf("netconf: bad nwid: %w", err)
	}
	peer, err := types.ParsePeerAddress(m.Peer)
	if err != nil {
		return netconfif.Reply{}, fmt.Errorf("netconf: bad peer: %w", err)
	}

	reply := netconfif.Reply{RequestID: reqID, Network: nwid, Peer: peer}

	if m.Error != "" {
		reply.Kind = netconfif.ReplyError
		if m.Error == "NOT_FOUND" {
			reply.Error = netconfif.ErrorNotFound
		} else {
			reply.Error = netconfif.ErrorInvalidRequest
		}
		return reply, nil
	}

	blob, err := base64.StdEncoding.DecodeString(m.NetConf)
	if err != nil {
		return netconfif.Reply{}, fmt.Errorf("netconf: bad netconf blob encoding: %w", err)
	}
	if len(blob) >= maxBlobSize {
		return netconfif.Reply{}, ErrBlobTooLarge
	}

	reply.Kind = netconfif.ReplyOK
	reply.Blob = blob
	return reply, nil
}

func encodeRequest(requestID types.PacketID, network types.NetworkID, peer types.PeerAddress) wireMessage {
	return wireMessage{
		Type:      "netconf-request",
		RequestID: requestID.String(),
		NetworkID: network.String(),
		Peer:      peer.String(),
	}
}
