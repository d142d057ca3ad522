package netconf

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	netconfif "github.com/meshnet-io/meshd/pkg/interfaces/netconf"
	"github.com/meshnet-io/meshd/pkg/types"
)

func TestDecodeReplyOK(t *testing.T) {
	blob := []byte("network config bytes")
	m := wireMessage{
		Type:      "netconf-response",
		RequestID: "0000000000000001",
		NetworkID: "0000000000000002",
		Peer:      "51f9a3c2b1",
		NetConf:   base64.StdEncoding.EncodeToString(blob),
	}

	reply, err := decodeReply(m)
	require.NoError(t, err)
	assert.Equal(t, netconfif.ReplyOK, reply.Kind)
	assert.Equal(t, blob, reply.Blob)
}

func TestDecodeReplyErrorMapping(t *testing.T) {
	base := wireMessage{
		Type:      "netconf-response",
		RequestID: "0000000000000001",
		NetworkID: "0000000000000002",
		Peer:      "51f9a3c2b1",
	}

	notFound := base
	notFound.Error = "NOT_FOUND"
	reply, err := decodeReply(notFound)
	require.NoError(t, err)
	assert.Equal(t, netconfif.ErrorNotFound, reply.Error)

	other := base
	other.Error = "SOMETHING_ELSE"
	reply, err = decodeReply(other)
	require.NoError(t, err)
	assert.Equal(t, netconfif.ErrorInvalidRequest, reply.Error)
}

func TestDecodeReplyAcceptsNonZeroPaddedHex(t *testing.T) {
	base := wireMessage{
		Type:      "netconf-response",
		RequestID: "ABC",
		NetworkID: "10",
		Peer:      "51f9a3c2b1",
		Error:     "NOT_FOUND",
	}

	reply, err := decodeReply(base)
	require.NoError(t, err)
	assert.Equal(t, types.PacketID(0xABC), reply.RequestID)
	assert.Equal(t, types.NetworkID(0x10), reply.Network)
	assert.Equal(t, netconfif.ErrorNotFound, reply.Error)
}

func TestDecodeReplyRejectsOversizedBlob(t *testing.T) {
	blob := make([]byte, maxBlobSize)
	m := wireMessage{
		Type:      "netconf-response",
		RequestID: "0000000000000001",
		NetworkID: "0000000000000002",
		Peer:      "51f9a3c2b1",
		NetConf:   base64.StdEncoding.EncodeToString(blob),
	}

	_, err := decodeReply(m)
	assert.ErrorIs(t, err, ErrBlobTooLarge)
}
