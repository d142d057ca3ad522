package controlplane

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/meshnet-io/meshd/pkg/types"
)

var testKey = [32]byte{1, 2, 3, 4}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	raw, err := encodePacket(testKey, packet{
		ConversationID: 42,
		FragmentIndex:  0,
		Final:          true,
		Payload:        []byte("hello"),
	})
	require.NoError(t, err)

	p, err := decodePacket(testKey, raw)
	require.NoError(t, err)
	assert.Equal(t, types.ConversationId(42), p.ConversationID)
	assert.True(t, p.Final)
	assert.Equal(t, []byte("hello"), p.Payload)
}

func TestEncodeRejectsZeroConversationID(t *testing.T) {
	_, err := encodePacket(testKey, packet{ConversationID: 0, Final: true})
	assert.ErrorIs(t, err, ErrZeroConversationID)
}

func TestDecodeRejectsBadHMAC(t *testing.T) {
	raw, err := encodePacket(testKey, packet{ConversationID: 1, Final: true, Payload: []byte("x")})
	require.NoError(t, err)

	raw[len(raw)-1] ^= 0xff // corrupt payload without touching the MAC
	_, err = decodePacket(testKey, raw)
	assert.ErrorIs(t, err, ErrBadHMAC)
}

func TestDecodeRejectsBadMagic(t *testing.T) {
	raw, err := encodePacket(testKey, packet{ConversationID: 1, Final: true})
	require.NoError(t, err)
	raw[0] = 'X'
	_, err = decodePacket(testKey, raw)
	assert.ErrorIs(t, err, ErrBadMagic)
}

func TestDecodeRejectsTooShort(t *testing.T) {
	_, err := decodePacket(testKey, []byte("short"))
	assert.ErrorIs(t, err, ErrTooShort)
}

func TestFragmentLineSplitsLargePayload(t *testing.T) {
	line := make([]byte, maxPayloadSize*2+10)
	for i := range line {
		line[i] = byte('a' + i%26)
	}

	fragments, err := fragmentLine(testKey, 7, string(line))
	require.NoError(t, err)
	require.Len(t, fragments, 3)

	r := newReassembler()
	var got string
	for i, f := range fragments {
		p, err := decodePacket(testKey, f)
		require.NoError(t, err)
		assert.Equal(t, uint16(i), p.FragmentIndex)
		line, complete := r.feed(p)
		if complete {
			got = line
		}
	}
	assert.Equal(t, string(line), got)
}

func TestReassemblerRejectsOutOfOrderFragment(t *testing.T) {
	r := newReassembler()
	p0 := packet{ConversationID: 1, FragmentIndex: 0, Final: false, Payload: []byte("a")}
	p2 := packet{ConversationID: 1, FragmentIndex: 2, Final: true, Payload: []byte("c")}

	_, complete := r.feed(p0)
	assert.False(t, complete)
	_, complete = r.feed(p2)
	assert.False(t, complete)
	_, ok := r.partial[1]
	assert.False(t, ok)
}
