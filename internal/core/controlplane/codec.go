package controlplane

import (
	"crypto/hmac"
	sha256 "github.com/minio/sha256-simd"

	"github.com/meshnet-io/meshd/pkg/types"
)

const (
	magic = "MCP1"

	offMagic   = 0
	offConvID  = 4
	offFlags   = 8
	offFragIdx = 9
	offHMAC    = 11
	offPayload = 43

	headerSize = offPayload

	flagFinalFragment = 1 << 0

	// MaxPacketSize is ZT_NODECONFIG_MAX_PACKET_SIZE, the largest UDP
	// datagram the control channel will send or accept.
	MaxPacketSize = 16384

	maxPayloadSize = MaxPacketSize - headerSize
)

// packet is one decoded MCP1 datagram.
type packet struct {
	ConversationID types.ConversationId
	FragmentIndex  uint16
	Final          bool
	Payload        []byte
}

// encodePacket serializes p and signs it with key.
func encodePacket(key [32]byte, p packet) ([]byte, error) {
	if p.ConversationID == 0 {
		return nil, ErrZeroConversationID
	}
	if len(p.Payload) > maxPayloadSize {
		return nil, ErrTooLarge
	}

	buf := make([]byte, headerSize+len(p.Payload))
	copy(buf[offMagic:], magic)
	putUint32(buf[offConvID:], uint32(p.ConversationID))
	if p.Final {
		buf[offFlags] = flagFinalFragment
	}
	putUint16(buf[offFragIdx:], p.FragmentIndex)
	copy(buf[offPayload:], p.Payload)

	mac := hmac.New(sha256.New, key[:])
	mac.Write(buf[offPayload:])
	copy(buf[offHMAC:offPayload], mac.Sum(nil))

	return buf, nil
}

// decodePacket authenticates and parses a received datagram.
func decodePacket(key [32]byte, buf []byte) (packet, error) {
	if len(buf) < headerSize {
		return packet{}, ErrTooShort
	}
	if len(buf) > MaxPacketSize {
		return packet{}, ErrTooLarge
	}
	if string(buf[offMagic:offConvID]) != magic {
		return packet{}, ErrBadMagic
	}

	mac := hmac.New(sha256.New, key[:])
	mac.Write(buf[offPayload:])
	if !hmac.Equal(mac.Sum(nil), buf[offHMAC:offPayload]) {
		return packet{}, ErrBadHMAC
	}

	convID := types.ConversationId(getUint32(buf[offConvID:]))
	if !convID.IsValid() {
		return packet{}, ErrZeroConversationID
	}

	payload := make([]byte, len(buf)-offPayload)
	copy(payload, buf[offPayload:])

	return packet{
		ConversationID: convID,
		FragmentIndex:  getUint16(buf[offFragIdx:]),
		Final:          buf[offFlags]&flagFinalFragment != 0,
		Payload:        payload,
	}, nil
}

// fragmentLine splits line's UTF-8 bytes into one or more packets, each
// within maxPayloadSize, tagged with convID and signed with key.
func fragmentLine(key [32]byte, convID types.ConversationId, line string) ([][]byte, error) {
	data := []byte(line)
	if len(data) == 0 {
		data = []byte{}
	}

	var fragments [][]byte
	for idx := uint16(0); ; idx++ {
		end := len(data)
		if end > maxPayloadSize {
			end = maxPayloadSize
		}
		chunk := data[:end]
		data = data[end:]
		final := len(data) == 0

		pkt, err := encodePacket(key, packet{
			ConversationID: convID,
			FragmentIndex:  idx,
			Final:          final,
			Payload:        chunk,
		})
		if err != nil {
			return nil, err
		}
		fragments = append(fragments, pkt)
		if final {
			break
		}
	}
	return fragments, nil
}

func putUint32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func getUint32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}

func putUint16(b []byte, v uint16) {
	b[0] = byte(v >> 8)
	b[1] = byte(v)
}

func getUint16(b []byte) uint16 {
	return uint16(b[0])<<8 | uint16(b[1])
}
