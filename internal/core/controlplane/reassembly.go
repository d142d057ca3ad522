package controlplane

import "github.com/meshnet-io/meshd/pkg/types"

// reassembler accumulates fragments for in-flight conversations until a
// final fragment completes one line. Fragments are expected in order;
// out-of-order fragments are rejected by discarding the partial buffer
// rather than risking a corrupted reassembly.
type reassembler struct {
	partial map[types.ConversationId]*partialLine
}

type partialLine struct {
	data    []byte
	nextIdx uint16
}

func newReassembler() *reassembler {
	return &reassembler{partial: make(map[types.ConversationId]*partialLine)}
}

// feed adds one decoded packet's payload to the conversation's buffer.
// It returns the completed line and true once the final fragment
// arrives; otherwise ("", false) while more fragments are expected.
func (r *reassembler) feed(p packet) (string, bool) {
	pl, ok := r.partial[p.ConversationID]
	if !ok {
		if p.FragmentIndex != 0 {
			return "", false
		}
		pl = &partialLine{}
		r.partial[p.ConversationID] = pl
	}
	if p.FragmentIndex != pl.nextIdx {
		delete(r.partial, p.ConversationID)
		return "", false
	}

	pl.data = append(pl.data, p.Payload...)
	pl.nextIdx++

	if !p.Final {
		return "", false
	}
	delete(r.partial, p.ConversationID)
	return string(pl.data), true
}
