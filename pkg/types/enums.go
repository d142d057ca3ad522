package types

// TerminationReason is the tagged outcome of a Supervisor's run. It is
// unreadable (returns ok=false) while the node is still running.
type TerminationReason int

const (
	// ReasonRunning is the internal sentinel used before run() exits.
	ReasonRunning TerminationReason = iota
	// ReasonNormal means terminate() was called and the loop quiesced cleanly.
	ReasonNormal
	// ReasonUnrecoverableError means a fault escaped the outer try in run().
	ReasonUnrecoverableError
)

// String renders the termination reason the way the control plane's "info"
// command reports it.
func (r TerminationReason) String() string {
	switch r {
	case ReasonNormal:
		return "NODE_NORMAL_TERMINATION"
	case ReasonUnrecoverableError:
		return "NODE_UNRECOVERABLE_ERROR"
	default:
		return "NODE_RUNNING"
	}
}

// KeyType identifies the asymmetric key scheme backing an Identity.
type KeyType int

const (
	// KeyTypeHybrid is the default: Curve25519 for agreement, Ed25519 for signing.
	KeyTypeHybrid KeyType = iota
	// KeyTypeSecp256k1 derives the identity from a secp256k1 keypair instead.
	KeyTypeSecp256k1
)

// String returns the key type's name.
func (kt KeyType) String() string {
	switch kt {
	case KeyTypeSecp256k1:
		return "Secp256k1"
	default:
		return "Hybrid-C25519/Ed25519"
	}
}
