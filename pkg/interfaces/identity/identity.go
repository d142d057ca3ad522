// Package identity defines the Identity contract the rest of meshd depends
// on, keeping callers decoupled from the concrete key schemes in
// internal/core/identity.
package identity

import "github.com/meshnet-io/meshd/pkg/types"

// Identity is a node's cryptographic identity: an address derived from a
// public key, plus the private material to sign control packets and agree
// on a shared secret with a peer's identity.
type Identity interface {
	// Address returns the node's short address, derived from PublicBytes.
	Address() types.PeerAddress

	// KeyType reports which scheme backs this identity.
	KeyType() types.KeyType

	// PublicBytes returns the public projection, the exact form persisted
	// to identity.public.
	PublicBytes() []byte

	// SecretBytes returns the full secret form, the exact form persisted
	// to identity.secret. Callers must not log or transmit this.
	SecretBytes() []byte

	// Sign signs data, returning a signature Verify accepts against
	// PublicBytes.
	Sign(data []byte) []byte

	// Verify checks sig against data using this identity's own public key.
	Verify(data, sig []byte) bool

	// Agree derives a shared secret with a peer given that peer's
	// PublicBytes, the basis for the control channel's HMAC key.
	Agree(peerPublicBytes []byte) ([]byte, error)
}

// Manager creates, loads, and persists Identities.
type Manager interface {
	// Generate creates a new identity of the given key type, without
	// touching disk.
	Generate(keyType types.KeyType) (Identity, error)

	// Load reads identity.secret and identity.public from dir, creating
	// and persisting a fresh identity of defaultKeyType if dir has none.
	// If identity.public disagrees with the public projection of
	// identity.secret, it is rewritten from the secret.
	Load(dir string, defaultKeyType types.KeyType) (Identity, error)

	// Save persists id's secret and public forms under dir, locking
	// identity.secret to mode 0600.
	Save(id Identity, dir string) error
}
