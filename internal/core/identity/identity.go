package identity

import (
	"crypto/ed25519"

	"github.com/minio/sha256-simd"

	identityif "github.com/meshnet-io/meshd/pkg/interfaces/identity"
	"github.com/meshnet-io/meshd/pkg/lib/crypto"
	"github.com/meshnet-io/meshd/pkg/types"
)

// The three byte lengths below are mutually exclusive, so a bare blob's
// length alone identifies its scheme with no leading type tag: the default
// hybrid scheme's secret and public forms are each exactly 64 bytes (two
// 32-byte keys), while secp256k1's single key serializes to 32 (secret) or
// 33 (compressed public) bytes.
const (
	hybridSecretLen = 32 + 32 // ed25519 seed + x25519 private scalar
	hybridPublicLen = 32 + 32 // ed25519 public + x25519 public

	secp256k1SecretLen = 32 // private scalar
	secp256k1PublicLen = 33 // compressed public key
)

// hybridIdentity is the default scheme: Ed25519 for signing, X25519 for
// key agreement.
type hybridIdentity struct {
	signing   *crypto.SigningKeyPair
	agreement *crypto.AgreementKeyPair
	address   types.PeerAddress
}

// secp256k1Identity is the alternate scheme: one key for both.
type secp256k1Identity struct {
	key        *crypto.Secp256k1KeyPair
	publicOnly []byte // set instead of key.Private by FromPublicBytes
	address    types.PeerAddress
}

// Generate creates a new identity of the given key type.
func Generate(keyType types.KeyType) (identityif.Identity, error) {
	switch keyType {
	case types.KeyTypeSecp256k1:
		key, err := crypto.GenerateSecp256k1KeyPair()
		if err != nil {
			return nil, err
		}
		id := &secp256k1Identity{key: key}
		id.address = deriveAddress(id.PublicBytes())
		return id, nil
	default:
		signing, err := crypto.GenerateSigningKeyPair()
		if err != nil {
			return nil, err
		}
		agreement, err := crypto.GenerateAgreementKeyPair()
		if err != nil {
			return nil, err
		}
		id := &hybridIdentity{signing: signing, agreement: agreement}
		id.address = deriveAddress(id.PublicBytes())
		return id, nil
	}
}

// FromSecretBytes reconstructs an identity from an identity.secret blob,
// dispatching on length alone (see the length constants above).
func FromSecretBytes(b []byte) (identityif.Identity, error) {
	switch len(b) {
	case hybridSecretLen:
		signing, err := crypto.SigningKeyPairFromSeed(b[:32])
		if err != nil {
			return nil, err
		}
		agreement, err := crypto.AgreementKeyPairFromPrivate(b[32:64])
		if err != nil {
			return nil, err
		}
		id := &hybridIdentity{signing: signing, agreement: agreement}
		id.address = deriveAddress(id.PublicBytes())
		return id, nil
	case secp256k1SecretLen:
		key, err := crypto.Secp256k1KeyPairFromBytes(b)
		if err != nil {
			return nil, err
		}
		id := &secp256k1Identity{key: key}
		id.address = deriveAddress(id.PublicBytes())
		return id, nil
	default:
		return nil, ErrUnknownKeyType
	}
}

// FromPublicBytes reconstructs a verify-only identity (Sign and Agree
// against it will fail) from an identity.public blob, used to check a
// peer's HELLO signature against their advertised address.
func FromPublicBytes(b []byte) (identityif.Identity, error) {
	switch len(b) {
	case hybridPublicLen:
		id := &hybridIdentity{
			signing:   &crypto.SigningKeyPair{Public: ed25519.PublicKey(append([]byte(nil), b[:32]...))},
			agreement: &crypto.AgreementKeyPair{},
		}
		copy(id.agreement.Public[:], b[32:64])
		id.address = deriveAddress(id.PublicBytes())
		return id, nil
	case secp256k1PublicLen:
		id := &secp256k1Identity{key: &crypto.Secp256k1KeyPair{}}
		id.publicOnly = append([]byte(nil), b...)
		id.address = deriveAddress(id.PublicBytes())
		return id, nil
	default:
		return nil, ErrUnknownKeyType
	}
}

func deriveAddress(publicBytes []byte) types.PeerAddress {
	sum := sha256.Sum256(publicBytes)
	addr, _ := types.PeerAddressFromBytes(sum[:5])
	return addr
}

// ============================================================================
//                              hybridIdentity
// ============================================================================

func (h *hybridIdentity) Address() types.PeerAddress { return h.address }
func (h *hybridIdentity) KeyType() types.KeyType     { return types.KeyTypeHybrid }

func (h *hybridIdentity) PublicBytes() []byte {
	out := make([]byte, hybridPublicLen)
	copy(out[:32], h.signing.Public)
	copy(out[32:64], h.agreement.Public[:])
	return out
}

func (h *hybridIdentity) SecretBytes() []byte {
	out := make([]byte, hybridSecretLen)
	copy(out[:32], h.signing.Seed())
	copy(out[32:64], h.agreement.Private[:])
	return out
}

func (h *hybridIdentity) Sign(data []byte) []byte {
	return h.signing.Sign(data)
}

func (h *hybridIdentity) Verify(data, sig []byte) bool {
	return crypto.VerifySignature(h.signing.Public, data, sig)
}

func (h *hybridIdentity) Agree(peerPublicBytes []byte) ([]byte, error) {
	if len(peerPublicBytes) != hybridPublicLen {
		return nil, ErrUnknownKeyType
	}
	if h.agreement.Private == [32]byte{} {
		return nil, ErrNoAgreementKey
	}
	var peerPub [32]byte
	copy(peerPub[:], peerPublicBytes[32:64])
	return h.agreement.Agree(peerPub)
}

// ============================================================================
//                              secp256k1Identity
// ============================================================================

func (s *secp256k1Identity) publicBytesRaw() []byte {
	if s.publicOnly != nil {
		return s.publicOnly
	}
	return s.key.PublicBytes()
}

func (s *secp256k1Identity) Address() types.PeerAddress { return s.address }
func (s *secp256k1Identity) KeyType() types.KeyType     { return types.KeyTypeSecp256k1 }

func (s *secp256k1Identity) PublicBytes() []byte {
	return append([]byte(nil), s.publicBytesRaw()...)
}

func (s *secp256k1Identity) SecretBytes() []byte {
	return append([]byte(nil), s.key.Bytes()...)
}

func (s *secp256k1Identity) Sign(data []byte) []byte {
	return s.key.Sign(data)
}

func (s *secp256k1Identity) Verify(data, sig []byte) bool {
	return crypto.VerifySecp256k1Signature(s.publicBytesRaw(), data, sig)
}

func (s *secp256k1Identity) Agree(peerPublicBytes []byte) ([]byte, error) {
	if len(peerPublicBytes) != secp256k1PublicLen {
		return nil, ErrUnknownKeyType
	}
	if s.key.Private == nil {
		return nil, ErrNoAgreementKey
	}
	return s.key.Agree(peerPublicBytes)
}
