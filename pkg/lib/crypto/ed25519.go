package crypto

import (
	"crypto/ed25519"
	"crypto/rand"
)

// SigningKeyPair is an Ed25519 keypair used for the signing half of a
// hybrid Identity.
type SigningKeyPair struct {
	Private ed25519.PrivateKey
	Public  ed25519.PublicKey
}

// GenerateSigningKeyPair creates a fresh Ed25519 keypair.
func GenerateSigningKeyPair() (*SigningKeyPair, error) {
	pub, priv, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, err
	}
	return &SigningKeyPair{Private: priv, Public: pub}, nil
}

// SigningKeyPairFromSeed reconstructs a keypair from its 32-byte seed.
func SigningKeyPairFromSeed(seed []byte) (*SigningKeyPair, error) {
	if len(seed) != ed25519.SeedSize {
		return nil, ErrInvalidKeySize
	}
	priv := ed25519.NewKeyFromSeed(seed)
	pub := priv.Public().(ed25519.PublicKey)
	return &SigningKeyPair{Private: priv, Public: pub}, nil
}

// Seed returns the 32-byte seed this keypair was derived from, the form
// persisted on disk.
func (kp *SigningKeyPair) Seed() []byte {
	return kp.Private.Seed()
}

// Sign signs data with the private half.
func (kp *SigningKeyPair) Sign(data []byte) []byte {
	return ed25519.Sign(kp.Private, data)
}

// VerifySignature verifies sig against data using an Ed25519 public key.
func VerifySignature(pub ed25519.PublicKey, data, sig []byte) bool {
	if len(pub) != ed25519.PublicKeySize || len(sig) != ed25519.SignatureSize {
		return false
	}
	return ed25519.Verify(pub, data, sig)
}
