package crypto

import (
	"crypto/rand"

	"golang.org/x/crypto/curve25519"
)

// AgreementKeyPair is a Curve25519 (X25519) keypair used to derive a shared
// secret with a peer's agreement public key, the basis for the control
// channel's HMAC key in Identity.Agree.
type AgreementKeyPair struct {
	Private [32]byte
	Public  [32]byte
}

// GenerateAgreementKeyPair creates a fresh X25519 keypair.
func GenerateAgreementKeyPair() (*AgreementKeyPair, error) {
	var priv [32]byte
	if _, err := rand.Read(priv[:]); err != nil {
		return nil, err
	}
	pub, err := curve25519.X25519(priv[:], curve25519.Basepoint)
	if err != nil {
		return nil, err
	}
	kp := &AgreementKeyPair{Private: priv}
	copy(kp.Public[:], pub)
	return kp, nil
}

// AgreementKeyPairFromPrivate reconstructs a keypair from its 32-byte
// private scalar.
func AgreementKeyPairFromPrivate(priv []byte) (*AgreementKeyPair, error) {
	if len(priv) != 32 {
		return nil, ErrInvalidKeySize
	}
	pub, err := curve25519.X25519(priv, curve25519.Basepoint)
	if err != nil {
		return nil, err
	}
	kp := &AgreementKeyPair{}
	copy(kp.Private[:], priv)
	copy(kp.Public[:], pub)
	return kp, nil
}

// Agree performs X25519 Diffie-Hellman against a peer's public agreement
// key, returning the raw 32-byte shared secret. Callers run the result
// through a KDF before using it as a symmetric key.
func (kp *AgreementKeyPair) Agree(peerPublic [32]byte) ([]byte, error) {
	return curve25519.X25519(kp.Private[:], peerPublic[:])
}
