package crypto

import "errors"

var (
	// ErrInvalidKeySize is returned when a key blob is not the expected length.
	ErrInvalidKeySize = errors.New("invalid key size")

	// ErrInvalidSignature is returned by Secp256k1KeyPair.Agree when the
	// peer's public key does not decode to a curve point or the shared
	// point cannot be computed. The Verify functions report a malformed
	// signature by returning false, not this error.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrUnsupportedKeyType is returned for a types.KeyType this package
	// does not implement.
	ErrUnsupportedKeyType = errors.New("unsupported key type")
)
