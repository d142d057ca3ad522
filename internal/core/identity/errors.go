package identity

import "errors"

var (
	// ErrUnknownKeyType is returned for a secret/public blob whose length
	// doesn't match any known scheme.
	ErrUnknownKeyType = errors.New("unknown identity key type")

	// ErrNoAgreementKey is returned by Agree on any verify-only identity
	// (one built by FromPublicBytes, without private key material).
	ErrNoAgreementKey = errors.New("identity has no agreement key")
)
