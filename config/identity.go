package config

import "errors"

// IdentityConfig controls how the node's cryptographic identity is
// created and persisted.
type IdentityConfig struct {
	// KeyType selects the key scheme: "Hybrid" (default, Curve25519 +
	// Ed25519) or "Secp256k1".
	KeyType string `json:"key_type"`

	// Dir is the directory holding identity.secret and identity.public.
	// If empty, HomeDir is used.
	Dir string `json:"dir"`
}

// DefaultIdentityConfig returns the default identity configuration.
func DefaultIdentityConfig() IdentityConfig {
	return IdentityConfig{
		KeyType: "Hybrid",
		Dir:     "",
	}
}

// Validate checks the identity configuration.
func (c IdentityConfig) Validate() error {
	switch c.KeyType {
	case "Hybrid", "Secp256k1":
	default:
		return errors.New("identity: key_type must be Hybrid or Secp256k1")
	}
	return nil
}
