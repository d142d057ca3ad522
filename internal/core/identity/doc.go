// Package identity implements meshd's two key schemes: a hybrid
// Curve25519+Ed25519 identity (the default) and a single secp256k1
// identity, plus identity.secret/identity.public persistence.
package identity
