// Package crypto implements the two asymmetric key schemes an Identity can
// be built from: a hybrid Curve25519 (agreement) + Ed25519 (signing) pair,
// and a single secp256k1 key used for both.
package crypto
