// Package authtoken loads or generates authtoken.secret, the 24-character
// shared secret the Local Control Server and Local Control Client derive
// their HMAC key from.
package authtoken
