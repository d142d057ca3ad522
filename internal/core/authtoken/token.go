package authtoken

import (
	"crypto/rand"
	"fmt"

	sha256 "github.com/minio/sha256-simd"

	authtokenif "github.com/meshnet-io/meshd/pkg/interfaces/authtoken"
)

const (
	tokenLength = 24
	alphabet    = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// token is the disk-backed authtokenif.Token: a 24-character
// [A-Za-z0-9] string plus its derived key, computed once at load time.
type token struct {
	value string
	key   [32]byte
}

func (t token) String() string { return t.value }

func (t token) Key() [32]byte { return t.key }

// generate draws a fresh 24-character token from a cryptographically
// secure random source.
func generate() (token, error) {
	var buf [tokenLength]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return token{}, fmt.Errorf("authtoken: read random bytes: %w", err)
	}
	b := make([]byte, tokenLength)
	for i, v := range buf {
		b[i] = alphabet[int(v)%len(alphabet)]
	}
	return newToken(string(b)), nil
}

func newToken(value string) token {
	sum := sha256.Sum256([]byte(value))
	return token{value: value, key: sum}
}

func isValid(s string) bool {
	if len(s) != tokenLength {
		return false
	}
	for _, r := range s {
		switch {
		case r >= 'A' && r <= 'Z':
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}

var _ authtokenif.Token = token{}
