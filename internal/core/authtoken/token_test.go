package authtoken

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateProducesValidToken(t *testing.T) {
	tok, err := generate()
	assert.NoError(t, err)
	assert.Len(t, tok.String(), tokenLength)
	assert.True(t, isValid(tok.String()))
}

func TestKeyIsDeterministicSHA256(t *testing.T) {
	a := newToken("ABCDEFGHIJKLMNOPQRSTUVWX")
	b := newToken("ABCDEFGHIJKLMNOPQRSTUVWX")
	c := newToken("YBCDEFGHIJKLMNOPQRSTUVWX")

	assert.Equal(t, a.Key(), b.Key())
	assert.NotEqual(t, a.Key(), c.Key())
}

func TestIsValidRejectsWrongLengthOrCharset(t *testing.T) {
	assert.False(t, isValid("short"))
	assert.False(t, isValid("has-a-dash-in-it-24chars"))
	assert.True(t, isValid("ABCDEFGHIJKLMNOPQRSTUVWX"))
}
