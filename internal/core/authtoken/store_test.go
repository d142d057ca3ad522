package authtoken

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadGeneratesAndPersists(t *testing.T) {
	dir := t.TempDir()
	store := NewStore()

	tok, err := store.Load(dir)
	require.NoError(t, err)
	assert.Len(t, tok.String(), tokenLength)

	path := filepath.Join(dir, secretFileName)
	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	again, err := store.Load(dir)
	require.NoError(t, err)
	assert.Equal(t, tok.String(), again.String())
}

func TestLoadRegeneratesMalformedToken(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, secretFileName)
	require.NoError(t, os.WriteFile(path, []byte("too-short"), 0600))

	tok, err := NewStore().Load(dir)
	require.NoError(t, err)
	assert.True(t, isValid(tok.String()))
}
