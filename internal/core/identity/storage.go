package identity

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/meshnet-io/meshd/internal/util/atomicfile"
	identityif "github.com/meshnet-io/meshd/pkg/interfaces/identity"
	"github.com/meshnet-io/meshd/pkg/types"
)

const (
	secretFileName = "identity.secret"
	publicFileName = "identity.public"
)

// fileManager implements identityif.Manager against a pair of files on
// disk, identity.secret and identity.public, following the same
// reconciliation rule ZeroTier's node uses: identity.public is always
// rederived from identity.secret if the two disagree.
type fileManager struct{}

// NewManager returns the disk-backed identity.Manager.
func NewManager() identityif.Manager {
	return fileManager{}
}

func (fileManager) Generate(keyType types.KeyType) (identityif.Identity, error) {
	return Generate(keyType)
}

func (fileManager) Load(dir string, defaultKeyType types.KeyType) (identityif.Identity, error) {
	secretPath := filepath.Join(dir, secretFileName)
	publicPath := filepath.Join(dir, publicFileName)

	secretBytes, err := os.ReadFile(secretPath)
	switch {
	case os.IsNotExist(err):
		id, genErr := Generate(defaultKeyType)
		if genErr != nil {
			return nil, genErr
		}
		if saveErr := (fileManager{}).Save(id, dir); saveErr != nil {
			return nil, saveErr
		}
		return id, nil
	case err != nil:
		return nil, err
	}

	id, err := FromSecretBytes(secretBytes)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", secretPath, err)
	}

	publicBytes, err := os.ReadFile(publicPath)
	if err != nil || !bytes.Equal(publicBytes, id.PublicBytes()) {
		if writeErr := atomicfile.Write(publicPath, id.PublicBytes(), 0644); writeErr != nil {
			return nil, fmt.Errorf("rewriting %s: %w", publicPath, writeErr)
		}
	}

	return id, nil
}

func (fileManager) Save(id identityif.Identity, dir string) error {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return err
	}
	secretPath := filepath.Join(dir, secretFileName)
	publicPath := filepath.Join(dir, publicFileName)

	if err := atomicfile.Write(secretPath, id.SecretBytes(), 0600); err != nil {
		return fmt.Errorf("writing %s: %w", secretPath, err)
	}
	if err := atomicfile.Write(publicPath, id.PublicBytes(), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", publicPath, err)
	}
	return nil
}
