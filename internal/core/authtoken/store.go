package authtoken

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/meshnet-io/meshd/internal/util/atomicfile"
	authtokenif "github.com/meshnet-io/meshd/pkg/interfaces/authtoken"
)

const secretFileName = "authtoken.secret"

// fileStore implements authtokenif.Store against authtoken.secret,
// mirroring identity's reconciliation style: a missing or malformed file
// is replaced with a freshly generated one rather than failing startup.
type fileStore struct{}

// NewStore returns the disk-backed authtoken.Store.
func NewStore() authtokenif.Store {
	return fileStore{}
}

func (fileStore) Load(dir string) (authtokenif.Token, error) {
	path := filepath.Join(dir, secretFileName)

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		return generateAndSave(dir, path)
	case err != nil:
		return nil, fmt.Errorf("authtoken: read %s: %w", path, err)
	}

	value := strings.TrimSpace(string(raw))
	if !isValid(value) {
		log.Warn("authtoken.secret malformed, regenerating", "path", path)
		return generateAndSave(dir, path)
	}
	return newToken(value), nil
}

func generateAndSave(dir, path string) (authtokenif.Token, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("authtoken: create home dir: %w", err)
	}
	t, err := generate()
	if err != nil {
		return nil, err
	}
	if err := atomicfile.Write(path, []byte(t.value), 0600); err != nil {
		return nil, fmt.Errorf("authtoken: writing %s: %w", path, err)
	}
	return t, nil
}
