package identity

import (
	"os"
	"path/filepath"

	"go.uber.org/fx"

	"github.com/meshnet-io/meshd/internal/util/logger"
	identityif "github.com/meshnet-io/meshd/pkg/interfaces/identity"
	"github.com/meshnet-io/meshd/pkg/types"
	"github.com/meshnet-io/meshd/pkg/version"
)

var log = logger.Logger("identity")

// Params configures the identity module's Load call; both fields are
// supplied from the resolved Config.
type Params struct {
	fx.In

	Dir         string         `name:"identity_dir"`
	DefaultType types.KeyType  `name:"identity_key_type"`
}

func provideIdentity(p Params) (identityif.Identity, error) {
	_, err := os.Stat(filepath.Join(p.Dir, secretFileName))
	hadExisting := err == nil

	mgr := NewManager()
	id, err := mgr.Load(p.Dir, p.DefaultType)
	if err != nil {
		return nil, err
	}

	if !hadExisting {
		log.Info("generated new identity", "address", id.Address())
	}
	log.Info("starting", "address", id.Address(), "version", version.String())

	return id, nil
}

// Module loads or creates this node's identity under the configured
// directory and makes it available to every other fx module.
func Module() fx.Option {
	return fx.Module("identity",
		fx.Provide(
			fx.Annotate(NewManager, fx.As(new(identityif.Manager))),
			fx.Annotate(provideIdentity, fx.As(new(identityif.Identity))),
		),
	)
}
