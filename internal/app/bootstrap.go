package app

import (
	"fmt"
	"io"
	"log/slog"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/meshnet-io/meshd/config"
	internalconfig "github.com/meshnet-io/meshd/internal/config"
	"github.com/meshnet-io/meshd/internal/core/authtoken"
	"github.com/meshnet-io/meshd/internal/core/controlplane"
	"github.com/meshnet-io/meshd/internal/core/demarcation"
	"github.com/meshnet-io/meshd/internal/core/envwatch"
	"github.com/meshnet-io/meshd/internal/core/identity"
	"github.com/meshnet-io/meshd/internal/core/logsink"
	"github.com/meshnet-io/meshd/internal/core/multicaster"
	"github.com/meshnet-io/meshd/internal/core/netconf"
	"github.com/meshnet-io/meshd/internal/core/nodeconfig"
	"github.com/meshnet-io/meshd/internal/core/supervisor"
	"github.com/meshnet-io/meshd/internal/core/switchcore"
	"github.com/meshnet-io/meshd/internal/core/topology"
	"github.com/meshnet-io/meshd/internal/util/logger"
)

var log = logger.Logger("app")

// Bootstrap owns the assembled fx.App and the log sink it writes to, so
// Run can close the sink once the app's shutdown hooks have all fired.
type Bootstrap struct {
	app  *fx.App
	sink io.WriteCloser
}

// New loads configuration, opens the log sink, removes legacy files, and
// assembles every fx module in dependency order. No module may log a
// line before the sink is wired, so SetOutput happens before fx.New.
func New(opts Options) (*Bootstrap, error) {
	cfg, err := LoadConfig(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.MetricsAddr != "" {
		cfg.MetricsAddr = opts.MetricsAddr
	}

	sink, err := logsink.ForConfig(cfg.HomeDir, cfg.HomeDir == "")
	if err != nil {
		return nil, fmt.Errorf("app: open log sink: %w", err)
	}
	logger.SetOutput(sink)

	if level, ok := parseLevel(cfg.LogLevel); ok {
		logger.SetGlobalLevel(level)
	}

	removeLegacyFiles(cfg.HomeDir)

	app := fx.New(moduleOptions(cfg)...)

	return &Bootstrap{app: app, sink: sink}, nil
}

// moduleOptions is every fx module meshd wires, in dependency order. It
// is factored out of New so a test can run it through fx.ValidateApp
// without opening a log sink or touching the filesystem.
func moduleOptions(cfg *config.Config) []fx.Option {
	return []fx.Option{
		internalconfig.Module(cfg),
		identity.Module(),
		authtoken.Module(),
		demarcation.Module(),
		envwatch.Module(),
		topology.Module(),
		switchcore.Module(),
		multicaster.Module(),
		nodeconfig.Module(),
		fx.Provide(provideNetConfReplyHandler),
		netconf.Module(),
		fx.Provide(provideCommandHandler),
		controlplane.Module(),
		supervisor.Module(),
		fx.WithLogger(newFxLogger),
		fx.Invoke(registerMetricsServer),
	}
}

// Run starts the fx.App and blocks until an OS signal or a module-level
// fault brings it down, then closes the log sink.
func (b *Bootstrap) Run() error {
	defer b.sink.Close()
	b.app.Run()
	return b.app.Err()
}

func parseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// newFxLogger wires zap's fxevent.ZapLogger purely as fx's own internal
// startup/shutdown event logger; it is otherwise unrelated to the
// log/slog-based subsystem logging every module uses.
func newFxLogger() fxevent.Logger {
	zl, err := zap.NewProduction()
	if err != nil {
		zl = zap.NewNop()
	}
	return &fxevent.ZapLogger{Logger: zl.WithOptions(zap.IncreaseLevel(zapcore.WarnLevel))}
}
