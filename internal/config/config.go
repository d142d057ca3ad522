// Package config fans the user-facing config.Config out into the named fx
// values each module's Params struct asks for, so no module imports the
// root config package directly.
package config

import (
	"os"
	"path/filepath"
	"time"

	"go.uber.org/fx"

	"github.com/meshnet-io/meshd/config"
	"github.com/meshnet-io/meshd/internal/util/logger"
	"github.com/meshnet-io/meshd/pkg/types"
)

// netConfServiceFile is the presence-gated file checked before launching
// the NetConf Bridge: services.d/netconf.service, relative to HomeDir.
const netConfServiceFile = "services.d/netconf.service"

var log = logger.Logger("config")

// Values is every named value this package provides into the fx graph.
type Values struct {
	fx.Out

	IdentityDir     string        `name:"identity_dir"`
	IdentityKeyType types.KeyType `name:"identity_key_type"`

	ControlUDPPort int    `name:"control_udp_port"`
	OverlayUDPPort int    `name:"overlay_udp_port"`
	HomeDir        string `name:"home_dir"`

	MinServiceLoopInterval time.Duration `name:"min_service_loop_interval"`
	PingPeriod             time.Duration `name:"ping_period"`
	MulticastPeriod        time.Duration `name:"multicast_period"`

	DBCleanPeriod              time.Duration `name:"db_clean_period"`
	MulticastAnnounceAllPeriod time.Duration `name:"multicast_announce_all_period"`
	PeerDirectPingDelay        time.Duration `name:"peer_direct_ping_delay"`
	SleepWakeThreshold         time.Duration `name:"sleep_wake_threshold"`
	SleepSettleInterval        time.Duration `name:"sleep_settle_interval"`
	HelloRateLimitPerSecond    float64       `name:"hello_rate_limit_per_second"`

	EnableUPnP      bool          `name:"nat_enable_upnp"`
	EnableNATPMP    bool          `name:"nat_enable_natpmp"`
	MappingLifetime time.Duration `name:"nat_mapping_lifetime"`

	MemoryLimitBytes    int64         `name:"recovery_memory_limit_bytes"`
	FingerprintInterval time.Duration `name:"recovery_fingerprint_interval"`

	Supernodes        []config.Supernode  `name:"supernodes"`
	Networks          []types.NetworkID   `name:"networks"`
	NetConfHelperPath string              `name:"netconf_helper_path"`
	MetricsAddr       string              `name:"metrics_addr"`
}

func provideValues(cfg *config.Config) Values {
	keyType := types.KeyTypeHybrid
	if cfg.Identity.KeyType == "Secp256k1" {
		keyType = types.KeyTypeSecp256k1
	}
	identityDir := cfg.Identity.Dir
	if identityDir == "" {
		identityDir = cfg.HomeDir
	}
	return Values{
		IdentityDir:             identityDir,
		IdentityKeyType:         keyType,
		ControlUDPPort:          cfg.ControlUDPPort,
		OverlayUDPPort:          cfg.OverlayUDPPort,
		HomeDir:                 cfg.HomeDir,
		MinServiceLoopInterval:  time.Duration(cfg.MinServiceLoopInterval),
		PingPeriod:              time.Duration(cfg.PingPeriod),
		MulticastPeriod:         time.Duration(cfg.MulticastPeriod),
		DBCleanPeriod:              time.Duration(cfg.DBCleanPeriod),
		MulticastAnnounceAllPeriod: time.Duration(cfg.MulticastAnnounceAllPeriod),
		PeerDirectPingDelay:        time.Duration(cfg.PeerDirectPingDelay),
		SleepWakeThreshold:         time.Duration(cfg.SleepWakeThreshold),
		SleepSettleInterval:        time.Duration(cfg.SleepSettleInterval),
		HelloRateLimitPerSecond:    cfg.HelloRateLimitPerSecond,
		EnableUPnP:              cfg.NAT.EnableUPnP,
		EnableNATPMP:            cfg.NAT.EnableNATPMP,
		MappingLifetime:         time.Duration(cfg.NAT.MappingLifetime),
		MemoryLimitBytes:        cfg.Recovery.MemoryLimitBytes,
		FingerprintInterval:     time.Duration(cfg.Recovery.FingerprintInterval),
		Supernodes:              cfg.Supernodes,
		Networks:                parseNetworks(cfg.Networks),
		NetConfHelperPath:       gatedNetConfHelperPath(cfg.HomeDir, cfg.NetConfHelperPath),
		MetricsAddr:             cfg.MetricsAddr,
	}
}

// gatedNetConfHelperPath only returns a helper path if its gating file
// exists on disk, regardless of whether one is configured: the NetConf
// Bridge stays dormant on hosts that never opted into it.
func gatedNetConfHelperPath(homeDir, helperPath string) string {
	if helperPath == "" {
		return ""
	}
	if _, err := os.Stat(filepath.Join(homeDir, netConfServiceFile)); err != nil {
		log.Debug("netconf service gating file absent, bridge disabled", "path", filepath.Join(homeDir, netConfServiceFile))
		return ""
	}
	return helperPath
}

func parseNetworks(raw []string) []types.NetworkID {
	out := make([]types.NetworkID, 0, len(raw))
	for _, s := range raw {
		id, err := types.ParseNetworkID(s)
		if err != nil {
			log.Warn("skipping malformed network id in configuration", "value", s, "err", err)
			continue
		}
		out = append(out, id)
	}
	return out
}

// Module supplies cfg and fans its fields out as named fx values. It does
// not validate cfg.
func Module(cfg *config.Config) fx.Option {
	return fx.Module("config",
		fx.Supply(cfg),
		fx.Provide(provideValues),
	)
}
