// Package config holds meshd's validated, user-facing Config: one struct
// per concern, a DefaultConfig constructor, and a Validate method, mirrored
// internally by internal/config for the fx-wired version.
package config

import "time"

const (
	defaultControlUDPPort            = 39393
	defaultOverlayUDPPort            = 9993
	defaultMinServiceLoopInterval    = 130 * time.Millisecond
	defaultPingPeriod                = 600 * time.Second
	defaultMulticastPeriod           = 600 * time.Second
	defaultFingerprintInterval       = 30 * time.Second
	defaultDBCleanPeriod             = 300 * time.Second
	defaultMulticastAnnounceAll      = 3600 * time.Second
	defaultPeerDirectPingDelay       = 600 * time.Second
	defaultSleepWakeThreshold        = 10 * time.Second
	defaultSleepSettleInterval       = 1 * time.Second
	defaultHelloRateLimitPerSecond   = 32
)

// Supernode is one hard-coded bootstrap peer, installed into Topology's
// unevictable set at startup.
type Supernode struct {
	// Address is the supernode's expected short address, hex-encoded.
	Address string `json:"address"`

	// HostPort is either an IP:port or a hostname:port; hostnames are
	// resolved via miekg/dns at startup and on the control plane's
	// "supernodes refresh" command.
	HostPort string `json:"host_port"`
}

// Config is meshd's complete, validated configuration.
type Config struct {
	// HomeDir holds authtoken.secret, peer.db, and node.log, and also
	// identity.secret and identity.public unless Identity.Dir names
	// another directory.
	HomeDir string `json:"home_dir"`

	Identity IdentityConfig `json:"identity"`
	NAT      NATConfig      `json:"nat"`
	Recovery RecoveryConfig `json:"recovery"`

	// ControlUDPPort is ZT_CONTROL_UDP_PORT, the loopback port the Local
	// Control Server binds.
	ControlUDPPort int `json:"control_udp_port"`

	// OverlayUDPPort is the port the demarcation point binds for overlay
	// traffic and advertises via NAT port mapping.
	OverlayUDPPort int `json:"overlay_udp_port"`

	// MinServiceLoopInterval caps the Supervisor's per-iteration sleep: the
	// switch's recommended delay is clamped to at most this value.
	MinServiceLoopInterval Duration `json:"min_service_loop_interval"`

	// PingPeriod is how often the service loop runs its HELLO/firewall
	// opener phase.
	PingPeriod Duration `json:"ping_period"`

	// MulticastPeriod is how often multicast group membership is
	// recomputed and announced.
	MulticastPeriod Duration `json:"multicast_period"`

	// DBCleanPeriod is how often topology evicts expired peers and
	// node-config cleans each network's transient state.
	DBCleanPeriod Duration `json:"db_clean_period"`

	// MulticastAnnounceAllPeriod is how often every attached network is
	// re-announced in full, not just the networks whose membership
	// changed since the last poll.
	MulticastAnnounceAllPeriod Duration `json:"multicast_announce_all_period"`

	// PeerDirectPingDelay is how long a peer may go without a direct send
	// before it is due a HELLO.
	PeerDirectPingDelay Duration `json:"peer_direct_ping_delay"`

	// SleepWakeThreshold is how far actual sleep duration may exceed
	// requested sleep duration before the loop assumes the host was
	// suspended and resumed.
	SleepWakeThreshold Duration `json:"sleep_wake_threshold"`

	// SleepSettleInterval is the brief pause taken after a detected
	// suspend/resume, before the loop resumes its normal cadence.
	SleepSettleInterval Duration `json:"sleep_settle_interval"`

	// HelloRateLimitPerSecond is the per-peer rate, in sends per second,
	// at which the switch allows HELLO/firewall-opener datagrams to one
	// peer.
	HelloRateLimitPerSecond float64 `json:"hello_rate_limit_per_second"`

	// Supernodes is the hard-coded bootstrap list installed at startup
	// step 10.
	Supernodes []Supernode `json:"supernodes"`

	// Networks is the set of virtual networks this node has joined, as
	// 16-hex-digit network ids. The service loop's multicast-announcement
	// step iterates this list each poll.
	Networks []string `json:"networks"`

	// MetricsAddr, if non-empty, is the loopback address cmd/meshd serves
	// /metrics on (e.g. "127.0.0.1:9995"). Empty disables the exporter;
	// metrics are still collected into the private registry either way.
	MetricsAddr string `json:"metrics_addr"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `json:"log_level"`

	// LogFormat is "text" or "json".
	LogFormat string `json:"log_format"`

	// NetConfHelperPath is the path to the netconf subprocess helper
	// binary. Empty disables the NetConf Bridge entirely (services.d's
	// gating file takes precedence even if this is set).
	NetConfHelperPath string `json:"netconf_helper_path"`
}

// DefaultConfig returns meshd's default configuration.
func DefaultConfig() *Config {
	return &Config{
		HomeDir:                 "",
		Identity:                DefaultIdentityConfig(),
		NAT:                     DefaultNATConfig(),
		Recovery:                DefaultRecoveryConfig(),
		ControlUDPPort:          defaultControlUDPPort,
		OverlayUDPPort:          defaultOverlayUDPPort,
		MinServiceLoopInterval:     Duration(defaultMinServiceLoopInterval),
		PingPeriod:                 Duration(defaultPingPeriod),
		MulticastPeriod:            Duration(defaultMulticastPeriod),
		DBCleanPeriod:              Duration(defaultDBCleanPeriod),
		MulticastAnnounceAllPeriod: Duration(defaultMulticastAnnounceAll),
		PeerDirectPingDelay:        Duration(defaultPeerDirectPingDelay),
		SleepWakeThreshold:         Duration(defaultSleepWakeThreshold),
		SleepSettleInterval:        Duration(defaultSleepSettleInterval),
		HelloRateLimitPerSecond:    defaultHelloRateLimitPerSecond,
		Supernodes:                 nil,
		MetricsAddr:             "",
		LogLevel:                "info",
		LogFormat:               "text",
		NetConfHelperPath:       "",
	}
}

// Validate checks the configuration for internal consistency.
func (c *Config) Validate() error {
	if err := c.Identity.Validate(); err != nil {
		return err
	}
	if err := c.NAT.Validate(); err != nil {
		return err
	}
	if err := c.Recovery.Validate(); err != nil {
		return err
	}
	if c.ControlUDPPort <= 0 || c.ControlUDPPort > 65535 {
		return errInvalidPort("control_udp_port")
	}
	if c.OverlayUDPPort <= 0 || c.OverlayUDPPort > 65535 {
		return errInvalidPort("overlay_udp_port")
	}
	if time.Duration(c.MinServiceLoopInterval) <= 0 {
		return errNonPositive("min_service_loop_interval")
	}
	if time.Duration(c.DBCleanPeriod) <= 0 {
		return errNonPositive("db_clean_period")
	}
	if time.Duration(c.MulticastAnnounceAllPeriod) <= 0 {
		return errNonPositive("multicast_announce_all_period")
	}
	if time.Duration(c.PeerDirectPingDelay) <= 0 {
		return errNonPositive("peer_direct_ping_delay")
	}
	if time.Duration(c.SleepWakeThreshold) <= 0 {
		return errNonPositive("sleep_wake_threshold")
	}
	if time.Duration(c.SleepSettleInterval) <= 0 {
		return errNonPositive("sleep_settle_interval")
	}
	if c.HelloRateLimitPerSecond <= 0 {
		return errNonPositive("hello_rate_limit_per_second")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return errInvalidLogLevel
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return errInvalidLogFormat
	}
	return nil
}
