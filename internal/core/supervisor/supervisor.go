package supervisor

import (
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	temperrcatcher "github.com/jbenet/go-temp-err-catcher"

	"github.com/meshnet-io/meshd/internal/core/envwatch"
	"github.com/meshnet-io/meshd/internal/core/switchcore"
	"github.com/meshnet-io/meshd/internal/util/logger"
	identityif "github.com/meshnet-io/meshd/pkg/interfaces/identity"
	multicasterif "github.com/meshnet-io/meshd/pkg/interfaces/multicaster"
	netconfif "github.com/meshnet-io/meshd/pkg/interfaces/netconf"
	nodeconfigif "github.com/meshnet-io/meshd/pkg/interfaces/nodeconfig"
	switchif "github.com/meshnet-io/meshd/pkg/interfaces/switchcore"
	topologyif "github.com/meshnet-io/meshd/pkg/interfaces/topology"
	"github.com/meshnet-io/meshd/pkg/types"
)

var log = logger.Logger("supervisor")

// Config is the tunable periods and thresholds the service loop runs on,
// fanned out by internal/config.
type Config struct {
	MinServiceLoopInterval     time.Duration
	PingPeriod                 time.Duration
	MulticastPeriod            time.Duration
	DBCleanPeriod              time.Duration
	MulticastAnnounceAllPeriod time.Duration
	PeerDirectPingDelay        time.Duration
	SleepWakeThreshold         time.Duration
	SleepSettleInterval        time.Duration
	FingerprintCheckInterval   time.Duration
	Networks                   []types.NetworkID
}

// Deps are the Supervisor's running collaborators, each built and started
// by its own fx module before the Supervisor's OnStart hook fires.
type Deps struct {
	Identity   identityif.Identity
	Topology   topologyif.Topology
	Switch     switchif.Switch
	Multicast  multicasterif.Multicaster
	NodeConfig nodeconfigif.NodeConfig
	Memory     *envwatch.MemoryMonitor
	Bridge     netconfif.Bridge // optional; nil when no NetConf helper is configured
	Clock      clock.Clock
}

// Supervisor runs meshd's service loop: the 5-phase cycle of sleep/wake
// detection, network-environment resync, multicast announcement, HELLO and
// firewall-opener dispatch, and housekeeping described by the node's
// startup sequence. Exactly one Run call is permitted per instance.
type Supervisor struct {
	cfg  Config
	deps Deps

	tec     temperrcatcher.TempErrCatcher
	metrics *metrics

	ran   bool
	runMu sync.Mutex

	stopOnce sync.Once
	stopCh   chan struct{}

	mu        sync.Mutex
	reason    types.TerminationReason
	reasonMsg string
	done      bool

	// loop-local state; only ever touched by the goroutine inside Run.
	isSupernode        bool
	pingAll            bool
	lastFingerprint    types.NetworkConfigurationFingerprint
	lastFingerprintAt  time.Time
	lastMulticastAt    time.Time
	lastFullAnnounceAt time.Time
	lastPingAt         time.Time
	lastCleanAt        time.Time
}

// New constructs a Supervisor. It does not start the loop; call Run for
// that.
func New(cfg Config, deps Deps) *Supervisor {
	s := &Supervisor{
		cfg:     cfg,
		deps:    deps,
		stopCh:  make(chan struct{}),
		reason:  types.ReasonRunning,
		metrics: newMetrics(),
	}
	// Cap the per-peer-send backoff tightly: a cycle that rate-limits
	// several peers in a row must not stall waiting on it.
	s.tec.Max = 20 * time.Millisecond
	return s
}

// Run executes the startup sequence's remaining runtime behavior and then
// blocks in the service loop until Terminate is called or an unrecoverable
// fault occurs. It returns the reason the loop exited.
//
// A second call on the same instance returns ReasonUnrecoverableError
// immediately without disturbing the first call's eventual result; see
// ReasonForTermination for that.
func (s *Supervisor) Run() types.TerminationReason {
	s.runMu.Lock()
	if s.ran {
		s.runMu.Unlock()
		return types.ReasonUnrecoverableError
	}
	s.ran = true
	s.runMu.Unlock()

	reason, msg := s.runLoop()

	s.mu.Lock()
	s.reason = reason
	s.reasonMsg = msg
	s.done = true
	s.mu.Unlock()

	return reason
}

// Terminate requests an orderly shutdown. Idempotent and safe to call
// before Run, concurrently with Run, or after Run has already returned.
func (s *Supervisor) Terminate() {
	s.stopOnce.Do(func() {
		close(s.stopCh)
	})
}

// ReasonForTermination reports the human-readable reason the loop exited
// and ok=true, or ok=false while the node is still running.
func (s *Supervisor) ReasonForTermination() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.done {
		return "", false
	}
	return s.reasonMsg, true
}

// Reason reports the tagged termination outcome and ok=true, or
// ReasonRunning and ok=false while the node is still running. The control
// plane's "info" command reports this alongside ReasonForTermination's
// detail string.
func (s *Supervisor) Reason() (types.TerminationReason, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.done {
		return types.ReasonRunning, false
	}
	return s.reason, true
}

func (s *Supervisor) runLoop() (types.TerminationReason, string) {
	s.isSupernode = s.deps.Topology.IsSupernode(s.deps.Identity.Address())
	s.lastFingerprint = envwatch.Fingerprint()

	firstIteration := true
	var lastSleepRequested, lastSleepActual time.Duration

	for {
		select {
		case <-s.stopCh:
			return types.ReasonNormal, "terminated by request"
		default:
		}

		if err := s.deps.Memory.Err(); err != nil {
			return types.ReasonUnrecoverableError, err.Error()
		}

		now := s.deps.Clock.Now()

		if !firstIteration {
			if delta := lastSleepActual - lastSleepRequested; delta >= s.cfg.SleepWakeThreshold {
				log.Warn("observed sleep longer than requested, treating as suspend/resume", "delta", delta)
				s.lastFingerprintAt = time.Time{}
				s.lastMulticastAt = time.Time{}
				s.pingAll = true
				if stopped := s.sleepInterruptible(s.cfg.SleepSettleInterval); stopped {
					return types.ReasonNormal, "terminated by request"
				}
				now = s.deps.Clock.Now()
			}
		}

		iterationStart := now
		s.checkFingerprint(now)
		s.checkMulticast(now)
		s.checkPing(now)
		s.checkHousekeeping(now)
		s.metrics.observeIteration(s.deps.Clock.Now().Sub(iterationStart))

		delay := s.deps.Switch.NextDelay(s.deps.Clock.Now())
		if delay > s.cfg.MinServiceLoopInterval {
			delay = s.cfg.MinServiceLoopInterval
		}

		sleepStart := s.deps.Clock.Now()
		stopped := s.sleepInterruptible(delay)
		lastSleepRequested = delay
		lastSleepActual = s.deps.Clock.Now().Sub(sleepStart)
		firstIteration = false

		if stopped {
			return types.ReasonNormal, "terminated by request"
		}
	}
}

// sleepInterruptible waits up to d for a timer to fire, returning true if
// Terminate fired first. A non-positive d returns immediately, still
// checking for a pending terminate.
func (s *Supervisor) sleepInterruptible(d time.Duration) bool {
	if d <= 0 {
		select {
		case <-s.stopCh:
			return true
		default:
			return false
		}
	}
	timer := s.deps.Clock.Timer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return false
	case <-s.stopCh:
		return true
	}
}

// checkFingerprint is phase 2: sample the network-environment fingerprint
// and, if it changed, force a resync of the state the rest of the cycle
// drives from.
func (s *Supervisor) checkFingerprint(now time.Time) {
	if now.Sub(s.lastFingerprintAt) < s.cfg.FingerprintCheckInterval {
		return
	}
	s.lastFingerprintAt = now

	current := envwatch.Fingerprint()
	if current == s.lastFingerprint {
		return
	}
	log.Info("network configuration fingerprint changed, resyncing", "previous", s.lastFingerprint, "current", current)
	s.lastFingerprint = current
	s.pingAll = true
	s.lastMulticastAt = time.Time{}

	if err := s.deps.NodeConfig.WhackAllTaps(); err != nil {
		log.Warn("whacking all taps failed", "err", err)
		s.metrics.loopErrors.Inc()
	}
}

// checkMulticast is phase 3: recompute per-network multicast group
// membership and announce whichever networks changed, plus every network
// if it has been long enough since the last full announcement.
func (s *Supervisor) checkMulticast(now time.Time) {
	if now.Sub(s.lastMulticastAt) < s.cfg.MulticastPeriod {
		return
	}
	s.lastMulticastAt = now

	var changed []types.NetworkID
	for _, nw := range s.cfg.Networks {
		did, err := s.deps.Multicast.Update(nw)
		if err != nil {
			log.Warn("multicast membership update failed", "network", nw, "err", err)
			s.metrics.loopErrors.Inc()
			continue
		}
		if did {
			changed = append(changed, nw)
		}
	}

	announceAll := len(s.cfg.Networks) > 0 && now.Sub(s.lastFullAnnounceAt) >= s.cfg.MulticastAnnounceAllPeriod
	toAnnounce := changed
	if announceAll {
		toAnnounce = s.cfg.Networks
	}
	if len(toAnnounce) == 0 {
		return
	}

	if err := s.deps.Switch.Announce(toAnnounce); err != nil {
		log.Warn("multicast announce failed", "networks", toAnnounce, "err", err)
		s.metrics.loopErrors.Inc()
		return
	}
	if announceAll {
		s.lastFullAnnounceAt = now
	}
}

// checkPing is phase 4: dispatch HELLOs and firewall openers. Supernodes
// only ping other stale supernodes; ordinary nodes ping due peers (or every
// active direct peer, right after a resync) and open firewalls toward
// peers with no confirmed direct path yet.
func (s *Supervisor) checkPing(now time.Time) {
	if now.Sub(s.lastPingAt) < s.cfg.PingPeriod {
		return
	}
	s.lastPingAt = now

	if s.isSupernode {
		for _, addr := range s.deps.Topology.StaleSupernodes(now, s.cfg.PeerDirectPingDelay) {
			s.sendHello(addr, now, "stale_supernode")
		}
		return
	}

	if s.pingAll {
		for _, addr := range s.deps.Topology.ActiveDirectPeers() {
			s.sendHello(addr, now, "ping_all")
		}
		s.pingAll = false
		return
	}

	for _, addr := range s.deps.Topology.NeedingPing(now, s.cfg.PeerDirectPingDelay) {
		s.sendHello(addr, now, "due")
	}
	for _, addr := range s.deps.Topology.NeedingFirewallOpener(now) {
		s.sendFirewallOpener(addr, now)
	}
}

// checkHousekeeping is phase 5: evict expired peer state and clean up each
// attached network's transient state.
func (s *Supervisor) checkHousekeeping(now time.Time) {
	if now.Sub(s.lastCleanAt) < s.cfg.DBCleanPeriod {
		return
	}
	s.lastCleanAt = now

	if n := s.deps.Topology.EvictExpired(now); n > 0 {
		log.Debug("evicted expired peer records", "count", n)
	}
	for _, nw := range s.cfg.Networks {
		if err := s.deps.NodeConfig.CleanNetwork(nw); err != nil {
			log.Warn("network cleanup failed", "network", nw, "err", err)
			s.metrics.loopErrors.Inc()
		}
	}
}

func (s *Supervisor) sendHello(addr types.PeerAddress, now time.Time, reason string) {
	err := s.deps.Switch.SendHello(addr)
	if err == nil {
		s.deps.Topology.RecordDirectSend(addr, now)
		log.Info("sent HELLO", "peer", addr, "reason", reason)
		return
	}
	if s.isTemporary(err) {
		log.Debug("deferred HELLO, peer over its send budget this cycle", "peer", addr, "reason", reason)
		return
	}
	log.Warn("HELLO send failed", "peer", addr, "reason", reason, "err", err)
}

func (s *Supervisor) sendFirewallOpener(addr types.PeerAddress, now time.Time) {
	err := s.deps.Switch.SendFirewallOpener(addr)
	if err == nil {
		log.Debug("sent firewall opener", "peer", addr)
		return
	}
	if s.isTemporary(err) {
		log.Debug("deferred firewall opener, peer over its send budget this cycle", "peer", addr)
		return
	}
	log.Warn("firewall opener send failed", "peer", addr, "err", err)
}

// isTemporary classifies a rate-limited send as temporary, letting the
// catcher apply a short, bounded backoff before the next peer in this
// cycle is dispatched; any other error is a hard per-peer failure, logged
// by the caller without backoff.
func (s *Supervisor) isTemporary(err error) bool {
	if !errors.Is(err, switchcore.ErrRateLimited) {
		return false
	}
	return s.tec.IsTemporary(temperrcatcher.ErrTemporary{Err: err})
}
