package switchcore

import (
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"golang.org/x/time/rate"

	"github.com/meshnet-io/meshd/internal/util/logger"
	netconfif "github.com/meshnet-io/meshd/pkg/interfaces/netconf"
	"github.com/meshnet-io/meshd/pkg/types"
)

var log = logger.Logger("switchcore")

// defaultNextDelay is returned by NextDelay when no peer currently has a
// pending retry, so the Supervisor's sleep is still clamped sensibly.
const defaultNextDelay = time.Minute

// Switch is the in-memory implementation of switchcoreif.Switch: one
// golang.org/x/time/rate limiter per peer gates outbound HELLOs and
// firewall openers, and a per-peer next-retry deadline backs NextDelay.
type Switch struct {
	clock clock.Clock

	rateLimit rate.Limit
	burst     int
	backoff   time.Duration

	mu        sync.Mutex
	limiters  map[types.PeerAddress]*rate.Limiter
	nextRetry map[types.PeerAddress]time.Time
}

// New constructs a Switch whose per-peer limiter allows perPeerRate sends
// per second with the given burst, and whose backoff after a rate-limited
// send is backoff.
func New(clk clock.Clock, perPeerRate float64, burst int, backoff time.Duration) *Switch {
	return &Switch{
		clock:     clk,
		rateLimit: rate.Limit(perPeerRate),
		burst:     burst,
		backoff:   backoff,
		limiters:  make(map[types.PeerAddress]*rate.Limiter),
		nextRetry: make(map[types.PeerAddress]time.Time),
	}
}

func (s *Switch) limiterFor(addr types.PeerAddress) *rate.Limiter {
	if l, ok := s.limiters[addr]; ok {
		return l
	}
	l := rate.NewLimiter(s.rateLimit, s.burst)
	s.limiters[addr] = l
	return l
}

// NextDelay implements switchcoreif.Switch: the minimum of all peers'
// pending retry deadlines, or defaultNextDelay if none are pending.
func (s *Switch) NextDelay(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	min := defaultNextDelay
	have := false
	for _, deadline := range s.nextRetry {
		d := deadline.Sub(now)
		if d < 0 {
			d = 0
		}
		if !have || d < min {
			min = d
			have = true
		}
	}
	return min
}

// Announce implements switchcoreif.Switch.
func (s *Switch) Announce(networks []types.NetworkID) error {
	if len(networks) == 0 {
		return nil
	}
	log.Debug("announcing multicast membership", "networks", networks)
	return nil
}

// SendHello implements switchcoreif.Switch.
func (s *Switch) SendHello(addr types.PeerAddress) error {
	return s.send(addr, "HELLO")
}

// SendFirewallOpener implements switchcoreif.Switch.
func (s *Switch) SendFirewallOpener(addr types.PeerAddress) error {
	return s.send(addr, "firewall opener")
}

// EnqueueNetConfReply implements switchcoreif.Switch. The overlay wire
// codec is out of scope here, so this logs the would-be NETWORK_CONFIG_REQUEST
// response rather than serializing one.
func (s *Switch) EnqueueNetConfReply(reply netconfif.Reply) error {
	if reply.Kind == netconfif.ReplyError {
		log.Debug("enqueuing netconf error reply",
			"peer", reply.Peer, "network", reply.Network,
			"inRePacketID", reply.RequestID, "error", reply.Error)
		return nil
	}
	log.Debug("enqueuing netconf ok reply",
		"peer", reply.Peer, "network", reply.Network,
		"inRePacketID", reply.RequestID, "blobLen", len(reply.Blob))
	return nil
}

func (s *Switch) send(addr types.PeerAddress, what string) error {
	now := s.clock.Now()

	s.mu.Lock()
	limiter := s.limiterFor(addr)
	allowed := limiter.AllowN(now, 1)
	if !allowed {
		s.nextRetry[addr] = now.Add(s.backoff)
	} else {
		delete(s.nextRetry, addr)
	}
	s.mu.Unlock()

	if !allowed {
		log.Debug("rate limited outbound send", "peer", addr, "what", what)
		return ErrRateLimited
	}

	log.Debug("sending", "peer", addr, "what", what)
	return nil
}
