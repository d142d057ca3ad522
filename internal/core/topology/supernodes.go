package topology

import (
	"fmt"
	"net"
	"strconv"

	"github.com/miekg/dns"

	topologyif "github.com/meshnet-io/meshd/pkg/interfaces/topology"
	"github.com/meshnet-io/meshd/pkg/types"
)

// supernodeResolveFunc resolves a configured "host:port" into a dialable
// "ip:port", consulting DNS if host is not already an IP literal.
type supernodeResolveFunc func(hostPort string) (string, error)

// InstallSupernodes implements topologyif.Topology. Each spec's HostPort
// is resolved eagerly; a spec that fails to resolve is logged and
// skipped rather than aborting the whole install, since losing one
// supernode should not prevent startup from using the rest.
func (t *Topology) InstallSupernodes(specs []topologyif.SupernodeSpec) error {
	resolved := make(map[types.PeerAddress]topologyif.PeerRecord, len(specs))

	for _, spec := range specs {
		addr, err := types.ParsePeerAddress(spec.Address)
		if err != nil {
			log.Warn("skipping supernode with unparseable address", "address", spec.Address, "err", err)
			continue
		}
		if _, err := t.resolve(spec.HostPort); err != nil {
			log.Warn("skipping unresolvable supernode", "address", spec.Address, "host_port", spec.HostPort, "err", err)
			continue
		}
		resolved[addr] = topologyif.PeerRecord{Address: addr}
	}

	if len(specs) > 0 && len(resolved) == 0 {
		return ErrSupernodeUnresolvable
	}

	t.mu.Lock()
	t.supernodes = resolved
	t.mu.Unlock()

	log.Info("installed supernodes", "count", len(resolved))
	return nil
}

// Supernodes implements topologyif.Topology.
func (t *Topology) Supernodes() []types.PeerAddress {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make([]types.PeerAddress, 0, len(t.supernodes))
	for addr := range t.supernodes {
		out = append(out, addr)
	}
	return out
}

// IsSupernode implements topologyif.Topology.
func (t *Topology) IsSupernode(addr types.PeerAddress) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()
	_, ok := t.supernodes[addr]
	return ok
}

// resolveSupernodeHost resolves "host:port" to "ip:port". If host is
// already an IP literal it is returned unchanged; otherwise it is
// resolved via the system resolver's configured nameservers using
// miekg/dns, falling back to the first A record returned.
func resolveSupernodeHost(hostPort string) (string, error) {
	host, port, err := net.SplitHostPort(hostPort)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSupernodeUnresolvable, err)
	}
	if _, err := strconv.Atoi(port); err != nil {
		return "", fmt.Errorf("%w: invalid port %q", ErrSupernodeUnresolvable, port)
	}

	if ip := net.ParseIP(host); ip != nil {
		return hostPort, nil
	}

	ip, err := lookupA(host)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSupernodeUnresolvable, err)
	}
	return net.JoinHostPort(ip, port), nil
}

func lookupA(host string) (string, error) {
	conf, err := dns.ClientConfigFromFile("/etc/resolv.conf")
	if err != nil || len(conf.Servers) == 0 {
		return "", fmt.Errorf("no resolver configured: %w", err)
	}

	c := new(dns.Client)
	m := new(dns.Msg)
	m.SetQuestion(dns.Fqdn(host), dns.TypeA)
	m.RecursionDesired = true

	server := net.JoinHostPort(conf.Servers[0], conf.Port)
	r, _, err := c.Exchange(m, server)
	if err != nil {
		return "", err
	}
	if r == nil || r.Rcode != dns.RcodeSuccess {
		return "", fmt.Errorf("dns query failed for %s", host)
	}

	for _, ans := range r.Answer {
		if a, ok := ans.(*dns.A); ok {
			return a.A.String(), nil
		}
	}
	return "", fmt.Errorf("no A record for %s", host)
}
