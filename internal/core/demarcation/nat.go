package demarcation

import (
	"context"
	"errors"
	"net"
	"time"

	natpmp "github.com/jackpal/go-nat-pmp"

	"github.com/huin/goupnp/dcps/internetgateway1"
)

// ErrNoGateway means neither UPnP nor NAT-PMP found a usable gateway.
var ErrNoGateway = errors.New("demarcation: no upnp/nat-pmp gateway found")

// natMapper tries UPnP first, then NAT-PMP, caching whichever succeeded
// so unmapPort uses the same path mapPort did.
type natMapper struct {
	enableUPnP   bool
	enableNATPMP bool
	active       string // "upnp", "nat-pmp", or "" if none mapped
	upnpClient   *internetgateway1.WANIPConnection1
	pmpClient    *natpmp.Client
}

func newNATMapper(enableUPnP, enableNATPMP bool) *natMapper {
	return &natMapper{enableUPnP: enableUPnP, enableNATPMP: enableNATPMP}
}

func (m *natMapper) activeName() string { return m.active }

func (m *natMapper) mapPort(port int, lifetime time.Duration) (int, error) {
	if m.enableUPnP {
		if extPort, err := m.mapViaUPnP(port, lifetime); err == nil {
			m.active = "upnp"
			return extPort, nil
		}
	}
	if m.enableNATPMP {
		if extPort, err := m.mapViaNATPMP(port, lifetime); err == nil {
			m.active = "nat-pmp"
			return extPort, nil
		}
	}
	return 0, ErrNoGateway
}

func (m *natMapper) mapViaUPnP(port int, lifetime time.Duration) (int, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	clients, _, err := internetgateway1.NewWANIPConnection1ClientsCtx(ctx)
	if err != nil || len(clients) == 0 {
		return 0, ErrNoGateway
	}
	client := clients[0]

	localIP := localOutboundIP()
	leaseSeconds := uint32(lifetime.Seconds())
	if leaseSeconds == 0 {
		leaseSeconds = 3600
	}

	err = client.AddPortMapping("", uint16(port), "UDP", uint16(port), localIP, true, "meshd", leaseSeconds)
	if err != nil {
		return 0, err
	}
	m.upnpClient = client
	return port, nil
}

func (m *natMapper) mapViaNATPMP(port int, lifetime time.Duration) (int, error) {
	gw, err := defaultGateway()
	if err != nil {
		return 0, err
	}

	client := natpmp.NewClientWithTimeout(gw, 2*time.Second)
	lifetimeSeconds := int(lifetime.Seconds())
	if lifetimeSeconds == 0 {
		lifetimeSeconds = 3600
	}

	resp, err := client.AddPortMapping("udp", port, port, lifetimeSeconds)
	if err != nil {
		return 0, err
	}
	m.pmpClient = client
	return int(resp.MappedExternalPort), nil
}

func (m *natMapper) unmapPort(port int) error {
	switch m.active {
	case "upnp":
		if m.upnpClient != nil {
			return m.upnpClient.DeletePortMapping("", uint16(port), "UDP")
		}
	case "nat-pmp":
		if m.pmpClient != nil {
			// NAT-PMP has no explicit delete; a zero-lifetime mapping
			// request releases it early instead.
			_, err := m.pmpClient.AddPortMapping("udp", port, port, 0)
			return err
		}
	}
	return nil
}

// localOutboundIP and defaultGateway are the same UDP-dial trick used by
// envwatch's fingerprint probe: no packet is actually sent, only the
// local route selection is observed.
func localOutboundIP() string {
	conn, err := net.Dial("udp", "203.0.113.1:9")
	if err != nil {
		return "127.0.0.1"
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}

func defaultGateway() (net.IP, error) {
	ip := net.ParseIP(localOutboundIP())
	if ip == nil || ip.To4() == nil {
		return nil, ErrNoGateway
	}
	ip4 := ip.To4()
	return net.IPv4(ip4[0], ip4[1], ip4[2], 1), nil
}
