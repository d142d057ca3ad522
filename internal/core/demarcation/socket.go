package demarcation

import (
	"fmt"
	"net"
	"time"

	"go.uber.org/multierr"

	"github.com/meshnet-io/meshd/internal/util/logger"
	demarcationif "github.com/meshnet-io/meshd/pkg/interfaces/demarcation"
)

var log = logger.Logger("demarcation")

// portRangeWidth is the number of consecutive ports tried, starting at
// the configured base port, before giving up.
const portRangeWidth = 128

// Point is the disk-free, socket-owning implementation of
// demarcationif.Point.
type Point struct {
	conn       *net.UDPConn
	port       int
	mapper     *natMapper
	extPort    int
	haveExtMap bool
}

// Bind opens a UDP socket on the first free port in
// [basePort, basePort+portRangeWidth), then attempts UPnP/NAT-PMP
// mapping if enabled. Mapping failure is logged and non-fatal.
func Bind(basePort int, enableUPnP, enableNATPMP bool, lifetime time.Duration) (*Point, error) {
	conn, port, err := bindFirstFree(basePort)
	if err != nil {
		return nil, err
	}

	p := &Point{conn: conn, port: port}

	if enableUPnP || enableNATPMP {
		p.mapper = newNATMapper(enableUPnP, enableNATPMP)
		extPort, err := p.mapper.mapPort(port, lifetime)
		if err != nil {
			log.Warn("nat port mapping failed, continuing without one", "port", port, "err", err)
		} else {
			p.extPort = extPort
			p.haveExtMap = true
			log.Info("nat port mapping established", "internal", port, "external", extPort, "via", p.mapper.activeName())
		}
	}

	return p, nil
}

func bindFirstFree(basePort int) (*net.UDPConn, int, error) {
	for port := basePort; port < basePort+portRangeWidth; port++ {
		conn, err := net.ListenUDP("udp", &net.UDPAddr{Port: port})
		if err == nil {
			return conn, conn.LocalAddr().(*net.UDPAddr).Port, nil
		}
	}
	return nil, 0, fmt.Errorf("%w: tried %d..%d", ErrNoFreePort, basePort, basePort+portRangeWidth-1)
}

// Port implements demarcationif.Point.
func (p *Point) Port() int { return p.port }

// ExternalMapping implements demarcationif.Point.
func (p *Point) ExternalMapping() (int, bool) { return p.extPort, p.haveExtMap }

// Close implements demarcationif.Point.
func (p *Point) Close() error {
	var unmapErr error
	if p.mapper != nil && p.haveExtMap {
		unmapErr = p.mapper.unmapPort(p.port)
	}
	return multierr.Append(unmapErr, p.conn.Close())
}

var _ demarcationif.Point = (*Point)(nil)
