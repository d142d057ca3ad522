package envwatch

import (
	"net"
	"sort"
	"strings"

	"github.com/spaolacci/murmur3"

	"github.com/meshnet-io/meshd/pkg/types"
)

// Fingerprint computes the current NetworkConfigurationFingerprint by
// hashing every non-loopback interface's name, hardware address, flags and
// addresses, plus a best-effort guess at the default route's local address.
// The exact bytes hashed are not part of any contract; only equality across
// two calls matters.
func Fingerprint() types.NetworkConfigurationFingerprint {
	var parts []string

	ifaces, err := net.Interfaces()
	if err == nil {
		for _, iface := range ifaces {
			if iface.Flags&net.FlagLoopback != 0 {
				continue
			}
			part := iface.Name + ":" + iface.HardwareAddr.String() + ":" + iface.Flags.String()

			addrs, err := iface.Addrs()
			if err == nil {
				var addrStrs []string
				for _, a := range addrs {
					addrStrs = append(addrStrs, a.String())
				}
				sort.Strings(addrStrs)
				part += ":[" + strings.Join(addrStrs, ",") + "]"
			}
			parts = append(parts, part)
		}
	}
	sort.Strings(parts)

	parts = append(parts, "route:"+defaultRouteHint())

	h := murmur3.Sum64([]byte(strings.Join(parts, "|")))
	return types.NetworkConfigurationFingerprint(h)
}

// defaultRouteHint returns the local address the kernel would pick to
// reach the public internet, without sending any packets. It changes
// whenever the default route changes, which is the only property this
// package relies on; a failure (e.g. fully offline) degrades to "".
func defaultRouteHint() string {
	conn, err := net.Dial("udp", "203.0.113.1:9")
	if err != nil {
		return ""
	}
	defer conn.Close()
	return conn.LocalAddr().(*net.UDPAddr).IP.String()
}
