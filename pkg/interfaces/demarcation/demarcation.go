// Package demarcation defines the contract for the overlay's UDP socket
// multiplexer, keeping callers decoupled from the bind/NAT-mapping
// details in internal/core/demarcation.
package demarcation

// Point is the demarcation point's contract: the bound overlay UDP
// socket plus whatever best-effort external reachability it secured.
type Point interface {
	// Port returns the bound overlay UDP port.
	Port() int

	// ExternalMapping reports the external port the socket is mapped
	// to via UPnP or NAT-PMP, and whether a mapping exists at all.
	ExternalMapping() (port int, ok bool)

	// Close releases the socket and tears down any port mapping.
	Close() error
}
