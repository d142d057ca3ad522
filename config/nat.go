package config

import "time"

// NATConfig controls the best-effort port-mapping attempted once at
// startup alongside binding the overlay UDP socket.
type NATConfig struct {
	// EnableUPnP attempts a UPnP IGD port mapping.
	EnableUPnP bool `json:"enable_upnp"`

	// EnableNATPMP attempts a NAT-PMP port mapping if UPnP fails.
	EnableNATPMP bool `json:"enable_nat_pmp"`

	// MappingLifetime is the requested lease duration for either protocol.
	MappingLifetime Duration `json:"mapping_lifetime"`
}

// DefaultNATConfig returns the default NAT configuration.
func DefaultNATConfig() NATConfig {
	return NATConfig{
		EnableUPnP:      true,
		EnableNATPMP:    true,
		MappingLifetime: Duration(time.Hour),
	}
}

// Validate checks the NAT configuration.
func (c NATConfig) Validate() error {
	return nil
}
