package topology

import "errors"

var (
	// ErrSupernodeAddressMismatch reports a supernode whose resolved
	// address does not match its configured expected address.
	// InstallSupernodes does not compare the two and never returns it.
	ErrSupernodeAddressMismatch = errors.New("topology: supernode address does not match configuration")

	// ErrSupernodeUnresolvable is returned when a supernode's host:port
	// cannot be resolved or parsed.
	ErrSupernodeUnresolvable = errors.New("topology: supernode host could not be resolved")
)
