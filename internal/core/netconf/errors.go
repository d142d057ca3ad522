package netconf

import "errors"

var (
	// ErrNoHelper means no helper path is configured. Start does not
	// return it: with no helper path, Start is a no-op returning nil.
	ErrNoHelper = errors.New("netconf: no helper configured")

	// ErrBlobTooLarge means a netconf blob was 2048 bytes or longer.
	ErrBlobTooLarge = errors.New("netconf: blob too large")

	// ErrNotRunning means Request was called before Start or after Stop.
	ErrNotRunning = errors.New("netconf: helper not running")
)
