package envwatch

import "errors"

// ErrMemoryExhausted is surfaced on the next service loop iteration when
// the memory watchdog decides allocation failure is imminent. It backs the
// "memory exhaustion" entry in the startup-fatal taxonomy, detected during
// the run rather than at start.
var ErrMemoryExhausted = errors.New("envwatch: memory pressure critical")
