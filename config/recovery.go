package config

// RecoveryConfig controls the environment watcher's network-change
// polling and memory-pressure monitoring.
type RecoveryConfig struct {
	// FingerprintInterval is how often the environment watcher recomputes
	// the network configuration fingerprint between Supervisor-triggered
	// checks.
	FingerprintInterval Duration `json:"fingerprint_interval"`

	// MemoryLimitBytes is the limit on memory obtained from the OS
	// (runtime.MemStats.Sys): at 90% of it a warning is logged, and at or
	// past it a startup-fatal equivalent error is surfaced. Zero disables
	// memory watching.
	MemoryLimitBytes int64 `json:"memory_limit_bytes"`
}

// DefaultRecoveryConfig returns the default recovery configuration.
func DefaultRecoveryConfig() RecoveryConfig {
	return RecoveryConfig{
		FingerprintInterval: Duration(defaultFingerprintInterval),
		MemoryLimitBytes:    0,
	}
}

// Validate checks the recovery configuration.
func (c RecoveryConfig) Validate() error {
	return nil
}
