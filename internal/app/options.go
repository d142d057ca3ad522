package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/meshnet-io/meshd/config"
)

// Options configures Bootstrap's construction.
type Options struct {
	// ConfigPath is an optional path to a meshd.conf JSON file overlaying
	// config.DefaultConfig(). A missing file is not an error.
	ConfigPath string

	// MetricsAddr, if non-empty, overrides the loaded config's
	// MetricsAddr (e.g. from a -metrics-addr flag).
	MetricsAddr string
}

// LoadConfig reads path (if non-empty and present) as a JSON overlay on
// config.DefaultConfig, validating the result. This runs before the log
// sink is opened, so a malformed config.Duration or unknown log_level is
// reported on stderr rather than silently swallowed.
func LoadConfig(path string) (*config.Config, error) {
	cfg := config.DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("app: parse %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// optional overlay, absence is fine
		default:
			return nil, fmt.Errorf("app: read %s: %w", path, err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("app: invalid configuration: %w", err)
	}
	return cfg, nil
}
