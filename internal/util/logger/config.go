// Package logger also reads its configuration from the environment:
//
//   - MESHD_LOG_LEVEL: subsystem=level,subsystem=level,defaultLevel
//     e.g. "envwatch=debug,switchcore=warn,info"
//   - MESHD_LOG_FORMAT: "text" or "json"
//   - MESHD_LOG_ADD_SOURCE: "true" or "false"
package logger

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

// LogFormat selects the slog.Handler backing every subsystem logger.
type LogFormat int

const (
	FormatText LogFormat = iota
	FormatJSON
)

// Config is the parsed environment-derived logging configuration.
type Config struct {
	DefaultLevel    slog.Level
	SubsystemLevels map[string]slog.Level
	Format          LogFormat
	AddSource       bool
}

// LevelForSubsystem returns the configured level for a subsystem,
// falling back to DefaultLevel.
func (c *Config) LevelForSubsystem(subsystem string) slog.Level {
	if level, ok := c.SubsystemLevels[subsystem]; ok {
		return level
	}
	return c.DefaultLevel
}

var (
	configCache *Config
	configOnce  sync.Once
)

// ConfigFromEnv parses the MESHD_LOG_* environment variables once and
// caches the result.
func ConfigFromEnv() *Config {
	configOnce.Do(func() {
		configCache = parseConfig()
	})
	return configCache
}

func parseConfig() *Config {
	cfg := &Config{
		DefaultLevel:    slog.LevelInfo,
		SubsystemLevels: make(map[string]slog.Level),
		Format:          FormatText,
		AddSource:       false,
	}

	if levelStr := os.Getenv("MESHD_LOG_LEVEL"); levelStr != "" {
		parseLevelConfig(cfg, levelStr)
	}

	if formatStr := os.Getenv("MESHD_LOG_FORMAT"); formatStr != "" {
		switch strings.ToLower(formatStr) {
		case "json":
			cfg.Format = FormatJSON
		default:
			cfg.Format = FormatText
		}
	}

	if addSourceStr := os.Getenv("MESHD_LOG_ADD_SOURCE"); addSourceStr != "" {
		cfg.AddSource = addSourceStr == "true" || addSourceStr == "1"
	}

	return cfg
}

// parseLevelConfig parses "subsystem=level,subsystem=level,defaultLevel".
func parseLevelConfig(cfg *Config, levelStr string) {
	for _, part := range strings.Split(levelStr, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		if strings.Contains(part, "=") {
			kv := strings.SplitN(part, "=", 2)
			if len(kv) == 2 {
				subsystem := strings.TrimSpace(kv[0])
				if level, ok := parseLevel(strings.TrimSpace(kv[1])); ok {
					cfg.SubsystemLevels[subsystem] = level
				}
			}
			continue
		}

		if level, ok := parseLevel(part); ok {
			cfg.DefaultLevel = level
		}
	}
}

func parseLevel(name string) (slog.Level, bool) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, true
	case "info":
		return slog.LevelInfo, true
	case "warn", "warning":
		return slog.LevelWarn, true
	case "error":
		return slog.LevelError, true
	default:
		return slog.LevelInfo, false
	}
}

// ResetConfig clears the cached configuration. Tests only.
func ResetConfig() {
	configOnce = sync.Once{}
	configCache = nil
}
