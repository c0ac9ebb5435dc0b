package config

import (
	"strconv"
	"strings"
	"time"
)

// Loader handles loading configuration from multiple sources
type Loader struct {
	config *Config
}

// NewLoader creates a new configuration loader
func NewLoader() *Loader {
	return &Loader{
		config: NewConfig(),
	}
}

// LoadWithOverrides loads configuration using the cascading strategy:
// defaults, then environment variables, then command line overrides (nil for
// none). Validation runs once, after the overrides, so a flag can repair a
// bad env value.
func (l *Loader) LoadWithOverrides(overrides *ConfigOverrides) (*Config, error) {
	if err := l.config.LoadFromEnvironment(); err != nil {
		return nil, err
	}

	if overrides != nil {
		l.applyOverrides(l.config, overrides)
	}

	if err := l.config.Validate(); err != nil {
		return nil, err
	}

	return l.config, nil
}

// ConfigOverrides holds command line flag overrides
type ConfigOverrides struct {
	// Database overrides
	DBDriver         *string
	DBDir            *string
	DBFilename       *string
	DBURL            *string
	DBDirPermissions *uint32

	// Server overrides
	ServerAddr      *string
	RequestTimeout  *time.Duration
	ShutdownTimeout *time.Duration

	// Pagination overrides
	DefaultLimit *int
	MaxLimit     *int

	// Application overrides
	Timeout *time.Duration
	Verbose *bool
}

// applyOverrides applies command line overrides to the configuration
func (l *Loader) applyOverrides(config *Config, overrides *ConfigOverrides) {
	// Database overrides
	if overrides.DBDriver != nil {
		config.Database.Driver = strings.ToLower(*overrides.DBDriver)
	}
	if overrides.DBDir != nil {
		config.Database.Dir = *overrides.DBDir
	}
	if overrides.DBFilename != nil {
		config.Database.Filename = *overrides.DBFilename
	}
	if overrides.DBURL != nil {
		config.Database.URL = *overrides.DBURL
	}
	if overrides.DBDirPermissions != nil {
		config.Database.DirPermissions = *overrides.DBDirPermissions
	}

	// Server overrides
	if overrides.ServerAddr != nil {
		config.Server.Addr = *overrides.ServerAddr
	}
	if overrides.RequestTimeout != nil {
		config.Server.RequestTimeout = *overrides.RequestTimeout
	}
	if overrides.ShutdownTimeout != nil {
		config.Server.ShutdownTimeout = *overrides.ShutdownTimeout
	}

	// Pagination overrides
	if overrides.DefaultLimit != nil {
		config.Pagination.DefaultLimit = *overrides.DefaultLimit
	}
	if overrides.MaxLimit != nil {
		config.Pagination.MaxLimit = *overrides.MaxLimit
	}

	// Application overrides
	if overrides.Timeout != nil {
		config.Application.Timeout = *overrides.Timeout
	}
	if overrides.Verbose != nil {
		config.Application.Verbose = *overrides.Verbose
	}
}

// ParseDurationWithFallback parses a duration string with a fallback value
func ParseDurationWithFallback(s string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(s); err == nil {
		return d
	}
	return fallback
}

// ParseIntWithFallback parses an integer string with a fallback value
func ParseIntWithFallback(s string, fallback int) int {
	if i, err := strconv.Atoi(s); err == nil {
		return i
	}
	return fallback
}

// ParseBoolWithFallback parses a boolean string with a fallback value
func ParseBoolWithFallback(s string, fallback bool) bool {
	if b, err := strconv.ParseBool(s); err == nil {
		return b
	}
	return fallback
}

// ParseUint32WithFallback parses a uint32 string with a fallback value
func ParseUint32WithFallback(s string, base int, fallback uint32) uint32 {
	if u, err := strconv.ParseUint(s, base, 32); err == nil {
		return uint32(u)
	}
	return fallback
}

// ParseListWithFallback splits a comma separated list, dropping blank items.
// An input with no items returns fallback.
func ParseListWithFallback(s string, fallback []string) []string {
	var items []string
	for _, item := range strings.Split(s, ",") {
		if item = strings.TrimSpace(item); item != "" {
			items = append(items, item)
		}
	}
	if len(items) == 0 {
		return fallback
	}
	return items
}
