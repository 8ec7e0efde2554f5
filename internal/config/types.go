// Package config provides the shared configuration types for leapcube.
// This package is decoupled from CLI concerns so library callers can load
// the same leapcube.yaml the CLI reads.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/leapstack-labs/leapcube/pkg/dialect"
)

// Config holds compiler configuration.
type Config struct {
	// Dialect is the target engine name, e.g. oracle or postgres.
	Dialect string `koanf:"dialect"`
	// DialectVersion selects version-dependent capabilities (e.g. "11.2").
	DialectVersion string `koanf:"dialect_version"`
	// Schema is the path of the cube model YAML.
	Schema       string `koanf:"schema"`
	DefaultLimit int    `koanf:"default_limit"`
	Timezone     string `koanf:"timezone"`
	Output       string `koanf:"output"`
	Verbose      bool   `koanf:"verbose"`
}

// OutputModes lists the accepted output values.
var OutputModes = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
// Dialect names are checked against the dialect registry, so callers must
// import the dialect packages they want to accept.
func (c *Config) Validate() error {
	if c.Dialect == "" {
		return dialect.ErrDialectRequired
	}
	if !dialect.IsRegistered(c.Dialect) {
		return &dialect.UnknownDialectError{
			Name:      c.Dialect,
			Available: dialect.List(),
		}
	}
	if c.DefaultLimit < 0 {
		return fmt.Errorf("default_limit must not be negative, got %d", c.DefaultLimit)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}

	switch strings.ToLower(c.Output) {
	case "", "auto", "text", "markdown", "json":
	default:
		return fmt.Errorf("invalid output %q: expected one of %s", c.Output, strings.Join(OutputModes, ", "))
	}
	return nil
}

// DialectOptions returns the dialect options selected by this configuration.
func (c *Config) DialectOptions() dialect.Options {
	return dialect.Options{Version: strings.TrimSpace(c.DialectVersion)}
}

// OpenDialect opens the configured dialect.
func (c *Config) OpenDialect() (dialect.Capabilities, error) {
	return dialect.Open(c.Dialect, c.DialectOptions())
}
