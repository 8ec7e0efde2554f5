// Package config provides configuration management for the leapcube CLI.
//
// The shared Config type lives in internal/config so library callers can read
// the same leapcube.yaml. This package layers environment variables and
// command-line flags on top of it.
package config

import (
	intconfig "github.com/leapstack-labs/leapcube/internal/config"
)

// Config is an alias for the shared configuration.
type Config = intconfig.Config

// EnvPrefix is the prefix of environment variables read by LoadConfig.
// LEAPCUBE_DEFAULT_LIMIT maps to default_limit.
const EnvPrefix = "LEAPCUBE_"
