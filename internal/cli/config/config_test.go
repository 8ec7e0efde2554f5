package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapcube/pkg/dialect"

	// Register every dialect so Validate accepts them
	_ "github.com/leapstack-labs/leapcube/pkg/dialects/all"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "leapcube.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "oracle", cfg.Dialect)
	assert.Equal(t, 10000, cfg.DefaultLimit)
	assert.Equal(t, "UTC", cfg.Timezone)
	assert.Equal(t, "auto", cfg.Output)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, `dialect: postgres
schema: cubes.yaml
default_limit: 500
timezone: Europe/Berlin
`)

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Dialect)
	assert.Equal(t, 500, cfg.DefaultLimit)
	assert.Equal(t, "Europe/Berlin", cfg.Timezone)
	assert.Equal(t, filepath.Join(filepath.Dir(path), "cubes.yaml"), cfg.Schema,
		"schema should resolve against the config file directory")
	assert.Equal(t, path, GetConfigFileUsed())
}

func TestLoadConfig_DiscoversFileInWorkingDir(t *testing.T) {
	ResetConfig()
	path := writeConfig(t, "dialect: snowflake\n")
	t.Chdir(filepath.Dir(path))

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)
	assert.Equal(t, "snowflake", cfg.Dialect)
	assert.Equal(t, filepath.Join(".", "leapcube.yaml"), GetConfigFileUsed())
}

func TestLoadConfig_Precedence(t *testing.T) {
	path := writeConfig(t, "dialect: postgres\ndialect_version: \"19c\"\n")

	t.Run("env overrides file", func(t *testing.T) {
		ResetConfig()
		t.Setenv("LEAPCUBE_DIALECT", "duckdb")

		cfg, err := LoadConfig(path, nil)
		require.NoError(t, err)
		assert.Equal(t, "duckdb", cfg.Dialect)
		assert.Equal(t, "19c", cfg.DialectVersion)
	})

	t.Run("flag overrides env", func(t *testing.T) {
		ResetConfig()
		t.Setenv("LEAPCUBE_DIALECT", "duckdb")

		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("dialect", "", "dialect")
		flags.String("dialect-version", "", "dialect version")
		require.NoError(t, flags.Set("dialect", "oracle"))
		require.NoError(t, flags.Set("dialect-version", "11.2"))

		cfg, err := LoadConfig(path, flags)
		require.NoError(t, err)
		assert.Equal(t, "oracle", cfg.Dialect)
		assert.Equal(t, "11.2", cfg.DialectVersion, "kebab-case flags map to snake_case keys")
	})

	t.Run("unset flag falls back to env", func(t *testing.T) {
		ResetConfig()
		t.Setenv("LEAPCUBE_DIALECT", "duckdb")

		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("dialect", "ansi", "dialect")

		cfg, err := LoadConfig(path, flags)
		require.NoError(t, err)
		assert.Equal(t, "duckdb", cfg.Dialect)
	})

	t.Run("schema from flag stays relative", func(t *testing.T) {
		ResetConfig()
		flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
		flags.String("schema", "", "schema")
		require.NoError(t, flags.Set("schema", "local.yaml"))

		cfg, err := LoadConfig(path, flags)
		require.NoError(t, err)
		assert.Equal(t, "local.yaml", cfg.Schema)
	})
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		errSubstr string
	}{
		{"unknown dialect", "dialect: mysql\n", "unknown dialect"},
		{"negative limit", "default_limit: -5\n", "default_limit"},
		{"bad timezone", "timezone: Mars/Olympus\n", "invalid timezone"},
		{"bad output", "output: html\n", "invalid output"},
		{"malformed yaml", "dialect: [oracle\n", "error reading config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			_, err := LoadConfig(writeConfig(t, tt.content), nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
			assert.Nil(t, GetCurrentConfig())
		})
	}

	t.Run("unknown dialect lists available", func(t *testing.T) {
		ResetConfig()
		_, err := LoadConfig(writeConfig(t, "dialect: mysql\n"), nil)
		var unknown *dialect.UnknownDialectError
		require.ErrorAs(t, err, &unknown)
		assert.Contains(t, unknown.Available, "oracle")
	})
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()), "missing logger falls back to discard")

	logger := NewLogger(true)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	assert.Same(t, logger, GetLogger(ctx))
}
