package config

// Default configuration values.
const (
	DefaultDialect      = "oracle"
	DefaultDefaultLimit = 10000
	DefaultTimezone     = "UTC"
	DefaultOutput       = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// Defaults returns the default configuration as a flat key map, the lowest
// layer of every load.
func Defaults() map[string]any {
	return map[string]any{
		"dialect":         DefaultDialect,
		"dialect_version": "",
		"schema":          "",
		"default_limit":   DefaultDefaultLimit,
		"timezone":        DefaultTimezone,
		"output":          DefaultOutput,
		"verbose":         false,
	}
}

// ApplyDefaults fills unset fields of c.
func ApplyDefaults(c *Config) {
	if c == nil {
		return
	}
	if c.Dialect == "" {
		c.Dialect = DefaultDialect
	}
	if c.DefaultLimit == 0 {
		c.DefaultLimit = DefaultDefaultLimit
	}
	if c.Timezone == "" {
		c.Timezone = DefaultTimezone
	}
	if c.Output == "" {
		c.Output = DefaultOutput
	}
}
