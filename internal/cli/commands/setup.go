package commands

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcube/internal/cli/config"
	"github.com/leapstack-labs/leapcube/internal/cli/output"
	intconfig "github.com/leapstack-labs/leapcube/internal/config"
	"github.com/leapstack-labs/leapcube/pkg/compiler"
	"github.com/leapstack-labs/leapcube/pkg/schema"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Renderer *output.Renderer
}

// NewCommandContext creates a CommandContext from the loaded configuration.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.Output)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Renderer: r,
	}
}

// NewCompiler opens the configured dialect and cube model.
func (c *CommandContext) NewCompiler() (*compiler.Compiler, error) {
	if c.Cfg.Schema == "" {
		return nil, fmt.Errorf("no cube model configured\nHint: set schema in leapcube.yaml or pass --schema")
	}

	d, err := c.Cfg.OpenDialect()
	if err != nil {
		return nil, err
	}
	model, err := schema.LoadModelFile(c.Cfg.Schema)
	if err != nil {
		return nil, err
	}

	c.Logger.Debug("opened cube model",
		slog.String("schema", c.Cfg.Schema),
		slog.Int("cubes", len(model.Cubes())),
		slog.String("dialect", d.Name()),
	)

	return compiler.New(compiler.Config{
		Dialect:      d,
		Evaluator:    model,
		DefaultLimit: c.Cfg.DefaultLimit,
		Timezone:     c.Cfg.Timezone,
		Logger:       c.Logger,
	})
}

// getConfig returns the current configuration, or the defaults when no
// configuration was loaded (commands run outside the root command).
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}
	cfg := &config.Config{}
	intconfig.ApplyDefaults(cfg)
	return cfg
}
