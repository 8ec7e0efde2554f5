// Package cli provides the command-line interface for leapcube.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcube/internal/cli/commands"
	"github.com/leapstack-labs/leapcube/internal/cli/config"
	"github.com/leapstack-labs/leapcube/internal/cli/output"
	intconfig "github.com/leapstack-labs/leapcube/internal/config"
	"github.com/leapstack-labs/leapcube/pkg/dialect"

	// Register every bundled dialect
	_ "github.com/leapstack-labs/leapcube/pkg/dialects/all"
)

var cfgFile string

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// rendererKey is used to store renderer in context.
type rendererKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "leapcube",
		Short: "leapcube - Semantic layer SQL compiler",
		Long: `leapcube compiles analytical queries over a cube model into SQL for a
target engine, with every value bound as a parameter.

It handles joins between cubes, date ranges and time zones, rolling window
measures and engine-specific pagination for Oracle, Postgres, Snowflake,
DuckDB, Databricks and ANSI SQL.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			cfg, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			ctx = context.WithValue(ctx, configKey{}, cfg)

			logger := config.NewLogger(cfg.Verbose)
			ctx = context.WithValue(ctx, config.LoggerKey(), logger)

			// Create and store renderer based on output mode
			renderer := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), output.Mode(cfg.Output))
			ctx = context.WithValue(ctx, rendererKey{}, renderer)
			cmd.SetContext(ctx)

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", "path", configFile)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./leapcube.yaml)")
	rootCmd.PersistentFlags().String("schema", "", "Path to the cube model YAML")
	rootCmd.PersistentFlags().StringP("dialect", "d", "", "Target SQL dialect")
	rootCmd.PersistentFlags().String("dialect-version", "", "Target engine version (e.g. 11.2 for Oracle)")
	rootCmd.PersistentFlags().Int("default-limit", 0, "Row limit for queries without one")
	rootCmd.PersistentFlags().String("timezone", "", "Default IANA time zone for queries")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json)")

	// Register completion for output flag
	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return intconfig.OutputModes, cobra.ShellCompDirectiveNoFileComp
	})

	// Register completion for dialect flag
	_ = rootCmd.RegisterFlagCompletionFunc("dialect", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return dialect.List(), cobra.ShellCompDirectiveNoFileComp
	})

	// Add subcommands
	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewCompileCommand())
	rootCmd.AddCommand(commands.NewDialectsCommand())
	rootCmd.AddCommand(commands.NewIntervalCommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	// Return default config if none in context
	cfg := &config.Config{}
	intconfig.ApplyDefaults(cfg)
	return cfg
}

// GetRenderer retrieves the renderer from the command context.
func GetRenderer(ctx context.Context) *output.Renderer {
	if r, ok := ctx.Value(rendererKey{}).(*output.Renderer); ok {
		return r
	}
	// Return default renderer if none in context
	return output.NewRenderer(os.Stdout, os.Stderr, output.ModeAuto)
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for leapcube.

To load completions:

Bash:
  $ source <(leapcube completion bash)
  
  # To load completions for each session, execute once:
  # Linux:
  $ leapcube completion bash > /etc/bash_completion.d/leapcube
  # macOS:
  $ leapcube completion bash > $(brew --prefix)/etc/bash_completion.d/leapcube

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc
  
  # To load completions for each session, execute once:
  $ leapcube completion zsh > "${fpath[1]}/_leapcube"
  
  # You will need to start a new shell for this setup to take effect.

Fish:
  $ leapcube completion fish | source
  
  # To load completions for each session, execute once:
  $ leapcube completion fish > ~/.config/fish/completions/leapcube.fish

PowerShell:
  PS> leapcube completion powershell | Out-String | Invoke-Expression
  
  # To load completions for every new session, run:
  PS> leapcube completion powershell > leapcube.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(cmd.OutOrStdout())
			case "zsh":
				return cmd.Root().GenZshCompletion(cmd.OutOrStdout())
			case "fish":
				return cmd.Root().GenFishCompletion(cmd.OutOrStdout(), true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(cmd.OutOrStdout())
			}
			return nil
		},
	}
	return cmd
}
