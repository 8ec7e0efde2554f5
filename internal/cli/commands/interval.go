package commands

import (
	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcube/internal/cli/output"
	"github.com/leapstack-labs/leapcube/pkg/dialect"
)

// IntervalOutput is the JSON shape of interval arithmetic.
type IntervalOutput struct {
	Dialect  string `json:"dialect"`
	Expr     string `json:"expr"`
	Interval string `json:"interval"`
	SQL      string `json:"sql"`
}

// NewIntervalCommand creates the interval command with add and sub subcommands.
func NewIntervalCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interval",
		Short: "Render interval arithmetic for the configured dialect",
		Long: `Render the SQL the configured dialect uses to shift a timestamp
expression by an interval such as "1 month" or "2 days 3 hours".`,
	}

	cmd.AddCommand(newIntervalOpCommand("add", "Add an interval to an expression", dialect.AddInterval))
	cmd.AddCommand(newIntervalOpCommand("sub", "Subtract an interval from an expression", dialect.SubtractInterval))

	return cmd
}

type intervalOp func(d dialect.Capabilities, expr, text string) (string, error)

func newIntervalOpCommand(use, short string, op intervalOp) *cobra.Command {
	return &cobra.Command{
		Use:     use + " <expr> <interval>",
		Short:   short,
		Args:    cobra.ExactArgs(2),
		Example: "  leapcube interval " + use + " 'orders.created_at' '1 month'",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmdCtx := NewCommandContext(cmd)
			r := cmdCtx.Renderer

			d, err := cmdCtx.Cfg.OpenDialect()
			if err != nil {
				return err
			}
			sql, err := op(d, args[0], args[1])
			if err != nil {
				return err
			}

			switch r.EffectiveMode() {
			case output.ModeJSON:
				return r.JSON(IntervalOutput{Dialect: d.Name(), Expr: args[0], Interval: args[1], SQL: sql})
			case output.ModeMarkdown:
				r.Println(output.FormatCodeBlock("sql", sql))
			default:
				r.Println(sql)
			}
			return nil
		},
	}
}
