package commands

import (
	"strconv"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/leapcube/internal/cli/output"
	"github.com/leapstack-labs/leapcube/pkg/dialect"
)

// DialectInfo is the JSON shape of one dialect's capabilities.
type DialectInfo struct {
	Name                string `json:"name"`
	Placeholder         string `json:"placeholder"`
	Quote               string `json:"quote"`
	GroupBy             string `json:"groupBy"`
	Pagination          string `json:"pagination"`
	MaxIdentifierLength int    `json:"maxIdentifierLength"`
	Ilike               bool   `json:"ilike"`
}

// NewDialectsCommand creates the dialects command.
func NewDialectsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects [name...]",
		Short: "List registered dialects and their capabilities",
		Long: `List the registered SQL dialects with the capabilities the compiler
relies on. Version-dependent dialects honor --dialect-version.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDialects(cmd, args)
		},
		ValidArgsFunction: func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
			return dialect.List(), cobra.ShellCompDirectiveNoFileComp
		},
	}
}

func runDialects(cmd *cobra.Command, names []string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	if len(names) == 0 {
		names = dialect.List()
	}

	infos := make([]DialectInfo, 0, len(names))
	for _, name := range names {
		d, err := dialect.Open(name, cmdCtx.Cfg.DialectOptions())
		if err != nil {
			return err
		}
		infos = append(infos, describeDialect(d))
	}

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(infos)
	case output.ModeMarkdown:
		r.Println(output.FormatHeader(1, "Dialects"))
	default:
		r.Header(1, "Dialects")
	}

	rows := make([][]string, len(infos))
	for i, info := range infos {
		maxLen := "unlimited"
		if info.MaxIdentifierLength > 0 {
			maxLen = strconv.Itoa(info.MaxIdentifierLength)
		}
		rows[i] = []string{
			info.Name,
			info.Placeholder,
			info.Quote,
			info.GroupBy,
			info.Pagination,
			maxLen,
			strconv.FormatBool(info.Ilike),
		}
	}
	r.Table([]string{"Name", "Placeholder", "Quote", "Group By", "Pagination", "Max Identifier", "ILIKE"}, rows)
	return nil
}

func describeDialect(d dialect.Capabilities) DialectInfo {
	cfg := d.Config()
	return DialectInfo{
		Name:                d.Name(),
		Placeholder:         cfg.Placeholder.String(),
		Quote:               cfg.Identifiers.Quote,
		GroupBy:             d.GroupByStrategy().String(),
		Pagination:          d.Paginator().Strategy().String(),
		MaxIdentifierLength: d.MaxIdentifierLength(),
		Ilike:               cfg.SupportsIlike,
	}
}
