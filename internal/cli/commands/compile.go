package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/leapcube/internal/cli/output"
	"github.com/leapstack-labs/leapcube/pkg/core"
	"github.com/leapstack-labs/leapcube/pkg/dialect"
)

// stdinName names queries read from standard input.
const stdinName = "-"

// CompileOutput is the JSON shape of one compiled query.
type CompileOutput struct {
	Source    string `json:"source"`
	RequestID string `json:"requestId"`
	Dialect   string `json:"dialect"`
	SQL       string `json:"sql"`
	Params    []any  `json:"params"`
}

// NewCompileCommand creates the compile command.
func NewCompileCommand() *cobra.Command {
	var parallel int

	cmd := &cobra.Command{
		Use:   "compile [query.json...]",
		Short: "Compile queries to SQL",
		Long: `Compile one or more JSON queries against the cube model and print the
SQL and its bound parameters.

With no arguments, or with "-", the query is read from standard input.
Queries without a requestId are assigned one.`,
		Example: `  # Compile a query file for the configured dialect
  leapcube compile queries/orders.json

  # Compile from stdin for Postgres as JSON
  echo '{"measures":["orders.count"]}' | leapcube compile --dialect postgres -o json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, args, parallel)
		},
	}

	cmd.Flags().IntVarP(&parallel, "parallel", "p", 4, "Number of queries compiled concurrently")

	return cmd
}

func runCompile(cmd *cobra.Command, args []string, parallel int) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	c, err := cmdCtx.NewCompiler()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{stdinName}
	}
	queries, err := readQueries(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	results := make([]CompileOutput, len(queries))
	g, ctx := errgroup.WithContext(cmd.Context())
	if parallel > 0 {
		g.SetLimit(parallel)
	}
	for i, q := range queries {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			res, err := c.Compile(q)
			if err != nil {
				return fmt.Errorf("%s: %w", args[i], err)
			}
			results[i] = CompileOutput{
				Source:    args[i],
				RequestID: res.RequestID,
				Dialect:   c.Dialect().Name(),
				SQL:       res.SQL,
				Params:    res.Params,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	cmdCtx.Logger.Info("compiled queries", slog.Int("count", len(results)))

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(results)
	case output.ModeMarkdown:
		compileMarkdown(r, c.Dialect(), results)
	default:
		compileText(r, c.Dialect(), results)
	}
	return nil
}

// readQueries decodes one query per source. Stdin may appear at most once.
func readQueries(stdin io.Reader, sources []string) ([]core.Query, error) {
	queries := make([]core.Query, 0, len(sources))
	seenStdin := false

	for _, src := range sources {
		var data []byte
		var err error
		if src == stdinName {
			if seenStdin {
				return nil, fmt.Errorf("stdin can only be read once")
			}
			seenStdin = true
			data, err = io.ReadAll(stdin)
		} else {
			data, err = os.ReadFile(src) //nolint:gosec // user-supplied query path
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", src, err)
		}

		var q core.Query
		if err := json.Unmarshal(data, &q); err != nil {
			return nil, fmt.Errorf("failed to decode query %s: %w", src, err)
		}
		if q.RequestID == "" {
			q.RequestID = uuid.NewString()
		}
		queries = append(queries, q)
	}
	return queries, nil
}

func compileText(r *output.Renderer, d dialect.Capabilities, results []CompileOutput) {
	for i, res := range results {
		if i > 0 {
			r.Println()
		}
		r.Header(1, res.Source)
		r.Muted(fmt.Sprintf("request %s, dialect %s", res.RequestID, res.Dialect))
		r.Println(res.SQL)
		if len(res.Params) > 0 {
			r.Println()
			r.Table([]string{"Placeholder", "Value"}, paramRows(d, res.Params))
		}
	}
}

func compileMarkdown(r *output.Renderer, d dialect.Capabilities, results []CompileOutput) {
	for _, res := range results {
		r.Println(output.FormatHeader(2, res.Source))
		r.Println(output.FormatKeyValue("Request", res.RequestID))
		r.Println(output.FormatKeyValue("Dialect", res.Dialect))
		r.Println()
		r.Println(output.FormatCodeBlock("sql", res.SQL))
		if len(res.Params) > 0 {
			r.Println(output.FormatHeader(3, "Params"))
			r.Table([]string{"Placeholder", "Value"}, paramRows(d, res.Params))
			r.Println()
		}
	}
}

// paramRows labels each bound value with its placeholder. Positional
// dialects get the 1-based index instead of a bare "?".
func paramRows(d dialect.Capabilities, params []any) [][]string {
	rows := make([][]string, len(params))
	for i, p := range params {
		label := d.FormatPlaceholder(i + 1)
		if label == "?" {
			label = "#" + strconv.Itoa(i+1)
		}
		rows[i] = []string{label, fmt.Sprint(p)}
	}
	return rows
}
