// Package compiler turns abstract analytical queries into dialect-exact SQL
// and an ordered list of bound parameters.
//
// A Compiler is immutable and safe for concurrent use. Every Compile call
// owns a fresh build holding the parameter allocator and the derived-table
// alias counter, so concurrent compilations share no mutable state.
package compiler

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/leapstack-labs/leapcube/pkg/core"
	"github.com/leapstack-labs/leapcube/pkg/dialect"
	"github.com/leapstack-labs/leapcube/pkg/schema"
)

// DefaultLimit bounds queries that do not specify a limit.
const DefaultLimit = 10000

// Compiler compiles queries for one dialect against one cube model.
type Compiler struct {
	dialect      dialect.Capabilities
	evaluator    schema.Evaluator
	joins        schema.JoinGraph
	logger       *slog.Logger
	defaultLimit int
	timezone     string
}

// Config holds compiler configuration.
type Config struct {
	// Dialect renders every engine-specific fragment (required)
	Dialect dialect.Capabilities
	// Evaluator resolves member references (required)
	Evaluator schema.Evaluator
	// JoinGraph computes join paths. Defaults to Evaluator when it implements JoinGraph.
	JoinGraph schema.JoinGraph
	// DefaultLimit applies when a query leaves its limit unspecified (0 = DefaultLimit)
	DefaultLimit int
	// Timezone is used when a query has none (empty = UTC)
	Timezone string
	// Logger is the structured logger (optional, uses discard if nil)
	Logger *slog.Logger
}

// Result is a compiled query.
type Result struct {
	SQL string
	// Params bind to the placeholders in SQL in left-to-right order.
	Params    []any
	RequestID string
}

// New creates a compiler.
func New(cfg Config) (*Compiler, error) {
	if cfg.Dialect == nil {
		return nil, dialect.ErrDialectRequired
	}
	if cfg.Evaluator == nil {
		return nil, errors.New("evaluator is required")
	}

	joins := cfg.JoinGraph
	if joins == nil {
		jg, ok := cfg.Evaluator.(schema.JoinGraph)
		if !ok {
			return nil, errors.New("join graph is required")
		}
		joins = jg
	}

	if cfg.DefaultLimit < 0 {
		return nil, fmt.Errorf("default limit must not be negative, got %d", cfg.DefaultLimit)
	}
	limit := cfg.DefaultLimit
	if limit == 0 {
		limit = DefaultLimit
	}

	tz := cfg.Timezone
	if tz == "" {
		tz = "UTC"
	}
	if _, err := time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("%w %q: %v", ErrInvalidTimezone, tz, err)
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return &Compiler{
		dialect:      cfg.Dialect,
		evaluator:    cfg.Evaluator,
		joins:        joins,
		logger:       logger,
		defaultLimit: limit,
		timezone:     tz,
	}, nil
}

// Dialect returns the dialect the compiler targets.
func (c *Compiler) Dialect() dialect.Capabilities { return c.dialect }

// Compile compiles q. Identical queries always produce identical results.
func (c *Compiler) Compile(q core.Query) (*Result, error) {
	b := c.newBuild(q)

	raw, err := b.run()
	if err != nil {
		return nil, err
	}
	sql, params := b.params.Finalize(raw, c.dialect)

	c.logger.Debug("compiled query",
		slog.String("dialect", c.dialect.Name()),
		slog.String("request_id", q.RequestID),
		slog.Int("params", len(params)),
		slog.Int("rolling_windows", b.aliases.Count()),
		slog.String("pagination", c.dialect.Paginator().Strategy().String()),
	)

	return &Result{SQL: sql, Params: params, RequestID: q.RequestID}, nil
}

// BuildSQLAndParams compiles q and returns the SQL text and its parameters.
func (c *Compiler) BuildSQLAndParams(q core.Query) (string, []any, error) {
	res, err := c.Compile(q)
	if err != nil {
		return "", nil, err
	}
	return res.SQL, res.Params, nil
}
