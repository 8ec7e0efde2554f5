package core

// DialectConfig holds the static configuration for a SQL dialect.
// This is pure data with no rendering functions.
//
// The runtime behavior (truncation, interval composition, pagination, etc.)
// lives in pkg/dialect.Dialect, which wraps this config.
type DialectConfig struct {
	// Name is the dialect identifier (e.g., "oracle", "postgres")
	Name string

	// Identifiers defines quoting and normalization rules
	Identifiers IdentifierConfig

	// Placeholder defines how query parameters are formatted
	Placeholder PlaceholderStyle

	// TableAliasKeyword is written between a table and its alias in FROM.
	// Empty means the alias follows the table directly.
	TableAliasKeyword string
	// JoinAliasKeyword is written between a joined or derived table and its alias.
	JoinAliasKeyword string

	// GroupBy selects ordinal or expression GROUP BY lists
	GroupBy GroupByStrategy

	// Pagination selects native LIMIT/OFFSET style clauses or query wrapping
	Pagination PaginationStrategy

	// MaxIdentifierLength is the longest alias the engine accepts (0 = unlimited)
	MaxIdentifierLength int

	// Truncation maps each granularity to the engine's truncation token
	Truncation map[Granularity]string

	// Casts holds the parameter casting templates
	Casts CastTemplates

	// SupportsIlike reports a native case-insensitive LIKE operator
	SupportsIlike bool

	// DisabledOperators lists filter operators the dialect cannot render
	DisabledOperators []FilterOperator
}

// CastTemplates are SQL templates where {} is replaced by a parameter reference.
type CastTemplates struct {
	Date      string // e.g. CAST({} AS DATE)
	Timestamp string // e.g. CAST({} AS TIMESTAMP)
}

// NormalizationStrategy defines how unquoted identifiers are normalized.
type NormalizationStrategy int

const (
	// NormLowercase normalizes unquoted identifiers to lowercase (default SQL behavior).
	NormLowercase NormalizationStrategy = iota
	// NormUppercase normalizes unquoted identifiers to uppercase (Snowflake, Oracle).
	NormUppercase
	// NormCaseSensitive preserves identifier case exactly (MySQL, ClickHouse).
	NormCaseSensitive
	// NormCaseInsensitive normalizes to lowercase for comparison (BigQuery, Hive, DuckDB).
	NormCaseInsensitive
)

// PlaceholderStyle defines how query parameters are formatted.
type PlaceholderStyle int

const (
	// PlaceholderQuestion uses ? for all parameters (DuckDB, Snowflake, Databricks).
	PlaceholderQuestion PlaceholderStyle = iota
	// PlaceholderDollar uses $1, $2, etc. for parameters (PostgreSQL).
	PlaceholderDollar
	// PlaceholderColon uses :1, :2, etc. for parameters (Oracle).
	PlaceholderColon
)

// String returns the string representation of PlaceholderStyle.
func (s PlaceholderStyle) String() string {
	switch s {
	case PlaceholderQuestion:
		return "question"
	case PlaceholderDollar:
		return "dollar"
	case PlaceholderColon:
		return "colon"
	default:
		return "unknown"
	}
}

// IdentifierConfig defines how identifiers are quoted and normalized.
type IdentifierConfig struct {
	Quote         string                // Quote character: ", `, [
	QuoteEnd      string                // End quote character (usually same as Quote, ] for [)
	Escape        string                // Escape sequence: "", ``, ]]
	Normalization NormalizationStrategy // How to normalize unquoted identifiers
}

// GroupByStrategy defines how GROUP BY entries reference the projection.
type GroupByStrategy int

const (
	// GroupByOrdinal references projected columns by position (GROUP BY 1, 2).
	GroupByOrdinal GroupByStrategy = iota
	// GroupByExpression repeats the full projected expressions.
	GroupByExpression
)

// String returns the string representation of GroupByStrategy.
func (s GroupByStrategy) String() string {
	switch s {
	case GroupByOrdinal:
		return "ordinal"
	case GroupByExpression:
		return "expression"
	default:
		return "unknown"
	}
}

// PaginationStrategy defines how limit and offset are applied to a query.
type PaginationStrategy int

const (
	// PaginateNative appends a native OFFSET/LIMIT style clause.
	PaginateNative PaginationStrategy = iota
	// PaginateWrapping wraps the query and filters on a row ordinal pseudo-column.
	PaginateWrapping
)

// String returns the string representation of PaginationStrategy.
func (s PaginationStrategy) String() string {
	switch s {
	case PaginateNative:
		return "native"
	case PaginateWrapping:
		return "wrapping"
	default:
		return "unknown"
	}
}
