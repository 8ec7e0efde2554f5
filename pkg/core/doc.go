// Package core defines the shared language of the LeapCube compiler.
//
// This package contains:
//   - Dialect data (DialectConfig, PlaceholderStyle, strategies)
//   - The abstract query (Query, TimeDimension, Filter, Limit, Offset)
//   - Time bucketing (Granularity)
//
// The Golden Rule: pkg/core imports ONLY stdlib.
// All other packages depend on core, not the reverse.
package core
