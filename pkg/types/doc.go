// Package types defines the shared domain types for codequal: normalized
// tool reports, run records, and the sentinel errors used across packages.
//
// A Report is the normalized record every tool adapter produces, regardless
// of whether the underlying tool emitted JSON, scraped text, or was computed
// natively:
//
//	report := &types.Report{
//	    Tool:    "pylint",
//	    Success: true,
//	    Payload: map[string]any{"score": 8.73, "total_issues": 41},
//	}
//
// The Payload is tool-specific; the Aggregator knows which scalar metrics to
// lift out of each tool's payload when building the numeric summary.
package types
