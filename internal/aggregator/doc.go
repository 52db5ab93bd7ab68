// Package aggregator merges the per-tool report artifacts of one analysis
// run into the two cross-tool summaries: the run summary (which tools ran,
// which succeeded, the success rate) and the numeric summary (the headline
// figures from each tool's artifact gathered in one place).
//
// The numeric summary reads the artifacts back from the report directory
// rather than taking in-memory results, so it also works across runs: any
// artifact present is folded in, whichever run produced it. A missing or
// unparseable artifact is skipped with a warning, never an error.
package aggregator
