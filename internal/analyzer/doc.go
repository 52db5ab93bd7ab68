// Package analyzer contains the tool adapters: each one wraps a single
// analysis tool (external binary or native check), converts configuration
// into an invocation, and normalizes the tool's output into a types.Report
// persisted as a JSON artifact in the report directory.
//
// Adapters consume the file list produced by the discovery engine and never
// feed back into it; the dependency runs in one direction only.
//
// # Basic Usage
//
//	reg := analyzer.NewRegistry()
//	tools, err := reg.Resolve([]string{"pylint", "docstrings"}, "")
//
//	runner := analyzer.NewRunner(reg)
//	reports := runner.Run(ctx, tools, files, cfg)
//
// # Failure Isolation
//
// A failing tool never aborts its siblings: every adapter failure (missing
// binary, bad exit, unparseable output) is recorded in that tool's report
// and the run continues. Within the pylint adapter, per-file invocations run
// across a bounded worker pool and one file's failure is likewise isolated
// from the rest of its batch.
//
// # External Tool Output
//
// Adapters prefer a structured output mode when the tool offers one
// (coverage's JSON report) and fall back to scraping the human-oriented text
// output against a documented pattern (pylint's rating line, vulture's
// per-line findings). A parse failure yields a report flagged unsuccessful,
// not an error.
package analyzer
