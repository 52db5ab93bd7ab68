package analyzer

import (
	"context"
	"log"
	"time"

	"github.com/codequal/codequal/internal/config"
	"github.com/codequal/codequal/pkg/types"
)

// Runner executes a selected set of adapters against one discovered file
// list. Tools run one after another: each adapter manages its own internal
// parallelism, and their external processes should not compete for the
// machine.
type Runner struct {
	// OnStart and OnFinish, when set, observe each tool's lifecycle. The
	// CLI uses them for progress output.
	OnStart  func(tool string)
	OnFinish func(rep *types.Report)
}

// NewRunner returns a runner with no observers.
func NewRunner() *Runner {
	return &Runner{}
}

// Run executes the adapters in order and returns one report per adapter, in
// the same order. A tool failure is recorded in its report and the run
// continues; only context cancellation stops the sequence early, and even
// then the reports collected so far are returned.
func (r *Runner) Run(ctx context.Context, adapters []Adapter, files []string, cfg *config.Config) []*types.Report {
	reports := make([]*types.Report, 0, len(adapters))

	for _, a := range adapters {
		if ctx.Err() != nil {
			reports = append(reports, newReport(a.Name()).Failed(ctx.Err()))
			continue
		}

		if r.OnStart != nil {
			r.OnStart(a.Name())
		}

		start := time.Now()
		rep, err := a.Run(ctx, files, cfg)
		if rep == nil {
			rep = newReport(a.Name())
		}
		rep.Duration = time.Since(start)
		if err != nil {
			rep.Failed(err)
			log.Printf("Warning: tool %s did not complete: %v", a.Name(), err)
		}

		if r.OnFinish != nil {
			r.OnFinish(rep)
		}
		reports = append(reports, rep)
	}

	return reports
}
