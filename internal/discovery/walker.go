package discovery

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// DefaultSuffix is the source-file suffix discovered when none is configured.
const DefaultSuffix = ".py"

// Engine walks configured roots and yields the source files to analyze.
// The engine itself is synchronous and holds no mutable state across calls;
// two calls with the same inputs and an unchanged filesystem yield the same
// set of paths (order may differ only if the underlying directory listing
// order does).
type Engine struct {
	suffix string

	// OnDirVisit, when set, is invoked once for every directory the walk
	// enters. Used for traversal instrumentation; excluded subtrees are
	// pruned before descent and never reported.
	OnDirVisit func(dir string)
}

// NewEngine creates a discovery engine for files ending in suffix. An empty
// suffix selects DefaultSuffix.
func NewEngine(suffix string) *Engine {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return &Engine{suffix: suffix}
}

// DiscoverFiles walks each root top-down and returns the absolute paths of
// all source files not excluded by patterns.
//
// Excluded subdirectories are pruned before descent, so traversal cost is
// proportional to the retained tree. A root that does not exist contributes
// nothing and is not an error. Unreadable directories are skipped with a
// logged warning. Overlapping roots may yield duplicates.
//
// The context is a cancellation extension: a canceled context aborts the
// walk and returns the context error alongside the files found so far.
func (e *Engine) DiscoverFiles(ctx context.Context, roots []string, patterns []Pattern) ([]string, error) {
	files := make([]string, 0)

	for _, root := range roots {
		abs, err := filepath.Abs(root)
		if err != nil {
			log.Printf("discovery: skipping root %q: %v", root, err)
			continue
		}

		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			// Missing root: yields nothing, not an error.
			continue
		}

		if err := e.walk(ctx, abs, patterns, &files); err != nil {
			return files, err
		}
	}

	return files, nil
}

// walk visits dir and recurses into its non-excluded subdirectories. Files
// are emitted before descent. Only context errors propagate; filesystem
// errors degrade to a warning.
func (e *Engine) walk(ctx context.Context, dir string, patterns []Pattern, files *[]string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if e.OnDirVisit != nil {
		e.OnDirVisit(dir)
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		log.Printf("discovery: skipping unreadable directory %q: %v", dir, err)
		return nil
	}

	// Defense in depth: an excluded directory can still be walked when it is
	// itself a configured root. Its files are suppressed either way.
	emitFiles := !ShouldExclude(dir, patterns)

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if emitFiles && strings.HasSuffix(entry.Name(), e.suffix) {
			*files = append(*files, filepath.Join(dir, entry.Name()))
		}
	}

	for _, entry := range entries {
		// Symlinked directories report IsDir() == false here, so they are
		// never followed and cannot loop the walk.
		if !entry.IsDir() {
			continue
		}
		sub := filepath.Join(dir, entry.Name())
		if ShouldExclude(sub, patterns) {
			continue
		}
		if err := e.walk(ctx, sub, patterns, files); err != nil {
			return err
		}
	}

	return nil
}
