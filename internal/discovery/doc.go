// Package discovery enumerates the source files of a project, honoring a set
// of exclusion patterns. It is the component every analysis tool consumes:
// what gets discovered here determines what every downstream adapter sees.
//
// # Basic Usage
//
//	patterns := discovery.ClassifyAll([]string{"venv", "__pycache__", "*.pyc"})
//
//	eng := discovery.NewEngine(".py")
//	files, err := eng.DiscoverFiles(ctx, []string{"/path/to/project"}, patterns)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Exclusion Matching
//
// Patterns are plain strings classified at load time into a tagged kind by
// inspecting their shape (see Classify). Matching a path against a pattern
// tries, in order:
//
//  1. Exact match of the final path segment
//  2. Exact match of any path segment
//  3. Suffix wildcard ("*.pyc" matches any name ending in ".pyc")
//  4. Virtual-environment heuristic for the closed set
//     {venv, .venv, env, .env, virtualenv, .virtualenv}: a segment equal to
//     the name, prefixed with "name_", or suffixed with "_name"
//  5. Substring match anywhere in the full path string
//
// Any single match excludes the path; patterns are order-independent and
// case-sensitive. An empty pattern list excludes nothing.
//
// Rule 5 is intentionally loose and can over-exclude: the pattern "env"
// substring-matches any path containing "environment". Downstream consumers
// rely on this behavior, so it is preserved rather than tightened.
//
// # Traversal
//
// DiscoverFiles walks each root top-down and prunes excluded subdirectories
// before descending into them, so a large excluded tree (a virtualenv,
// node_modules) costs nothing to skip. Missing roots yield no files and no
// error. Unreadable directories are skipped with a logged warning rather
// than aborting the walk. Overlapping roots may yield duplicate paths; no
// deduplication is performed.
//
// Emission order follows directory-listing order and is not guaranteed to be
// stable across platforms; callers needing a canonical order must sort.
// Symbolic links to directories are not followed, so self-referential links
// cannot cause an infinite walk.
package discovery
