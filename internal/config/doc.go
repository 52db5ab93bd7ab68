// Package config defines the analysis configuration record and its
// persistence. A Config is created by the config command (or programmatically),
// saved as JSON, and passed explicitly into every entry point that needs it:
// loaded once at process start, immutable for the duration of a run, never
// reloaded behind the caller's back.
//
// # Basic Usage
//
//	cfg, err := config.Build(config.Options{ProjectPath: "/path/to/project"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	path, err := config.Save(cfg, "")
//
//	cfg, err = config.Load("")
//
// Missing include_dirs or exclude_patterns are not errors: they default to
// empty slices, degrading discovery to "nothing to scan" and filtering to a
// no-op respectively.
package config
