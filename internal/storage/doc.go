// Package storage provides SQLite-based persistence for analysis run
// history.
//
// The storage layer manages:
//   - Runs: one row per analysis invocation (project, timing, file count,
//     tool tallies)
//   - Tool results: one row per tool per run (outcome, duration, artifact
//     path)
//
// # Database Schema
//
// Tables:
//   - runs: run metadata keyed by a generated run ID
//   - tool_results: per-tool outcomes, cascading on run deletion
//   - schema_version: applied migration versions
//
// # Basic Usage
//
//	db, err := storage.NewSQLiteStorage("~/.codequal/history.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer db.Close()
//
//	run := &storage.Run{ProjectRoot: "/path/to/project", StartedAt: time.Now()}
//	err = db.CreateRun(ctx, run)
//
// # Transactions
//
// Use transactions to record a run and its tool results atomically:
//
//	tx, err := db.BeginTx(ctx)
//	if err != nil {
//	    return err
//	}
//	defer tx.Rollback()
//
//	tx.FinishRun(ctx, run)
//	for _, res := range results {
//	    tx.UpsertToolResult(ctx, res)
//	}
//
//	if err := tx.Commit(); err != nil {
//	    return err
//	}
//
// # Build Tags
//
// The storage package supports two build configurations:
//
// CGO Build (cgo_sqlite tag):
//
//   - Uses github.com/mattn/go-sqlite3 driver
//
//   - Requires a C compiler
//
//     CGO_ENABLED=1 go build -tags "cgo_sqlite"
//
// Pure Go Build (default):
//
//   - Uses modernc.org/sqlite driver
//
//   - No C compiler needed
//
//     CGO_ENABLED=0 go build
package storage
