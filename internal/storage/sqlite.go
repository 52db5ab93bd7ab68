package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a requested entity doesn't exist
	ErrNotFound = errors.New("not found")
)

// SQLiteStorage implements the Storage interface using SQLite
type SQLiteStorage struct {
	db *sql.DB
}

// openDatabase opens a SQLite database with appropriate settings
func openDatabase(dbPath string) (*sql.DB, error) {
	db, err := sql.Open(DriverName, dbPath)
	if err != nil {
		return nil, err
	}

	// Enable WAL mode for better concurrency
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	// Set connection pool settings
	db.SetMaxOpenConns(1) // SQLite benefits from single writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	return db, nil
}

// NewSQLiteStorage creates a new SQLite storage instance
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := openDatabase(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Apply migrations
	if err := ApplyMigrations(context.Background(), db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to apply migrations: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

// Close closes the database connection
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// BeginTx starts a new transaction
func (s *SQLiteStorage) BeginTx(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	return &sqliteTx{tx: tx, storage: s}, nil
}

// querier is an interface that both *sql.DB and *sql.Tx implement
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// sqliteTx wraps a SQL transaction
type sqliteTx struct {
	tx      *sql.Tx
	storage *SQLiteStorage
}

func (t *sqliteTx) Commit() error {
	return t.tx.Commit()
}

func (t *sqliteTx) Rollback() error {
	return t.tx.Rollback()
}

// querier returns the transaction querier
func (t *sqliteTx) querier() querier {
	return t.tx
}

// querier returns the DB querier
func (s *SQLiteStorage) querier() querier {
	return s.db
}

// Run operations

// createRunWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) createRunWithQuerier(ctx context.Context, q querier, run *Run) error {
	if run.ID == "" {
		run.ID = uuid.NewString()
	}
	if run.StartedAt.IsZero() {
		run.StartedAt = time.Now()
	}

	query := `
		INSERT INTO runs (id, project_root, project_name, preset, started_at, files_found, tools_run, tools_passed, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	now := time.Now()
	_, err := q.ExecContext(ctx, query,
		run.ID, run.ProjectRoot, run.ProjectName, run.Preset,
		run.StartedAt, run.FilesFound, run.ToolsRun, run.ToolsPassed, now)
	if err != nil {
		return fmt.Errorf("failed to create run: %w", err)
	}
	run.CreatedAt = now
	return nil
}

func (s *SQLiteStorage) CreateRun(ctx context.Context, run *Run) error {
	return s.createRunWithQuerier(ctx, s.querier(), run)
}

// finishRunWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) finishRunWithQuerier(ctx context.Context, q querier, run *Run) error {
	if run.FinishedAt.IsZero() {
		run.FinishedAt = time.Now()
	}

	query := `
		UPDATE runs
		SET finished_at = ?, files_found = ?, tools_run = ?, tools_passed = ?
		WHERE id = ?
	`
	result, err := q.ExecContext(ctx, query,
		run.FinishedAt, run.FilesFound, run.ToolsRun, run.ToolsPassed, run.ID)
	if err != nil {
		return fmt.Errorf("failed to finish run: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStorage) FinishRun(ctx context.Context, run *Run) error {
	return s.finishRunWithQuerier(ctx, s.querier(), run)
}

const runColumns = `id, project_root, project_name, preset, started_at, finished_at,
       files_found, tools_run, tools_passed, created_at`

func scanRun(row interface{ Scan(...interface{}) error }) (*Run, error) {
	var run Run
	var finishedAt sql.NullTime
	err := row.Scan(
		&run.ID, &run.ProjectRoot, &run.ProjectName, &run.Preset,
		&run.StartedAt, &finishedAt,
		&run.FilesFound, &run.ToolsRun, &run.ToolsPassed, &run.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	if finishedAt.Valid {
		run.FinishedAt = finishedAt.Time
	}
	return &run, nil
}

// getRunWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) getRunWithQuerier(ctx context.Context, q querier, runID string) (*Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs WHERE id = ?`
	run, err := scanRun(q.QueryRowContext(ctx, query, runID))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (s *SQLiteStorage) GetRun(ctx context.Context, runID string) (*Run, error) {
	return s.getRunWithQuerier(ctx, s.querier(), runID)
}

// latestRunWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) latestRunWithQuerier(ctx context.Context, q querier, projectRoot string) (*Run, error) {
	query := `
		SELECT ` + runColumns + `
		FROM runs
		WHERE project_root = ?
		ORDER BY started_at DESC
		LIMIT 1
	`
	run, err := scanRun(q.QueryRowContext(ctx, query, projectRoot))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return run, nil
}

func (s *SQLiteStorage) LatestRun(ctx context.Context, projectRoot string) (*Run, error) {
	return s.latestRunWithQuerier(ctx, s.querier(), projectRoot)
}

// listRunsWithQuerier is the internal implementation that uses a querier.
// An empty projectRoot lists runs across all projects.
func (s *SQLiteStorage) listRunsWithQuerier(ctx context.Context, q querier, projectRoot string, limit int) ([]*Run, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `SELECT ` + runColumns + ` FROM runs`
	args := []interface{}{}
	if projectRoot != "" {
		query += ` WHERE project_root = ?`
		args = append(args, projectRoot)
	}
	query += ` ORDER BY started_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	runs := make([]*Run, 0)
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func (s *SQLiteStorage) ListRuns(ctx context.Context, projectRoot string, limit int) ([]*Run, error) {
	return s.listRunsWithQuerier(ctx, s.querier(), projectRoot, limit)
}

// deleteRunWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) deleteRunWithQuerier(ctx context.Context, q querier, runID string) error {
	query := `DELETE FROM runs WHERE id = ?`
	_, err := q.ExecContext(ctx, query, runID)
	return err
}

func (s *SQLiteStorage) DeleteRun(ctx context.Context, runID string) error {
	return s.deleteRunWithQuerier(ctx, s.querier(), runID)
}

// Tool result operations

// upsertToolResultWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) upsertToolResultWithQuerier(ctx context.Context, q querier, result *ToolResult) error {
	// Use atomic INSERT ... ON CONFLICT to avoid race conditions
	query := `
		INSERT INTO tool_results (run_id, tool, success, duration_ms, error, report_path, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(run_id, tool)
		DO UPDATE SET
			success = excluded.success,
			duration_ms = excluded.duration_ms,
			error = excluded.error,
			report_path = excluded.report_path
		RETURNING id, created_at
	`
	now := time.Now()
	err := q.QueryRowContext(ctx, query,
		result.RunID, result.Tool, result.Success, result.DurationMs,
		nullString(result.Error), nullString(result.ReportPath), now,
	).Scan(&result.ID, &result.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert tool result: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) UpsertToolResult(ctx context.Context, result *ToolResult) error {
	return s.upsertToolResultWithQuerier(ctx, s.querier(), result)
}

// listToolResultsWithQuerier is the internal implementation that uses a querier
func (s *SQLiteStorage) listToolResultsWithQuerier(ctx context.Context, q querier, runID string) ([]*ToolResult, error) {
	query := `
		SELECT id, run_id, tool, success, duration_ms, error, report_path, created_at
		FROM tool_results
		WHERE run_id = ?
		ORDER BY id
	`
	rows, err := q.QueryContext(ctx, query, runID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	results := make([]*ToolResult, 0)
	for rows.Next() {
		var res ToolResult
		var errMsg, reportPath sql.NullString
		err := rows.Scan(
			&res.ID, &res.RunID, &res.Tool, &res.Success, &res.DurationMs,
			&errMsg, &reportPath, &res.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		res.Error = errMsg.String
		res.ReportPath = reportPath.String
		results = append(results, &res)
	}
	return results, rows.Err()
}

func (s *SQLiteStorage) ListToolResults(ctx context.Context, runID string) ([]*ToolResult, error) {
	return s.listToolResultsWithQuerier(ctx, s.querier(), runID)
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

// Transaction implementations

func (t *sqliteTx) CreateRun(ctx context.Context, run *Run) error {
	return t.storage.createRunWithQuerier(ctx, t.querier(), run)
}

func (t *sqliteTx) FinishRun(ctx context.Context, run *Run) error {
	return t.storage.finishRunWithQuerier(ctx, t.querier(), run)
}

func (t *sqliteTx) GetRun(ctx context.Context, runID string) (*Run, error) {
	return t.storage.getRunWithQuerier(ctx, t.querier(), runID)
}

func (t *sqliteTx) LatestRun(ctx context.Context, projectRoot string) (*Run, error) {
	return t.storage.latestRunWithQuerier(ctx, t.querier(), projectRoot)
}

func (t *sqliteTx) ListRuns(ctx context.Context, projectRoot string, limit int) ([]*Run, error) {
	return t.storage.listRunsWithQuerier(ctx, t.querier(), projectRoot, limit)
}

func (t *sqliteTx) DeleteRun(ctx context.Context, runID string) error {
	return t.storage.deleteRunWithQuerier(ctx, t.querier(), runID)
}

func (t *sqliteTx) UpsertToolResult(ctx context.Context, result *ToolResult) error {
	return t.storage.upsertToolResultWithQuerier(ctx, t.querier(), result)
}

func (t *sqliteTx) ListToolResults(ctx context.Context, runID string) ([]*ToolResult, error) {
	return t.storage.listToolResultsWithQuerier(ctx, t.querier(), runID)
}

func (t *sqliteTx) Close() error {
	// Transactions don't close the underlying connection
	return nil
}

func (t *sqliteTx) BeginTx(ctx context.Context) (Tx, error) {
	// SQLite does not support true nested transactions
	// We return an error to prevent accidental misuse
	// If savepoints are needed in the future, implement here
	return nil, errors.New("nested transactions not supported")
}
