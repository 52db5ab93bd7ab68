package storage

import (
	"context"
	"time"

	"github.com/codequal/codequal/pkg/types"
)

// Storage defines the interface for persisting and querying run history
type Storage interface {
	// Run operations
	CreateRun(ctx context.Context, run *Run) error
	FinishRun(ctx context.Context, run *Run) error
	GetRun(ctx context.Context, runID string) (*Run, error)
	LatestRun(ctx context.Context, projectRoot string) (*Run, error)
	ListRuns(ctx context.Context, projectRoot string, limit int) ([]*Run, error)
	DeleteRun(ctx context.Context, runID string) error

	// Tool result operations
	UpsertToolResult(ctx context.Context, result *ToolResult) error
	ListToolResults(ctx context.Context, runID string) ([]*ToolResult, error)

	// Database operations
	Close() error
	BeginTx(ctx context.Context) (Tx, error)
}

// Tx represents a database transaction
type Tx interface {
	Commit() error
	Rollback() error
	Storage // Embed Storage interface for transaction operations
}

// Run represents one analysis invocation
type Run struct {
	ID          string // Generated when empty on create
	ProjectRoot string
	ProjectName string
	Preset      string
	StartedAt   time.Time
	FinishedAt  time.Time // Zero until FinishRun
	FilesFound  int
	ToolsRun    int
	ToolsPassed int
	CreatedAt   time.Time
}

// ToolResult represents one tool's outcome within a run
type ToolResult struct {
	ID         int64
	RunID      string
	Tool       string
	Success    bool
	DurationMs int64
	Error      string
	ReportPath string
	CreatedAt  time.Time
}

// Record converts a Run to the shared history record type
func (r *Run) Record() *types.RunRecord {
	return &types.RunRecord{
		ID:          r.ID,
		ProjectRoot: r.ProjectRoot,
		ProjectName: r.ProjectName,
		StartedAt:   r.StartedAt,
		FinishedAt:  r.FinishedAt,
		FilesFound:  r.FilesFound,
		ToolsRun:    r.ToolsRun,
		ToolsPassed: r.ToolsPassed,
	}
}

// FromReport builds a ToolResult from a tool report
func FromReport(runID string, rep *types.Report) *ToolResult {
	return &ToolResult{
		RunID:      runID,
		Tool:       rep.Tool,
		Success:    rep.Success,
		DurationMs: rep.Duration.Milliseconds(),
		Error:      rep.Error,
		ReportPath: rep.ReportPath,
	}
}
