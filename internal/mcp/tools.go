package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/codequal/codequal/internal/aggregator"
	"github.com/codequal/codequal/internal/config"
	"github.com/codequal/codequal/internal/discovery"
	"github.com/codequal/codequal/internal/storage"
	"github.com/codequal/codequal/pkg/types"
)

// MCP error codes
const (
	ErrorCodeInvalidParams = -32602 // Invalid method parameters
	ErrorCodeInternalError = -32603 // Internal JSON-RPC error
	ErrorCodeUnknownTool   = -32001 // Requested tool or preset is not registered
)

// handleDiscoverFiles handles the discover_files tool invocation
func (s *Server) handleDiscoverFiles(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract and validate parameters
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	// Validate path exists and is accessible
	if err := validatePath(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	maxFiles := getIntDefault(args, "max_files", 200)
	if maxFiles < 1 || maxFiles > 1000 {
		return nil, newMCPError(ErrorCodeInvalidParams, "max_files must be between 1 and 1000", map[string]interface{}{
			"param": "max_files",
			"value": maxFiles,
		})
	}

	cfg, err := config.Build(config.Options{
		ProjectPath:   path,
		IncludeDirs:   getStringList(args, "include_dirs"),
		ExtraExcludes: getStringList(args, "exclude_patterns"),
	})
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to build configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	engine := discovery.NewEngine(cfg.SourceSuffix)
	patterns := discovery.ClassifyAll(cfg.ExcludePatterns)
	files, err := engine.DiscoverFiles(ctx, cfg.IncludeDirs, patterns)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "file discovery failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Format response
	response := map[string]interface{}{
		"project_root":           cfg.ProjectRoot,
		"project_name":           cfg.ProjectName,
		"include_dirs":           cfg.IncludeDirs,
		"exclude_patterns_count": len(cfg.ExcludePatterns),
		"files_found":            len(files),
	}

	if len(files) > maxFiles {
		response["files"] = files[:maxFiles]
		response["truncated"] = true
	} else {
		response["files"] = files
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// handleRunAnalysis handles the run_analysis tool invocation
func (s *Server) handleRunAnalysis(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract and validate parameters
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	// Validate path exists and is accessible
	if err := validatePath(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	tools := getStringList(args, "tools")
	preset := getStringDefault(args, "preset", "")

	adapters, err := s.registry.Resolve(tools, preset)
	if err != nil {
		return nil, newMCPError(ErrorCodeUnknownTool, "unknown tool or preset", map[string]interface{}{
			"error":             err.Error(),
			"available_tools":   toolNames(s),
			"available_presets": s.registry.PresetNames(),
		})
	}

	cfg, err := loadProjectConfig(path)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to load configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	engine := discovery.NewEngine(cfg.SourceSuffix)
	patterns := discovery.ClassifyAll(cfg.ExcludePatterns)
	files, err := engine.DiscoverFiles(ctx, cfg.IncludeDirs, patterns)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "file discovery failed", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Run analysis
	reports := s.runner.Run(ctx, adapters, files, cfg)

	passed := 0
	results := make([]map[string]interface{}, 0, len(reports))
	for _, rep := range reports {
		if rep.Success {
			passed++
		}
		entry := map[string]interface{}{
			"tool":        rep.Tool,
			"success":     rep.Success,
			"duration_ms": rep.Duration.Milliseconds(),
		}
		if rep.Error != "" {
			entry["error"] = rep.Error
		}
		if rep.ReportPath != "" {
			entry["report_path"] = rep.ReportPath
		}
		results = append(results, entry)
	}

	// Persist the run. History is best-effort: a storage failure does not
	// discard the analysis results.
	run := &storage.Run{
		ProjectRoot: cfg.ProjectRoot,
		ProjectName: cfg.ProjectName,
		Preset:      preset,
		FilesFound:  len(files),
		ToolsRun:    len(reports),
		ToolsPassed: passed,
	}
	if err := s.recordRun(ctx, run, reports); err != nil {
		log.Printf("Warning: failed to record run history: %v", err)
		run.ID = ""
	}

	summaryPath, _, err := aggregator.WriteRunSummary(cfg, reports)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to write run summary", map[string]interface{}{
			"error": err.Error(),
		})
	}
	numericPath, _, err := aggregator.WriteNumericSummary(cfg)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to write numeric summary", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Format response
	response := map[string]interface{}{
		"project_root": cfg.ProjectRoot,
		"project_name": cfg.ProjectName,
		"files_found":  len(files),
		"tools_run":    len(reports),
		"tools_passed": passed,
		"success_rate": run.Record().SuccessRate(),
		"results":      results,
		"summary_path": summaryPath,
		"numeric_path": numericPath,
		"reports_dir":  cfg.ReportDir,
	}
	if run.ID != "" {
		response["run_id"] = run.ID
	}
	if len(files) == 0 {
		response["message"] = "No analyzable files found. Check include_dirs and exclude_patterns in the configuration."
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// recordRun persists a run and its tool results in one transaction
func (s *Server) recordRun(ctx context.Context, run *storage.Run, reports []*types.Report) error {
	tx, err := s.storage.BeginTx(ctx)
	if err != nil {
		return err
	}

	if err := tx.CreateRun(ctx, run); err != nil {
		_ = tx.Rollback()
		return err
	}
	for _, rep := range reports {
		if err := tx.UpsertToolResult(ctx, storage.FromReport(run.ID, rep)); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.FinishRun(ctx, run); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// handleGetSummary handles the get_summary tool invocation
func (s *Server) handleGetSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract and validate parameters
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid arguments", nil)
	}

	path, ok := args["path"].(string)
	if !ok || path == "" {
		return nil, newMCPError(ErrorCodeInvalidParams, "path parameter is required", map[string]interface{}{
			"param":  "path",
			"reason": "missing or empty",
		})
	}

	// Validate path exists and is accessible
	if err := validatePath(path); err != nil {
		return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
			"param":  "path",
			"reason": err.Error(),
		})
	}

	cfg, err := loadProjectConfig(path)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to load configuration", map[string]interface{}{
			"error": err.Error(),
		})
	}

	summary := aggregator.BuildNumericSummary(cfg)
	if len(summary.ToolsAvailable) == 0 {
		// No report artifacts yet
		response := map[string]interface{}{
			"analyzed":     false,
			"project_root": cfg.ProjectRoot,
			"message":      "No report artifacts found. Use run_analysis tool to analyze this project.",
		}
		return mcp.NewToolResultText(formatJSON(response)), nil
	}

	return mcp.NewToolResultText(formatJSON(summary)), nil
}

// handleListRuns handles the list_runs tool invocation
func (s *Server) handleListRuns(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	// Extract and validate parameters
	args, ok := request.Params.Arguments.(map[string]interface{})
	if !ok {
		args = map[string]interface{}{}
	}

	path := getStringDefault(args, "path", "")
	if path != "" {
		if err := validatePath(path); err != nil {
			return nil, newMCPError(ErrorCodeInvalidParams, "invalid path", map[string]interface{}{
				"param":  "path",
				"reason": err.Error(),
			})
		}
		abs, err := filepath.Abs(path)
		if err == nil {
			path = abs
		}
	}

	limit := getIntDefault(args, "limit", 10)
	if limit < 1 || limit > 100 {
		return nil, newMCPError(ErrorCodeInvalidParams, "limit must be between 1 and 100", map[string]interface{}{
			"param": "limit",
			"value": limit,
		})
	}

	runs, err := s.storage.ListRuns(ctx, path, limit)
	if err != nil {
		return nil, newMCPError(ErrorCodeInternalError, "failed to list runs", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Format response
	entries := make([]map[string]interface{}, 0, len(runs))
	for _, run := range runs {
		entry := map[string]interface{}{
			"run_id":       run.ID,
			"project_root": run.ProjectRoot,
			"project_name": run.ProjectName,
			"started_at":   run.StartedAt.Format(time.RFC3339),
			"files_found":  run.FilesFound,
			"tools_run":    run.ToolsRun,
			"tools_passed": run.ToolsPassed,
			"success_rate": run.Record().SuccessRate(),
		}
		if run.Preset != "" {
			entry["preset"] = run.Preset
		}
		if !run.FinishedAt.IsZero() {
			entry["finished_at"] = run.FinishedAt.Format(time.RFC3339)
		}
		entries = append(entries, entry)
	}

	response := map[string]interface{}{
		"runs_found": len(entries),
		"runs":       entries,
	}

	return mcp.NewToolResultText(formatJSON(response)), nil
}

// Helper functions

// loadProjectConfig loads the project's saved configuration when present,
// falling back to an auto-detected one
func loadProjectConfig(path string) (*config.Config, error) {
	cfgPath := filepath.Join(path, config.DefaultFileName)
	if _, err := os.Stat(cfgPath); err == nil {
		return config.Load(cfgPath)
	}
	return config.Build(config.Options{ProjectPath: path})
}

// toolNames lists the registered adapter names
func toolNames(s *Server) []string {
	adapters := s.registry.Adapters()
	names := make([]string, 0, len(adapters))
	for _, a := range adapters {
		names = append(names, a.Name())
	}
	return names
}

// newMCPError creates a properly formatted MCP error
func newMCPError(code int, message string, data interface{}) error {
	// MCP errors are returned as regular errors, the framework handles encoding
	return &MCPError{
		Code:    code,
		Message: message,
		Data:    data,
	}
}

// MCPError represents an MCP protocol error
type MCPError struct {
	Code    int
	Message string
	Data    interface{}
}

func (e *MCPError) Error() string {
	return fmt.Sprintf("MCP error %d: %s", e.Code, e.Message)
}

// validatePath checks if a path exists and is accessible
func validatePath(path string) error {
	if path == "" {
		return ErrPathRequired
	}

	// Check if path is absolute
	if !filepath.IsAbs(path) {
		return ErrPathNotAbsolute
	}

	// Check if path exists
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return ErrPathNotFound
	}
	if err != nil {
		return ErrPathNotReadable
	}

	// Check if it's a directory
	if !info.IsDir() {
		return ErrNotDirectory
	}

	// Check if directory is readable
	f, err := os.Open(path)
	if err != nil {
		return ErrPathNotReadable
	}
	_ = f.Close()

	return nil
}

// formatJSON formats a value as indented JSON
func formatJSON(data interface{}) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}

// getIntDefault extracts an integer parameter with a default value
func getIntDefault(args map[string]interface{}, key string, defaultValue int) int {
	if val, ok := args[key].(float64); ok {
		return int(val)
	}
	if val, ok := args[key].(int); ok {
		return val
	}
	return defaultValue
}

// getStringDefault extracts a string parameter with a default value
func getStringDefault(args map[string]interface{}, key string, defaultValue string) string {
	if val, ok := args[key].(string); ok {
		return val
	}
	return defaultValue
}

// getStringList extracts a string array parameter, skipping non-string items
func getStringList(args map[string]interface{}, key string) []string {
	raw, ok := args[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Validation helpers

var (
	ErrPathRequired    = errors.New("path is required")
	ErrPathNotAbsolute = errors.New("path must be absolute")
	ErrPathNotFound    = errors.New("path does not exist")
	ErrPathNotReadable = errors.New("path is not readable")
	ErrNotDirectory    = errors.New("path is not a directory")
)
