package aggregator

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sort"
	"time"

	"github.com/codequal/codequal/internal/config"
	"github.com/codequal/codequal/pkg/types"
)

// RunSummary records the outcome of one analysis run tool by tool.
type RunSummary struct {
	ProjectName     string          `json:"project_name"`
	ProjectRoot     string          `json:"project_root"`
	AnalysisResults map[string]bool `json:"analysis_results"`
	SuccessfulTools []string        `json:"successful_tools"`
	FailedTools     []string        `json:"failed_tools"`
	TotalTools      int             `json:"total_tools"`
	SuccessRate     float64         `json:"success_rate"`
}

// NumericSummary gathers the headline figure of every available tool
// artifact into a single record.
type NumericSummary struct {
	ProjectName     string             `json:"project_name"`
	ProjectRoot     string             `json:"project_root"`
	AnalysisDate    string             `json:"analysis_date"`
	OverallScores   map[string]any     `json:"overall_scores"`
	Metrics         map[string]float64 `json:"metrics"`
	ToolsAvailable  []string           `json:"tools_available"`
	ReportsLocation string             `json:"reports_location"`
}

// BuildRunSummary folds tool reports into a RunSummary. Report order is
// preserved in the tool lists.
func BuildRunSummary(cfg *config.Config, reports []*types.Report) *RunSummary {
	s := &RunSummary{
		ProjectName:     cfg.ProjectName,
		ProjectRoot:     cfg.ProjectRoot,
		AnalysisResults: make(map[string]bool, len(reports)),
		SuccessfulTools: []string{},
		FailedTools:     []string{},
		TotalTools:      len(reports),
	}

	for _, rep := range reports {
		s.AnalysisResults[rep.Tool] = rep.Success
		if rep.Success {
			s.SuccessfulTools = append(s.SuccessfulTools, rep.Tool)
		} else {
			s.FailedTools = append(s.FailedTools, rep.Tool)
		}
	}

	if len(reports) > 0 {
		s.SuccessRate = float64(len(s.SuccessfulTools)) / float64(len(reports))
	}
	return s
}

// WriteRunSummary builds the run summary and writes it as the summary
// artifact. It returns the path written.
func WriteRunSummary(cfg *config.Config, reports []*types.Report) (string, *RunSummary, error) {
	s := BuildRunSummary(cfg, reports)
	path, err := writeJSON(cfg, cfg.SummaryOutput, s)
	if err != nil {
		return "", nil, err
	}
	return path, s, nil
}

// BuildNumericSummary reads every tool artifact present in the report
// directory and extracts its headline numbers. Tools whose artifact is
// missing or unreadable are skipped with a logged warning.
func BuildNumericSummary(cfg *config.Config) *NumericSummary {
	s := &NumericSummary{
		ProjectName:     cfg.ProjectName,
		ProjectRoot:     cfg.ProjectRoot,
		AnalysisDate:    time.Now().Format(time.RFC3339),
		OverallScores:   make(map[string]any),
		Metrics:         make(map[string]float64),
		ToolsAvailable:  []string{},
		ReportsLocation: cfg.ReportDir,
	}

	artifacts := map[string]string{
		"pylint":        cfg.PylintOutput,
		"test_coverage": cfg.CoverageOutput,
		"docstrings":    cfg.DocstringOutput,
		"code_metrics":  cfg.MetricsOutput,
		"unused":        cfg.UnusedOutput,
	}

	for tool, filename := range artifacts {
		data, err := loadArtifact(cfg.ReportPath(filename))
		if err != nil {
			if !os.IsNotExist(err) {
				log.Printf("Warning: skipping %s artifact: %v", tool, err)
			}
			continue
		}
		s.ToolsAvailable = append(s.ToolsAvailable, tool)

		switch tool {
		case "pylint":
			s.OverallScores["pylint_score"] = number(data, "score")
			s.Metrics["pylint_issues"] = number(data, "total_issues")
			s.Metrics["pylint_files_analyzed"] = number(data, "files_analyzed")
		case "test_coverage":
			s.OverallScores["coverage_percentage"] = number(data, "coverage_percentage")
			s.OverallScores["coverage_grade"] = text(data, "coverage_grade")
			s.Metrics["total_files_coverage"] = number(data, "summary", "total_files")
			s.Metrics["covered_statements"] = number(data, "summary", "statements", "covered")
			s.Metrics["total_statements"] = number(data, "summary", "statements", "total")
		case "docstrings":
			s.OverallScores["docstring_coverage"] = number(data, "docstring_coverage_percent")
			s.Metrics["documented_functions"] = number(data, "documented_functions")
			s.Metrics["total_functions"] = number(data, "total_functions")
		case "code_metrics":
			s.Metrics["total_files"] = number(data, "summary", "total_files")
			s.Metrics["total_code_lines"] = number(data, "summary", "total_code_lines")
			s.Metrics["total_functions"] = number(data, "summary", "total_functions")
			s.Metrics["total_classes"] = number(data, "summary", "total_classes")
		case "unused":
			s.OverallScores["unused_items_count"] = number(data, "unused_items_count")
			s.Metrics["unused_total_files"] = number(data, "total_defined_files")
			s.Metrics["unused_items"] = number(data, "unused_items_count")
		}
	}

	sort.Strings(s.ToolsAvailable)
	return s
}

// WriteNumericSummary builds the numeric summary and writes it as the
// numeric artifact. It returns the path written.
func WriteNumericSummary(cfg *config.Config) (string, *NumericSummary, error) {
	s := BuildNumericSummary(cfg)
	path, err := writeJSON(cfg, cfg.NumericOutput, s)
	if err != nil {
		return "", nil, err
	}
	return path, s, nil
}

func writeJSON(cfg *config.Config, filename string, v any) (string, error) {
	if err := os.MkdirAll(cfg.ReportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode summary: %w", err)
	}

	path := cfg.ReportPath(filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write summary: %w", err)
	}
	return path, nil
}

func loadArtifact(path string) (map[string]any, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var data map[string]any
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", types.ErrParseFailure, path, err)
	}
	return data, nil
}

// number walks a key path through nested JSON objects and returns the
// numeric leaf, or 0 when the path is absent or non-numeric.
func number(data map[string]any, path ...string) float64 {
	v := walk(data, path)
	if f, ok := v.(float64); ok {
		return f
	}
	return 0
}

// text is number's string counterpart; absent paths yield the empty string.
func text(data map[string]any, path ...string) string {
	v := walk(data, path)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func walk(data map[string]any, path []string) any {
	var v any = data
	for _, key := range path {
		m, ok := v.(map[string]any)
		if !ok {
			return nil
		}
		v = m[key]
	}
	return v
}
