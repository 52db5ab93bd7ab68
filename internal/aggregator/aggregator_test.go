package aggregator

import (
	"encoding/json"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codequal/codequal/internal/config"
	"github.com/codequal/codequal/pkg/types"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.Build(config.Options{ProjectPath: t.TempDir()})
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(cfg.ReportDir, 0755))
	return cfg
}

func writeArtifact(t *testing.T, cfg *config.Config, filename string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(cfg.ReportPath(filename), data, 0644))
}

func TestBuildRunSummary(t *testing.T) {
	cfg := testConfig(t)

	reports := []*types.Report{
		{Tool: "pylint", Success: true},
		{Tool: "unused", Success: false, Error: "vulture not found"},
		{Tool: "docstrings", Success: true},
	}

	s := BuildRunSummary(cfg, reports)

	assert.Equal(t, cfg.ProjectName, s.ProjectName)
	assert.Equal(t, 3, s.TotalTools)
	assert.Equal(t, []string{"pylint", "docstrings"}, s.SuccessfulTools)
	assert.Equal(t, []string{"unused"}, s.FailedTools)
	assert.InDelta(t, 2.0/3.0, s.SuccessRate, 1e-9)
	assert.True(t, s.AnalysisResults["pylint"])
	assert.False(t, s.AnalysisResults["unused"])
}

func TestBuildRunSummary_Empty(t *testing.T) {
	s := BuildRunSummary(testConfig(t), nil)
	assert.Zero(t, s.SuccessRate)
	assert.Zero(t, s.TotalTools)
}

func TestWriteRunSummary(t *testing.T) {
	cfg := testConfig(t)

	path, _, err := WriteRunSummary(cfg, []*types.Report{{Tool: "pylint", Success: true}})
	require.NoError(t, err)
	assert.Equal(t, cfg.ReportPath(cfg.SummaryOutput), path)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(raw, &decoded))
	assert.Equal(t, 1.0, decoded["success_rate"])
}

func TestBuildNumericSummary(t *testing.T) {
	cfg := testConfig(t)

	writeArtifact(t, cfg, cfg.PylintOutput, map[string]any{
		"score": 8.5, "total_issues": 12, "files_analyzed": 30,
	})
	writeArtifact(t, cfg, cfg.DocstringOutput, map[string]any{
		"docstring_coverage_percent": 74.2,
		"documented_functions":       100,
		"total_functions":            135,
	})
	writeArtifact(t, cfg, cfg.MetricsOutput, map[string]any{
		"summary": map[string]any{
			"total_files": 30, "total_code_lines": 4200,
			"total_functions": 135, "total_classes": 18,
		},
	})
	writeArtifact(t, cfg, cfg.UnusedOutput, map[string]any{
		"total_defined_files": 30, "unused_items_count": 4,
	})
	writeArtifact(t, cfg, cfg.CoverageOutput, map[string]any{
		"coverage_percentage": 81.5,
		"coverage_grade":      "B",
		"summary": map[string]any{
			"total_files": 30,
			"statements":  map[string]any{"total": 5000, "covered": 4075},
		},
	})

	s := BuildNumericSummary(cfg)

	assert.Equal(t, 8.5, s.OverallScores["pylint_score"])
	assert.Equal(t, 81.5, s.OverallScores["coverage_percentage"])
	assert.Equal(t, "B", s.OverallScores["coverage_grade"])
	assert.Equal(t, 74.2, s.OverallScores["docstring_coverage"])
	assert.Equal(t, 4.0, s.OverallScores["unused_items_count"])

	assert.Equal(t, 12.0, s.Metrics["pylint_issues"])
	assert.Equal(t, 4200.0, s.Metrics["total_code_lines"])
	assert.Equal(t, 4075.0, s.Metrics["covered_statements"])
	assert.Equal(t, 30.0, s.Metrics["unused_total_files"])

	assert.Equal(t,
		[]string{"code_metrics", "docstrings", "pylint", "test_coverage", "unused"},
		s.ToolsAvailable)
}

func TestBuildNumericSummary_MissingArtifactsSkipped(t *testing.T) {
	cfg := testConfig(t)

	writeArtifact(t, cfg, cfg.PylintOutput, map[string]any{"score": 9.0})

	s := BuildNumericSummary(cfg)

	assert.Equal(t, []string{"pylint"}, s.ToolsAvailable)
	assert.Equal(t, 9.0, s.OverallScores["pylint_score"])
	assert.NotContains(t, s.OverallScores, "coverage_percentage")
}

func TestBuildNumericSummary_UnparseableArtifactSkipped(t *testing.T) {
	cfg := testConfig(t)

	require.NoError(t, os.WriteFile(cfg.ReportPath(cfg.PylintOutput), []byte("not json"), 0644))

	s := BuildNumericSummary(cfg)
	assert.Empty(t, s.ToolsAvailable)

	// The summary still marshals with an empty list, never null.
	raw, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"tools_available":[]`)
}

func TestWriteNumericSummary(t *testing.T) {
	cfg := testConfig(t)
	writeArtifact(t, cfg, cfg.PylintOutput, map[string]any{"score": 7.0})

	path, s, err := WriteNumericSummary(cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg.ReportPath(cfg.NumericOutput), path)
	assert.Equal(t, 7.0, s.OverallScores["pylint_score"])

	_, err = os.Stat(path)
	assert.NoError(t, err)
}
