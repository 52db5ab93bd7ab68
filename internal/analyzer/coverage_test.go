package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codequal/codequal/internal/config"
	"github.com/codequal/codequal/pkg/types"
)

const sampleCoverageJSON = `{
  "files": {
    "src/app.py": {
      "summary": {"covered_lines": 95, "num_statements": 100, "percent_covered": 95.0, "missing_lines": 5}
    },
    "src/util.py": {
      "summary": {"covered_lines": 30, "num_statements": 50, "percent_covered": 60.0, "missing_lines": 20}
    },
    "src/legacy.py": {
      "summary": {"covered_lines": 10, "num_statements": 100, "percent_covered": 10.0, "missing_lines": 90}
    }
  },
  "totals": {"covered_lines": 135, "num_statements": 250, "percent_covered": 54.0, "missing_lines": 115}
}`

func TestBuildCoveragePayload(t *testing.T) {
	payload, err := buildCoveragePayload("demo", []byte(sampleCoverageJSON))
	require.NoError(t, err)

	assert.Equal(t, "demo", payload.ProjectName)
	assert.Equal(t, 54.0, payload.CoveragePercentage)
	assert.Equal(t, "F", payload.CoverageGrade)
	assert.Equal(t, "Needs Improvement", payload.CoverageStatus)

	assert.Equal(t, 3, payload.Summary.TotalFiles)
	assert.Equal(t, 1, payload.Summary.FilesByCategory["excellent_90_plus"])
	assert.Equal(t, 1, payload.Summary.FilesByCategory["fair_50_to_69"])
	assert.Equal(t, 1, payload.Summary.FilesByCategory["poor_below_50"])
	assert.Equal(t, 250, payload.Summary.Statements.Total)
	assert.Equal(t, 135, payload.Summary.Statements.Covered)

	require.Len(t, payload.TopPriorities, 1)
	assert.Equal(t, "legacy.py", payload.TopPriorities[0].Filename)
	assert.Equal(t, "src/legacy.py", payload.TopPriorities[0].FullPath)

	// util.py is fair with 20 missing lines: a quick win.
	require.Len(t, payload.QuickWins, 1)
	assert.Equal(t, "util.py", payload.QuickWins[0].Filename)
}

func TestParseCoverageJSON_Invalid(t *testing.T) {
	_, err := parseCoverageJSON([]byte("not json"))
	assert.ErrorIs(t, err, types.ErrParseFailure)
}

func TestFindTestDir(t *testing.T) {
	root := t.TempDir()
	assert.Empty(t, findTestDir(root))

	require.NoError(t, os.MkdirAll(filepath.Join(root, "spec"), 0755))
	assert.Equal(t, filepath.Join(root, "spec"), findTestDir(root))

	// Earlier candidates win.
	require.NoError(t, os.MkdirAll(filepath.Join(root, "tests"), 0755))
	assert.Equal(t, filepath.Join(root, "tests"), findTestDir(root))
}

func TestCoverageRun_NoTestDir(t *testing.T) {
	cfg, err := config.Build(config.Options{ProjectPath: t.TempDir()})
	require.NoError(t, err)

	rep, err := NewCoverageAdapter().Run(context.Background(), nil, cfg)
	require.NoError(t, err)

	assert.False(t, rep.Success)
	assert.Contains(t, rep.Error, "no test directory")

	// The failure is still recorded as an artifact.
	_, statErr := os.Stat(rep.ReportPath)
	assert.NoError(t, statErr)
}
