package analyzer

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codequal/codequal/internal/config"
)

func TestAnalyzeSourceFile(t *testing.T) {
	src := `# top comment
import os


def helper():
    # inner comment
    return os.sep


class Thing:
    def method(self):
        return None

    async def amethod(self):
        return None


async def worker():
    return 1
`
	file := filepath.Join(t.TempDir(), "m.py")
	require.NoError(t, os.WriteFile(file, []byte(src), 0644))

	fm := analyzeSourceFile(file)

	assert.Equal(t, 19, fm.Lines.TotalLines)
	assert.Equal(t, 10, fm.Lines.CodeLines)
	assert.Equal(t, 2, fm.Lines.CommentLines)
	assert.Equal(t, 7, fm.Lines.EmptyLines)

	assert.Equal(t, 2, fm.Structure.Functions)      // helper, method
	assert.Equal(t, 2, fm.Structure.AsyncFunctions) // amethod, worker
	assert.Equal(t, 1, fm.Structure.Classes)
	assert.Equal(t, 2, fm.Structure.Methods) // method, amethod
}

func TestAnalyzeSourceFile_Unreadable(t *testing.T) {
	fm := analyzeSourceFile(filepath.Join(t.TempDir(), "missing.py"))
	assert.Zero(t, fm.Lines.TotalLines)
	assert.Zero(t, fm.Structure.Functions)
}

func TestMetricsRun(t *testing.T) {
	root := t.TempDir()
	small := filepath.Join(root, "small.py")
	big := filepath.Join(root, "big.py")
	require.NoError(t, os.WriteFile(small, []byte("x = 1\n"), 0644))
	require.NoError(t, os.WriteFile(big, []byte("def a():\n    pass\n\n\ndef b():\n    pass\n"), 0644))

	cfg, err := config.Build(config.Options{ProjectPath: root})
	require.NoError(t, err)

	rep, err := NewMetricsAdapter().Run(context.Background(), []string{small, big}, cfg)
	require.NoError(t, err)
	assert.True(t, rep.Success)

	summary, ok := rep.Payload["summary"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, 2.0, summary["total_files"])
	assert.Equal(t, 2.0, summary["total_functions"])

	biggest, ok := summary["biggest_file_by_code_lines"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, big, biggest["file"])

	_, err = os.Stat(rep.ReportPath)
	assert.NoError(t, err)
}

func TestMetricsRun_NoFiles(t *testing.T) {
	cfg, err := config.Build(config.Options{ProjectPath: t.TempDir()})
	require.NoError(t, err)

	rep, err := NewMetricsAdapter().Run(context.Background(), nil, cfg)
	require.NoError(t, err)
	assert.False(t, rep.Success)
}
