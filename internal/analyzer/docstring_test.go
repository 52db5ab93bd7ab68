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

const sampleModule = `import os


def documented(a, b):
    """Add two numbers."""
    return a + b


def undocumented(a):
    return a * 2


async def fetch(
    url,
    timeout=30,
):
    '''Fetch a URL.'''
    return url


class Thing:
    def method(self):
        return None
`

func TestScanDocstrings(t *testing.T) {
	total, documented, undocumented := scanDocstrings("m.py", sampleModule)

	assert.Equal(t, 4, total)
	assert.Equal(t, 2, documented)
	require.Len(t, undocumented, 2)
	assert.Equal(t, "undocumented", undocumented[0].Function)
	assert.Equal(t, "method", undocumented[1].Function)
	assert.Equal(t, "m.py", undocumented[0].File)
}

func TestScanDocstrings_MultilineSignature(t *testing.T) {
	src := `def f(
    a,
    b,
):
    """Doc."""
    return a
`
	total, documented, _ := scanDocstrings("m.py", src)
	assert.Equal(t, 1, total)
	assert.Equal(t, 1, documented)
}

func TestScanDocstrings_Empty(t *testing.T) {
	total, documented, undocumented := scanDocstrings("m.py", "x = 1\n")
	assert.Zero(t, total)
	assert.Zero(t, documented)
	assert.Empty(t, undocumented)
}

func TestDocstringRun(t *testing.T) {
	root := t.TempDir()
	file := filepath.Join(root, "m.py")
	require.NoError(t, os.WriteFile(file, []byte(sampleModule), 0644))

	cfg, err := config.Build(config.Options{ProjectPath: root})
	require.NoError(t, err)

	rep, err := NewDocstringAdapter().Run(context.Background(), []string{file}, cfg)
	require.NoError(t, err)

	assert.True(t, rep.Success)

	pct, ok := rep.Metric("docstring_coverage_percent")
	require.True(t, ok)
	assert.Equal(t, 50.0, pct)

	_, err = os.Stat(rep.ReportPath)
	assert.NoError(t, err)
}

func TestDocstringRun_NoFunctionsIsFullCoverage(t *testing.T) {
	cfg, err := config.Build(config.Options{ProjectPath: t.TempDir()})
	require.NoError(t, err)

	rep, err := NewDocstringAdapter().Run(context.Background(), nil, cfg)
	require.NoError(t, err)

	assert.True(t, rep.Success)
	pct, ok := rep.Metric("docstring_coverage_percent")
	require.True(t, ok)
	assert.Equal(t, 100.0, pct)
}
