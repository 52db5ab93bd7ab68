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

func TestParseVultureOutput(t *testing.T) {
	out := `src/app.py:42: unused function 'legacy_handler' (60% confidence)
src/util.py:7: unused import 'os' (90% confidence)
some unrelated warning line
`

	items := parseVultureOutput(out)

	require.Len(t, items, 2)
	assert.Equal(t, "src/app.py", items[0].File)
	assert.Equal(t, 42, items[0].Line)
	assert.Equal(t, "unused function 'legacy_handler'", items[0].Message)
	assert.Equal(t, "60% confidence", items[0].Symbol)
	assert.Equal(t, "src/util.py", items[1].File)
}

func TestParseVultureOutput_Empty(t *testing.T) {
	assert.Empty(t, parseVultureOutput(""))
	assert.Empty(t, parseVultureOutput("\n\n"))
}

func TestVultureRun_NoFiles(t *testing.T) {
	cfg, err := config.Build(config.Options{ProjectPath: t.TempDir()})
	require.NoError(t, err)

	rep, err := NewVultureAdapter().Run(context.Background(), nil, cfg)
	require.NoError(t, err)
	assert.False(t, rep.Success)
}

// A stand-in "vulture" that emits two findings regardless of input.
const fakeVultureScript = `#!/bin/sh
echo "a.py:1: unused import 'json' (90% confidence)"
echo "a.py:9: unused variable 'tmp' (60% confidence)"
`

func TestVultureRun_WritesArtifact(t *testing.T) {
	cfg, err := config.Build(config.Options{ProjectPath: t.TempDir()})
	require.NoError(t, err)

	script := filepath.Join(t.TempDir(), "fake-vulture")
	require.NoError(t, os.WriteFile(script, []byte(fakeVultureScript), 0755))

	a := &VultureAdapter{binary: script}
	rep, err := a.Run(context.Background(), []string{"a.py"}, cfg)
	require.NoError(t, err)

	assert.True(t, rep.Success)
	assert.Equal(t, cfg.ReportPath(cfg.UnusedOutput), rep.ReportPath)

	count, ok := rep.Metric("unused_items_count")
	require.True(t, ok)
	assert.Equal(t, 2.0, count)

	_, err = os.Stat(rep.ReportPath)
	assert.NoError(t, err)
}
