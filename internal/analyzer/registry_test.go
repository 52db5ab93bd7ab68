package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/codequal/codequal/pkg/types"
)

func adapterNames(adapters []Adapter) []string {
	names := make([]string, len(adapters))
	for i, a := range adapters {
		names[i] = a.Name()
	}
	return names
}

func TestRegistry_ResolveDefaultsToStandard(t *testing.T) {
	reg := NewRegistry()

	adapters, err := reg.Resolve(nil, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"code_metrics", "docstrings", "pylint"}, adapterNames(adapters))
}

func TestRegistry_ResolvePreset(t *testing.T) {
	reg := NewRegistry()

	adapters, err := reg.Resolve(nil, "quality")
	require.NoError(t, err)
	assert.Equal(t, []string{"pylint", "unused"}, adapterNames(adapters))
}

func TestRegistry_ResolveToolsAndPresetDeduplicates(t *testing.T) {
	reg := NewRegistry()

	adapters, err := reg.Resolve([]string{"pylint", "test_coverage"}, "quick")
	require.NoError(t, err)
	assert.Equal(t,
		[]string{"code_metrics", "docstrings", "pylint", "test_coverage"},
		adapterNames(adapters))
}

func TestRegistry_ResolveUnknownTool(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Resolve([]string{"nonexistent"}, "")
	assert.ErrorIs(t, err, types.ErrUnknownTool)
}

func TestRegistry_ResolveUnknownPreset(t *testing.T) {
	reg := NewRegistry()

	_, err := reg.Resolve(nil, "nonexistent")
	assert.ErrorIs(t, err, types.ErrUnknownPreset)
}

func TestRegistry_LoadUserPresets(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`presets:
  nightly: [pylint, unused, test_coverage]
  quick: [code_metrics]
`), 0644))

	reg := NewRegistry()
	require.NoError(t, reg.LoadUserPresets(path))

	adapters, err := reg.Resolve(nil, "nightly")
	require.NoError(t, err)
	assert.Equal(t, []string{"pylint", "unused", "test_coverage"}, adapterNames(adapters))

	// User presets shadow builtins of the same name.
	adapters, err = reg.Resolve(nil, "quick")
	require.NoError(t, err)
	assert.Equal(t, []string{"code_metrics"}, adapterNames(adapters))
}

func TestRegistry_LoadUserPresets_UnknownTool(t *testing.T) {
	path := filepath.Join(t.TempDir(), "presets.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`presets:
  bad: [does_not_exist]
`), 0644))

	reg := NewRegistry()
	assert.ErrorIs(t, reg.LoadUserPresets(path), types.ErrUnknownTool)
}

func TestRegistry_Adapters(t *testing.T) {
	reg := NewRegistry()

	names := adapterNames(reg.Adapters())
	assert.Equal(t, []string{"code_metrics", "docstrings", "pylint", "unused", "test_coverage"}, names)

	for _, a := range reg.Adapters() {
		assert.NotEmpty(t, a.Description())
	}
}
