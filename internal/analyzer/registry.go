package analyzer

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/codequal/codequal/pkg/types"
)

// builtinPresets are the stock tool bundles selectable by name.
var builtinPresets = map[string][]string{
	"quick":         {"code_metrics", "docstrings"},
	"standard":      {"code_metrics", "docstrings", "pylint"},
	"comprehensive": {"code_metrics", "docstrings", "pylint", "unused"},
	"documentation": {"docstrings"},
	"quality":       {"pylint", "unused"},
	"all":           {"code_metrics", "docstrings", "pylint", "unused", "test_coverage"},
}

// Registry holds the available adapters and the preset table. User presets
// loaded from a YAML file shadow builtins of the same name.
type Registry struct {
	adapters map[string]Adapter
	order    []string
	presets  map[string][]string
}

// NewRegistry returns a registry with the full adapter set and the builtin
// presets.
func NewRegistry() *Registry {
	r := &Registry{
		adapters: make(map[string]Adapter),
		presets:  make(map[string][]string, len(builtinPresets)),
	}
	for name, tools := range builtinPresets {
		r.presets[name] = tools
	}

	r.register(NewMetricsAdapter())
	r.register(NewDocstringAdapter())
	r.register(NewPylintAdapter())
	r.register(NewVultureAdapter())
	r.register(NewCoverageAdapter())
	return r
}

func (r *Registry) register(a Adapter) {
	r.adapters[a.Name()] = a
	r.order = append(r.order, a.Name())
}

// Adapters returns every registered adapter in registration order.
func (r *Registry) Adapters() []Adapter {
	out := make([]Adapter, 0, len(r.order))
	for _, name := range r.order {
		out = append(out, r.adapters[name])
	}
	return out
}

// Presets returns the preset table with names sorted, for display.
func (r *Registry) Presets() map[string][]string {
	out := make(map[string][]string, len(r.presets))
	for name, tools := range r.presets {
		out[name] = append([]string(nil), tools...)
	}
	return out
}

// PresetNames returns the preset names in sorted order.
func (r *Registry) PresetNames() []string {
	names := make([]string, 0, len(r.presets))
	for name := range r.presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Resolve turns a tool list and/or a preset name into adapters, preserving
// order and dropping duplicates. With neither given, the "standard" preset
// applies.
func (r *Registry) Resolve(tools []string, preset string) ([]Adapter, error) {
	if len(tools) == 0 && preset == "" {
		preset = "standard"
	}

	var names []string
	if preset != "" {
		presetTools, ok := r.presets[preset]
		if !ok {
			return nil, fmt.Errorf("%w: %q (available: %s)",
				types.ErrUnknownPreset, preset, strings.Join(r.PresetNames(), ", "))
		}
		names = append(names, presetTools...)
	}
	names = append(names, tools...)

	seen := make(map[string]bool, len(names))
	out := make([]Adapter, 0, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true

		a, ok := r.adapters[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q (available: %s)",
				types.ErrUnknownTool, name, strings.Join(r.order, ", "))
		}
		out = append(out, a)
	}
	return out, nil
}

// userPresetFile is the YAML shape of a preset overrides file:
//
//	presets:
//	  nightly: [pylint, unused, test_coverage]
type userPresetFile struct {
	Presets map[string][]string `yaml:"presets"`
}

// LoadUserPresets merges presets from a YAML file into the registry. Tool
// names are validated up front so a bad preset fails at load, not mid-run.
func (r *Registry) LoadUserPresets(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read presets file: %w", err)
	}

	var f userPresetFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("failed to parse presets file %s: %w", path, err)
	}

	for name, tools := range f.Presets {
		for _, tool := range tools {
			if _, ok := r.adapters[tool]; !ok {
				return fmt.Errorf("%w: %q in preset %q", types.ErrUnknownTool, tool, name)
			}
		}
		r.presets[name] = tools
	}
	return nil
}
