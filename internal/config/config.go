package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/codequal/codequal/pkg/types"
)

// DefaultFileName is the well-known config file name used when no explicit
// path is given.
const DefaultFileName = "codequal.json"

// Config is the flat analysis configuration record. It is written by the
// config command and read-only everywhere else.
type Config struct {
	ProjectRoot     string   `json:"project_root"`
	ProjectName     string   `json:"project_name"`
	IncludeDirs     []string `json:"include_dirs"`
	ExcludePatterns []string `json:"exclude_patterns"`
	ReportDir       string   `json:"report_dir"`
	SourceSuffix    string   `json:"source_suffix,omitempty"`

	DetectedFeatures []string `json:"detected_features,omitempty"`

	// Per-tool report artifact filenames, relative to ReportDir.
	PylintOutput    string `json:"pylint_output"`
	UnusedOutput    string `json:"unused_output"`
	DocstringOutput string `json:"docstring_output"`
	CoverageOutput  string `json:"test_coverage_output"`
	MetricsOutput   string `json:"code_metrics_output"`
	SummaryOutput   string `json:"quality_summary_output"`
	NumericOutput   string `json:"quality_numeric_output"`
}

// DefaultExcludePatterns is the stock exclusion list applied to every new
// configuration: virtual environments, bytecode, build output, VCS metadata,
// caches, and editor droppings.
func DefaultExcludePatterns() []string {
	return []string{
		"venv", "venv2", ".venv", "env", ".env", "virtualenv", ".virtualenv",
		"__pycache__", "*.pyc", "*.pyo", "*.pyd", ".Python",
		"build", "develop-eggs", "dist", "downloads", "eggs", ".eggs",
		"lib", "lib64", "parts", "sdist", "var", "wheels",
		".installed.cfg", "*.egg-info", ".git", ".gitignore",
		"node_modules", ".npm", ".node_repl_history",
		".coverage", "htmlcov", ".pytest_cache", ".tox",
		".cache", ".mypy_cache", ".dmypy.json", "dmypy.json",
		"*.log", "*.tmp", "*.temp", ".DS_Store", "Thumbs.db",
		".idea", ".vscode", "*.swp", "*.swo", "*~",
	}
}

// Options controls Build.
type Options struct {
	ProjectPath   string
	IncludeDirs   []string // relative paths resolve against ProjectPath
	ExtraExcludes []string // appended to the default exclusion list
	ReportDir     string
	SourceSuffix  string
}

// Build creates a Config for a project, auto-detecting its structure when no
// include dirs are given.
func Build(opts Options) (*Config, error) {
	root, err := filepath.Abs(opts.ProjectPath)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve project path: %w", err)
	}
	if _, err := os.Stat(root); err != nil {
		return nil, fmt.Errorf("project path does not exist: %s", root)
	}

	detection := Detect(root)

	includeDirs := detection.SuggestedIncludeDirs
	if len(opts.IncludeDirs) > 0 {
		includeDirs = make([]string, 0, len(opts.IncludeDirs))
		for _, d := range opts.IncludeDirs {
			if !filepath.IsAbs(d) {
				d = filepath.Join(root, d)
			}
			includeDirs = append(includeDirs, d)
		}
	}

	excludes := DefaultExcludePatterns()
	excludes = append(excludes, opts.ExtraExcludes...)

	reportDir := opts.ReportDir
	if reportDir == "" {
		reportDir = filepath.Join(root, ".codequal", "reports")
	}

	return &Config{
		ProjectRoot:      root,
		ProjectName:      detection.ProjectName,
		IncludeDirs:      includeDirs,
		ExcludePatterns:  excludes,
		ReportDir:        reportDir,
		SourceSuffix:     opts.SourceSuffix,
		DetectedFeatures: detection.Features,

		PylintOutput:    "pylint_report.json",
		UnusedOutput:    "unused_code_report.json",
		DocstringOutput: "docstring_coverage_report.json",
		CoverageOutput:  "test_coverage_report.json",
		MetricsOutput:   "code_metrics_report.json",
		SummaryOutput:   "analysis_summary.json",
		NumericOutput:   "code_quality_numeric_summary.json",
	}, nil
}

// Save writes the config as indented JSON and ensures the report directory
// exists. An empty path selects DefaultFileName in the working directory.
// It returns the path written.
func Save(cfg *Config, path string) (string, error) {
	if path == "" {
		path = DefaultFileName
	}

	if err := os.MkdirAll(cfg.ReportDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to encode config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write config: %w", err)
	}
	return path, nil
}

// Load reads a config from path. An empty path selects DefaultFileName in
// the working directory. A missing file returns types.ErrNoConfig so callers
// can point the user at the config command.
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultFileName
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil, fmt.Errorf("%w at %s (run 'codequal config --project <path>' first)", types.ErrNoConfig, path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	// Absent sequences degrade to empty, not errors.
	if cfg.IncludeDirs == nil {
		cfg.IncludeDirs = []string{}
	}
	if cfg.ExcludePatterns == nil {
		cfg.ExcludePatterns = []string{}
	}

	return &cfg, nil
}

// ReportPath resolves a report artifact filename against the report dir.
func (c *Config) ReportPath(filename string) string {
	return filepath.Join(c.ReportDir, filename)
}
