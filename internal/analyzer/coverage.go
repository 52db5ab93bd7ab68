package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/codequal/codequal/internal/config"
	"github.com/codequal/codequal/pkg/types"
)

// testDirCandidates are probed in order under the project root when no test
// directory is configured.
var testDirCandidates = []string{"tests", "test", "testing", "spec", "specs"}

// coverageJSON mirrors the shape of the coverage tool's JSON report.
type coverageJSON struct {
	Files map[string]struct {
		Summary struct {
			CoveredLines   int     `json:"covered_lines"`
			NumStatements  int     `json:"num_statements"`
			PercentCovered float64 `json:"percent_covered"`
			MissingLines   int     `json:"missing_lines"`
		} `json:"summary"`
	} `json:"files"`
	Totals struct {
		CoveredLines   int     `json:"covered_lines"`
		NumStatements  int     `json:"num_statements"`
		PercentCovered float64 `json:"percent_covered"`
		MissingLines   int     `json:"missing_lines"`
	} `json:"totals"`
}

// CoverageFile is one file's coverage standing in the report.
type CoverageFile struct {
	Filename        string  `json:"filename"`
	FullPath        string  `json:"full_path,omitempty"`
	CoveragePercent float64 `json:"coverage_percent"`
	MissingLines    int     `json:"missing_lines"`
	TotalLines      int     `json:"total_lines"`
}

type coverageStatements struct {
	Total   int `json:"total"`
	Covered int `json:"covered"`
	Missing int `json:"missing"`
}

type coverageSummary struct {
	TotalFiles      int                `json:"total_files"`
	FilesByCategory map[string]int     `json:"files_by_category"`
	Statements      coverageStatements `json:"statements"`
}

type coveragePayload struct {
	ProjectName        string          `json:"project_name"`
	AnalysisDate       string          `json:"analysis_date"`
	CoveragePercentage float64         `json:"coverage_percentage"`
	CoverageGrade      string          `json:"coverage_grade"`
	CoverageStatus     string          `json:"coverage_status"`
	Summary            coverageSummary `json:"summary"`
	TopPriorities      []CoverageFile  `json:"top_priorities"`
	QuickWins          []CoverageFile  `json:"quick_wins"`
	TestsFound         *int            `json:"tests_found,omitempty"`
	Error              string          `json:"error,omitempty"`
}

// CoverageAdapter runs the project's test suite under the coverage tool and
// grades the result. It operates on the project as a whole; the discovered
// file list only gates the run.
type CoverageAdapter struct {
	// TestDir overrides auto-detection of the test directory.
	TestDir string

	// binary overrides the PATH lookup, for tests.
	binary string
}

func NewCoverageAdapter() *CoverageAdapter { return &CoverageAdapter{} }

func (a *CoverageAdapter) Name() string { return "test_coverage" }

func (a *CoverageAdapter) Description() string {
	return "Test Coverage - test coverage analysis (requires coverage and pytest)"
}

func (a *CoverageAdapter) Run(ctx context.Context, files []string, cfg *config.Config) (*types.Report, error) {
	rep := newReport(a.Name())

	testDir := a.TestDir
	if testDir == "" {
		testDir = findTestDir(cfg.ProjectRoot)
	}
	if testDir == "" {
		payload := coveragePayload{
			ProjectName:   cfg.ProjectName,
			AnalysisDate:  time.Now().Format(time.RFC3339),
			CoverageGrade: types.CoverageGrade(0),
			Error:         "no test directory found",
		}
		path, m, err := writeArtifact(cfg, cfg.CoverageOutput, payload)
		if err != nil {
			return rep, err
		}
		rep.Payload = m
		rep.ReportPath = path
		return rep.Failed(fmt.Errorf("no test directory found under %s", cfg.ProjectRoot)), nil
	}

	bin := a.binary
	if bin == "" {
		var err error
		if bin, err = lookupTool("coverage"); err != nil {
			return rep.Failed(err), nil
		}
	}

	out, err := runTool(ctx, cfg.ProjectRoot, bin, "run", "--source=.", "-m", "pytest", testDir, "-v")
	if err != nil {
		return rep.Failed(err), nil
	}

	if strings.Contains(out, "collected 0 items") {
		zero := 0
		payload := coveragePayload{
			ProjectName:   cfg.ProjectName,
			AnalysisDate:  time.Now().Format(time.RFC3339),
			CoverageGrade: types.CoverageGrade(0),
			TestsFound:    &zero,
		}
		path, m, err := writeArtifact(cfg, cfg.CoverageOutput, payload)
		if err != nil {
			return rep, err
		}
		rep.Payload = m
		rep.ReportPath = path
		return rep, nil
	}

	if err := os.MkdirAll(cfg.ReportDir, 0755); err != nil {
		return rep, fmt.Errorf("failed to create report directory: %w", err)
	}

	rawPath := cfg.ReportPath("coverage.json")
	if _, err := runTool(ctx, cfg.ProjectRoot, bin, "json", "-o", rawPath); err != nil {
		return rep.Failed(err), nil
	}

	data, err := os.ReadFile(rawPath)
	if err != nil {
		return rep.Failed(fmt.Errorf("%w: coverage produced no JSON report: %v", types.ErrParseFailure, err)), nil
	}

	payload, err := buildCoveragePayload(cfg.ProjectName, data)
	if err != nil {
		return rep.Failed(err), nil
	}

	path, m, err := writeArtifact(cfg, cfg.CoverageOutput, *payload)
	if err != nil {
		return rep, err
	}
	rep.Payload = m
	rep.ReportPath = path
	return rep, nil
}

// findTestDir probes the conventional test directory names and returns the
// first that exists, or empty.
func findTestDir(root string) string {
	for _, name := range testDirCandidates {
		dir := filepath.Join(root, name)
		if info, err := os.Stat(dir); err == nil && info.IsDir() {
			return dir
		}
	}
	return ""
}

// parseCoverageJSON decodes the coverage tool's JSON report.
func parseCoverageJSON(raw []byte) (*coverageJSON, error) {
	var parsed coverageJSON
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return nil, fmt.Errorf("%w: invalid coverage JSON: %v", types.ErrParseFailure, err)
	}
	return &parsed, nil
}

// buildCoveragePayload turns the coverage tool's raw JSON into the graded
// report: overall percentage and grade, files bucketed by coverage level,
// the worst offenders, and small files that are quick to finish covering.
func buildCoveragePayload(projectName string, raw []byte) (*coveragePayload, error) {
	parsed, err := parseCoverageJSON(raw)
	if err != nil {
		return nil, err
	}

	var cfiles []CoverageFile
	for name, f := range parsed.Files {
		cfiles = append(cfiles, CoverageFile{
			Filename:        filepath.Base(name),
			FullPath:        name,
			CoveragePercent: round2(f.Summary.PercentCovered),
			MissingLines:    f.Summary.MissingLines,
			TotalLines:      f.Summary.NumStatements,
		})
	}
	sort.Slice(cfiles, func(i, j int) bool {
		return cfiles[i].CoveragePercent < cfiles[j].CoveragePercent
	})

	categories := map[string]int{
		"excellent_90_plus": 0,
		"good_70_to_89":     0,
		"fair_50_to_69":     0,
		"poor_below_50":     0,
	}
	var poor, quickWins []CoverageFile
	for _, f := range cfiles {
		switch {
		case f.CoveragePercent >= 90:
			categories["excellent_90_plus"]++
		case f.CoveragePercent >= 70:
			categories["good_70_to_89"]++
		case f.CoveragePercent >= 50:
			categories["fair_50_to_69"]++
			if f.MissingLines <= 20 {
				quickWins = append(quickWins, f)
			}
		default:
			categories["poor_below_50"]++
			poor = append(poor, f)
		}
	}
	if len(poor) > 10 {
		poor = poor[:10]
	}
	if len(quickWins) > 5 {
		quickWins = quickWins[:5]
	}
	if poor == nil {
		poor = []CoverageFile{}
	}
	if quickWins == nil {
		quickWins = []CoverageFile{}
	}

	total := round2(parsed.Totals.PercentCovered)

	status := "Needs Improvement"
	switch {
	case total >= 90:
		status = "Excellent"
	case total >= 80:
		status = "Good"
	case total >= 70:
		status = "Fair"
	}

	return &coveragePayload{
		ProjectName:        projectName,
		AnalysisDate:       time.Now().Format(time.RFC3339),
		CoveragePercentage: total,
		CoverageGrade:      types.CoverageGrade(total),
		CoverageStatus:     status,
		Summary: coverageSummary{
			TotalFiles:      len(cfiles),
			FilesByCategory: categories,
			Statements: coverageStatements{
				Total:   parsed.Totals.NumStatements,
				Covered: parsed.Totals.CoveredLines,
				Missing: parsed.Totals.MissingLines,
			},
		},
		TopPriorities: poor,
		QuickWins:     quickWins,
	}, nil
}
