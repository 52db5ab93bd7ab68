package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/codequal/codequal/internal/config"
	"github.com/codequal/codequal/pkg/types"
)

const (
	defaultPylintWorkers   = 8
	defaultPylintBatchSize = 50
	defaultPylintFileLimit = 1000
)

// pylintDisabled lists checks suppressed on every invocation. Import errors
// in particular depend on the analyzed project's environment, not its code.
var pylintDisabled = "import-error,too-few-public-methods,missing-class-docstring,trailing-whitespace"

var (
	// "Your code has been rated at 8.75/10" at the end of pylint's text output.
	pylintScoreRe = regexp.MustCompile(`Your code has been rated at ([\d.-]+)/10`)

	// "path.py:12:0: C0114: Missing module docstring (missing-module-docstring)"
	// Fallback for output that is not the requested JSON.
	pylintIssueRe = regexp.MustCompile(`(?m)^([^:\n]+):(\d+):(\d+):\s*([CRWEF]\d+):\s*(.+?)\s*\(([^)]+)\)\s*$`)
)

// pylintIssueTypes maps a message code's leading letter to its category.
var pylintIssueTypes = map[byte]string{
	'C': "convention",
	'R': "refactor",
	'W': "warning",
	'E': "error",
	'F': "fatal",
}

// PylintIssue is one finding from a pylint run.
type PylintIssue struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
	Code    string `json:"code"`
	Type    string `json:"type"`
	Message string `json:"message"`
	Symbol  string `json:"symbol"`
}

type pylintPayload struct {
	Issues           []PylintIssue  `json:"issues"`
	IssueCounts      map[string]int `json:"issue_counts"`
	Score            float64        `json:"score"`
	Percentage       float64        `json:"percentage"`
	TotalIssues      int            `json:"total_issues"`
	FilesAnalyzed    int            `json:"files_analyzed"`
	FailedFiles      []string       `json:"failed_files"`
	IndividualScores []float64      `json:"individual_scores"`
	AnalysisMethod   string         `json:"analysis_method"`
	BatchSize        int            `json:"batch_size"`
}

// PylintAdapter runs pylint file by file across a bounded worker pool,
// asking for JSON output and falling back to text scraping when the output
// turns out not to be JSON.
type PylintAdapter struct {
	Workers   int
	BatchSize int
	FileLimit int

	// binary overrides the PATH lookup, for tests.
	binary string
}

// NewPylintAdapter returns a pylint adapter with the stock pool sizing.
func NewPylintAdapter() *PylintAdapter {
	return &PylintAdapter{
		Workers:   defaultPylintWorkers,
		BatchSize: defaultPylintBatchSize,
		FileLimit: defaultPylintFileLimit,
	}
}

func (a *PylintAdapter) Name() string { return "pylint" }

func (a *PylintAdapter) Description() string {
	return "Pylint - code quality and style analysis (requires pylint)"
}

// Run executes pylint over the file list in batches. Each file is rated
// independently; a file that fails to analyze is recorded and skipped, never
// fatal to the batch.
func (a *PylintAdapter) Run(ctx context.Context, files []string, cfg *config.Config) (*types.Report, error) {
	rep := newReport(a.Name())

	if len(files) == 0 {
		return rep.Failed(errors.New("no source files to analyze")), nil
	}

	bin := a.binary
	if bin == "" {
		var err error
		if bin, err = lookupTool("pylint"); err != nil {
			return rep.Failed(err), nil
		}
	}

	limit := a.FileLimit
	if limit <= 0 {
		limit = defaultPylintFileLimit
	}
	if len(files) > limit {
		files = files[:limit]
	}

	batchSize := a.BatchSize
	if batchSize <= 0 {
		batchSize = defaultPylintBatchSize
	}

	var (
		allIssues   []PylintIssue
		allScores   []float64
		failedFiles []string
		analyzed    int
	)

	for i := 0; i < len(files); i += batchSize {
		end := i + batchSize
		if end > len(files) {
			end = len(files)
		}

		issues, scores, failed, err := a.runBatch(ctx, bin, files[i:end])
		if err != nil {
			return rep, err
		}

		allIssues = append(allIssues, issues...)
		allScores = append(allScores, scores...)
		failedFiles = append(failedFiles, failed...)
		analyzed += (end - i) - len(failed)
	}

	// JSON output carries no rating, so the score is normally estimated from
	// issue weights; per-file ratings only appear via the text fallback.
	score := estimatePylintScore(allIssues, analyzed)
	method := "batch_processing_with_estimated_score"
	if len(allScores) > 0 {
		var sum float64
		for _, s := range allScores {
			sum += s
		}
		score = round2(sum / float64(len(allScores)))
		method = "batch_processing_with_pylint_scores"
	}

	counts := map[string]int{"convention": 0, "refactor": 0, "warning": 0, "error": 0, "fatal": 0}
	for _, issue := range allIssues {
		counts[issue.Type]++
	}

	payload := pylintPayload{
		Issues:           allIssues,
		IssueCounts:      counts,
		Score:            score,
		Percentage:       round2(score * 10),
		TotalIssues:      len(allIssues),
		FilesAnalyzed:    analyzed,
		FailedFiles:      failedFiles,
		IndividualScores: allScores,
		AnalysisMethod:   method,
		BatchSize:        batchSize,
	}

	path, m, err := writeArtifact(cfg, cfg.PylintOutput, payload)
	if err != nil {
		return rep, err
	}
	rep.Payload = m
	rep.ReportPath = path
	return rep, nil
}

// runBatch fans one batch of files out over the worker pool. Results are
// accumulated under a single mutex; per-file failures land in failed.
func (a *PylintAdapter) runBatch(ctx context.Context, bin string, files []string) (issues []PylintIssue, scores []float64, failed []string, err error) {
	workers := a.Workers
	if workers <= 0 {
		workers = defaultPylintWorkers
	}

	g, ctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, workers)

	var mu sync.Mutex
	for _, file := range files {
		file := file
		g.Go(func() error {
			sem <- struct{}{}
			defer func() { <-sem }()

			if ctx.Err() != nil {
				return ctx.Err()
			}

			out, runErr := runTool(ctx, "", bin,
				"--output-format=json",
				"--disable="+pylintDisabled,
				file)

			mu.Lock()
			defer mu.Unlock()

			if runErr != nil {
				if ctx.Err() != nil {
					return runErr
				}
				failed = append(failed, file)
				return nil
			}

			if fileIssues, ok := parsePylintJSON(out, file); ok {
				issues = append(issues, fileIssues...)
				return nil
			}

			// Not JSON: scrape text output, which may carry a rating line.
			fileIssues, score, scored := parsePylintOutput(out, file)
			issues = append(issues, fileIssues...)
			if scored {
				scores = append(scores, score)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, nil, err
	}
	return issues, scores, failed, nil
}

// pylintJSONIssue is one element of pylint's --output-format=json array.
type pylintJSONIssue struct {
	Type      string `json:"type"`
	MessageID string `json:"message-id"`
	Symbol    string `json:"symbol"`
	Message   string `json:"message"`
	Path      string `json:"path"`
	Line      int    `json:"line"`
	Column    int    `json:"column"`
}

// parsePylintJSON decodes the JSON issue array. ok is false when the output
// is not the requested JSON (older pylint, wrapper scripts, crash banners),
// in which case the caller falls back to text scraping.
func parsePylintJSON(output, file string) (issues []PylintIssue, ok bool) {
	trimmed := strings.TrimSpace(output)
	if !strings.HasPrefix(trimmed, "[") {
		return nil, false
	}

	var raw []pylintJSONIssue
	if err := json.Unmarshal([]byte(trimmed), &raw); err != nil {
		return nil, false
	}

	for _, r := range raw {
		issues = append(issues, PylintIssue{
			File:    file,
			Line:    r.Line,
			Column:  r.Column,
			Code:    r.MessageID,
			Type:    r.Type,
			Message: r.Message,
			Symbol:  r.Symbol,
		})
	}
	return issues, true
}

// parsePylintOutput extracts the issues and the rating line from one file's
// text output. scored is false when no valid in-range rating was printed,
// which happens on fatal parse errors.
func parsePylintOutput(output, file string) (issues []PylintIssue, score float64, scored bool) {
	for _, m := range pylintIssueRe.FindAllStringSubmatch(output, -1) {
		line, _ := strconv.Atoi(m[2])
		col, _ := strconv.Atoi(m[3])
		code := m[4]
		issues = append(issues, PylintIssue{
			File:    file,
			Line:    line,
			Column:  col,
			Code:    code,
			Type:    pylintIssueTypes[code[0]],
			Message: strings.TrimSpace(m[5]),
			Symbol:  m[6],
		})
	}

	if m := pylintScoreRe.FindStringSubmatch(output); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v >= 0 && v <= 10 {
			return issues, v, true
		}
	}
	return issues, 0, false
}

// estimatePylintScore approximates a rating from issue counts when no file
// produced a usable rating line. Errors weigh twice a warning, style issues
// half of one.
func estimatePylintScore(issues []PylintIssue, filesAnalyzed int) float64 {
	if filesAnalyzed == 0 {
		return 10.0
	}

	var penalty float64
	for _, issue := range issues {
		switch issue.Type {
		case "error", "fatal":
			penalty += 2
		case "warning":
			penalty += 1
		case "convention", "refactor":
			penalty += 0.5
		}
	}

	perFile := penalty / float64(filesAnalyzed)
	score := 10.0 - perFile*0.5
	if score < 0 {
		score = 0
	}
	return round2(score)
}
