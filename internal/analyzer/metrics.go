package analyzer

import (
	"context"
	"errors"
	"os"
	"regexp"
	"strings"

	"github.com/codequal/codequal/internal/config"
	"github.com/codequal/codequal/pkg/types"
)

// maxFileDetailsInReport caps the per-file breakdown written to the
// artifact; totals always cover every file.
const maxFileDetailsInReport = 10

var (
	metricsClassRe = regexp.MustCompile(`^(\s*)class\s+[A-Za-z_]`)
	metricsDefRe   = regexp.MustCompile(`^(\s*)(async\s+)?def\s+[A-Za-z_]`)
)

// LineMetrics classifies a file's lines. A line is a comment only when it
// starts with '#' after stripping; trailing comments count as code.
type LineMetrics struct {
	TotalLines   int `json:"total_lines"`
	CodeLines    int `json:"code_lines"`
	CommentLines int `json:"comment_lines"`
	EmptyLines   int `json:"empty_lines"`
}

// StructureMetrics counts a file's definitions. Functions includes methods;
// Methods counts the subset defined inside a class body.
type StructureMetrics struct {
	Functions      int `json:"functions"`
	AsyncFunctions int `json:"async_functions"`
	Classes        int `json:"classes"`
	Methods        int `json:"methods"`
}

// FileMetrics is the per-file detail entry.
type FileMetrics struct {
	File      string           `json:"file"`
	Lines     LineMetrics      `json:"line_metrics"`
	Structure StructureMetrics `json:"ast_metrics"`
}

type biggestFile struct {
	File  string `json:"file"`
	Lines int    `json:"lines"`
}

type metricsSummary struct {
	TotalFiles          int         `json:"total_files"`
	TotalLines          int         `json:"total_lines"`
	TotalCodeLines      int         `json:"total_code_lines"`
	TotalCommentLines   int         `json:"total_comment_lines"`
	TotalEmptyLines     int         `json:"total_empty_lines"`
	TotalFunctions      int         `json:"total_functions"`
	TotalAsyncFunctions int         `json:"total_async_functions"`
	TotalClasses        int         `json:"total_classes"`
	TotalMethods        int         `json:"total_methods"`
	AvgLinesPerFile     float64     `json:"avg_lines_per_file"`
	AvgFunctionsPerFile float64     `json:"avg_functions_per_file"`
	AvgClassesPerFile   float64     `json:"avg_classes_per_file"`
	BiggestByTotalLines biggestFile `json:"biggest_file_by_total_lines"`
	BiggestByCodeLines  biggestFile `json:"biggest_file_by_code_lines"`
}

type metricsPayload struct {
	Summary     metricsSummary `json:"summary"`
	FileDetails []FileMetrics  `json:"file_details"`
}

// MetricsAdapter computes size and structure metrics natively, with no
// external tool.
type MetricsAdapter struct{}

func NewMetricsAdapter() *MetricsAdapter { return &MetricsAdapter{} }

func (a *MetricsAdapter) Name() string { return "code_metrics" }

func (a *MetricsAdapter) Description() string {
	return "Code Metrics - lines, functions, classes analysis"
}

func (a *MetricsAdapter) Run(ctx context.Context, files []string, cfg *config.Config) (*types.Report, error) {
	rep := newReport(a.Name())

	if len(files) == 0 {
		return rep.Failed(errors.New("no source files to analyze")), nil
	}

	summary := metricsSummary{TotalFiles: len(files)}
	var details []FileMetrics

	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return rep, err
		}

		fm := analyzeSourceFile(file)
		details = append(details, fm)

		summary.TotalLines += fm.Lines.TotalLines
		summary.TotalCodeLines += fm.Lines.CodeLines
		summary.TotalCommentLines += fm.Lines.CommentLines
		summary.TotalEmptyLines += fm.Lines.EmptyLines
		summary.TotalFunctions += fm.Structure.Functions
		summary.TotalAsyncFunctions += fm.Structure.AsyncFunctions
		summary.TotalClasses += fm.Structure.Classes
		summary.TotalMethods += fm.Structure.Methods

		if fm.Lines.TotalLines > summary.BiggestByTotalLines.Lines {
			summary.BiggestByTotalLines = biggestFile{File: file, Lines: fm.Lines.TotalLines}
		}
		if fm.Lines.CodeLines > summary.BiggestByCodeLines.Lines {
			summary.BiggestByCodeLines = biggestFile{File: file, Lines: fm.Lines.CodeLines}
		}
	}

	n := float64(len(files))
	summary.AvgLinesPerFile = round2(float64(summary.TotalLines) / n)
	summary.AvgFunctionsPerFile = round2(float64(summary.TotalFunctions) / n)
	summary.AvgClassesPerFile = round2(float64(summary.TotalClasses) / n)

	if len(details) > maxFileDetailsInReport {
		details = details[:maxFileDetailsInReport]
	}

	payload := metricsPayload{Summary: summary, FileDetails: details}

	path, m, err := writeArtifact(cfg, cfg.MetricsOutput, payload)
	if err != nil {
		return rep, err
	}
	rep.Payload = m
	rep.ReportPath = path
	return rep, nil
}

// analyzeSourceFile computes both metric sets in one pass over the file. An
// unreadable file contributes zeros, the same as one that fails to parse.
func analyzeSourceFile(path string) FileMetrics {
	fm := FileMetrics{File: path}

	data, err := os.ReadFile(path)
	if err != nil {
		return fm
	}

	lines := strings.Split(string(data), "\n")
	// A trailing newline produces a phantom empty element.
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	fm.Lines.TotalLines = len(lines)

	// Indentation levels of the class bodies currently open. A def indented
	// deeper than the innermost open class is a method.
	var classIndents []int

	for _, line := range lines {
		stripped := strings.TrimSpace(line)
		switch {
		case stripped == "":
			fm.Lines.EmptyLines++
			continue
		case strings.HasPrefix(stripped, "#"):
			fm.Lines.CommentLines++
			continue
		default:
			fm.Lines.CodeLines++
		}

		indent := indentWidth(line)
		for len(classIndents) > 0 && indent <= classIndents[len(classIndents)-1] {
			classIndents = classIndents[:len(classIndents)-1]
		}

		if metricsClassRe.MatchString(line) {
			fm.Structure.Classes++
			classIndents = append(classIndents, indent)
			continue
		}

		if m := metricsDefRe.FindStringSubmatch(line); m != nil {
			if m[2] != "" {
				fm.Structure.AsyncFunctions++
			} else {
				fm.Structure.Functions++
			}
			if len(classIndents) > 0 {
				fm.Structure.Methods++
			}
		}
	}

	return fm
}

// indentWidth measures leading whitespace with tabs expanded to 8 columns.
func indentWidth(line string) int {
	width := 0
	for _, r := range line {
		switch r {
		case ' ':
			width++
		case '\t':
			width += 8
		default:
			return width
		}
	}
	return width
}
