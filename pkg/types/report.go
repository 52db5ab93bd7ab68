package types

import (
	"time"
)

// Report is the normalized result record produced by one tool adapter for
// one analysis run. Payload holds the tool-specific metrics that are also
// persisted as the tool's JSON report artifact.
type Report struct {
	Tool       string         `json:"tool"`
	Success    bool           `json:"success"`
	Payload    map[string]any `json:"payload,omitempty"`
	Duration   time.Duration  `json:"duration_ns"`
	Error      string         `json:"error,omitempty"`
	ReportPath string         `json:"report_path,omitempty"`
}

// Failed marks the report as unsuccessful and records the reason. The
// report stays usable: a failed tool is a recorded outcome, not an abort.
func (r *Report) Failed(err error) *Report {
	r.Success = false
	if err != nil {
		r.Error = err.Error()
	}
	return r
}

// Metric returns a numeric payload entry. JSON round-trips land numbers as
// float64, so that is the only numeric shape adapters store.
func (r *Report) Metric(key string) (float64, bool) {
	if r.Payload == nil {
		return 0, false
	}
	v, ok := r.Payload[key].(float64)
	return v, ok
}

// RunRecord is one completed analysis run as persisted in run history.
type RunRecord struct {
	ID          string
	ProjectRoot string
	ProjectName string
	StartedAt   time.Time
	FinishedAt  time.Time
	FilesFound  int
	ToolsRun    int
	ToolsPassed int
}

// SuccessRate is the fraction of tools that completed successfully, in
// [0, 1]. A run with no tools reports 0.
func (r *RunRecord) SuccessRate() float64 {
	if r.ToolsRun == 0 {
		return 0
	}
	return float64(r.ToolsPassed) / float64(r.ToolsRun)
}

// CoverageGrade maps a coverage percentage to a letter grade, matching the
// grading scheme the report consumers expect.
func CoverageGrade(pct float64) string {
	switch {
	case pct >= 90:
		return "A"
	case pct >= 80:
		return "B"
	case pct >= 70:
		return "C"
	case pct >= 60:
		return "D"
	default:
		return "F"
	}
}
