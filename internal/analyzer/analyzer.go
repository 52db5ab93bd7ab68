package analyzer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"os"
	"os/exec"

	"github.com/codequal/codequal/internal/config"
	"github.com/codequal/codequal/pkg/types"
)

// Adapter wraps one analysis tool behind a uniform boundary: a stable name,
// a one-line description for listings, and a Run that turns a discovered
// file list plus configuration into a normalized report. Run reports tool
// failures inside the returned Report; a non-nil error means the adapter
// itself could not operate (cancelled context, unwritable report dir).
type Adapter interface {
	Name() string
	Description() string
	Run(ctx context.Context, files []string, cfg *config.Config) (*types.Report, error)
}

func newReport(tool string) *types.Report {
	return &types.Report{Tool: tool, Success: true}
}

// writeArtifact persists a payload as the tool's indented JSON artifact in
// the report directory and returns the path plus the payload re-decoded as
// a generic map for the in-memory report. The round trip keeps both views
// byte-for-byte consistent.
func writeArtifact(cfg *config.Config, filename string, payload any) (string, map[string]any, error) {
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", nil, fmt.Errorf("failed to encode report payload: %w", err)
	}

	if err := os.MkdirAll(cfg.ReportDir, 0755); err != nil {
		return "", nil, fmt.Errorf("failed to create report directory: %w", err)
	}

	path := cfg.ReportPath(filename)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", nil, fmt.Errorf("failed to write report artifact: %w", err)
	}

	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return "", nil, fmt.Errorf("failed to decode report payload: %w", err)
	}
	return path, m, nil
}

// lookupTool resolves an external binary, wrapping a miss in
// types.ErrToolUnavailable so callers can tell "not installed" apart from a
// genuine execution failure.
func lookupTool(name string) (string, error) {
	path, err := exec.LookPath(name)
	if err != nil {
		return "", fmt.Errorf("%w: %s not found in PATH", types.ErrToolUnavailable, name)
	}
	return path, nil
}

// runTool executes an external tool and returns its combined output. The
// tools wrapped here signal findings through non-zero exit codes, so an
// ExitError is normal output, not a failure. Start-up and context errors
// still surface.
func runTool(ctx context.Context, dir, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	if dir != "" {
		cmd.Dir = dir
	}

	out, err := cmd.CombinedOutput()
	if err != nil {
		if ctx.Err() != nil {
			return string(out), ctx.Err()
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return string(out), nil
		}
		return string(out), fmt.Errorf("failed to run %s: %w", name, err)
	}
	return string(out), nil
}

// round2 rounds to two decimal places, the precision used throughout the
// report artifacts.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
