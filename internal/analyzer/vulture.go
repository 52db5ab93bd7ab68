package analyzer

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/codequal/codequal/internal/config"
	"github.com/codequal/codequal/pkg/types"
)

// maxUnusedItemsInReport caps the sample of findings written to the
// artifact; the full count is always reported.
const maxUnusedItemsInReport = 5

// "src/app.py:42: unused function 'legacy_handler' (60% confidence)"
var vultureLineRe = regexp.MustCompile(`^(.+?):(\d+): (.+) \((.+)\)$`)

// UnusedItem is one dead-code finding from vulture.
type UnusedItem struct {
	File    string `json:"file"`
	Line    int    `json:"line"`
	Message string `json:"message"`
	Symbol  string `json:"symbol"`
}

type vulturePayload struct {
	TotalDefinedFiles int          `json:"total_defined_files"`
	UnusedItemsCount  int          `json:"unused_items_count"`
	UnusedItems       []UnusedItem `json:"unused_items"`
}

// VultureAdapter detects unused code by running vulture over the whole file
// list in a single invocation and parsing its per-line findings.
type VultureAdapter struct {
	// binary overrides the PATH lookup, for tests.
	binary string
}

func NewVultureAdapter() *VultureAdapter { return &VultureAdapter{} }

func (a *VultureAdapter) Name() string { return "unused" }

func (a *VultureAdapter) Description() string {
	return "Unused Code - dead code detection (requires vulture)"
}

func (a *VultureAdapter) Run(ctx context.Context, files []string, cfg *config.Config) (*types.Report, error) {
	rep := newReport(a.Name())

	if len(files) == 0 {
		return rep.Failed(errors.New("no source files to analyze")), nil
	}

	bin := a.binary
	if bin == "" {
		var err error
		if bin, err = lookupTool("vulture"); err != nil {
			return rep.Failed(err), nil
		}
	}

	out, err := runTool(ctx, cfg.ProjectRoot, bin, files...)
	if err != nil {
		return rep.Failed(err), nil
	}

	items := parseVultureOutput(out)

	sample := items
	if len(sample) > maxUnusedItemsInReport {
		sample = sample[:maxUnusedItemsInReport]
	}
	if sample == nil {
		sample = []UnusedItem{}
	}

	payload := vulturePayload{
		TotalDefinedFiles: len(files),
		UnusedItemsCount:  len(items),
		UnusedItems:       sample,
	}

	path, m, err := writeArtifact(cfg, cfg.UnusedOutput, payload)
	if err != nil {
		return rep, err
	}
	rep.Payload = m
	rep.ReportPath = path
	return rep, nil
}

// parseVultureOutput extracts findings line by line. Lines that do not match
// the finding shape (warnings, blank lines) are ignored.
func parseVultureOutput(output string) []UnusedItem {
	var items []UnusedItem
	for _, line := range strings.Split(strings.TrimSpace(output), "\n") {
		m := vultureLineRe.FindStringSubmatch(strings.TrimRight(line, "\r"))
		if m == nil {
			continue
		}
		lineNo, _ := strconv.Atoi(m[2])
		items = append(items, UnusedItem{
			File:    m[1],
			Line:    lineNo,
			Message: m[3],
			Symbol:  m[4],
		})
	}
	return items
}
