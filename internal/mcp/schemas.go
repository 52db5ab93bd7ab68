package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// discoverFilesTool returns the tool definition for discover_files
func discoverFilesTool() mcp.Tool {
	return mcp.Tool{
		Name:        "discover_files",
		Description: "Discover analyzable Python source files in a project, honoring exclusion patterns",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the project root",
				},
				"include_dirs": map[string]interface{}{
					"type":        "array",
					"description": "Directories to scan, relative to the project root (default: auto-detected layout)",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"exclude_patterns": map[string]interface{}{
					"type":        "array",
					"description": "Extra exclusion patterns appended to the stock list (directory names or *.ext globs)",
					"items": map[string]interface{}{
						"type": "string",
					},
				},
				"max_files": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of file paths to return in the response (1-1000)",
					"default":     200,
					"minimum":     1,
					"maximum":     1000,
				},
			},
			Required: []string{"path"},
		},
	}
}

// runAnalysisTool returns the tool definition for run_analysis
func runAnalysisTool() mcp.Tool {
	return mcp.Tool{
		Name:        "run_analysis",
		Description: "Run code quality tools against a Python project and record the run in history",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the project root",
				},
				"tools": map[string]interface{}{
					"type":        "array",
					"description": "Explicit tools to run, in order",
					"items": map[string]interface{}{
						"type": "string",
						"enum": []string{"code_metrics", "docstrings", "pylint", "unused", "test_coverage"},
					},
				},
				"preset": map[string]interface{}{
					"type":        "string",
					"description": "Named tool bundle; combined with tools when both are given (default: standard)",
					"enum":        []string{"quick", "standard", "comprehensive", "documentation", "quality", "all"},
				},
			},
			Required: []string{"path"},
		},
	}
}

// getSummaryTool returns the tool definition for get_summary
func getSummaryTool() mcp.Tool {
	return mcp.Tool{
		Name:        "get_summary",
		Description: "Build a numeric quality summary from the report artifacts of previous runs",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute path to the project root",
				},
			},
			Required: []string{"path"},
		},
	}
}

// listRunsTool returns the tool definition for list_runs
func listRunsTool() mcp.Tool {
	return mcp.Tool{
		Name:        "list_runs",
		Description: "List recent analysis runs from history, newest first",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]interface{}{
				"path": map[string]interface{}{
					"type":        "string",
					"description": "Absolute project root to filter by (default: all projects)",
				},
				"limit": map[string]interface{}{
					"type":        "integer",
					"description": "Maximum number of runs to return (1-100)",
					"default":     10,
					"minimum":     1,
					"maximum":     100,
				},
			},
		},
	}
}
