package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	srv, err := NewServer(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = srv.storage.Close() })
	return srv
}

// testProject lays out a small Python project with one excluded subtree.
// Source files sit at the root on purpose: a src/ directory would be
// auto-detected as an extra scan root overlapping the project root, and
// overlapping roots emit duplicates.
func testProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "venv", "lib"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "app.py"),
		[]byte("def main():\n    \"\"\"Entry point.\"\"\"\n    return 0\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "util.py"),
		[]byte("def helper():\n    return 1\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "venv", "lib", "vendored.py"),
		[]byte("x = 1\n"), 0644))
	return root
}

func callRequest(args map[string]interface{}) mcp.CallToolRequest {
	var req mcp.CallToolRequest
	req.Params.Arguments = args
	return req
}

func resultJSON(t *testing.T, res *mcp.CallToolResult) map[string]interface{} {
	t.Helper()
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected text content")
	var data map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(text.Text), &data))
	return data
}

func assertMCPErrorCode(t *testing.T, err error, code int) {
	t.Helper()
	require.Error(t, err)
	var mcpErr *MCPError
	require.ErrorAs(t, err, &mcpErr)
	assert.Equal(t, code, mcpErr.Code)
}

func TestServer_Initialization(t *testing.T) {
	t.Run("custom path creates directory", func(t *testing.T) {
		dir := filepath.Join(t.TempDir(), "nested", "state")

		srv, err := NewServer(dir)
		require.NoError(t, err)
		defer srv.storage.Close()

		assert.DirExists(t, dir)
		assert.FileExists(t, filepath.Join(dir, "history.db"))
	})

	t.Run("server has all required components", func(t *testing.T) {
		srv := testServer(t)

		assert.NotNil(t, srv.mcp, "MCP server should be initialized")
		assert.NotNil(t, srv.storage, "Storage should be initialized")
		assert.NotNil(t, srv.registry, "Registry should be initialized")
		assert.NotNil(t, srv.runner, "Runner should be initialized")
	})
}

func TestHandleDiscoverFiles(t *testing.T) {
	srv := testServer(t)
	root := testProject(t)

	res, err := srv.handleDiscoverFiles(context.Background(), callRequest(map[string]interface{}{
		"path": root,
	}))
	require.NoError(t, err)

	data := resultJSON(t, res)
	assert.Equal(t, float64(2), data["files_found"])
	files, ok := data["files"].([]interface{})
	require.True(t, ok)
	assert.Len(t, files, 2)
	for _, f := range files {
		assert.NotContains(t, f.(string), "venv")
	}
}

func TestHandleDiscoverFiles_Truncates(t *testing.T) {
	srv := testServer(t)
	root := testProject(t)

	res, err := srv.handleDiscoverFiles(context.Background(), callRequest(map[string]interface{}{
		"path":      root,
		"max_files": float64(1),
	}))
	require.NoError(t, err)

	data := resultJSON(t, res)
	assert.Equal(t, float64(2), data["files_found"])
	assert.Equal(t, true, data["truncated"])
	assert.Len(t, data["files"], 1)
}

func TestHandleDiscoverFiles_OverlappingRootsYieldDuplicates(t *testing.T) {
	srv := testServer(t)
	root := testProject(t)

	// Each include dir is walked independently; overlapping roots are not
	// deduplicated, so naming the root twice doubles every file.
	res, err := srv.handleDiscoverFiles(context.Background(), callRequest(map[string]interface{}{
		"path":         root,
		"include_dirs": []interface{}{".", "."},
	}))
	require.NoError(t, err)

	data := resultJSON(t, res)
	assert.Equal(t, float64(4), data["files_found"])
}

func TestHandleDiscoverFiles_InvalidParams(t *testing.T) {
	srv := testServer(t)

	_, err := srv.handleDiscoverFiles(context.Background(), callRequest(map[string]interface{}{}))
	assertMCPErrorCode(t, err, ErrorCodeInvalidParams)

	_, err = srv.handleDiscoverFiles(context.Background(), callRequest(map[string]interface{}{
		"path": "relative/path",
	}))
	assertMCPErrorCode(t, err, ErrorCodeInvalidParams)

	_, err = srv.handleDiscoverFiles(context.Background(), callRequest(map[string]interface{}{
		"path":      testProject(t),
		"max_files": float64(0),
	}))
	assertMCPErrorCode(t, err, ErrorCodeInvalidParams)
}

func TestHandleRunAnalysis(t *testing.T) {
	srv := testServer(t)
	root := testProject(t)
	ctx := context.Background()

	// code_metrics and docstrings run without external binaries.
	res, err := srv.handleRunAnalysis(ctx, callRequest(map[string]interface{}{
		"path":  root,
		"tools": []interface{}{"code_metrics", "docstrings"},
	}))
	require.NoError(t, err)

	data := resultJSON(t, res)
	assert.Equal(t, float64(2), data["files_found"])
	assert.Equal(t, float64(2), data["tools_run"])
	assert.Equal(t, float64(2), data["tools_passed"])
	assert.NotEmpty(t, data["run_id"])

	results, ok := data["results"].([]interface{})
	require.True(t, ok)
	require.Len(t, results, 2)
	first := results[0].(map[string]interface{})
	assert.Equal(t, "code_metrics", first["tool"])
	assert.Equal(t, true, first["success"])
	assert.FileExists(t, first["report_path"].(string))

	// Both summaries land in the report directory.
	assert.FileExists(t, data["summary_path"].(string))
	assert.FileExists(t, data["numeric_path"].(string))

	// The run is visible in history.
	runs, err := srv.storage.ListRuns(ctx, root, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, data["run_id"], runs[0].ID)
	assert.Equal(t, 2, runs[0].ToolsPassed)
	assert.False(t, runs[0].FinishedAt.IsZero())

	toolResults, err := srv.storage.ListToolResults(ctx, runs[0].ID)
	require.NoError(t, err)
	assert.Len(t, toolResults, 2)
}

func TestHandleRunAnalysis_NoFiles(t *testing.T) {
	srv := testServer(t)
	root := t.TempDir()

	// An empty project is a valid outcome, not a protocol error: the run
	// completes, adapters record their own failure, and the response says why.
	res, err := srv.handleRunAnalysis(context.Background(), callRequest(map[string]interface{}{
		"path":  root,
		"tools": []interface{}{"code_metrics"},
	}))
	require.NoError(t, err)

	data := resultJSON(t, res)
	assert.Equal(t, float64(0), data["files_found"])
	assert.Equal(t, float64(1), data["tools_run"])
	assert.Equal(t, float64(0), data["tools_passed"])
	assert.Contains(t, data["message"], "No analyzable files")
}

func TestHandleRunAnalysis_UnknownPreset(t *testing.T) {
	srv := testServer(t)

	_, err := srv.handleRunAnalysis(context.Background(), callRequest(map[string]interface{}{
		"path":   testProject(t),
		"preset": "no-such-preset",
	}))
	assertMCPErrorCode(t, err, ErrorCodeUnknownTool)
}

func TestHandleGetSummary(t *testing.T) {
	srv := testServer(t)
	root := testProject(t)
	ctx := context.Background()

	// Before any run: not analyzed.
	res, err := srv.handleGetSummary(ctx, callRequest(map[string]interface{}{"path": root}))
	require.NoError(t, err)
	data := resultJSON(t, res)
	assert.Equal(t, false, data["analyzed"])

	_, err = srv.handleRunAnalysis(ctx, callRequest(map[string]interface{}{
		"path":  root,
		"tools": []interface{}{"docstrings"},
	}))
	require.NoError(t, err)

	res, err = srv.handleGetSummary(ctx, callRequest(map[string]interface{}{"path": root}))
	require.NoError(t, err)
	data = resultJSON(t, res)

	scores, ok := data["overall_scores"].(map[string]interface{})
	require.True(t, ok)
	// One of two functions is documented.
	assert.Equal(t, float64(50), scores["docstring_coverage"])
	assert.Contains(t, data["tools_available"], "docstrings")
}

func TestHandleListRuns(t *testing.T) {
	srv := testServer(t)
	root := testProject(t)
	ctx := context.Background()

	res, err := srv.handleListRuns(ctx, callRequest(map[string]interface{}{}))
	require.NoError(t, err)
	data := resultJSON(t, res)
	assert.Equal(t, float64(0), data["runs_found"])

	for i := 0; i < 2; i++ {
		_, err = srv.handleRunAnalysis(ctx, callRequest(map[string]interface{}{
			"path":  root,
			"tools": []interface{}{"code_metrics"},
		}))
		require.NoError(t, err)
	}

	res, err = srv.handleListRuns(ctx, callRequest(map[string]interface{}{
		"path":  root,
		"limit": float64(1),
	}))
	require.NoError(t, err)
	data = resultJSON(t, res)
	assert.Equal(t, float64(1), data["runs_found"])

	runs := data["runs"].([]interface{})
	entry := runs[0].(map[string]interface{})
	assert.Equal(t, root, entry["project_root"])
	assert.Equal(t, float64(1), entry["success_rate"])
	assert.NotEmpty(t, entry["finished_at"])
}

func TestHandleListRuns_LimitOutOfRange(t *testing.T) {
	srv := testServer(t)

	_, err := srv.handleListRuns(context.Background(), callRequest(map[string]interface{}{
		"limit": float64(500),
	}))
	assertMCPErrorCode(t, err, ErrorCodeInvalidParams)
}
