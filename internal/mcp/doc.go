// Package mcp implements the Model Context Protocol (MCP) server for codequal.
//
// The MCP server exposes four tools to AI coding assistants (Claude Code, Codex CLI):
//   - discover_files: List the Python source files an analysis would cover
//   - run_analysis: Run quality tools against a project and record the run
//   - get_summary: Build a numeric quality summary from report artifacts
//   - list_runs: List recent analysis runs from history
//
// # Protocol Overview
//
// MCP is a JSON-RPC 2.0 protocol over stdio transport:
//
//	Client → Server: {"method": "tools/call", "params": {...}}
//	Server → Client: {"result": {...}}
//
// The server communicates with MCP clients via standard input/output,
// making it simple to integrate with any MCP-compatible client.
//
// # Basic Usage
//
// The MCP server is typically started via the serve command:
//
//	codequal serve
//
// It then listens on stdin for MCP protocol messages and writes responses to stdout.
//
// # Tool: discover_files
//
// Preview which files analysis would cover:
//
//	Request:
//	{
//	  "name": "discover_files",
//	  "arguments": {
//	    "path": "/path/to/project",
//	    "exclude_patterns": ["migrations"],
//	    "max_files": 50
//	  }
//	}
//
//	Response:
//	{
//	  "project_root": "/path/to/project",
//	  "files_found": 132,
//	  "files": ["/path/to/project/src/app.py", "..."],
//	  "truncated": true
//	}
//
// # Tool: run_analysis
//
// Run tools directly or through a preset:
//
//	Request:
//	{
//	  "name": "run_analysis",
//	  "arguments": {
//	    "path": "/path/to/project",
//	    "preset": "standard"
//	  }
//	}
//
//	Response:
//	{
//	  "run_id": "0b6f0f6e-...",
//	  "files_found": 132,
//	  "tools_run": 3,
//	  "tools_passed": 3,
//	  "results": [
//	    {"tool": "code_metrics", "success": true, "report_path": "..."},
//	    {"tool": "docstrings", "success": true, "report_path": "..."},
//	    {"tool": "pylint", "success": true, "report_path": "..."}
//	  ]
//	}
//
// Each tool writes its JSON report artifact under the project's report
// directory; the response carries the paths.
//
// # Tool: get_summary
//
// Aggregate the artifacts of previous runs into one numeric record:
//
//	Request:
//	{
//	  "name": "get_summary",
//	  "arguments": {
//	    "path": "/path/to/project"
//	  }
//	}
//
//	Response:
//	{
//	  "project_name": "myproject",
//	  "overall_scores": {"pylint_score": 8.7, "docstring_coverage": 91.2},
//	  "tools_available": ["docstrings", "pylint"]
//	}
//
// A project with no artifacts yet gets {"analyzed": false, ...} with a
// pointer at run_analysis.
//
// # Tool: list_runs
//
// Query run history, newest first:
//
//	Request:
//	{
//	  "name": "list_runs",
//	  "arguments": {
//	    "path": "/path/to/project",
//	    "limit": 5
//	  }
//	}
//
// Omitting path lists runs across all projects.
//
// # MCP Client Configuration
//
// Configure in Claude Code's MCP settings:
//
//	{
//	  "mcpServers": {
//	    "codequal": {
//	      "command": "/usr/local/bin/codequal",
//	      "args": ["serve"]
//	    }
//	  }
//	}
//
// # Error Handling
//
// The MCP server returns standard JSON-RPC error responses:
//
//	{
//	  "error": {
//	    "code": -32602,
//	    "message": "Invalid params",
//	    "data": {
//	      "param": "path",
//	      "reason": "path does not exist"
//	    }
//	  }
//	}
//
// Error codes:
//   - -32602: Invalid params (missing/invalid arguments)
//   - -32001: Unknown tool or preset name
//   - -32603: Internal error (discovery, storage, filesystem)
//
// A quality tool failing is not a protocol error: run_analysis reports it
// in the per-tool results and keeps going.
//
// # Logging
//
// The MCP server logs to stderr (stdout is reserved for MCP protocol).
package mcp
