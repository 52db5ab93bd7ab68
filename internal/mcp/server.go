package mcp

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mark3labs/mcp-go/server"

	"github.com/codequal/codequal/internal/analyzer"
	"github.com/codequal/codequal/internal/storage"
)

const (
	// ServerName is the MCP server name
	ServerName = "codequal-mcp"
	// ServerVersion is the current server version
	ServerVersion = "1.0.0"
	// DefaultDBPath is the default location for the history database
	DefaultDBPath = "~/.codequal"
)

// Server wraps the MCP server with application dependencies
type Server struct {
	mcp      *server.MCPServer
	storage  storage.Storage
	registry *analyzer.Registry
	runner   *analyzer.Runner
}

// NewServer creates a new MCP server instance
func NewServer(dbPath string) (*Server, error) {
	// Expand home directory if needed
	if dbPath == "" || dbPath == DefaultDBPath {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".codequal")
	}

	// Create directory if it doesn't exist
	if err := os.MkdirAll(dbPath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	dbFile := filepath.Join(dbPath, "history.db")

	// Initialize storage
	store, err := storage.NewSQLiteStorage(dbFile)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Create MCP server
	mcpServer := server.NewMCPServer(
		ServerName,
		ServerVersion,
	)

	s := &Server{
		mcp:      mcpServer,
		storage:  store,
		registry: analyzer.NewRegistry(),
		runner:   analyzer.NewRunner(),
	}

	// Register tools
	if err := s.registerTools(); err != nil {
		return nil, fmt.Errorf("failed to register tools: %w", err)
	}

	return s, nil
}

// Serve starts the MCP server on stdio and blocks until shutdown
func (s *Server) Serve(ctx context.Context) error {
	defer func() { _ = s.storage.Close() }()
	return server.ServeStdio(s.mcp)
}

// registerTools registers all MCP tools
func (s *Server) registerTools() error {
	// Register discover_files tool
	s.mcp.AddTool(discoverFilesTool(), s.handleDiscoverFiles)

	// Register run_analysis tool
	s.mcp.AddTool(runAnalysisTool(), s.handleRunAnalysis)

	// Register get_summary tool
	s.mcp.AddTool(getSummaryTool(), s.handleGetSummary)

	// Register list_runs tool
	s.mcp.AddTool(listRunsTool(), s.handleListRuns)

	return nil
}
