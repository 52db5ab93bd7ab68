package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/codequal/codequal/internal/mcp"
	"github.com/codequal/codequal/internal/storage"
)

var serveDBPath string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Long: `Start the Model Context Protocol server, exposing discover_files,
run_analysis, get_summary, and list_runs to MCP clients over stdio.`,
	Run: func(cmd *cobra.Command, args []string) {
		// Log to stderr, stdout is reserved for MCP protocol
		log.SetOutput(os.Stderr)
		log.Printf("codequal MCP server v%s starting...", version)
		log.Printf("Build Mode: %s, Driver: %s", storage.BuildMode, storage.DriverName)

		dbPath := serveDBPath
		if dbPath == "" {
			dbPath = os.Getenv("CODEQUAL_DB_PATH")
		}

		server, err := mcp.NewServer(dbPath)
		if err != nil {
			log.Fatalf("Failed to create MCP server: %v", err)
		}

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

		errChan := make(chan error, 1)
		go func() {
			log.Println("MCP server ready, listening on stdio...")
			errChan <- server.Serve(ctx)
		}()

		select {
		case sig := <-sigChan:
			log.Printf("Received signal %v, shutting down gracefully...", sig)
			cancel()
		case err := <-errChan:
			if err != nil {
				log.Fatalf("Server error: %v", err)
			}
		}

		log.Println("Server stopped")
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVar(&serveDBPath, "db", "", "Directory for the history database (default: ~/.codequal)")
}
