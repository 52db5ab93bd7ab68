package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/codequal/codequal/internal/storage"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "codequal",
	Short: "Code quality analysis for Python projects",
	Long: `codequal runs static analysis tools (pylint, vulture, coverage) plus native
docstring and code metrics checks against a Python project, writes JSON report
artifacts, and keeps a history of runs.

Typical workflow:
  codequal config --project ~/myproject   # Create codequal.json
  codequal run --preset standard          # Analyze
  codequal history                        # Review past runs`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("codequal\n")
		fmt.Printf("Version: %s\n", version)
		fmt.Printf("Build Time: %s\n", buildTime)
		fmt.Printf("Build Mode: %s\n", storage.BuildMode)
		fmt.Printf("SQLite Driver: %s\n", storage.DriverName)
	},
}

// historyDBDir resolves where the run history database lives
func historyDBDir() string {
	if dir := os.Getenv("CODEQUAL_DB_PATH"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".codequal"
	}
	return filepath.Join(home, ".codequal")
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
