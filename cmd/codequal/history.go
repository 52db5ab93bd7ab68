package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codequal/codequal/internal/storage"
)

var (
	historyProject string
	historyLimit   int
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent analysis runs",
	Long: `List recent analysis runs from the history database, newest first.

Example:
  codequal history
  codequal history --project ~/myproject --limit 5`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		store, err := storage.NewSQLiteStorage(filepath.Join(historyDBDir(), "history.db"))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to open history database: %v\n", err)
			os.Exit(1)
		}
		defer store.Close()

		project := historyProject
		if project != "" {
			if abs, err := filepath.Abs(project); err == nil {
				project = abs
			}
		}

		runs, err := store.ListRuns(ctx, project, historyLimit)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to list runs: %v\n", err)
			os.Exit(1)
		}

		yellow := color.New(color.FgYellow).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s\n", yellow("Analysis Runs:"))

		if len(runs) == 0 {
			fmt.Printf("  %s\n\n", gray("No runs recorded"))
			return
		}

		for _, run := range runs {
			statusColor := green
			statusIcon := "●"
			if run.ToolsPassed < run.ToolsRun {
				statusColor = red
				statusIcon = "○"
			}

			name := run.ProjectName
			if name == "" {
				name = run.ProjectRoot
			}

			fmt.Printf("  %s %s\n", statusColor(statusIcon), name)
			fmt.Printf("    Run:     %s\n", run.ID)
			fmt.Printf("    Started: %s\n", run.StartedAt.Format("2006-01-02 15:04:05"))
			if run.Preset != "" {
				fmt.Printf("    Preset:  %s\n", run.Preset)
			}
			fmt.Printf("    Files:   %d\n", run.FilesFound)
			fmt.Printf("    Tools:   %d/%d passed (%.0f%%)\n",
				run.ToolsPassed, run.ToolsRun, run.Record().SuccessRate()*100)
			fmt.Println()
		}
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVar(&historyProject, "project", "", "Filter runs by project root (default: all projects)")
	historyCmd.Flags().IntVar(&historyLimit, "limit", 10, "Maximum number of runs to show")
}
