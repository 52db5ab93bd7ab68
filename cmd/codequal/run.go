package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codequal/codequal/internal/aggregator"
	"github.com/codequal/codequal/internal/analyzer"
	"github.com/codequal/codequal/internal/config"
	"github.com/codequal/codequal/internal/discovery"
	"github.com/codequal/codequal/internal/storage"
	"github.com/codequal/codequal/pkg/types"
)

var (
	runConfigPath  string
	runTools       []string
	runPreset      string
	runPresetsFile string
	runNoHistory   bool
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run analysis tools against the configured project",
	Long: `Run analysis tools against the project described by codequal.json.

Tools can be named directly with --tools, bundled with --preset, or both
(the union runs, each tool once). With neither, the standard preset runs.
A failing tool does not stop the run; its failure is recorded and the
remaining tools continue.

Example:
  codequal run
  codequal run --preset quality
  codequal run --tools pylint,unused --preset quick`,
	Run: func(cmd *cobra.Command, args []string) {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		cfg, err := config.Load(runConfigPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		registry := analyzer.NewRegistry()
		if runPresetsFile != "" {
			if err := registry.LoadUserPresets(runPresetsFile); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				os.Exit(1)
			}
		}

		adapters, err := registry.Resolve(runTools, runPreset)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		cyan := color.New(color.FgCyan, color.Bold).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		green := color.New(color.FgGreen).SprintFunc()
		red := color.New(color.FgRed).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s\n\n", cyan(fmt.Sprintf("=== Analyzing %s ===", cfg.ProjectName)))

		engine := discovery.NewEngine(cfg.SourceSuffix)
		patterns := discovery.ClassifyAll(cfg.ExcludePatterns)
		files, err := engine.DiscoverFiles(ctx, cfg.IncludeDirs, patterns)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: file discovery failed: %v\n", err)
			os.Exit(1)
		}

		if len(files) == 0 {
			fmt.Printf("%s No analyzable files found\n", yellow("⚠"))
			fmt.Printf("  Check include_dirs and exclude_patterns in %s\n\n", config.DefaultFileName)
		} else {
			fmt.Printf("Found %s source files\n\n", green(fmt.Sprintf("%d", len(files))))
		}

		runner := analyzer.NewRunner()
		runner.OnStart = func(tool string) {
			fmt.Printf("  %s %s...\n", gray("→"), tool)
		}
		runner.OnFinish = func(rep *types.Report) {
			if rep.Success {
				fmt.Printf("  %s %s (%v)\n", green("✓"), rep.Tool, rep.Duration.Round(time.Millisecond))
			} else {
				fmt.Printf("  %s %s: %s\n", red("✗"), rep.Tool, rep.Error)
			}
		}

		reports := runner.Run(ctx, adapters, files, cfg)

		passed := 0
		for _, rep := range reports {
			if rep.Success {
				passed++
			}
		}

		summaryPath, _, err := aggregator.WriteRunSummary(cfg, reports)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to write run summary: %v\n", err)
			os.Exit(1)
		}
		numericPath, numeric, err := aggregator.WriteNumericSummary(cfg)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: failed to write numeric summary: %v\n", err)
			os.Exit(1)
		}

		if !runNoHistory {
			if err := recordRunHistory(ctx, cfg, runPreset, len(files), reports, passed); err != nil {
				fmt.Fprintf(os.Stderr, "Warning: failed to record run history: %v\n", err)
			}
		}

		// Summary
		fmt.Printf("\n%s\n", yellow("Results:"))
		fmt.Printf("  Tools passed: %d/%d\n", passed, len(reports))
		for key, val := range numeric.OverallScores {
			fmt.Printf("  %s: %v\n", key, val)
		}
		fmt.Println()
		fmt.Printf("  Summary: %s\n", gray(summaryPath))
		fmt.Printf("  Numeric: %s\n", gray(numericPath))
		fmt.Println()

		if passed < len(reports) {
			os.Exit(1)
		}
	},
}

// recordRunHistory persists the run and its tool results to the history database
func recordRunHistory(ctx context.Context, cfg *config.Config, preset string, filesFound int, reports []*types.Report, passed int) error {
	dir := historyDBDir()
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	store, err := storage.NewSQLiteStorage(filepath.Join(dir, "history.db"))
	if err != nil {
		return err
	}
	defer store.Close()

	tx, err := store.BeginTx(ctx)
	if err != nil {
		return err
	}
	run := &storage.Run{
		ProjectRoot: cfg.ProjectRoot,
		ProjectName: cfg.ProjectName,
		Preset:      preset,
		FilesFound:  filesFound,
		ToolsRun:    len(reports),
		ToolsPassed: passed,
	}
	if err := tx.CreateRun(ctx, run); err != nil {
		_ = tx.Rollback()
		return err
	}
	for _, rep := range reports {
		if err := tx.UpsertToolResult(ctx, storage.FromReport(run.ID, rep)); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.FinishRun(ctx, run); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

func init() {
	rootCmd.AddCommand(runCmd)
	runCmd.Flags().StringVar(&runConfigPath, "config", "", "Config file to use (default: codequal.json in the working directory)")
	runCmd.Flags().StringSliceVar(&runTools, "tools", nil, "Tools to run, in order")
	runCmd.Flags().StringVar(&runPreset, "preset", "", "Named tool bundle: quick, standard, comprehensive, documentation, quality, or all")
	runCmd.Flags().StringVar(&runPresetsFile, "presets-file", "", "YAML file with user-defined presets (shadow the builtins)")
	runCmd.Flags().BoolVar(&runNoHistory, "no-history", false, "Do not record this run in the history database")
}
