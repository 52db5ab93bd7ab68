package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codequal/codequal/internal/config"
)

var (
	configProject   string
	configInclude   []string
	configExclude   []string
	configReportDir string
	configOutput    string
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Create an analysis configuration for a project",
	Long: `Create a codequal.json configuration for a Python project.

The project layout is auto-detected: src/, app/, lib/ and similar directories
become the scan roots when --include-dirs is not given. A stock exclusion list
(virtualenvs, __pycache__, build output, VCS metadata) is always applied;
--exclude appends to it.

Example:
  codequal config --project ~/myproject
  codequal config --project . --include-dirs src,scripts --exclude migrations`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.Build(config.Options{
			ProjectPath:   configProject,
			IncludeDirs:   configInclude,
			ExtraExcludes: configExclude,
			ReportDir:     configReportDir,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		output := configOutput
		if output == "" {
			output = filepath.Join(cfg.ProjectRoot, config.DefaultFileName)
		}
		written, err := config.Save(cfg, output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		gray := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("\n%s Wrote configuration\n\n", green("✓"))
		fmt.Printf("  Config:       %s\n", cyan(written))
		fmt.Printf("  Project root: %s\n", cyan(cfg.ProjectRoot))
		fmt.Printf("  Project name: %s\n", cfg.ProjectName)
		fmt.Printf("  Report dir:   %s\n", cfg.ReportDir)
		if len(cfg.IncludeDirs) > 0 {
			fmt.Printf("  Include dirs:\n")
			for _, d := range cfg.IncludeDirs {
				fmt.Printf("    - %s\n", d)
			}
		} else {
			fmt.Printf("  Include dirs: %s\n", gray("(none detected, run will scan nothing)"))
		}
		fmt.Printf("  Exclusions:   %d patterns\n", len(cfg.ExcludePatterns))
		if len(cfg.DetectedFeatures) > 0 {
			fmt.Printf("  Detected:     %v\n", cfg.DetectedFeatures)
		}
		fmt.Println()
		fmt.Printf("%s Next steps:\n", gray("→"))
		fmt.Printf("  %s\n", gray("codequal run --preset standard"))
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(configCmd)
	configCmd.Flags().StringVar(&configProject, "project", ".", "Path to the project root")
	configCmd.Flags().StringSliceVar(&configInclude, "include-dirs", nil, "Directories to scan (relative to the project root)")
	configCmd.Flags().StringSliceVar(&configExclude, "exclude", nil, "Extra exclusion patterns appended to the stock list")
	configCmd.Flags().StringVar(&configReportDir, "report-dir", "", "Directory for report artifacts (default: <project>/.codequal/reports)")
	configCmd.Flags().StringVar(&configOutput, "output", "", "Config file to write (default: <project>/codequal.json)")
}
