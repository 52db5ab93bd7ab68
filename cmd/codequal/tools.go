package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/codequal/codequal/internal/analyzer"
)

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "List available analysis tools and presets",
	Run: func(cmd *cobra.Command, args []string) {
		registry := analyzer.NewRegistry()

		yellow := color.New(color.FgYellow).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Printf("\n%s\n", yellow("Tools:"))
		for _, a := range registry.Adapters() {
			fmt.Printf("  %-15s %s\n", cyan(a.Name()), a.Description())
		}

		fmt.Printf("\n%s\n", yellow("Presets:"))
		presets := registry.Presets()
		names := make([]string, 0, len(presets))
		for name := range presets {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			fmt.Printf("  %-15s %s\n", cyan(name), strings.Join(presets[name], ", "))
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(toolsCmd)
}
