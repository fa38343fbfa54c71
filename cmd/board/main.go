package main

import (
	"fmt"
	"os"

	"github.com/daniswara/board/internal/config"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "board",
	Short: "Board - project timeline and Gantt planner",
	Long:  `Board keeps projects and tasks in a local daemon and draws them as a Gantt timeline with working days, holidays and schedule health.`,
	// No RunE - defaults to showing help when no subcommand is provided
}

var (
	apiAddr    string
	configPath string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&apiAddr, "api", "http://127.0.0.1:7477", "API server address")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.Path(), "Path to config file")

	// Add subcommands
	rootCmd.AddCommand(daemonCmd)
	rootCmd.AddCommand(taskCmd)
	rootCmd.AddCommand(projectCmd)
	rootCmd.AddCommand(holidayCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(tuiCmd)
}

// loadConfig reads the --config file, falling back to defaults with a
// warning when it cannot be parsed.
func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v (using defaults)\n", err)
		return config.DefaultConfig()
	}
	return cfg
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
