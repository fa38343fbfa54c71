package main

import (
	"fmt"
	"net/http"
	"os"
	"os/exec"
	"time"

	"github.com/daniswara/board/internal/timeline"
	"github.com/daniswara/board/internal/tui"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive Gantt board",
	RunE:  runTUI,
}

var (
	tuiMonth     string
	tuiDivision  string
	tuiCompleted bool
	tuiWide      bool
)

func init() {
	tuiCmd.Flags().StringVar(&tuiMonth, "month", "", "First month to show, YYYY-MM (default current)")
	tuiCmd.Flags().StringVar(&tuiDivision, "division", "", "Only show one division")
	tuiCmd.Flags().BoolVar(&tuiCompleted, "completed", false, "Show completed tasks")
	tuiCmd.Flags().BoolVar(&tuiWide, "wide", false, "Show three months at once")
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	opts := tui.Options{
		Division:      tuiDivision,
		ShowCompleted: tuiCompleted || cfg.View.ShowCompleted,
	}
	if d, err := timeline.ParseDensity(cfg.View.Density); err == nil {
		opts.Density = d
	}
	if tuiWide {
		opts.Density = timeline.Wide
	}
	if tuiMonth != "" {
		anchor, err := parseAnchor(tuiMonth)
		if err != nil {
			return err
		}
		opts.Anchor = anchor
	}

	if !isDaemonRunning(apiAddr) {
		fmt.Println("Board daemon not running. Starting background service...")
		if err := startDaemon(); err != nil {
			return fmt.Errorf("failed to start daemon: %w", err)
		}
	}

	app := tui.New(apiAddr, opts)
	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}

func isDaemonRunning(addr string) bool {
	client := http.Client{Timeout: 500 * time.Millisecond}
	resp, err := client.Get(addr + "/health")
	if err != nil {
		return false
	}
	defer resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

func startDaemon() error {
	exe, err := os.Executable()
	if err != nil {
		return err
	}

	cmd := exec.Command(exe, "daemon", "--config", configPath)
	detachDaemon(cmd)

	// Keep the daemon's log output off the TUI screen.
	cmd.Stdin = nil
	cmd.Stdout = nil
	cmd.Stderr = nil

	if err := cmd.Start(); err != nil {
		return err
	}

	fmt.Print("   Waiting for daemon...")
	for i := 0; i < 20; i++ {
		if isDaemonRunning(apiAddr) {
			fmt.Println(" Done.")
			return nil
		}
		time.Sleep(250 * time.Millisecond)
		fmt.Print(".")
	}
	fmt.Println(" Timeout!")
	return fmt.Errorf("daemon started but API not reachable at %s", apiAddr)
}
