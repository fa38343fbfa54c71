package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daniswara/board/internal/audit"
	"github.com/daniswara/board/internal/board"
	"github.com/daniswara/board/internal/controlplane"
	"github.com/daniswara/board/internal/holidays"
	"github.com/daniswara/board/internal/scheduler"
	"github.com/daniswara/board/internal/store"
	"github.com/daniswara/board/internal/timeline"
	"github.com/spf13/cobra"
)

var (
	listenAddr string
	dbPath     string
)

var daemonCmd = &cobra.Command{
	Use:   "daemon",
	Short: "Start the board daemon",
	Long:  `Starts the board daemon which serves the HTTP API and keeps holidays up to date.`,
	RunE:  runDaemon,
}

func init() {
	daemonCmd.Flags().StringVar(&listenAddr, "listen", "", "Listen address for the API server (default from config)")
	daemonCmd.Flags().StringVar(&dbPath, "db", "", "Path to SQLite database (default from config)")
}

func runDaemon(cmd *cobra.Command, args []string) error {
	log.Println("Starting board daemon...")

	cfg := loadConfig()
	if listenAddr == "" {
		listenAddr = cfg.Daemon.Listen
	}
	if dbPath == "" {
		dbPath = cfg.Daemon.DBPath
	}

	// Initialize store
	s, err := store.New(dbPath)
	if err != nil {
		return err
	}

	rec := audit.NewRecorder(s)

	// Board width falls back to the configured container until a client reports one.
	widths := &timeline.WidthCache{}
	widths.Observe(cfg.View.ContainerWidth)

	// Create services and server
	service := controlplane.NewService(s, rec)
	boards := board.NewService(s, rec, widths)
	server := controlplane.NewServer(service, boards, s, listenAddr)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	src, err := holidays.New(ctx, cfg.Holidays)
	if err != nil {
		log.Printf("Warning: holiday source %q unavailable: %v (using builtin)", cfg.Holidays.Source, err)
		src = holidays.Builtin{}
	}
	sched := scheduler.New(s, src, rec, scheduler.FromSettings(cfg.Scheduler))
	server.SetHolidaySyncer(sched)

	if cfg.Scheduler.Enabled {
		if err := sched.Start(); err != nil {
			s.Close()
			return err
		}
	}

	// Set up signal handling for graceful shutdown
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	serverErr := make(chan error, 1)

	go func() {
		err := server.Start()
		if err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case sig := <-sigCh:
		log.Printf("Received signal %v, initiating graceful shutdown...", sig)
	case err := <-serverErr:
		if err != nil {
			log.Printf("Server error: %v", err)
			sched.Stop()
			s.Close()
			return err
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	log.Println("Shutting down HTTP server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}

	log.Println("Stopping scheduler...")
	sched.Stop()

	log.Println("Closing database connection...")
	if err := s.Close(); err != nil {
		log.Printf("Database close error: %v", err)
	}

	log.Println("Shutdown complete")
	return nil
}
