package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/felixgeelhaar/laneplan/internal/graph"
	"github.com/felixgeelhaar/laneplan/internal/log"
	"github.com/felixgeelhaar/laneplan/internal/server"
	"github.com/felixgeelhaar/laneplan/internal/task"
	"github.com/felixgeelhaar/laneplan/internal/taskdoc"
	"github.com/felixgeelhaar/laneplan/internal/version"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the planner as an HTTP service",
	Long: `Start an HTTP server that holds the task set in memory and accepts
incremental updates.

Endpoints:
  GET    /healthz            - readiness probe
  GET    /plan               - lanes, batches, and the critical path
  GET    /graph              - every task with resolved edges
  PUT    /tasks/{id}         - add or replace a task
  DELETE /tasks/{id}         - remove a task
  POST   /tasks/{id}/status  - apply a status transition

Updates that would introduce a dependency cycle or an unknown
dependency are rejected and leave the committed task set untouched.

The server implements graceful shutdown with connection draining when
it receives SIGTERM or SIGINT.

Example:
  # Start with an empty task set on the default port 8080
  laneplan serve

  # Seed the task set from a plan directory
  laneplan serve --dir .laneplan

  # Custom port and shutdown timeout
  laneplan serve --port 9090 --shutdown-timeout 60s`,
	RunE: runServe,
}

var (
	servePort            string
	serveAddress         string
	serveDir             string
	serveShutdownTimeout time.Duration
	serveReadTimeout     time.Duration
	serveWriteTimeout    time.Duration
	serveIdleTimeout     time.Duration
)

func init() {
	serveCmd.Flags().StringVar(&servePort, "port", "8080", "Port to listen on")
	serveCmd.Flags().StringVar(&serveAddress, "address", "0.0.0.0", "Address to bind to")
	serveCmd.Flags().StringVar(&serveDir, "dir", "", "Plan directory to seed the task set from")
	serveCmd.Flags().DurationVar(&serveShutdownTimeout, "shutdown-timeout", 30*time.Second, "Maximum time to wait for connections to drain during shutdown")
	serveCmd.Flags().DurationVar(&serveReadTimeout, "read-timeout", 10*time.Second, "Maximum duration for reading the entire request")
	serveCmd.Flags().DurationVar(&serveWriteTimeout, "write-timeout", 10*time.Second, "Maximum duration before timing out writes of the response")
	serveCmd.Flags().DurationVar(&serveIdleTimeout, "idle-timeout", 60*time.Second, "Maximum amount of time to wait for the next request")

	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	logger := log.Service()
	info := version.GetInfo()

	initial := task.NewSet()
	if serveDir != "" {
		var err error
		initial, err = taskdoc.LoadDir(serveDir)
		if err != nil {
			return fmt.Errorf("seed task set from %s: %w", serveDir, err)
		}
		logger.Info("task set seeded", "dir", serveDir, "tasks", initial.Len())
	}

	store, err := task.NewStore(initial, func(candidate *task.Set) error {
		_, err := graph.Build(candidate)
		return err
	})
	if err != nil {
		return err
	}

	listenAddr := fmt.Sprintf("%s:%s", serveAddress, servePort)
	srv := server.NewServer(store, logger, server.Config{
		Address:         listenAddr,
		ShutdownTimeout: serveShutdownTimeout,
		ReadTimeout:     serveReadTimeout,
		WriteTimeout:    serveWriteTimeout,
		IdleTimeout:     serveIdleTimeout,
	})

	fmt.Printf("laneplan %s\n", info.Short())
	fmt.Printf("Listening on: http://%s\n", listenAddr)
	if serveDir != "" {
		fmt.Printf("Seeded from: %s\n", filepath.Join(serveDir, taskdoc.SummaryFileName))
	}
	fmt.Printf("\nPress Ctrl+C to stop the server\n\n")

	// Start server in background
	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			serverErr <- err
		}
	}()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)

	case sig := <-sigChan:
		logger.Info("shutdown signal received", "signal", sig.String())

		shutdownCtx, cancel := context.WithTimeout(ctx, serveShutdownTimeout+5*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown error: %w", err)
		}

		logger.Info("server stopped")
		return nil
	}
}
