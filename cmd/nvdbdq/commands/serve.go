package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/nvdbdq/internal/api"
	"github.com/wonny/nvdbdq/internal/api/handlers"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Starts the REST API server.

Endpoints:
  GET  /health                                   - Health check and cache usage
  GET  /api/object-types/{id}                    - Name and declared properties
  GET  /api/object-types/{id}/quality            - Completeness analysis (JSON)
  GET  /api/object-types/{id}/quality.xlsx       - Completeness analysis (workbook)

Query parameters for quality: viktighet, antall, fylke

Example:
  go run ./cmd/nvdbdq serve
  go run ./cmd/nvdbdq serve --port 8080`,
	RunE: runServe,
}

var (
	servePort string
)

func init() {
	rootCmd.AddCommand(serveCmd)

	// Flags
	serveCmd.Flags().StringVar(&servePort, "port", "", "API server port (default from PORT)")
}

func runServe(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "=== NVDB data-quality API ===")

	// 1. Load config, logger and NVDB client
	a, err := newApp()
	if err != nil {
		return err
	}

	// Override port if flag is set
	if servePort != "" {
		a.cfg.Port = servePort
	}

	// 2. Create handlers and router
	qualityHandler := handlers.NewQualityHandler(a.explorer, a.log)
	healthHandler := handlers.NewHealthHandler(a.client, "nvdbdq")
	router := api.NewRouter(qualityHandler, healthHandler, a.log)

	// 3. Create server
	server := api.New(a.cfg, a.log, router)

	// 4. Start server with graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	printDoubleSeparator(out)
	printSuccess(out, fmt.Sprintf("Server running on http://localhost:%s", a.cfg.Port))
	fmt.Fprintln(out, "\nAvailable endpoints:")
	fmt.Fprintln(out, "  GET  /health")
	fmt.Fprintln(out, "  GET  /api/object-types/{id}")
	fmt.Fprintln(out, "  GET  /api/object-types/{id}/quality")
	fmt.Fprintln(out, "  GET  /api/object-types/{id}/quality.xlsx")
	fmt.Fprintln(out, "\nPress Ctrl+C to stop")

	// Wait for interrupt signal or a failed listener
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case err := <-errCh:
		return err
	}

	a.log.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	a.log.Info("Server stopped")
	return nil
}
