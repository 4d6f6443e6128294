package commands

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/coinpulse/internal/api"
	"github.com/wonny/coinpulse/internal/api/handlers"
	"github.com/wonny/coinpulse/internal/portfolio"
	"github.com/wonny/coinpulse/internal/telemetry"
)

// apiCmd represents the api command
var apiCmd = &cobra.Command{
	Use:   "api",
	Short: "Start the HTTP API server",
	Long: `Starts the REST API server.

Endpoints:
  GET /health                  - Health check
  GET /api/scanner             - Filtered momentum scan
  GET /api/coin/{id}           - Detailed single-asset analysis
  GET /api/portfolio/simulate  - Simulated portfolio
  GET /api/trending            - Trending coins
  GET /api/global              - Global market stats
  GET /api/chart/{id}          - Price/volume chart series
  GET /api/stats               - Service statistics

Example:
  go run ./cmd/coinpulse api
  go run ./cmd/coinpulse api --port 8089`,
	RunE: runAPIServer,
}

var apiPort string

func init() {
	rootCmd.AddCommand(apiCmd)

	apiCmd.Flags().StringVar(&apiPort, "port", "", "API server port (overrides PORT)")
}

func runAPIServer(cmd *cobra.Command, args []string) error {
	fmt.Println("=== CoinPulse API Server ===")

	rt, err := newRuntime()
	if err != nil {
		return err
	}
	defer rt.close()

	if apiPort != "" {
		rt.cfg.Port = apiPort
	}

	log := rt.log
	log.WithFields(map[string]interface{}{
		"port": rt.cfg.Port,
		"env":  rt.cfg.Env,
	}).Info("Initializing API server")

	metrics := telemetry.New()
	rt.gecko.WithMetrics(metrics)
	simulator := portfolio.NewSimulator(rt.scanner, log)

	router := api.NewRouter(
		handlers.NewScannerHandler(rt.scanner, metrics, log),
		handlers.NewPortfolioHandler(simulator, log),
		handlers.NewMarketHandler(rt.gecko, log),
		metrics,
		log,
	)

	server := api.New(rt.cfg, log, router)

	go func() {
		if err := server.Start(); err != nil {
			log.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Separate listener for Prometheus metrics
	var metricsServer *http.Server
	if rt.cfg.MetricsEnabled {
		metricsServer = &http.Server{
			Addr:    ":" + rt.cfg.MetricsPort,
			Handler: metrics.Handler(),
		}
		go func() {
			log.WithField("port", rt.cfg.MetricsPort).Info("Metrics listener started")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.WithError(err).Error("Metrics listener failed")
			}
		}()
	}

	log.Info("API server started successfully")
	fmt.Printf("\n✅ Server running on http://localhost:%s\n", rt.cfg.Port)
	fmt.Println("\nAvailable endpoints:")
	fmt.Println("  GET /health")
	fmt.Println("  GET /api/scanner")
	fmt.Println("  GET /api/coin/{id}")
	fmt.Println("  GET /api/portfolio/simulate")
	fmt.Println("  GET /api/trending")
	fmt.Println("  GET /api/global")
	fmt.Println("  GET /api/chart/{id}")
	fmt.Println("  GET /api/stats")
	fmt.Println("\nPress Ctrl+C to stop")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if metricsServer != nil {
		_ = metricsServer.Shutdown(ctx)
	}
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Info("Server stopped")
	return nil
}
