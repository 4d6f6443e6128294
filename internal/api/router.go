package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/coinpulse/internal/api/handlers"
	"github.com/wonny/coinpulse/internal/telemetry"
	"github.com/wonny/coinpulse/pkg/logger"
)

// NewRouter creates and configures the HTTP router
// SSOT: route registration happens in this function only.
func NewRouter(
	scannerHandler *handlers.ScannerHandler,
	portfolioHandler *handlers.PortfolioHandler,
	marketHandler *handlers.MarketHandler,
	metrics *telemetry.Metrics,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()

	// Scanner endpoints
	api.HandleFunc("/scanner", scannerHandler.Scan).Methods("GET")
	api.HandleFunc("/coin/{id}", scannerHandler.GetCoin).Methods("GET")

	// Portfolio endpoints
	api.HandleFunc("/portfolio/simulate", portfolioHandler.Simulate).Methods("GET")

	// Market data endpoints
	api.HandleFunc("/trending", marketHandler.GetTrending).Methods("GET")
	api.HandleFunc("/global", marketHandler.GetGlobal).Methods("GET")
	api.HandleFunc("/chart/{id}", marketHandler.GetChart).Methods("GET")
	api.HandleFunc("/stats", marketHandler.GetStats).Methods("GET")

	// Apply middleware
	r.Use(loggingMiddleware(log, metrics))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "coinpulse-api",
	})
}

// statusRecorder captures the response status for logging and metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// loggingMiddleware logs HTTP requests and records request metrics
func loggingMiddleware(log *logger.Logger, metrics *telemetry.Metrics) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(rec, r)

			duration := time.Since(start)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   rec.status,
				"duration": duration,
			}).Debug("HTTP request")

			if metrics != nil {
				path := r.URL.Path
				if route := mux.CurrentRoute(r); route != nil {
					if tmpl, err := route.GetPathTemplate(); err == nil {
						path = tmpl
					}
				}
				metrics.ObserveRequest(path, r.Method, rec.status, duration)
			}
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]interface{}{
						"success": false,
						"error":   "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
