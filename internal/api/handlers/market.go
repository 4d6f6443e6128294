package handlers

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/coinpulse/internal/external/coingecko"
	"github.com/wonny/coinpulse/pkg/logger"
)

const defaultChartDays = 30

// MarketHandler handles pass-through market data endpoints
// (trending, global stats, charts, service stats)
type MarketHandler struct {
	client  *coingecko.Client
	logger  *logger.Logger
	started time.Time
}

// NewMarketHandler creates a new market handler
func NewMarketHandler(client *coingecko.Client, log *logger.Logger) *MarketHandler {
	return &MarketHandler{
		client:  client,
		logger:  log,
		started: time.Now(),
	}
}

// GetTrending returns the trending coins list
// GET /api/trending
func (h *MarketHandler) GetTrending(w http.ResponseWriter, r *http.Request) {
	trending, err := h.client.GetTrending(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch trending coins")
		respondError(w, http.StatusBadGateway, "Failed to fetch trending coins")
		return
	}

	respondData(w, trending)
}

// GetGlobal returns global market statistics
// GET /api/global
func (h *MarketHandler) GetGlobal(w http.ResponseWriter, r *http.Request) {
	global, err := h.client.GetGlobal(r.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to fetch global stats")
		respondError(w, http.StatusBadGateway, "Failed to fetch global market data")
		return
	}

	respondData(w, global)
}

// GetChart returns the price/volume chart series for one asset
// GET /api/chart/{id}?days=30
func (h *MarketHandler) GetChart(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	days, err := queryInt(r.URL.Query().Get("days"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'days' value")
		return
	}
	if days <= 0 {
		days = defaultChartDays
	}

	chart, err := h.client.GetMarketChart(r.Context(), id, days)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"asset": id,
			"error": err.Error(),
		}).Error("Failed to fetch chart")
		respondError(w, http.StatusBadGateway, "Failed to fetch chart data")
		return
	}

	respondData(w, chart)
}

// ServiceStats is the /api/stats payload
type ServiceStats struct {
	UptimeSeconds float64 `json:"uptime_seconds"`
	Goroutines    int     `json:"goroutines"`
	HeapAllocMB   float64 `json:"heap_alloc_mb"`
	NumGC         uint32  `json:"num_gc"`
}

// GetStats returns process-level service statistics
// GET /api/stats
func (h *MarketHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	respondData(w, ServiceStats{
		UptimeSeconds: time.Since(h.started).Seconds(),
		Goroutines:    runtime.NumGoroutine(),
		HeapAllocMB:   float64(mem.HeapAlloc) / 1024 / 1024,
		NumGC:         mem.NumGC,
	})
}
