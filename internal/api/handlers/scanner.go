package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/wonny/coinpulse/internal/contracts"
	"github.com/wonny/coinpulse/internal/scanner"
	"github.com/wonny/coinpulse/internal/telemetry"
	"github.com/wonny/coinpulse/pkg/logger"
)

// ScannerHandler handles scan and per-asset analysis endpoints
// SSOT: scanner API handlers live in this struct only.
type ScannerHandler struct {
	scanner *scanner.Scanner
	metrics *telemetry.Metrics
	logger  *logger.Logger
}

// NewScannerHandler creates a new scanner handler
func NewScannerHandler(s *scanner.Scanner, metrics *telemetry.Metrics, log *logger.Logger) *ScannerHandler {
	return &ScannerHandler{
		scanner: s,
		metrics: metrics,
		logger:  log,
	}
}

// Scan runs a filtered market scan
// GET /api/scanner
func (h *ScannerHandler) Scan(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filters, err := parseFilters(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := h.scanner.Scan(ctx, filters)
	if err != nil {
		h.logger.WithError(err).Error("Market scan failed")
		respondError(w, http.StatusBadGateway, "Failed to scan market. Please try again.")
		return
	}

	if h.metrics != nil {
		h.metrics.ObserveScan(len(results))
	}

	respondList(w, len(results), results)
}

// GetCoin returns the detailed single-asset analysis
// GET /api/coin/{id}
func (h *ScannerHandler) GetCoin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := mux.Vars(r)["id"]

	analysis, err := h.scanner.DetailedAnalysis(ctx, id)
	if err != nil {
		h.logger.WithFields(map[string]interface{}{
			"asset": id,
			"error": err.Error(),
		}).Error("Detailed analysis failed")

		if strings.Contains(err.Error(), "not found") {
			respondError(w, http.StatusNotFound, "Asset not found in market data")
			return
		}
		respondError(w, http.StatusBadGateway, "Failed to analyze asset. Please try again.")
		return
	}

	respondData(w, analysis)
}

// parseFilters reads scan filter parameters from the query string.
// Missing parameters mean "no filter"; malformed numbers are errors.
func parseFilters(r *http.Request) (contracts.ScanFilters, error) {
	q := r.URL.Query()
	var filters contracts.ScanFilters
	var err error

	if filters.MinMarketCap, err = queryFloat(q.Get("minMarketCap")); err != nil {
		return filters, err
	}
	if filters.MaxMarketCap, err = queryFloat(q.Get("maxMarketCap")); err != nil {
		return filters, err
	}
	if filters.MinVolume, err = queryFloat(q.Get("minVolume")); err != nil {
		return filters, err
	}
	if filters.MinMomentumScore, err = queryInt(q.Get("minMomentumScore")); err != nil {
		return filters, err
	}
	if filters.Limit, err = queryInt(q.Get("limit")); err != nil {
		return filters, err
	}

	if raw := q.Get("signals"); raw != "" {
		for _, s := range strings.Split(raw, ",") {
			filters.Signals = append(filters.Signals, contracts.TradeSignal(strings.TrimSpace(s)))
		}
	}

	filters.SortBy = contracts.SortKey(q.Get("sortBy"))
	if filters.SortBy == "" {
		filters.SortBy = contracts.SortByMomentum
	}

	return filters, nil
}

func queryFloat(raw string) (float64, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseFloat(raw, 64)
}

func queryInt(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	return strconv.Atoi(raw)
}
