package handlers

import (
	"net/http"

	"github.com/wonny/coinpulse/internal/contracts"
	"github.com/wonny/coinpulse/internal/portfolio"
	"github.com/wonny/coinpulse/pkg/logger"
)

const (
	defaultInitialInvestment = 100
	defaultTargetAmount      = 1000
)

// PortfolioHandler handles portfolio simulation endpoints
type PortfolioHandler struct {
	simulator *portfolio.Simulator
	logger    *logger.Logger
}

// NewPortfolioHandler creates a new portfolio handler
func NewPortfolioHandler(sim *portfolio.Simulator, log *logger.Logger) *PortfolioHandler {
	return &PortfolioHandler{
		simulator: sim,
		logger:    log,
	}
}

// Simulate builds a simulated portfolio for the requested risk profile
// GET /api/portfolio/simulate?initial=100&target=1000&riskProfile=medium
func (h *PortfolioHandler) Simulate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := r.URL.Query()

	initial, err := queryFloat(q.Get("initial"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'initial' amount")
		return
	}
	if initial <= 0 {
		initial = defaultInitialInvestment
	}

	target, err := queryFloat(q.Get("target"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "Invalid 'target' amount")
		return
	}
	if target <= 0 {
		target = defaultTargetAmount
	}

	profile, err := contracts.ParseRiskProfile(q.Get("riskProfile"))
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.simulator.Simulate(ctx, initial, target, profile)
	if err != nil {
		h.logger.WithError(err).Error("Portfolio simulation failed")
		respondError(w, http.StatusBadGateway, "Failed to simulate portfolio. Please try again.")
		return
	}

	respondData(w, result)
}
