package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/coinpulse/internal/external/coingecko"
	"github.com/wonny/coinpulse/pkg/logger"
)

// MarketPulseJob keeps the trending list and global market stats warm
type MarketPulseJob struct {
	client *coingecko.Client
	logger *logger.Logger
}

// NewMarketPulseJob creates a new market pulse job
func NewMarketPulseJob(client *coingecko.Client, log *logger.Logger) *MarketPulseJob {
	return &MarketPulseJob{
		client: client,
		logger: log,
	}
}

// Name returns the job name
func (j *MarketPulseJob) Name() string {
	return "market_pulse"
}

// Schedule runs just inside the trending cache TTL
func (j *MarketPulseJob) Schedule() string {
	return "0 */5 * * * *" // every 5 minutes
}

// Run refreshes trending coins and global market statistics
func (j *MarketPulseJob) Run(ctx context.Context) error {
	trending, err := j.client.GetTrending(ctx)
	if err != nil {
		return fmt.Errorf("warm trending: %w", err)
	}

	global, err := j.client.GetGlobal(ctx)
	if err != nil {
		return fmt.Errorf("warm global stats: %w", err)
	}

	j.logger.WithFields(map[string]interface{}{
		"trending":     len(trending),
		"markets":      global.Markets,
		"btc_dominance": global.MarketCapPercentage["btc"],
	}).Info("Market pulse refreshed")

	return nil
}
