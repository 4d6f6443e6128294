package jobs

import (
	"context"
	"fmt"

	"github.com/wonny/coinpulse/internal/contracts"
	"github.com/wonny/coinpulse/internal/scanner"
	"github.com/wonny/coinpulse/pkg/logger"
)

// ScanWarmJob keeps the default scan response warm so interactive
// requests hit the cache instead of the upstream API.
// SSOT: scan cache warming happens only through this job.
type ScanWarmJob struct {
	scanner *scanner.Scanner
	logger  *logger.Logger
}

// NewScanWarmJob creates a new scan cache-warm job
func NewScanWarmJob(s *scanner.Scanner, log *logger.Logger) *ScanWarmJob {
	return &ScanWarmJob{
		scanner: s,
		logger:  log,
	}
}

// Name returns the job name
func (j *ScanWarmJob) Name() string {
	return "scan_cache_warm"
}

// Schedule runs just inside the scan cache TTL
func (j *ScanWarmJob) Schedule() string {
	return "0 */2 * * * *" // every 2 minutes
}

// Run refreshes the default scan and the portfolio candidate scans
func (j *ScanWarmJob) Run(ctx context.Context) error {
	results, err := j.scanner.Scan(ctx, contracts.ScanFilters{SortBy: contracts.SortByMomentum})
	if err != nil {
		return fmt.Errorf("warm default scan: %w", err)
	}

	j.logger.WithField("assets", len(results)).Info("Default scan cache warmed")

	// Candidate pools used by portfolio simulation, one per profile
	for _, minScore := range []int{58, 55, 50} {
		_, err := j.scanner.Scan(ctx, contracts.ScanFilters{
			SortBy:           contracts.SortByMomentum,
			Limit:            80,
			MinMomentumScore: minScore,
		})
		if err != nil {
			return fmt.Errorf("warm candidate scan (min %d): %w", minScore, err)
		}
	}

	return nil
}

