package portfolio

import (
	"context"
	"fmt"
	"math"

	"github.com/wonny/coinpulse/internal/contracts"
	"github.com/wonny/coinpulse/pkg/logger"
)

const (
	maxHoldings   = 5
	candidatePage = 80

	// Projection bounds
	minProjectedDays = 7
)

// MarketScanner is the slice of the scanner the simulator needs
type MarketScanner interface {
	Scan(ctx context.Context, filters contracts.ScanFilters) ([]contracts.ScannedAsset, error)
}

// ProfileConfig groups every profile-dependent constant in one place
// so each profile's behavior is testable on its own.
type ProfileConfig struct {
	MinMomentum        int
	AllocationExponent float64
	ReturnAdjustment   float64
	ProjectionHorizon  int
	MaxProjectedDays   int
	FallbackDays       int
	AllowedRiskLevels  []contracts.RiskLevel
}

// SSOT: all risk-profile tuning lives in this table
var profileConfigs = map[contracts.RiskProfile]ProfileConfig{
	contracts.ProfileLow: {
		MinMomentum:        58,
		AllocationExponent: 0.9,
		ReturnAdjustment:   0.88,
		ProjectionHorizon:  60,
		MaxProjectedDays:   90,
		FallbackDays:       90,
		AllowedRiskLevels:  []contracts.RiskLevel{contracts.RiskLow, contracts.RiskMedium},
	},
	contracts.ProfileMedium: {
		MinMomentum:        55,
		AllocationExponent: 1,
		ReturnAdjustment:   1,
		ProjectionHorizon:  45,
		MaxProjectedDays:   70,
		FallbackDays:       70,
		AllowedRiskLevels:  []contracts.RiskLevel{contracts.RiskLow, contracts.RiskMedium, contracts.RiskHigh},
	},
	contracts.ProfileHigh: {
		MinMomentum:        50,
		AllocationExponent: 1.24,
		ReturnAdjustment:   1.12,
		ProjectionHorizon:  30,
		MaxProjectedDays:   50,
		FallbackDays:       50,
		AllowedRiskLevels:  []contracts.RiskLevel{contracts.RiskMedium, contracts.RiskHigh, contracts.RiskExtreme},
	},
}

// ConfigFor returns the tuning constants for one risk profile
func ConfigFor(profile contracts.RiskProfile) ProfileConfig {
	if cfg, ok := profileConfigs[profile]; ok {
		return cfg
	}
	return profileConfigs[contracts.ProfileMedium]
}

// Simulator builds a simulated portfolio from live scanner output
type Simulator struct {
	scanner MarketScanner
	logger  *logger.Logger
}

// NewSimulator creates a new portfolio simulator
func NewSimulator(s MarketScanner, log *logger.Logger) *Simulator {
	return &Simulator{scanner: s, logger: log}
}

type scoredAsset struct {
	asset contracts.ScannedAsset
	score float64
}

// Simulate constructs a simulated portfolio of up to five assets for
// the given risk profile, allocates the initial investment across
// them, and projects value growth and days to reach the target.
func (s *Simulator) Simulate(ctx context.Context, initial, target float64, profile contracts.RiskProfile) (*contracts.PortfolioSimulation, error) {
	cfg := ConfigFor(profile)

	scanned, err := s.scanner.Scan(ctx, contracts.ScanFilters{
		SortBy:           contracts.SortByMomentum,
		Limit:            candidatePage,
		MinMomentumScore: cfg.MinMomentum,
	})
	if err != nil {
		return nil, fmt.Errorf("portfolio simulation: scan failed: %w", err)
	}

	scored := make([]scoredAsset, 0, len(scanned))
	for _, asset := range scanned {
		scored = append(scored, scoredAsset{asset: asset, score: profileScore(asset, profile)})
	}

	filtered := make([]scoredAsset, 0, len(scored))
	for _, sa := range scored {
		if riskAllowed(sa.asset.MomentumScore.RiskLevel, cfg.AllowedRiskLevels) {
			filtered = append(filtered, sa)
		}
	}

	// When the risk filter starves the pool, fall back to the full
	// ranked pool rather than under-filling the portfolio
	pool := filtered
	if len(filtered) < maxHoldings {
		pool = scored
	}
	sortByScoreDesc(pool)

	selected := pool
	if len(selected) > maxHoldings {
		selected = selected[:maxHoldings]
	}

	if len(selected) == 0 {
		s.logger.WithField("profile", string(profile)).Warn("No eligible portfolio candidates")
		return &contracts.PortfolioSimulation{
			InitialInvestment: initial,
			TargetAmount:      target,
			CurrentValue:      initial,
			Allocations:       []contracts.Allocation{},
			ProjectedDays:     cfg.FallbackDays,
			RiskScore:         50,
			RiskProfile:       profile,
		}, nil
	}

	weights := make([]float64, len(selected))
	totalWeight := 0.0
	for i, sa := range selected {
		weights[i] = allocationWeight(sa, profile, cfg.AllocationExponent)
		totalWeight += weights[i]
	}

	allocations := make([]contracts.Allocation, 0, len(selected))
	currentValue := 0.0
	riskScoreSum := 0

	for i, sa := range selected {
		allocationPercent := weights[i] / totalWeight * 100
		invested := allocationPercent / 100 * initial
		projectedReturn := sa.asset.MomentumScore.PotentialMultiplier * cfg.ReturnAdjustment
		projected := invested * projectedReturn

		allocations = append(allocations, contracts.Allocation{
			AssetID:           sa.asset.ID,
			Symbol:            sa.asset.Symbol,
			Name:              sa.asset.Name,
			AllocationPercent: round1(allocationPercent),
			InvestedAmount:    round2(invested),
			ProjectedValue:    round2(projected),
			ReturnPercent:     math.Round((projectedReturn-1)*10000) / 100,
		})

		currentValue += round2(projected)
		riskScoreSum += sa.asset.MomentumScore.RiskLevel.Score()
	}

	totalReturn := currentValue - initial
	totalReturnPercent := totalReturn / initial * 100

	return &contracts.PortfolioSimulation{
		InitialInvestment:  initial,
		TargetAmount:       target,
		CurrentValue:       round2(currentValue),
		TotalReturn:        round2(totalReturn),
		TotalReturnPercent: round2(totalReturnPercent),
		Allocations:        allocations,
		ProjectedDays:      projectedDays(totalReturnPercent, target/initial, cfg),
		RiskScore:          int(math.Round(float64(riskScoreSum) / float64(len(selected)))),
		RiskProfile:        profile,
	}, nil
}

// profileScore ranks one candidate for a profile. Low leans on
// confidence and market-cap magnitude and punishes risk hard; high
// chases potential and recent volatility; medium sits between.
func profileScore(asset contracts.ScannedAsset, profile contracts.RiskProfile) float64 {
	base := float64(asset.MomentumScore.OverallScore)
	confidence := float64(asset.MomentumScore.Confidence)
	potential := asset.MomentumScore.PotentialMultiplier
	riskBucket := float64(asset.MomentumScore.RiskLevel.Rank())
	marketCapStrength := math.Log10(math.Max(asset.MarketCap, 1))
	weeklyVolatility := math.Abs(asset.PriceChange7d)

	switch profile {
	case contracts.ProfileLow:
		return base*0.58 +
			confidence*0.26 +
			marketCapStrength*3.2 -
			riskBucket*13 -
			weeklyVolatility*0.16
	case contracts.ProfileHigh:
		return base*0.45 +
			potential*13 +
			math.Max(asset.PriceChange7d, 0)*0.35 +
			weeklyVolatility*0.18 -
			riskBucket*4
	default:
		return base*0.57 +
			potential*9 +
			confidence*0.16 -
			riskBucket*7 -
			weeklyVolatility*0.08
	}
}

// allocationWeight converts a profile score into a portfolio weight.
// Low dampens weight by risk bucket, high amplifies it.
func allocationWeight(sa scoredAsset, profile contracts.RiskProfile, exponent float64) float64 {
	riskBucket := float64(sa.asset.MomentumScore.RiskLevel.Rank())
	baseWeight := math.Pow(math.Max(22, sa.score+70), exponent)

	switch profile {
	case contracts.ProfileLow:
		return baseWeight * math.Max(0.65, 1-(riskBucket-1)*0.14)
	case contracts.ProfileHigh:
		return baseWeight * (1 + (riskBucket-2)*0.12)
	default:
		return baseWeight
	}
}

// projectedDays estimates days to hit the target multiple by treating
// the projected return as accrued over the profile horizon, deriving
// an implied daily rate, then solving the compound-growth equation.
func projectedDays(totalReturnPercent, multiplierNeeded float64, cfg ProfileConfig) int {
	dailyReturn := totalReturnPercent / float64(cfg.ProjectionHorizon)

	days := cfg.MaxProjectedDays
	if dailyReturn > 0 {
		days = int(math.Ceil(math.Log(multiplierNeeded) / math.Log(1+dailyReturn/100)))
	}

	if days > cfg.MaxProjectedDays {
		days = cfg.MaxProjectedDays
	}
	if days < minProjectedDays {
		days = minProjectedDays
	}
	return days
}

func riskAllowed(level contracts.RiskLevel, allowed []contracts.RiskLevel) bool {
	for _, a := range allowed {
		if a == level {
			return true
		}
	}
	return false
}

// sortByScoreDesc is a stable insertion sort; pools are tiny and ties
// must keep scan order
func sortByScoreDesc(pool []scoredAsset) {
	for i := 1; i < len(pool); i++ {
		for j := i; j > 0 && pool[j].score > pool[j-1].score; j-- {
			pool[j], pool[j-1] = pool[j-1], pool[j]
		}
	}
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
