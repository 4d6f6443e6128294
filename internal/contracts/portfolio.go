package contracts

import "fmt"

// RiskProfile steers portfolio construction toward safer or more
// speculative assets. Closed enumeration: exactly low, medium, high.
type RiskProfile string

const (
	ProfileLow    RiskProfile = "low"
	ProfileMedium RiskProfile = "medium"
	ProfileHigh   RiskProfile = "high"
)

// ParseRiskProfile validates a caller-supplied profile string
func ParseRiskProfile(s string) (RiskProfile, error) {
	switch RiskProfile(s) {
	case ProfileLow, ProfileMedium, ProfileHigh:
		return RiskProfile(s), nil
	case "":
		return ProfileMedium, nil
	default:
		return "", fmt.Errorf("invalid risk profile %q (want low|medium|high)", s)
	}
}

// Allocation is one asset's share of the simulated portfolio
type Allocation struct {
	AssetID           string  `json:"asset_id"`
	Symbol            string  `json:"symbol"`
	Name              string  `json:"name"`
	AllocationPercent float64 `json:"allocation_percent"`
	InvestedAmount    float64 `json:"invested_amount"`
	ProjectedValue    float64 `json:"projected_value"`
	ReturnPercent     float64 `json:"return_percent"`
}

// PortfolioSimulation is the aggregate simulation result. Computed
// fresh from live scanner output on every request; never persisted.
type PortfolioSimulation struct {
	InitialInvestment  float64      `json:"initial_investment"`
	TargetAmount       float64      `json:"target_amount"`
	CurrentValue       float64      `json:"current_value"`
	TotalReturn        float64      `json:"total_return"`
	TotalReturnPercent float64      `json:"total_return_percent"`
	Allocations        []Allocation `json:"allocations"`
	ProjectedDays      int          `json:"projected_days"`
	RiskScore          int          `json:"risk_score"`
	RiskProfile        RiskProfile  `json:"risk_profile"`
}

// TotalAllocationPercent returns the sum of all allocation percentages
func (p *PortfolioSimulation) TotalAllocationPercent() float64 {
	total := 0.0
	for _, a := range p.Allocations {
		total += a.AllocationPercent
	}
	return total
}

// Count returns the number of allocations
func (p *PortfolioSimulation) Count() int {
	return len(p.Allocations)
}
