package contracts

// Grade is the letter grade derived from the overall score
type Grade string

const (
	GradeAPlus Grade = "A+"
	GradeA     Grade = "A"
	GradeBPlus Grade = "B+"
	GradeB     Grade = "B"
	GradeCPlus Grade = "C+"
	GradeC     Grade = "C"
	GradeD     Grade = "D"
	GradeF     Grade = "F"
)

// TradeSignal is the advisory action derived from the overall score
type TradeSignal string

const (
	SignalStrongBuy  TradeSignal = "STRONG BUY"
	SignalBuy        TradeSignal = "BUY"
	SignalHold       TradeSignal = "HOLD"
	SignalSell       TradeSignal = "SELL"
	SignalStrongSell TradeSignal = "STRONG SELL"
)

// RiskLevel buckets the additive risk score
type RiskLevel string

const (
	RiskLow     RiskLevel = "LOW"
	RiskMedium  RiskLevel = "MEDIUM"
	RiskHigh    RiskLevel = "HIGH"
	RiskExtreme RiskLevel = "EXTREME"
)

// Rank orders risk levels for profile filtering (LOW=1 .. EXTREME=4)
func (r RiskLevel) Rank() int {
	switch r {
	case RiskLow:
		return 1
	case RiskMedium:
		return 2
	case RiskHigh:
		return 3
	case RiskExtreme:
		return 4
	default:
		return 0
	}
}

// Score maps a risk level to the numeric score used for portfolio-level
// risk averaging
func (r RiskLevel) Score() int {
	switch r {
	case RiskLow:
		return 20
	case RiskMedium:
		return 40
	case RiskHigh:
		return 65
	case RiskExtreme:
		return 90
	default:
		return 50
	}
}

// MomentumScore is the terminal per-asset scoring output and the
// sort/filter key for the scanner.
type MomentumScore struct {
	TechnicalScore   int `json:"technical_score"`
	FundamentalScore int `json:"fundamental_score"`
	OverallScore     int `json:"overall_score"`

	Grade     Grade       `json:"grade"`
	Signal    TradeSignal `json:"signal"`
	RiskLevel RiskLevel   `json:"risk_level"`

	// Speculative upside estimate, 1.0-10.0, one decimal place
	PotentialMultiplier float64 `json:"potential_multiplier"`

	// 20-95
	Confidence int `json:"confidence"`
}
