package momentum

import (
	"math"

	"github.com/wonny/coinpulse/internal/contracts"
	"github.com/wonny/coinpulse/pkg/logger"
)

// Per-indicator weights for the technical sub-score. An absent
// indicator contributes neither to the numerator nor the denominator;
// the result is always re-normalized over the weight actually present.
const (
	weightRSI        = 20.0
	weightMACD       = 20.0
	weightBollinger  = 15.0
	weightSMA        = 15.0
	weightEMA        = 10.0
	weightVolume     = 10.0
	weightStochastic = 5.0
	weightMomentum   = 5.0
)

// Blend of the two sub-scores into the overall score
const (
	technicalBlend   = 0.6
	fundamentalBlend = 0.4
)

// Engine fuses technical indicators and fundamental analysis into the
// final momentum score.
// SSOT: grade, signal, risk and confidence policy lives here only.
type Engine struct {
	logger *logger.Logger
}

// NewEngine creates a new momentum scoring engine
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{logger: log}
}

// contribution is one indicator's entry in the weighted accumulator
type contribution struct {
	present bool
	weight  float64
	score   float64
}

// TechnicalScore reduces the indicator record to a single 0-100 value.
// Defaults to 50 when no indicator is available at all.
func (e *Engine) TechnicalScore(ta contracts.TechnicalIndicators) int {
	contributions := []contribution{
		{ta.RSI != nil, weightRSI, rsiScore(ta.RSI)},
		{ta.MACD != nil, weightMACD, macdScore(ta.MACD)},
		{ta.BollingerBands != nil, weightBollinger, bollingerScore(ta.BollingerBands)},
		{ta.SMA != nil, weightSMA, smaScore(ta.SMA)},
		{ta.EMA != nil, weightEMA, emaScore(ta.EMA)},
		{ta.VolumeAnalysis != nil, weightVolume, volumeScore(ta.VolumeAnalysis)},
		{ta.Stochastic != nil, weightStochastic, stochasticScore(ta.Stochastic)},
		{ta.Momentum != nil, weightMomentum, momentumScore(ta.Momentum)},
	}

	var score, weights float64
	for _, c := range contributions {
		if !c.present {
			continue
		}
		score += c.score * c.weight
		weights += c.weight
	}

	if weights == 0 {
		return 50
	}
	return int(math.Round(score / weights))
}

func rsiScore(rsi *float64) float64 {
	if rsi == nil {
		return 0
	}
	switch {
	case *rsi < 30:
		return 85 // oversold reads as buying opportunity
	case *rsi < 40:
		return 70
	case *rsi > 70:
		return 25 // overbought reads as risk
	case *rsi > 60:
		return 40
	default:
		return 55 // neutral band leans slightly positive
	}
}

func macdScore(macd *contracts.MACDResult) float64 {
	if macd == nil {
		return 0
	}
	switch macd.Signal {
	case contracts.TrendBullish:
		if macd.Histogram > 0 {
			return 80
		}
		return 65
	case contracts.TrendBearish:
		if macd.Histogram < 0 {
			return 20
		}
		return 35
	default:
		return 50
	}
}

func bollingerScore(bb *contracts.BollingerResult) float64 {
	if bb == nil {
		return 0
	}
	switch bb.Signal {
	case contracts.BandOversold:
		return 80
	case contracts.BandOverbought:
		return 25
	default:
		return 55
	}
}

func smaScore(sma *contracts.SMABundle) float64 {
	if sma == nil {
		return 0
	}
	if sma.GoldenCross {
		return 90
	}
	if sma.DeathCross {
		return 15
	}
	return 50
}

func emaScore(ema *contracts.EMABundle) float64 {
	if ema == nil {
		return 0
	}
	if ema.Signal == contracts.TrendBullish {
		return 75
	}
	return 30
}

func volumeScore(vol *contracts.VolumeResult) float64 {
	if vol == nil {
		return 0
	}
	switch vol.Signal {
	case contracts.VolumeHigh:
		return 80
	case contracts.VolumeLow:
		return 30
	default:
		return 50
	}
}

func stochasticScore(st *contracts.StochasticResult) float64 {
	if st == nil {
		return 0
	}
	switch st.Signal {
	case contracts.BandOversold:
		return 80
	case contracts.BandOverbought:
		return 25
	default:
		return 50
	}
}

func momentumScore(m *float64) float64 {
	if m == nil {
		return 0
	}
	if *m > 0 {
		return 70
	}
	return 30
}

// GradeFor maps an overall score to a letter grade
func GradeFor(score int) contracts.Grade {
	switch {
	case score >= 90:
		return contracts.GradeAPlus
	case score >= 80:
		return contracts.GradeA
	case score >= 70:
		return contracts.GradeBPlus
	case score >= 60:
		return contracts.GradeB
	case score >= 50:
		return contracts.GradeCPlus
	case score >= 40:
		return contracts.GradeC
	case score >= 30:
		return contracts.GradeD
	default:
		return contracts.GradeF
	}
}

// SignalFor maps an overall score to a trade signal
func SignalFor(score int) contracts.TradeSignal {
	switch {
	case score >= 80:
		return contracts.SignalStrongBuy
	case score >= 65:
		return contracts.SignalBuy
	case score >= 45:
		return contracts.SignalHold
	case score >= 30:
		return contracts.SignalSell
	default:
		return contracts.SignalStrongSell
	}
}

// RiskLevel buckets an additive risk score built from four independent
// contributions: thin market cap, wide Bollinger bands, extreme RSI,
// and weak developer/community backing.
func (e *Engine) RiskLevel(ta contracts.TechnicalIndicators, fa contracts.FundamentalAnalysis) contracts.RiskLevel {
	riskScore := 0

	// Market cap risk
	switch {
	case fa.MarketCapScore < 30:
		riskScore += 3
	case fa.MarketCapScore < 50:
		riskScore += 2
	case fa.MarketCapScore < 70:
		riskScore++
	}

	// Volatility risk (Bollinger bandwidth)
	if bb := ta.BollingerBands; bb != nil {
		if bb.Bandwidth > 0.15 {
			riskScore += 2
		} else if bb.Bandwidth > 0.08 {
			riskScore++
		}
	}

	// RSI extremes
	if ta.RSI != nil {
		if *ta.RSI > 85 || *ta.RSI < 15 {
			riskScore += 2
		} else if *ta.RSI > 75 || *ta.RSI < 25 {
			riskScore++
		}
	}

	// Developer/community risk
	if fa.DeveloperScore < 30 {
		riskScore++
	}
	if fa.CommunityScore < 30 {
		riskScore++
	}

	switch {
	case riskScore >= 7:
		return contracts.RiskExtreme
	case riskScore >= 5:
		return contracts.RiskHigh
	case riskScore >= 3:
		return contracts.RiskMedium
	default:
		return contracts.RiskLow
	}
}

// PotentialMultiplier estimates speculative upside. Hand-tuned policy
// constants; clamped to [1.0, 10.0] and rounded to one decimal.
func (e *Engine) PotentialMultiplier(ta contracts.TechnicalIndicators, fa contracts.FundamentalAnalysis, priceChange30d float64) float64 {
	base := 1.0

	// Oversold with good fundamentals is the strongest setup
	if ta.RSI != nil && *ta.RSI < 30 && fa.OverallScore > 60 {
		base += 2.0
	} else if ta.RSI != nil && *ta.RSI < 40 {
		base += 1.0
	}

	if ta.MACD != nil && ta.MACD.Signal == contracts.TrendBullish {
		base += 0.5
	}

	if fa.ATHRecoveryPotential > 80 {
		base += 1.5
	} else if fa.ATHRecoveryPotential > 60 {
		base += 0.8
	}

	if ta.VolumeAnalysis != nil && ta.VolumeAnalysis.Signal == contracts.VolumeHigh {
		base += 0.5
	}

	// Recent momentum
	if priceChange30d < -30 {
		base += 1.0 // bounce potential
	} else if priceChange30d > 50 {
		base -= 0.5 // already extended
	}

	if fa.CommunityScore > 70 && fa.DeveloperScore > 70 {
		base += 0.5
	}

	if base < 1.0 {
		base = 1.0
	}
	if base > 10.0 {
		base = 10.0
	}
	return math.Round(base*10) / 10
}

// Confidence estimates how much to trust the score: more indicators
// present and more directional agreement both raise it.
// Clamped to [20, 95].
func (e *Engine) Confidence(ta contracts.TechnicalIndicators, fa contracts.FundamentalAnalysis) int {
	confidence := 50

	if ta.RSI != nil {
		confidence += 5
	}
	if ta.MACD != nil {
		confidence += 5
	}
	if ta.BollingerBands != nil {
		confidence += 5
	}
	if ta.SMA != nil {
		confidence += 3
	}
	if ta.EMA != nil {
		confidence += 3
	}
	if ta.VolumeAnalysis != nil {
		confidence += 5
	}
	if ta.Stochastic != nil {
		confidence += 3
	}

	// Directional agreement across RSI, MACD and EMA
	signals := make([]contracts.TrendSignal, 0, 3)
	if ta.RSI != nil {
		if *ta.RSI < 50 {
			signals = append(signals, contracts.TrendBullish)
		} else {
			signals = append(signals, contracts.TrendBearish)
		}
	}
	if ta.MACD != nil {
		signals = append(signals, ta.MACD.Signal)
	}
	if ta.EMA != nil {
		signals = append(signals, ta.EMA.Signal)
	}

	var bullish, bearish int
	for _, s := range signals {
		switch s {
		case contracts.TrendBullish:
			bullish++
		case contracts.TrendBearish:
			bearish++
		}
	}

	if bullish == len(signals) || bearish == len(signals) {
		confidence += 15 // unanimous
	} else if float64(bullish) >= float64(len(signals))*0.7 || float64(bearish) >= float64(len(signals))*0.7 {
		confidence += 8
	}

	if fa.CommunityScore > 0 {
		confidence += 3
	}
	if fa.DeveloperScore > 0 {
		confidence += 3
	}

	if confidence > 95 {
		confidence = 95
	}
	if confidence < 20 {
		confidence = 20
	}
	return confidence
}

// Calculate produces the complete momentum score for one asset
func (e *Engine) Calculate(ta contracts.TechnicalIndicators, fa contracts.FundamentalAnalysis, priceChange30d float64) contracts.MomentumScore {
	technicalScore := e.TechnicalScore(ta)
	fundamentalScore := fa.OverallScore

	overall := int(math.Round(float64(technicalScore)*technicalBlend + float64(fundamentalScore)*fundamentalBlend))

	return contracts.MomentumScore{
		TechnicalScore:      technicalScore,
		FundamentalScore:    fundamentalScore,
		OverallScore:        overall,
		Grade:               GradeFor(overall),
		Signal:              SignalFor(overall),
		RiskLevel:           e.RiskLevel(ta, fa),
		PotentialMultiplier: e.PotentialMultiplier(ta, fa, priceChange30d),
		Confidence:          e.Confidence(ta, fa),
	}
}
