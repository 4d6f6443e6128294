package momentum

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/wonny/coinpulse/internal/contracts"
	"github.com/wonny/coinpulse/pkg/logger"
)

func testEngine() *Engine {
	return NewEngine(logger.NewNop())
}

func f64(v float64) *float64 { return &v }

func TestTechnicalScore_NoIndicators(t *testing.T) {
	e := testEngine()

	assert.Equal(t, 50, e.TechnicalScore(contracts.TechnicalIndicators{}))
}

func TestTechnicalScore_SingleIndicatorNormalizes(t *testing.T) {
	e := testEngine()

	// Only RSI present: its score carries full weight
	ta := contracts.TechnicalIndicators{RSI: f64(25)}
	assert.Equal(t, 85, e.TechnicalScore(ta), "oversold RSI alone")

	ta = contracts.TechnicalIndicators{RSI: f64(75)}
	assert.Equal(t, 25, e.TechnicalScore(ta), "overbought RSI alone")

	// Only a golden-cross SMA bundle
	ta = contracts.TechnicalIndicators{SMA: &contracts.SMABundle{GoldenCross: true}}
	assert.Equal(t, 90, e.TechnicalScore(ta))
}

func TestTechnicalScore_WeightedPair(t *testing.T) {
	e := testEngine()

	// RSI 85 (weight 20) + bullish-histogram MACD 80 (weight 20):
	// (85*20 + 80*20) / 40 = 82.5, rounds to 83
	ta := contracts.TechnicalIndicators{
		RSI:  f64(25),
		MACD: &contracts.MACDResult{Signal: contracts.TrendBullish, Histogram: 1.5},
	}
	assert.Equal(t, 83, e.TechnicalScore(ta))
}

func TestTechnicalScore_MACDHistogramDisagreement(t *testing.T) {
	e := testEngine()

	// Bullish crossover but histogram still negative scores 65, not 80
	ta := contracts.TechnicalIndicators{
		MACD: &contracts.MACDResult{Signal: contracts.TrendBullish, Histogram: -0.2},
	}
	assert.Equal(t, 65, e.TechnicalScore(ta))

	ta.MACD = &contracts.MACDResult{Signal: contracts.TrendBearish, Histogram: 0.2}
	assert.Equal(t, 35, e.TechnicalScore(ta))
}

func TestCalculate_BlendsSixtyForty(t *testing.T) {
	e := testEngine()

	ta := contracts.TechnicalIndicators{RSI: f64(25)} // technical 85
	fa := contracts.FundamentalAnalysis{OverallScore: 60}

	score := e.Calculate(ta, fa, 0)
	assert.Equal(t, 85, score.TechnicalScore)
	assert.Equal(t, 60, score.FundamentalScore)
	// 85*0.6 + 60*0.4 = 75
	assert.Equal(t, 75, score.OverallScore)
	assert.Equal(t, contracts.GradeBPlus, score.Grade)
	assert.Equal(t, contracts.SignalBuy, score.Signal)
}

func TestCalculate_NoDataIsNeutralHold(t *testing.T) {
	e := testEngine()

	score := e.Calculate(contracts.TechnicalIndicators{}, contracts.FundamentalAnalysis{OverallScore: 50}, 0)
	assert.Equal(t, 50, score.OverallScore)
	assert.Equal(t, contracts.SignalHold, score.Signal)
	assert.Equal(t, contracts.GradeCPlus, score.Grade)
}

func TestGradeFor(t *testing.T) {
	tests := []struct {
		score int
		want  contracts.Grade
	}{
		{95, contracts.GradeAPlus},
		{90, contracts.GradeAPlus},
		{89, contracts.GradeA},
		{80, contracts.GradeA},
		{79, contracts.GradeBPlus},
		{70, contracts.GradeBPlus},
		{60, contracts.GradeB},
		{50, contracts.GradeCPlus},
		{40, contracts.GradeC},
		{30, contracts.GradeD},
		{29, contracts.GradeF},
		{0, contracts.GradeF},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, GradeFor(tt.score), "score %d", tt.score)
	}
}

func TestSignalFor(t *testing.T) {
	tests := []struct {
		score int
		want  contracts.TradeSignal
	}{
		{90, contracts.SignalStrongBuy},
		{80, contracts.SignalStrongBuy},
		{79, contracts.SignalBuy},
		{65, contracts.SignalBuy},
		{64, contracts.SignalHold},
		{45, contracts.SignalHold},
		{44, contracts.SignalSell},
		{30, contracts.SignalSell},
		{29, contracts.SignalStrongSell},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SignalFor(tt.score), "score %d", tt.score)
	}
}

func TestRiskLevel_Buckets(t *testing.T) {
	e := testEngine()

	// Blue chip: high cap score, calm bands, mid RSI
	low := e.RiskLevel(
		contracts.TechnicalIndicators{
			RSI:            f64(55),
			BollingerBands: &contracts.BollingerResult{Bandwidth: 0.05},
		},
		contracts.FundamentalAnalysis{MarketCapScore: 95, DeveloperScore: 80, CommunityScore: 80},
	)
	assert.Equal(t, contracts.RiskLow, low)

	// Mid cap with some volatility: 1 (cap<70) + 1 (bandwidth>0.08) + 1 (RSI>75) = 3
	medium := e.RiskLevel(
		contracts.TechnicalIndicators{
			RSI:            f64(78),
			BollingerBands: &contracts.BollingerResult{Bandwidth: 0.10},
		},
		contracts.FundamentalAnalysis{MarketCapScore: 65, DeveloperScore: 50, CommunityScore: 50},
	)
	assert.Equal(t, contracts.RiskMedium, medium)

	// Micro cap, wild bands, extreme RSI: 3 + 2 + 2 = 7
	extreme := e.RiskLevel(
		contracts.TechnicalIndicators{
			RSI:            f64(90),
			BollingerBands: &contracts.BollingerResult{Bandwidth: 0.30},
		},
		contracts.FundamentalAnalysis{MarketCapScore: 20, DeveloperScore: 60, CommunityScore: 60},
	)
	assert.Equal(t, contracts.RiskExtreme, extreme)

	// Same but with weak dev/community: already at 7, stays extreme;
	// without RSI data: 3 + 2 + 1 + 1 = 7
	extreme = e.RiskLevel(
		contracts.TechnicalIndicators{
			BollingerBands: &contracts.BollingerResult{Bandwidth: 0.30},
		},
		contracts.FundamentalAnalysis{MarketCapScore: 20, DeveloperScore: 10, CommunityScore: 10},
	)
	assert.Equal(t, contracts.RiskExtreme, extreme)
}

func TestRiskLevel_MissingIndicatorsAddNoRisk(t *testing.T) {
	e := testEngine()

	// No TA at all: only the fundamental contributions count
	risk := e.RiskLevel(contracts.TechnicalIndicators{}, contracts.FundamentalAnalysis{
		MarketCapScore: 95, DeveloperScore: 80, CommunityScore: 80,
	})
	assert.Equal(t, contracts.RiskLow, risk)
}

func TestPotentialMultiplier(t *testing.T) {
	e := testEngine()

	// Nothing interesting: floor of 1.0
	assert.Equal(t, 1.0, e.PotentialMultiplier(contracts.TechnicalIndicators{}, contracts.FundamentalAnalysis{}, 0))

	// Oversold + strong fundamentals + bullish MACD + deep ATH drawdown
	// + high volume + crushed 30d: 1 + 2 + 0.5 + 1.5 + 0.5 + 1 = 6.5
	ta := contracts.TechnicalIndicators{
		RSI:            f64(25),
		MACD:           &contracts.MACDResult{Signal: contracts.TrendBullish},
		VolumeAnalysis: &contracts.VolumeResult{Signal: contracts.VolumeHigh},
	}
	fa := contracts.FundamentalAnalysis{OverallScore: 70, ATHRecoveryPotential: 85}
	assert.Equal(t, 6.5, e.PotentialMultiplier(ta, fa, -40))

	// Already extended: the 30d penalty cannot push below 1.0
	assert.Equal(t, 1.0, e.PotentialMultiplier(contracts.TechnicalIndicators{}, contracts.FundamentalAnalysis{}, 80))
}

func TestPotentialMultiplier_OneDecimal(t *testing.T) {
	e := testEngine()

	// 1 + 1 (RSI<40, weak fundamentals) + 0.8 (ATH>60) = 2.8
	ta := contracts.TechnicalIndicators{RSI: f64(35)}
	fa := contracts.FundamentalAnalysis{OverallScore: 40, ATHRecoveryPotential: 70}
	assert.Equal(t, 2.8, e.PotentialMultiplier(ta, fa, 0))
}

func TestConfidence(t *testing.T) {
	e := testEngine()

	// Nothing present, no fundamentals. An empty signal list is vacuously
	// unanimous and still collects the agreement bonus.
	assert.Equal(t, 65, e.Confidence(contracts.TechnicalIndicators{}, contracts.FundamentalAnalysis{}))

	// Full indicator set, unanimous bullish, healthy fundamentals:
	// 50 + (5+5+5+3+3+5+3) + 15 + 3 + 3 = 100, clamped to 95
	ta := contracts.TechnicalIndicators{
		RSI:            f64(35), // <50 reads bullish
		MACD:           &contracts.MACDResult{Signal: contracts.TrendBullish},
		BollingerBands: &contracts.BollingerResult{},
		SMA:            &contracts.SMABundle{},
		EMA:            &contracts.EMABundle{Signal: contracts.TrendBullish},
		VolumeAnalysis: &contracts.VolumeResult{},
		Stochastic:     &contracts.StochasticResult{},
	}
	fa := contracts.FundamentalAnalysis{CommunityScore: 60, DeveloperScore: 60}
	assert.Equal(t, 95, e.Confidence(ta, fa))
}

func TestConfidence_DisagreementDropsBonus(t *testing.T) {
	e := testEngine()

	// RSI bullish, MACD bearish, EMA bullish: 2/3 bullish, below the
	// 0.7 agreement threshold, no bonus.
	// 50 + 5 + 5 + 3 = 63
	ta := contracts.TechnicalIndicators{
		RSI:  f64(35),
		MACD: &contracts.MACDResult{Signal: contracts.TrendBearish},
		EMA:  &contracts.EMABundle{Signal: contracts.TrendBullish},
	}
	assert.Equal(t, 63, e.Confidence(ta, contracts.FundamentalAnalysis{}))
}

func TestConfidence_UnanimousPair(t *testing.T) {
	e := testEngine()

	// RSI and MACD both bullish: 50 + 5 + 5 + 15 = 75
	ta := contracts.TechnicalIndicators{
		RSI:  f64(35),
		MACD: &contracts.MACDResult{Signal: contracts.TrendBullish},
	}
	assert.Equal(t, 75, e.Confidence(ta, contracts.FundamentalAnalysis{}))
}
