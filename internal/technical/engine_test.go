package technical

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/coinpulse/internal/contracts"
	"github.com/wonny/coinpulse/pkg/logger"
)

func testEngine() *Engine {
	return NewEngine(logger.NewNop())
}

func rising(n int, step float64) []float64 {
	prices := make([]float64, n)
	price := 100.0
	for i := range prices {
		prices[i] = price
		price += step
	}
	return prices
}

func risingPct(n int, pct float64) []float64 {
	prices := make([]float64, n)
	price := 100.0
	for i := range prices {
		prices[i] = price
		price *= 1 + pct
	}
	return prices
}

func falling(n int, step float64) []float64 {
	prices := make([]float64, n)
	price := 1000.0
	for i := range prices {
		prices[i] = price
		price -= step
	}
	return prices
}

func flat(n int, v float64) []float64 {
	prices := make([]float64, n)
	for i := range prices {
		prices[i] = v
	}
	return prices
}

func TestRSI_ShortSeries(t *testing.T) {
	e := testEngine()

	assert.Nil(t, e.RSI(nil, 14))
	assert.Nil(t, e.RSI(rising(14, 1), 14), "period+1 points required")
	assert.NotNil(t, e.RSI(rising(15, 1), 14))
}

func TestRSI_AllGains(t *testing.T) {
	e := testEngine()

	// Strictly increasing series: zero average loss, RSI exactly 100
	rsi := e.RSI(risingPct(15, 0.01), 14)
	require.NotNil(t, rsi)
	assert.Equal(t, 100.0, *rsi)
	assert.Equal(t, contracts.BandOverbought, rsiSignal(rsi))
}

func TestRSI_AllLosses(t *testing.T) {
	e := testEngine()

	rsi := e.RSI(falling(15, 5), 14)
	require.NotNil(t, rsi)
	assert.Equal(t, 0.0, *rsi)
	assert.Equal(t, contracts.BandOversold, rsiSignal(rsi))
}

func TestRSI_Bounded(t *testing.T) {
	e := testEngine()

	// Alternating gains and losses keep RSI inside (0, 100)
	prices := make([]float64, 40)
	price := 100.0
	for i := range prices {
		prices[i] = price
		if i%2 == 0 {
			price += 3
		} else {
			price -= 2
		}
	}

	rsi := e.RSI(prices, 14)
	require.NotNil(t, rsi)
	assert.Greater(t, *rsi, 0.0)
	assert.Less(t, *rsi, 100.0)
}

func TestRSISignal_StrictBoundaries(t *testing.T) {
	assert.Equal(t, contracts.BandNeutral, rsiSignal(floatPtr(70)), "exactly 70 is neutral")
	assert.Equal(t, contracts.BandOverbought, rsiSignal(floatPtr(70.0001)))
	assert.Equal(t, contracts.BandNeutral, rsiSignal(floatPtr(30)), "exactly 30 is neutral")
	assert.Equal(t, contracts.BandOversold, rsiSignal(floatPtr(29.9999)))
	assert.Equal(t, contracts.BandNeutral, rsiSignal(nil))
}

func TestMACD_ShortSeries(t *testing.T) {
	e := testEngine()

	assert.Nil(t, e.MACD(rising(34, 1), 12, 26, 9), "slow+signal points required")
	assert.NotNil(t, e.MACD(rising(35, 1), 12, 26, 9))
}

func TestMACD_TrendMatchesHistogram(t *testing.T) {
	e := testEngine()

	up := e.MACD(risingPct(60, 0.01), 12, 26, 9)
	require.NotNil(t, up)
	assert.Greater(t, up.Histogram, 0.0)
	assert.Equal(t, contracts.TrendBullish, up.Signal)

	down := e.MACD(falling(60, 5), 12, 26, 9)
	require.NotNil(t, down)
	assert.Less(t, down.Histogram, 0.0)
	assert.Equal(t, contracts.TrendBearish, down.Signal)
}

func TestEMASeries(t *testing.T) {
	e := testEngine()

	assert.Nil(t, e.EMASeries(rising(5, 1), 10))
	assert.Nil(t, e.EMASeries(rising(5, 1), 0))

	// Constant series: every EMA value equals the constant
	series := e.EMASeries(flat(30, 42), 12)
	require.Len(t, series, 19)
	for _, v := range series {
		assert.Equal(t, 42.0, v)
	}
}

func TestBollingerBands(t *testing.T) {
	e := testEngine()

	assert.Nil(t, e.BollingerBands(rising(19, 1), 20, 2.0))

	bb := e.BollingerBands(rising(40, 1), 20, 2.0)
	require.NotNil(t, bb)

	assert.Greater(t, bb.Upper, bb.Middle)
	assert.Less(t, bb.Lower, bb.Middle)
	assert.Greater(t, bb.Bandwidth, 0.0)

	// Last price of a steady ramp sits near the top of the band
	assert.Greater(t, bb.PercentB, 0.8)
	assert.Equal(t, contracts.BandOverbought, bb.Signal)

	down := e.BollingerBands(falling(40, 5), 20, 2.0)
	require.NotNil(t, down)
	assert.Less(t, down.PercentB, 0.2)
	assert.Equal(t, contracts.BandOversold, down.Signal)
}

func TestBollingerBands_FlatSeries(t *testing.T) {
	e := testEngine()

	bb := e.BollingerBands(flat(25, 100), 20, 2.0)
	require.NotNil(t, bb)

	assert.Equal(t, bb.Upper, bb.Lower)
	assert.Equal(t, 100.0, bb.Middle)
	assert.Equal(t, 0.0, bb.Bandwidth)
	assert.Equal(t, contracts.BandNeutral, bb.Signal)
}

func TestSMA(t *testing.T) {
	e := testEngine()

	assert.Nil(t, e.SMA([]float64{1, 2, 3}, 5))
	assert.Nil(t, e.SMA([]float64{1, 2, 3}, 0))

	sma := e.SMA([]float64{1, 2, 3, 4, 5}, 5)
	require.NotNil(t, sma)
	assert.Equal(t, 3.0, *sma)

	// Only the trailing window counts
	sma = e.SMA([]float64{100, 100, 1, 2, 3}, 3)
	require.NotNil(t, sma)
	assert.Equal(t, 2.0, *sma)
}

func TestStochastic(t *testing.T) {
	e := testEngine()

	closes := rising(30, 1)
	highs := make([]float64, len(closes))
	lows := make([]float64, len(closes))
	for i, c := range closes {
		highs[i] = c + 1
		lows[i] = c - 1
	}

	assert.Nil(t, e.Stochastic(highs[:16], lows[:16], closes[:16], 14, 3), "kPeriod+dPeriod bars required")

	st := e.Stochastic(highs, lows, closes, 14, 3)
	require.NotNil(t, st)
	assert.Greater(t, st.K, 80.0)
	assert.Greater(t, st.D, 80.0)
	assert.Equal(t, contracts.BandOverbought, st.Signal)
}

func TestStochastic_FlatWindow(t *testing.T) {
	e := testEngine()

	closes := flat(20, 100)
	st := e.Stochastic(closes, closes, closes, 14, 3)
	require.NotNil(t, st)

	assert.Equal(t, 50.0, st.K, "flat window defaults to 50")
	assert.Equal(t, 50.0, st.D)
	assert.Equal(t, contracts.BandNeutral, st.Signal)
}

func TestATR(t *testing.T) {
	e := testEngine()

	n := 20
	highs := flat(n, 11)
	lows := flat(n, 9)
	closes := flat(n, 10)

	assert.Nil(t, e.ATR(highs[:14], lows[:14], closes[:14], 14))

	atr := e.ATR(highs, lows, closes, 14)
	require.NotNil(t, atr)
	assert.InDelta(t, 2.0, *atr, 1e-9, "constant 2-point range gives ATR exactly 2")
}

func TestMomentum(t *testing.T) {
	e := testEngine()

	assert.Nil(t, e.Momentum(rising(10, 1), 10))

	m := e.Momentum(rising(20, 1), 10)
	require.NotNil(t, m)
	assert.Equal(t, 10.0, *m)
}

func TestVolumeAnalysis(t *testing.T) {
	e := testEngine()

	assert.Nil(t, e.VolumeAnalysis(0, 100), "both figures required")
	assert.Nil(t, e.VolumeAnalysis(100, 0))

	high := e.VolumeAnalysis(200, 100)
	require.NotNil(t, high)
	assert.Equal(t, 2.0, high.VolumeRatio)
	assert.Equal(t, contracts.VolumeHigh, high.Signal)

	low := e.VolumeAnalysis(30, 100)
	require.NotNil(t, low)
	assert.Equal(t, contracts.VolumeLow, low.Signal)

	normal := e.VolumeAnalysis(100, 100)
	require.NotNil(t, normal)
	assert.Equal(t, contracts.VolumeNormal, normal.Signal)
}

func TestAnalyzeSparkline_ShortSeries(t *testing.T) {
	e := testEngine()

	// Five points: too short for RSI/MACD/Bollinger/momentum
	ta := e.AnalyzeSparkline(rising(5, 1), 1000, 800)

	assert.Nil(t, ta.RSI)
	assert.Equal(t, contracts.BandNeutral, ta.RSISignal)
	assert.Nil(t, ta.MACD)
	assert.Nil(t, ta.BollingerBands)
	assert.Nil(t, ta.Momentum)

	// The shrunk-window bundles still work
	assert.NotNil(t, ta.SMA)
	assert.NotNil(t, ta.EMA)
	assert.NotNil(t, ta.VolumeAnalysis)

	// Never available from a sparkline
	assert.Nil(t, ta.ATR)
	assert.Nil(t, ta.Stochastic)
}

func TestAnalyzeSparkline_EmptySeries(t *testing.T) {
	e := testEngine()

	ta := e.AnalyzeSparkline(nil, 0, 0)

	assert.Nil(t, ta.RSI)
	assert.Nil(t, ta.MACD)
	assert.Nil(t, ta.BollingerBands)
	assert.Nil(t, ta.SMA)
	assert.Nil(t, ta.EMA)
	assert.Nil(t, ta.VolumeAnalysis)
	assert.Nil(t, ta.Momentum)
}

func TestAnalyzeSparkline_FullSeries(t *testing.T) {
	e := testEngine()

	ta := e.AnalyzeSparkline(risingPct(168, 0.005), 1000, 800)

	require.NotNil(t, ta.RSI)
	assert.NotNil(t, ta.MACD)
	assert.NotNil(t, ta.BollingerBands)
	assert.NotNil(t, ta.SMA)
	assert.NotNil(t, ta.EMA)
	assert.NotNil(t, ta.VolumeAnalysis)
	assert.NotNil(t, ta.Momentum)
}

func TestAnalyzeOHLC(t *testing.T) {
	e := testEngine()

	bars := make([]contracts.OHLCBar, 60)
	price := 100.0
	for i := range bars {
		bars[i] = contracts.OHLCBar{
			Open:  price,
			High:  price * 1.02,
			Low:   price * 0.99,
			Close: price * 1.01,
		}
		price *= 1.01
	}

	ta := e.AnalyzeOHLC(bars)

	assert.NotNil(t, ta.RSI)
	assert.NotNil(t, ta.MACD)
	assert.NotNil(t, ta.BollingerBands)
	assert.NotNil(t, ta.SMA)
	assert.NotNil(t, ta.EMA)
	assert.NotNil(t, ta.ATR)
	assert.NotNil(t, ta.Stochastic)
	assert.NotNil(t, ta.Momentum)

	assert.Nil(t, ta.VolumeAnalysis, "OHLC bars carry no volume")
}

func TestSMABundle_CrossDetection(t *testing.T) {
	e := testEngine()

	// Long uptrend: the 50-period mean sits above the 200-period mean
	up := rising(250, 1)
	ta := e.AnalyzeOHLC(barsFromCloses(up))
	require.NotNil(t, ta.SMA)
	assert.True(t, ta.SMA.GoldenCross)
	assert.False(t, ta.SMA.DeathCross)

	down := falling(250, 2)
	ta = e.AnalyzeOHLC(barsFromCloses(down))
	require.NotNil(t, ta.SMA)
	assert.False(t, ta.SMA.GoldenCross)
	assert.True(t, ta.SMA.DeathCross)
}

func TestSMABundle_ShortHistoryShrinksWindows(t *testing.T) {
	e := testEngine()

	// 30 closes: the 50 and 200 windows both shrink to the full series,
	// so they coincide and no cross can be read.
	ta := e.AnalyzeOHLC(barsFromCloses(rising(30, 1)))
	require.NotNil(t, ta.SMA)

	assert.Equal(t, 114.5, ta.SMA.SMA50, "full-series mean")
	assert.Equal(t, ta.SMA.SMA50, ta.SMA.SMA200)
	assert.Equal(t, 119.5, ta.SMA.SMA20, "last-20 mean sits above it on an uptrend")
	assert.False(t, ta.SMA.GoldenCross)
	assert.False(t, ta.SMA.DeathCross)
}

func TestSMABundle_SparklineCrossUsesShrunkWindows(t *testing.T) {
	e := testEngine()

	// 168 hourly points, steadily rising: the last-50 mean sits above
	// the full-series mean, which is what the 200 window shrinks to.
	ta := e.AnalyzeSparkline(risingPct(168, 0.01), 1000, 800)
	require.NotNil(t, ta.SMA)

	assert.Greater(t, ta.SMA.SMA50, ta.SMA.SMA200)
	assert.True(t, ta.SMA.GoldenCross)
	assert.False(t, ta.SMA.DeathCross)

	down := e.AnalyzeSparkline(falling(168, 2), 1000, 800)
	require.NotNil(t, down.SMA)
	assert.Less(t, down.SMA.SMA50, down.SMA.SMA200)
	assert.True(t, down.SMA.DeathCross)
}

func TestEMABundle_Direction(t *testing.T) {
	e := testEngine()

	up := e.emaBundle(risingPct(60, 0.01), 12, 26)
	require.NotNil(t, up)
	assert.Equal(t, contracts.TrendBullish, up.Signal)

	down := e.emaBundle(falling(60, 5), 12, 26)
	require.NotNil(t, down)
	assert.Equal(t, contracts.TrendBearish, down.Signal)
}

func barsFromCloses(closes []float64) []contracts.OHLCBar {
	bars := make([]contracts.OHLCBar, len(closes))
	for i, c := range closes {
		bars[i] = contracts.OHLCBar{Open: c, High: c + 1, Low: c - 1, Close: c}
	}
	return bars
}
