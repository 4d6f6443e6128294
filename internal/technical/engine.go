package technical

import (
	"math"

	"github.com/wonny/coinpulse/internal/contracts"
	"github.com/wonny/coinpulse/pkg/logger"
)

// Default indicator periods
const (
	rsiPeriod        = 14
	macdFastPeriod   = 12
	macdSlowPeriod   = 26
	macdSignalPeriod = 9
	bollingerPeriod  = 20
	bollingerStdDevK = 2.0
	stochKPeriod     = 14
	stochDPeriod     = 3
	atrPeriod        = 14
	momentumPeriod   = 10
)

// Engine computes technical indicators from price series.
// SSOT: indicator math lives here and nowhere else.
// All methods are pure: same series in, same indicators out. A series
// too short for an indicator yields a nil field, never a distorted
// statistic and never an error.
type Engine struct {
	logger *logger.Logger
}

// NewEngine creates a new technical analysis engine
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{logger: log}
}

// RSI calculates the Relative Strength Index with Wilder smoothing.
// Needs at least period+1 prices. Returns exactly 100 when the average
// loss over the lookback is zero.
func (e *Engine) RSI(prices []float64, period int) *float64 {
	if len(prices) < period+1 {
		return nil
	}

	var gains, losses float64
	for i := 1; i <= period; i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			gains += change
		} else {
			losses += -change
		}
	}

	avgGain := gains / float64(period)
	avgLoss := losses / float64(period)

	// Wilder smoothing over the remainder of the series
	for i := period + 1; i < len(prices); i++ {
		change := prices[i] - prices[i-1]
		if change > 0 {
			avgGain = (avgGain*float64(period-1) + change) / float64(period)
			avgLoss = (avgLoss * float64(period-1)) / float64(period)
		} else {
			avgGain = (avgGain * float64(period-1)) / float64(period)
			avgLoss = (avgLoss*float64(period-1) - change) / float64(period)
		}
	}

	if avgLoss == 0 {
		return floatPtr(100)
	}

	rs := avgGain / avgLoss
	return floatPtr(100 - (100 / (1 + rs)))
}

// MACD calculates Moving Average Convergence Divergence.
// Needs at least slow+signal prices. The categorical signal prefers a
// fresh crossover; without one it falls back to the histogram sign.
func (e *Engine) MACD(prices []float64, fast, slow, signalPeriod int) *contracts.MACDResult {
	if len(prices) < slow+signalPeriod {
		return nil
	}

	fastEMA := e.EMASeries(prices, fast)
	slowEMA := e.EMASeries(prices, slow)
	if len(fastEMA) == 0 || len(slowEMA) == 0 {
		return nil
	}

	// Align the two EMA series: the slow one starts slow-fast steps later
	macdLine := make([]float64, len(slowEMA))
	startIdx := slow - fast
	for i := range slowEMA {
		macdLine[i] = fastEMA[i+startIdx] - slowEMA[i]
	}

	signalLine := e.EMASeries(macdLine, signalPeriod)
	if len(signalLine) == 0 {
		return nil
	}

	lastMACD := macdLine[len(macdLine)-1]
	lastSignal := signalLine[len(signalLine)-1]
	histogram := lastMACD - lastSignal

	signal := contracts.TrendNeutral
	crossed := false
	if len(macdLine) > 1 {
		prevMACD := macdLine[len(macdLine)-2]
		prevSignal := lastSignal
		if len(signalLine) > 1 {
			prevSignal = signalLine[len(signalLine)-2]
		}

		if prevMACD <= prevSignal && lastMACD > lastSignal {
			signal = contracts.TrendBullish
			crossed = true
		} else if prevMACD >= prevSignal && lastMACD < lastSignal {
			signal = contracts.TrendBearish
			crossed = true
		}
	}
	if !crossed {
		if histogram > 0 {
			signal = contracts.TrendBullish
		} else if histogram < 0 {
			signal = contracts.TrendBearish
		}
	}

	return &contracts.MACDResult{
		MACDLine:   lastMACD,
		SignalLine: lastSignal,
		Histogram:  histogram,
		Signal:     signal,
	}
}

// EMASeries calculates the exponential moving average series.
// Needs at least period prices, else returns an empty series. The seed
// value is the SMA of the first period prices.
func (e *Engine) EMASeries(prices []float64, period int) []float64 {
	if period <= 0 || len(prices) < period {
		return nil
	}

	multiplier := 2.0 / (float64(period) + 1.0)
	ema := make([]float64, 0, len(prices)-period+1)

	var sum float64
	for i := 0; i < period; i++ {
		sum += prices[i]
	}
	ema = append(ema, sum/float64(period))

	for i := period; i < len(prices); i++ {
		prev := ema[len(ema)-1]
		ema = append(ema, (prices[i]-prev)*multiplier+prev)
	}

	return ema
}

// BollingerBands calculates band levels, %B and bandwidth over the last
// period prices. %B boundaries are strict: <0.2 oversold, >0.8
// overbought, exactly 0.2/0.8 neutral.
func (e *Engine) BollingerBands(prices []float64, period int, stdDevK float64) *contracts.BollingerResult {
	if len(prices) < period {
		return nil
	}

	window := prices[len(prices)-period:]
	var sum float64
	for _, p := range window {
		sum += p
	}
	middle := sum / float64(period)

	var variance float64
	for _, p := range window {
		variance += (p - middle) * (p - middle)
	}
	variance /= float64(period)
	stdDev := math.Sqrt(variance)

	upper := middle + stdDevK*stdDev
	lower := middle - stdDevK*stdDev

	currentPrice := prices[len(prices)-1]
	percentB := (currentPrice - lower) / (upper - lower)
	bandwidth := (upper - lower) / middle

	signal := contracts.BandNeutral
	if percentB < 0.2 {
		signal = contracts.BandOversold
	} else if percentB > 0.8 {
		signal = contracts.BandOverbought
	}

	return &contracts.BollingerResult{
		Upper:     upper,
		Middle:    middle,
		Lower:     lower,
		PercentB:  percentB,
		Bandwidth: bandwidth,
		Signal:    signal,
	}
}

// SMA calculates the simple moving average of the last period prices
func (e *Engine) SMA(prices []float64, period int) *float64 {
	if period <= 0 || len(prices) < period {
		return nil
	}

	var sum float64
	for _, p := range prices[len(prices)-period:] {
		sum += p
	}
	return floatPtr(sum / float64(period))
}

// Stochastic calculates the %K/%D oscillator from high/low/close
// series. A flat window (high == low) reads as 50 rather than dividing
// by zero.
func (e *Engine) Stochastic(highs, lows, closes []float64, kPeriod, dPeriod int) *contracts.StochasticResult {
	if len(closes) < kPeriod+dPeriod || len(highs) < len(closes) || len(lows) < len(closes) {
		return nil
	}

	kValues := make([]float64, 0, len(closes)-kPeriod+1)
	for i := kPeriod - 1; i < len(closes); i++ {
		highestHigh := highs[i-kPeriod+1]
		lowestLow := lows[i-kPeriod+1]
		for j := i - kPeriod + 2; j <= i; j++ {
			if highs[j] > highestHigh {
				highestHigh = highs[j]
			}
			if lows[j] < lowestLow {
				lowestLow = lows[j]
			}
		}

		k := 50.0
		if highestHigh != lowestLow {
			k = (closes[i] - lowestLow) / (highestHigh - lowestLow) * 100
		}
		kValues = append(kValues, k)
	}

	var dSum float64
	for _, k := range kValues[len(kValues)-dPeriod:] {
		dSum += k
	}
	d := dSum / float64(dPeriod)
	k := kValues[len(kValues)-1]

	signal := contracts.BandNeutral
	if k < 20 && d < 20 {
		signal = contracts.BandOversold
	} else if k > 80 && d > 80 {
		signal = contracts.BandOverbought
	}

	return &contracts.StochasticResult{K: k, D: d, Signal: signal}
}

// ATR calculates the Average True Range with Wilder smoothing.
// Needs at least period+1 bars.
func (e *Engine) ATR(highs, lows, closes []float64, period int) *float64 {
	if len(closes) < period+1 || len(highs) < len(closes) || len(lows) < len(closes) {
		return nil
	}

	trueRanges := make([]float64, 0, len(closes)-1)
	for i := 1; i < len(closes); i++ {
		tr := highs[i] - lows[i]
		if hc := math.Abs(highs[i] - closes[i-1]); hc > tr {
			tr = hc
		}
		if lc := math.Abs(lows[i] - closes[i-1]); lc > tr {
			tr = lc
		}
		trueRanges = append(trueRanges, tr)
	}

	var atr float64
	for _, tr := range trueRanges[:period] {
		atr += tr
	}
	atr /= float64(period)

	for _, tr := range trueRanges[period:] {
		atr = (atr*float64(period-1) + tr) / float64(period)
	}

	return floatPtr(atr)
}

// Momentum calculates the raw price delta over period steps
func (e *Engine) Momentum(prices []float64, period int) *float64 {
	if len(prices) < period+1 {
		return nil
	}
	return floatPtr(prices[len(prices)-1] - prices[len(prices)-1-period])
}

// VolumeAnalysis compares current volume against a reference average.
// Only meaningful when the caller can supply both figures.
func (e *Engine) VolumeAnalysis(currentVolume, averageVolume float64) *contracts.VolumeResult {
	if currentVolume <= 0 || averageVolume <= 0 {
		return nil
	}

	ratio := currentVolume / averageVolume
	signal := contracts.VolumeNormal
	if ratio > 1.5 {
		signal = contracts.VolumeHigh
	} else if ratio < 0.5 {
		signal = contracts.VolumeLow
	}

	return &contracts.VolumeResult{
		CurrentVolume: currentVolume,
		AverageVolume: averageVolume,
		VolumeRatio:   ratio,
		Signal:        signal,
	}
}

// AnalyzeSparkline runs the full indicator set over a short
// high-resolution price series. Volume analysis is approximated from
// the caller-supplied 24h volume and a reference average; ATR and
// Stochastic need OHLC context and stay nil here.
func (e *Engine) AnalyzeSparkline(prices []float64, volume24h, avgVolume float64) contracts.TechnicalIndicators {
	ta := contracts.TechnicalIndicators{RSISignal: contracts.BandNeutral}

	ta.RSI = e.RSI(prices, rsiPeriod)
	ta.RSISignal = rsiSignal(ta.RSI)

	ta.MACD = e.MACD(prices, macdFastPeriod, macdSlowPeriod, macdSignalPeriod)
	ta.BollingerBands = e.BollingerBands(prices, bollingerPeriod, bollingerStdDevK)

	// Sparklines are short; shrink the SMA20 window rather than dropping
	// the whole bundle.
	sma20 := e.SMA(prices, min(bollingerPeriod, len(prices)))
	ta.SMA = e.smaBundle(prices, sma20)

	ta.EMA = e.emaBundle(prices, min(macdFastPeriod, len(prices)), min(macdSlowPeriod, len(prices)))
	ta.VolumeAnalysis = e.VolumeAnalysis(volume24h, avgVolume)
	ta.Momentum = e.Momentum(prices, momentumPeriod)

	return ta
}

// AnalyzeOHLC runs the full indicator set over daily OHLC bars. Richer
// than the sparkline path (ATR, Stochastic) but volume-blind: OHLC bars
// carry no volume, so VolumeAnalysis stays nil and the orchestration
// layer merges it in from the sparkline path.
func (e *Engine) AnalyzeOHLC(bars []contracts.OHLCBar) contracts.TechnicalIndicators {
	closes := make([]float64, len(bars))
	highs := make([]float64, len(bars))
	lows := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
		highs[i] = b.High
		lows[i] = b.Low
	}

	ta := contracts.TechnicalIndicators{RSISignal: contracts.BandNeutral}

	ta.RSI = e.RSI(closes, rsiPeriod)
	ta.RSISignal = rsiSignal(ta.RSI)

	ta.MACD = e.MACD(closes, macdFastPeriod, macdSlowPeriod, macdSignalPeriod)
	ta.BollingerBands = e.BollingerBands(closes, bollingerPeriod, bollingerStdDevK)

	sma20 := e.SMA(closes, bollingerPeriod)
	ta.SMA = e.smaBundle(closes, sma20)

	ta.EMA = e.emaBundle(closes, macdFastPeriod, min(macdSlowPeriod, len(closes)))
	ta.Stochastic = e.Stochastic(highs, lows, closes, stochKPeriod, stochDPeriod)
	ta.ATR = e.ATR(highs, lows, closes, atrPeriod)
	ta.Momentum = e.Momentum(closes, momentumPeriod)

	return ta
}

// smaBundle assembles the 20/50/200 bundle. The 50/200 windows shrink
// to the series length when history is short, so on a 7-day sparkline
// the 200-period value is the full-series mean.
func (e *Engine) smaBundle(prices []float64, sma20 *float64) *contracts.SMABundle {
	if sma20 == nil {
		return nil
	}

	sma50 := e.SMA(prices, min(50, len(prices)))
	sma200 := e.SMA(prices, min(200, len(prices)))

	return &contracts.SMABundle{
		SMA20:       *sma20,
		SMA50:       *sma50,
		SMA200:      *sma200,
		GoldenCross: *sma50 > *sma200,
		DeathCross:  *sma50 < *sma200 && *sma50 != 0,
	}
}

// emaBundle assembles the 12/26 cross indicator
func (e *Engine) emaBundle(prices []float64, fast, slow int) *contracts.EMABundle {
	fastSeries := e.EMASeries(prices, fast)
	slowSeries := e.EMASeries(prices, slow)
	if len(fastSeries) == 0 || len(slowSeries) == 0 {
		return nil
	}

	ema12 := fastSeries[len(fastSeries)-1]
	ema26 := slowSeries[len(slowSeries)-1]

	signal := contracts.TrendBearish
	if ema12 > ema26 {
		signal = contracts.TrendBullish
	}

	return &contracts.EMABundle{EMA12: ema12, EMA26: ema26, Signal: signal}
}

// rsiSignal buckets an RSI value. Boundaries are strict: exactly 30/70
// read as neutral.
func rsiSignal(rsi *float64) contracts.BandSignal {
	if rsi == nil {
		return contracts.BandNeutral
	}
	if *rsi < 30 {
		return contracts.BandOversold
	}
	if *rsi > 70 {
		return contracts.BandOverbought
	}
	return contracts.BandNeutral
}

func floatPtr(v float64) *float64 {
	return &v
}
