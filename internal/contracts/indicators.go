package contracts

// BandSignal is the categorical reading of an oscillator-style indicator
type BandSignal string

const (
	BandOversold   BandSignal = "oversold"
	BandNeutral    BandSignal = "neutral"
	BandOverbought BandSignal = "overbought"
)

// TrendSignal is the categorical reading of a trend-style indicator
type TrendSignal string

const (
	TrendBullish TrendSignal = "bullish"
	TrendBearish TrendSignal = "bearish"
	TrendNeutral TrendSignal = "neutral"
)

// VolumeSignal is the categorical reading of volume flow
type VolumeSignal string

const (
	VolumeHigh   VolumeSignal = "high"
	VolumeNormal VolumeSignal = "normal"
	VolumeLow    VolumeSignal = "low"
)

// TechnicalIndicators is the full derived indicator record for one asset.
// Every field is independently nullable: an indicator is present only
// when the series is long enough to compute it meaningfully. Missing is
// not zero; downstream weighting skips absent fields entirely.
type TechnicalIndicators struct {
	RSI       *float64   `json:"rsi,omitempty"`
	RSISignal BandSignal `json:"rsi_signal"`

	MACD *MACDResult `json:"macd,omitempty"`

	BollingerBands *BollingerResult `json:"bollinger_bands,omitempty"`

	SMA *SMABundle `json:"sma,omitempty"`
	EMA *EMABundle `json:"ema,omitempty"`

	VolumeAnalysis *VolumeResult `json:"volume_analysis,omitempty"`

	ATR *float64 `json:"atr,omitempty"`

	Stochastic *StochasticResult `json:"stochastic,omitempty"`

	// Raw momentum: last price minus the price N steps back
	Momentum *float64 `json:"momentum,omitempty"`
}

// MACDResult holds the MACD triple and its signal
type MACDResult struct {
	MACDLine   float64     `json:"macd_line"`
	SignalLine float64     `json:"signal_line"`
	Histogram  float64     `json:"histogram"`
	Signal     TrendSignal `json:"signal"`
}

// BollingerResult holds the band levels and position metrics
type BollingerResult struct {
	Upper     float64    `json:"upper"`
	Middle    float64    `json:"middle"`
	Lower     float64    `json:"lower"`
	PercentB  float64    `json:"percent_b"`
	Bandwidth float64    `json:"bandwidth"`
	Signal    BandSignal `json:"signal"`
}

// SMABundle holds the 20/50/200 moving averages and cross flags.
// When history is too short for SMA50/SMA200 they fall back to the
// 20-period value (degraded data, not an error).
type SMABundle struct {
	SMA20       float64 `json:"sma20"`
	SMA50       float64 `json:"sma50"`
	SMA200      float64 `json:"sma200"`
	GoldenCross bool    `json:"golden_cross"`
	DeathCross  bool    `json:"death_cross"`
}

// EMABundle holds the 12/26 EMA cross. Binary by construction: the fast
// EMA is either above or below the slow one.
type EMABundle struct {
	EMA12  float64     `json:"ema12"`
	EMA26  float64     `json:"ema26"`
	Signal TrendSignal `json:"signal"` // bullish or bearish, never neutral
}

// VolumeResult compares current volume against a reference average
type VolumeResult struct {
	CurrentVolume float64      `json:"current_volume"`
	AverageVolume float64      `json:"average_volume"`
	VolumeRatio   float64      `json:"volume_ratio"`
	Signal        VolumeSignal `json:"signal"`
}

// StochasticResult holds the %K/%D oscillator pair
type StochasticResult struct {
	K      float64    `json:"k"`
	D      float64    `json:"d"`
	Signal BandSignal `json:"signal"`
}
