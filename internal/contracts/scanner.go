package contracts

// SortKey selects the scanner output ordering (always descending)
type SortKey string

const (
	SortByMomentum    SortKey = "momentum"
	SortByPriceChange SortKey = "price_change"
	SortByVolume      SortKey = "volume"
	SortByMarketCap   SortKey = "market_cap"
)

// ScanFilters are the caller-supplied scan parameters.
// Zero values mean "no filter".
type ScanFilters struct {
	MinMarketCap     float64       `json:"min_market_cap,omitempty"`
	MaxMarketCap     float64       `json:"max_market_cap,omitempty"`
	MinVolume        float64       `json:"min_volume,omitempty"`
	MinMomentumScore int           `json:"min_momentum_score,omitempty"`
	Signals          []TradeSignal `json:"signals,omitempty"`
	SortBy           SortKey       `json:"sort_by,omitempty"`
	Limit            int           `json:"limit,omitempty"`
}

// ScannedAsset is one fully scored asset in the scan output
type ScannedAsset struct {
	ID            string  `json:"id"`
	Symbol        string  `json:"symbol"`
	Name          string  `json:"name"`
	Image         string  `json:"image"`
	CurrentPrice  float64 `json:"current_price"`
	MarketCap     float64 `json:"market_cap"`
	MarketCapRank int     `json:"market_cap_rank"`
	Volume24h     float64 `json:"volume_24h"`

	PriceChange24h float64 `json:"price_change_24h"`
	PriceChange7d  float64 `json:"price_change_7d"`
	PriceChange30d float64 `json:"price_change_30d"`

	// Trailing slice of the sparkline for rendering
	Sparkline []float64 `json:"sparkline"`

	TechnicalIndicators TechnicalIndicators `json:"technical_indicators"`
	FundamentalAnalysis FundamentalAnalysis `json:"fundamental_analysis"`
	MomentumScore       MomentumScore       `json:"momentum_score"`

	LastUpdated string `json:"last_updated"`
}

// AssetAnalysis is the detailed single-asset output: a scanned asset
// plus its OHLC bars and longer chart series
type AssetAnalysis struct {
	ScannedAsset

	OHLC  []OHLCBar `json:"ohlc"`
	Chart ChartData `json:"chart"`
}
