package contracts

// FundamentalAnalysis is the derived market-structure record for one
// asset. All sub-scores are 0-100; the volume/market-cap ratio is a raw
// fraction.
type FundamentalAnalysis struct {
	MarketCapScore       int           `json:"market_cap_score"`
	VolumeToMarketCap    float64       `json:"volume_to_market_cap"`
	SupplyMetrics        SupplyMetrics `json:"supply_metrics"`
	CommunityScore       int           `json:"community_score"`
	DeveloperScore       int           `json:"developer_score"`
	SentimentScore       int           `json:"sentiment_score"`
	ATHRecoveryPotential int           `json:"ath_recovery_potential"`

	// Weighted composite, capped at 100
	OverallScore int `json:"overall_score"`
}

// SupplyMetrics describes supply dynamics
type SupplyMetrics struct {
	// circulating / (max | total | circulating), first available denominator
	CirculatingRatio float64 `json:"circulating_ratio"`

	// A hard supply cap exists
	IsDeflationary bool `json:"is_deflationary"`
}
