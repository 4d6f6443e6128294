package contracts

// MarketSnapshot is one asset's row from the market-data source.
// SSOT: upstream market payloads are normalized into this shape once,
// at the client boundary; everything downstream is read-only.
type MarketSnapshot struct {
	ID            string `json:"id"`
	Symbol        string `json:"symbol"`
	Name          string `json:"name"`
	Image         string `json:"image"`

	CurrentPrice  float64 `json:"current_price"`
	MarketCap     float64 `json:"market_cap"`
	MarketCapRank int     `json:"market_cap_rank"` // 0 = unranked
	Volume24h     float64 `json:"volume_24h"`

	PriceChange24h float64 `json:"price_change_24h"`
	PriceChange7d  float64 `json:"price_change_7d"`
	PriceChange30d float64 `json:"price_change_30d"`

	CirculatingSupply float64  `json:"circulating_supply"`
	TotalSupply       *float64 `json:"total_supply,omitempty"`
	MaxSupply         *float64 `json:"max_supply,omitempty"`

	ATHPrice         float64 `json:"ath_price"`
	ATHChangePercent float64 `json:"ath_change_percent"`

	// 7-day high-resolution price series (sparkline)
	Sparkline []float64 `json:"sparkline"`

	LastUpdated string `json:"last_updated"`
}

// OHLCBar is one Open-High-Low-Close bar
type OHLCBar struct {
	Timestamp int64   `json:"timestamp"` // unix millis
	Open      float64 `json:"open"`
	High      float64 `json:"high"`
	Low       float64 `json:"low"`
	Close     float64 `json:"close"`
}

// DetailMetadata is the optional per-asset community/developer payload.
// Callers that do not fetch it pass nil; scoring degrades to neutral
// defaults, never to an error.
type DetailMetadata struct {
	Community *CommunityData `json:"community,omitempty"`
	Developer *DeveloperData `json:"developer,omitempty"`

	SentimentUpPercent *float64 `json:"sentiment_up_percent,omitempty"`
	WatchlistUsers     int64    `json:"watchlist_users"`
}

// CommunityData holds social activity metrics
type CommunityData struct {
	TwitterFollowers     int64   `json:"twitter_followers"`
	RedditSubscribers    int64   `json:"reddit_subscribers"`
	RedditAvgPosts48h    float64 `json:"reddit_avg_posts_48h"`
	RedditAvgComments48h float64 `json:"reddit_avg_comments_48h"`
}

// DeveloperData holds repository activity metrics
type DeveloperData struct {
	Stars              int64 `json:"stars"`
	Forks              int64 `json:"forks"`
	CommitCount4Weeks  int64 `json:"commit_count_4_weeks"`
	TotalIssues        int64 `json:"total_issues"`
	ClosedIssues       int64 `json:"closed_issues"`
	PullRequestsMerged int64 `json:"pull_requests_merged"`
}

// ChartData is a longer market-chart series for the detail view
type ChartData struct {
	Prices     [][2]float64 `json:"prices"`      // [timestamp, price]
	Volumes    [][2]float64 `json:"volumes"`     // [timestamp, volume]
	MarketCaps [][2]float64 `json:"market_caps"` // [timestamp, market cap]
}
