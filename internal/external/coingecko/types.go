package coingecko

import "github.com/wonny/coinpulse/internal/contracts"

// marketRow is one row of /coins/markets as CoinGecko serves it
type marketRow struct {
	ID                           string    `json:"id"`
	Symbol                       string    `json:"symbol"`
	Name                         string    `json:"name"`
	Image                        string    `json:"image"`
	CurrentPrice                 float64   `json:"current_price"`
	MarketCap                    float64   `json:"market_cap"`
	MarketCapRank                int       `json:"market_cap_rank"`
	TotalVolume                  float64   `json:"total_volume"`
	PriceChangePercentage24h     float64   `json:"price_change_percentage_24h"`
	PriceChangePercentage7d      *float64  `json:"price_change_percentage_7d_in_currency"`
	PriceChangePercentage30d     *float64  `json:"price_change_percentage_30d_in_currency"`
	CirculatingSupply            float64   `json:"circulating_supply"`
	TotalSupply                  *float64  `json:"total_supply"`
	MaxSupply                    *float64  `json:"max_supply"`
	ATH                          float64   `json:"ath"`
	ATHChangePercentage          float64   `json:"ath_change_percentage"`
	LastUpdated                  string    `json:"last_updated"`
	SparklineIn7d                *struct {
		Price []float64 `json:"price"`
	} `json:"sparkline_in_7d"`
}

// toSnapshot normalizes a wire row into the core data model
func (m *marketRow) toSnapshot() contracts.MarketSnapshot {
	var sparkline []float64
	if m.SparklineIn7d != nil {
		sparkline = m.SparklineIn7d.Price
	}

	var change7d, change30d float64
	if m.PriceChangePercentage7d != nil {
		change7d = *m.PriceChangePercentage7d
	}
	if m.PriceChangePercentage30d != nil {
		change30d = *m.PriceChangePercentage30d
	}

	return contracts.MarketSnapshot{
		ID:                m.ID,
		Symbol:            m.Symbol,
		Name:              m.Name,
		Image:             m.Image,
		CurrentPrice:      m.CurrentPrice,
		MarketCap:         m.MarketCap,
		MarketCapRank:     m.MarketCapRank,
		Volume24h:         m.TotalVolume,
		PriceChange24h:    m.PriceChangePercentage24h,
		PriceChange7d:     change7d,
		PriceChange30d:    change30d,
		CirculatingSupply: m.CirculatingSupply,
		TotalSupply:       m.TotalSupply,
		MaxSupply:         m.MaxSupply,
		ATHPrice:          m.ATH,
		ATHChangePercent:  m.ATHChangePercentage,
		Sparkline:         sparkline,
		LastUpdated:       m.LastUpdated,
	}
}

// detailPayload is the subset of /coins/{id} the analyzer needs
type detailPayload struct {
	CommunityData *struct {
		TwitterFollowers        int64   `json:"twitter_followers"`
		RedditSubscribers       int64   `json:"reddit_subscribers"`
		RedditAveragePosts48h   float64 `json:"reddit_average_posts_48h"`
		RedditAverageComments48 float64 `json:"reddit_average_comments_48h"`
	} `json:"community_data"`
	DeveloperData *struct {
		Stars              int64 `json:"stars"`
		Forks              int64 `json:"forks"`
		CommitCount4Weeks  int64 `json:"commit_count_4_weeks"`
		TotalIssues        int64 `json:"total_issues"`
		ClosedIssues       int64 `json:"closed_issues"`
		PullRequestsMerged int64 `json:"pull_requests_merged"`
	} `json:"developer_data"`
	SentimentVotesUpPercentage *float64 `json:"sentiment_votes_up_percentage"`
	WatchlistPortfolioUsers    int64    `json:"watchlist_portfolio_users"`
}

// toDetail normalizes the wire payload into the core data model
func (d *detailPayload) toDetail() *contracts.DetailMetadata {
	detail := &contracts.DetailMetadata{
		SentimentUpPercent: d.SentimentVotesUpPercentage,
		WatchlistUsers:     d.WatchlistPortfolioUsers,
	}

	if d.CommunityData != nil {
		detail.Community = &contracts.CommunityData{
			TwitterFollowers:     d.CommunityData.TwitterFollowers,
			RedditSubscribers:    d.CommunityData.RedditSubscribers,
			RedditAvgPosts48h:    d.CommunityData.RedditAveragePosts48h,
			RedditAvgComments48h: d.CommunityData.RedditAverageComments48,
		}
	}

	if d.DeveloperData != nil {
		detail.Developer = &contracts.DeveloperData{
			Stars:              d.DeveloperData.Stars,
			Forks:              d.DeveloperData.Forks,
			CommitCount4Weeks:  d.DeveloperData.CommitCount4Weeks,
			TotalIssues:        d.DeveloperData.TotalIssues,
			ClosedIssues:       d.DeveloperData.ClosedIssues,
			PullRequestsMerged: d.DeveloperData.PullRequestsMerged,
		}
	}

	return detail
}

// chartPayload is /coins/{id}/market_chart as served
type chartPayload struct {
	Prices       [][2]float64 `json:"prices"`
	MarketCaps   [][2]float64 `json:"market_caps"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

// TrendingCoin is one entry of /search/trending
type TrendingCoin struct {
	ID            string `json:"id"`
	CoinID        int    `json:"coin_id"`
	Name          string `json:"name"`
	Symbol        string `json:"symbol"`
	MarketCapRank int    `json:"market_cap_rank"`
	Thumb         string `json:"thumb"`
	Score         int    `json:"score"`
}

// trendingPayload is the /search/trending envelope
type trendingPayload struct {
	Coins []struct {
		Item TrendingCoin `json:"item"`
	} `json:"coins"`
}

// GlobalData is the /global data block
type GlobalData struct {
	ActiveCryptocurrencies     int                `json:"active_cryptocurrencies"`
	Markets                    int                `json:"markets"`
	TotalMarketCap             map[string]float64 `json:"total_market_cap"`
	TotalVolume                map[string]float64 `json:"total_volume"`
	MarketCapPercentage        map[string]float64 `json:"market_cap_percentage"`
	MarketCapChangePct24hUSD   float64            `json:"market_cap_change_percentage_24h_usd"`
	UpdatedAt                  int64              `json:"updated_at"`
}

// globalPayload is the /global envelope
type globalPayload struct {
	Data GlobalData `json:"data"`
}
