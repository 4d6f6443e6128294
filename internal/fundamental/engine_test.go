package fundamental

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

func TestMarketCapScore_Bands(t *testing.T) {
	e := testEngine()

	tests := []struct {
		rank int
		want int
	}{
		{0, 0}, // unranked
		{1, 95},
		{5, 95},
		{10, 95},
		{11, 85},
		{25, 85},
		{50, 75},
		{100, 65},
		{250, 50},
		{500, 35},
		{600, 20},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, e.MarketCapScore(tt.rank), "rank %d", tt.rank)
	}
}

func TestVolumeToMarketCap(t *testing.T) {
	e := testEngine()

	assert.Equal(t, 0.0, e.VolumeToMarketCap(1e9, 0), "zero market cap")
	assert.InDelta(t, 0.05, e.VolumeToMarketCap(5e8, 1e10), 1e-12)
}

func TestSupplyMetrics(t *testing.T) {
	e := testEngine()

	// Hard cap: 19M of 21M circulating
	m := e.SupplyMetrics(19_000_000, f64(19_500_000), f64(21_000_000))
	assert.InDelta(t, 0.9048, m.CirculatingRatio, 0.0001)
	assert.True(t, m.IsDeflationary)

	// No max: fall back to total supply
	m = e.SupplyMetrics(90, f64(100), nil)
	assert.InDelta(t, 0.9, m.CirculatingRatio, 1e-12)
	assert.False(t, m.IsDeflationary)

	// No max, no total: ratio is 1 by definition
	m = e.SupplyMetrics(1_000_000, nil, nil)
	assert.Equal(t, 1.0, m.CirculatingRatio)
	assert.False(t, m.IsDeflationary)

	// Zero circulating without any denominator
	m = e.SupplyMetrics(0, nil, nil)
	assert.Equal(t, 1.0, m.CirculatingRatio)
}

func TestCommunityScore(t *testing.T) {
	e := testEngine()

	assert.Equal(t, 50, e.CommunityScore(nil), "absent payload is neutral")

	// All metrics in their lowest bands: (20+15+0+15)/4
	assert.Equal(t, 13, e.CommunityScore(&contracts.DetailMetadata{}))

	// Large-cap social profile: (100+100+100+100)/4
	big := &contracts.DetailMetadata{
		Community: &contracts.CommunityData{
			TwitterFollowers:     2_000_000,
			RedditSubscribers:    600_000,
			RedditAvgPosts48h:    30,
			RedditAvgComments48h: 100,
		},
		WatchlistUsers: 1_500_000,
	}
	assert.Equal(t, 100, e.CommunityScore(big))
}

func TestCommunityScore_RedditActivityCapped(t *testing.T) {
	e := testEngine()

	// posts*5 + comments*2 = 500, capped at 100: (20+15+100+15)/4 = 37.5
	detail := &contracts.DetailMetadata{
		Community: &contracts.CommunityData{RedditAvgPosts48h: 100},
	}
	assert.Equal(t, 38, e.CommunityScore(detail))
}

func TestDeveloperScore(t *testing.T) {
	e := testEngine()

	assert.Equal(t, 50, e.DeveloperScore(nil), "absent payload is neutral")
	assert.Equal(t, 30, e.DeveloperScore(&contracts.DetailMetadata{}), "no developer section")

	// Everything in the top band, 90% issue resolution:
	// (100+100+100+90+100)/5 = 98
	detail := &contracts.DetailMetadata{
		Developer: &contracts.DeveloperData{
			Stars:              50_000,
			Forks:              20_000,
			CommitCount4Weeks:  300,
			TotalIssues:        1000,
			ClosedIssues:       900,
			PullRequestsMerged: 5000,
		},
	}
	assert.Equal(t, 98, e.DeveloperScore(detail))
}

func TestDeveloperScore_NoIssuesSkipsResolutionFactor(t *testing.T) {
	e := testEngine()

	// Four factors only: (15+15+10+15)/4 = 13.75
	detail := &contracts.DetailMetadata{
		Developer: &contracts.DeveloperData{},
	}
	assert.Equal(t, 14, e.DeveloperScore(detail))
}

func TestSentimentScore(t *testing.T) {
	e := testEngine()

	assert.Equal(t, 50, e.SentimentScore(nil))
	assert.Equal(t, 50, e.SentimentScore(&contracts.DetailMetadata{}))
	assert.Equal(t, 73, e.SentimentScore(&contracts.DetailMetadata{SentimentUpPercent: f64(72.6)}))
}

func TestATHRecoveryPotential(t *testing.T) {
	e := testEngine()

	assert.Equal(t, 0, e.ATHRecoveryPotential(0, -50), "no recorded ATH")

	tests := []struct {
		change float64
		want   int
	}{
		{-95, 95},
		{-85, 85},
		{-75, 75},
		{-60, 60},
		{-40, 45},
		{-20, 30},
		{-5, 15},
		{0, 15},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, e.ATHRecoveryPotential(69000, tt.change), "change %.0f", tt.change)
	}
}

func TestAnalyze_MajorAsset(t *testing.T) {
	e := testEngine()

	snapshot := contracts.MarketSnapshot{
		ID:                "bitcoin",
		MarketCap:         1.2e12,
		MarketCapRank:     1,
		Volume24h:         3e10,
		CirculatingSupply: 19_000_000,
		MaxSupply:         f64(21_000_000),
		ATHPrice:          69000,
		ATHChangePercent:  -12,
	}

	fa := e.Analyze(snapshot, nil)

	assert.Equal(t, 95, fa.MarketCapScore)
	assert.InDelta(t, 0.025, fa.VolumeToMarketCap, 1e-9)
	assert.True(t, fa.SupplyMetrics.IsDeflationary)
	assert.Equal(t, 50, fa.CommunityScore)
	assert.Equal(t, 50, fa.DeveloperScore)
	assert.Equal(t, 50, fa.SentimentScore)
	assert.Equal(t, 30, fa.ATHRecoveryPotential)

	// 95*.20 + 12.5*.15 + 80*.10 + 50*.15 + 50*.15 + 50*.10 + 30*.15 = 53.375
	assert.Equal(t, 53, fa.OverallScore)
}

func TestAnalyze_ExtremeInputsStayBounded(t *testing.T) {
	e := testEngine()

	// Degenerate listing: no rank, no cap, no supply data
	fa := e.Analyze(contracts.MarketSnapshot{}, nil)
	assert.GreaterOrEqual(t, fa.OverallScore, 0)
	assert.LessOrEqual(t, fa.OverallScore, 100)
	assert.Equal(t, 0, fa.MarketCapScore)
	assert.Equal(t, 0.0, fa.VolumeToMarketCap)
	assert.Equal(t, 0, fa.ATHRecoveryPotential)

	// Everything maxed out
	sentiment := 100.0
	fa = e.Analyze(contracts.MarketSnapshot{
		MarketCapRank:     1,
		MarketCap:         1e9,
		Volume24h:         1e12,
		CirculatingSupply: 100,
		MaxSupply:         f64(100),
		ATHPrice:          1000,
		ATHChangePercent:  -99,
	}, &contracts.DetailMetadata{
		Community: &contracts.CommunityData{
			TwitterFollowers:  2_000_000,
			RedditSubscribers: 600_000,
			RedditAvgPosts48h: 50,
		},
		Developer: &contracts.DeveloperData{
			Stars:              50_000,
			Forks:              20_000,
			CommitCount4Weeks:  300,
			TotalIssues:        100,
			ClosedIssues:       100,
			PullRequestsMerged: 5000,
		},
		SentimentUpPercent: &sentiment,
		WatchlistUsers:     2_000_000,
	})
	assert.LessOrEqual(t, fa.OverallScore, 100)
	assert.GreaterOrEqual(t, fa.OverallScore, 90)
}
