package fundamental

import (
	"math"

	"github.com/wonny/coinpulse/internal/contracts"
	"github.com/wonny/coinpulse/pkg/logger"
)

// Composite weights for the overall fundamental score
const (
	weightMarketCap   = 0.20
	weightVolumeRatio = 0.15
	weightSupply      = 0.10
	weightCommunity   = 0.15
	weightDeveloper   = 0.15
	weightSentiment   = 0.10
	weightATHRecovery = 0.15
)

// Engine scores market-structure and on-chain/social metadata.
// SSOT: fundamental scoring rules live here and nowhere else.
// Each rule is a monotonic step function into a 0-100 band; absent
// detail metadata degrades to documented neutral defaults, never to an
// error.
type Engine struct {
	logger *logger.Logger
}

// NewEngine creates a new fundamental analysis engine
func NewEngine(log *logger.Logger) *Engine {
	return &Engine{logger: log}
}

// MarketCapScore bands the market-cap rank. Unranked assets score 0.
func (e *Engine) MarketCapScore(rank int) int {
	switch {
	case rank <= 0:
		return 0
	case rank <= 10:
		return 95
	case rank <= 25:
		return 85
	case rank <= 50:
		return 75
	case rank <= 100:
		return 65
	case rank <= 250:
		return 50
	case rank <= 500:
		return 35
	default:
		return 20
	}
}

// VolumeToMarketCap returns the raw volume/market-cap fraction
func (e *Engine) VolumeToMarketCap(volume, marketCap float64) float64 {
	if marketCap == 0 {
		return 0
	}
	return volume / marketCap
}

// SupplyMetrics derives the circulating ratio and the deflationary
// flag. The denominator prefers max supply, then total, then
// circulating itself.
func (e *Engine) SupplyMetrics(circulating float64, total, max *float64) contracts.SupplyMetrics {
	effectiveTotal := circulating
	if max != nil && *max > 0 {
		effectiveTotal = *max
	} else if total != nil && *total > 0 {
		effectiveTotal = *total
	}

	ratio := 1.0
	if effectiveTotal > 0 {
		ratio = circulating / effectiveTotal
	}

	isDeflationary := max != nil && *max > 0 && !math.IsInf(*max, 0)

	return contracts.SupplyMetrics{
		CirculatingRatio: ratio,
		IsDeflationary:   isDeflationary,
	}
}

// CommunityScore averages four banded social sub-signals. A missing
// metric lands in its lowest band (low but nonzero); a wholly absent
// detail payload reads as a neutral 50.
func (e *Engine) CommunityScore(detail *contracts.DetailMetadata) int {
	if detail == nil {
		return 50
	}

	var score, factors float64

	var twitterFollowers, redditSubs int64
	var redditPosts, redditComments float64
	if detail.Community != nil {
		twitterFollowers = detail.Community.TwitterFollowers
		redditSubs = detail.Community.RedditSubscribers
		redditPosts = detail.Community.RedditAvgPosts48h
		redditComments = detail.Community.RedditAvgComments48h
	}

	switch {
	case twitterFollowers > 1000000:
		score += 100
	case twitterFollowers > 500000:
		score += 85
	case twitterFollowers > 100000:
		score += 70
	case twitterFollowers > 50000:
		score += 55
	case twitterFollowers > 10000:
		score += 40
	default:
		score += 20
	}
	factors++

	switch {
	case redditSubs > 500000:
		score += 100
	case redditSubs > 100000:
		score += 80
	case redditSubs > 50000:
		score += 60
	case redditSubs > 10000:
		score += 40
	default:
		score += 15
	}
	factors++

	// Reddit activity: linear, capped at 100
	activity := redditPosts*5 + redditComments*2
	if activity > 100 {
		activity = 100
	}
	score += activity
	factors++

	switch {
	case detail.WatchlistUsers > 1000000:
		score += 100
	case detail.WatchlistUsers > 500000:
		score += 80
	case detail.WatchlistUsers > 100000:
		score += 60
	case detail.WatchlistUsers > 10000:
		score += 40
	default:
		score += 15
	}
	factors++

	return int(math.Round(score / factors))
}

// DeveloperScore averages up to five banded repository sub-signals.
// Detail present but developer section absent reads 30; wholly absent
// detail reads 50. The issue-resolution factor only participates when
// the repo has issues at all.
func (e *Engine) DeveloperScore(detail *contracts.DetailMetadata) int {
	if detail == nil {
		return 50
	}

	dev := detail.Developer
	if dev == nil {
		return 30
	}

	var score, factors float64

	switch {
	case dev.Stars > 10000:
		score += 100
	case dev.Stars > 5000:
		score += 85
	case dev.Stars > 1000:
		score += 70
	case dev.Stars > 500:
		score += 50
	case dev.Stars > 100:
		score += 35
	default:
		score += 15
	}
	factors++

	switch {
	case dev.Forks > 5000:
		score += 100
	case dev.Forks > 1000:
		score += 80
	case dev.Forks > 500:
		score += 60
	case dev.Forks > 100:
		score += 40
	default:
		score += 15
	}
	factors++

	switch {
	case dev.CommitCount4Weeks > 200:
		score += 100
	case dev.CommitCount4Weeks > 100:
		score += 85
	case dev.CommitCount4Weeks > 50:
		score += 70
	case dev.CommitCount4Weeks > 20:
		score += 55
	case dev.CommitCount4Weeks > 5:
		score += 35
	default:
		score += 10
	}
	factors++

	if dev.TotalIssues > 0 {
		resolutionRate := float64(dev.ClosedIssues) / float64(dev.TotalIssues)
		score += math.Round(resolutionRate * 100)
		factors++
	}

	switch {
	case dev.PullRequestsMerged > 1000:
		score += 100
	case dev.PullRequestsMerged > 500:
		score += 80
	case dev.PullRequestsMerged > 100:
		score += 60
	case dev.PullRequestsMerged > 50:
		score += 40
	default:
		score += 15
	}
	factors++

	return int(math.Round(score / factors))
}

// SentimentScore passes the upvote percentage through, rounded.
// Absent metadata reads as a neutral 50.
func (e *Engine) SentimentScore(detail *contracts.DetailMetadata) int {
	if detail == nil || detail.SentimentUpPercent == nil {
		return 50
	}
	return int(math.Round(*detail.SentimentUpPercent))
}

// ATHRecoveryPotential bands the absolute percent distance from the
// all-time high. Farther from ATH scores higher: more room to recover.
func (e *Engine) ATHRecoveryPotential(athPrice, athChangePercent float64) int {
	if athPrice == 0 {
		return 0
	}

	distance := math.Abs(athChangePercent)
	switch {
	case distance > 90:
		return 95
	case distance > 80:
		return 85
	case distance > 70:
		return 75
	case distance > 50:
		return 60
	case distance > 30:
		return 45
	case distance > 10:
		return 30
	default:
		return 15 // near ATH, little upside left
	}
}

// Analyze runs the complete fundamental analysis for one asset.
// detail may be nil; every sub-score substitutes its neutral default.
func (e *Engine) Analyze(snapshot contracts.MarketSnapshot, detail *contracts.DetailMetadata) contracts.FundamentalAnalysis {
	marketCapScore := e.MarketCapScore(snapshot.MarketCapRank)
	volumeRatio := e.VolumeToMarketCap(snapshot.Volume24h, snapshot.MarketCap)
	supply := e.SupplyMetrics(snapshot.CirculatingSupply, snapshot.TotalSupply, snapshot.MaxSupply)
	communityScore := e.CommunityScore(detail)
	developerScore := e.DeveloperScore(detail)
	sentimentScore := e.SentimentScore(detail)
	athRecovery := e.ATHRecoveryPotential(snapshot.ATHPrice, snapshot.ATHChangePercent)

	supplyScore := 40.0
	if supply.IsDeflationary {
		supplyScore = 80.0
	}

	volumeComponent := volumeRatio * 500
	if volumeComponent > 100 {
		volumeComponent = 100
	}

	overall := math.Round(
		float64(marketCapScore)*weightMarketCap +
			volumeComponent*weightVolumeRatio +
			supplyScore*weightSupply +
			float64(communityScore)*weightCommunity +
			float64(developerScore)*weightDeveloper +
			float64(sentimentScore)*weightSentiment +
			float64(athRecovery)*weightATHRecovery,
	)
	if overall > 100 {
		overall = 100
	}
	if overall < 0 {
		overall = 0
	}

	return contracts.FundamentalAnalysis{
		MarketCapScore:       marketCapScore,
		VolumeToMarketCap:    volumeRatio,
		SupplyMetrics:        supply,
		CommunityScore:       communityScore,
		DeveloperScore:       developerScore,
		SentimentScore:       sentimentScore,
		ATHRecoveryPotential: athRecovery,
		OverallScore:         int(overall),
	}
}
