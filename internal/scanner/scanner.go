package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/coinpulse/internal/contracts"
	"github.com/wonny/coinpulse/internal/fundamental"
	"github.com/wonny/coinpulse/internal/momentum"
	"github.com/wonny/coinpulse/internal/technical"
	"github.com/wonny/coinpulse/pkg/logger"
	"github.com/wonny/coinpulse/pkg/redis"
)

const (
	defaultScanLimit = 50
	maxPerPage       = 100

	// OHLC and chart lookback for detailed analysis
	analysisDays = 30

	// 24h volume is the only volume figure the markets endpoint
	// carries; treat 80% of it as the reference average.
	avgVolumeFactor = 0.8

	// Trailing sparkline points kept in responses
	sparklineTail = 48
)

// MarketDataSource provides market snapshots and per-asset data.
// SSOT: the scanner talks to upstream only through this interface.
type MarketDataSource interface {
	GetMarkets(ctx context.Context, page, perPage int, sparkline bool) ([]contracts.MarketSnapshot, error)
	GetDetail(ctx context.Context, id string) (*contracts.DetailMetadata, error)
	GetOHLC(ctx context.Context, id string, days int) ([]contracts.OHLCBar, error)
	GetMarketChart(ctx context.Context, id string, days int) (*contracts.ChartData, error)
}

// Scanner orchestrates the TA -> FA -> momentum pipeline over a
// market-wide snapshot and over single assets.
type Scanner struct {
	source      MarketDataSource
	technical   *technical.Engine
	fundamental *fundamental.Engine
	momentum    *momentum.Engine
	cache       *redis.Cache
	logger      *logger.Logger

	// Per-asset scoring step; swappable in tests
	analyze func(contracts.MarketSnapshot) contracts.ScannedAsset
}

// New creates a new Scanner
func New(source MarketDataSource, cache *redis.Cache, log *logger.Logger) *Scanner {
	s := &Scanner{
		source:      source,
		technical:   technical.NewEngine(log),
		fundamental: fundamental.NewEngine(log),
		momentum:    momentum.NewEngine(log),
		cache:       cache,
		logger:      log,
	}
	s.analyze = s.analyzeSnapshot
	return s
}

// Scan runs the full pipeline over one market snapshot page, applying
// pre-filters before scoring and post-filters after. A scoring failure
// on one asset never aborts the batch: the asset is emitted through
// the degraded basic-analysis path instead.
func (s *Scanner) Scan(ctx context.Context, filters contracts.ScanFilters) ([]contracts.ScannedAsset, error) {
	var results []contracts.ScannedAsset

	_, err := s.cache.GetOrSet(ctx, scanKey(filters), &results, redis.TTLScan, func() (interface{}, error) {
		return s.scan(ctx, filters)
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

func (s *Scanner) scan(ctx context.Context, filters contracts.ScanFilters) ([]contracts.ScannedAsset, error) {
	limit := filters.Limit
	if limit <= 0 {
		limit = defaultScanLimit
	}
	perPage := min(limit, maxPerPage)

	snapshots, err := s.source.GetMarkets(ctx, 1, perPage, true)
	if err != nil {
		return nil, fmt.Errorf("scan: failed to fetch market data: %w", err)
	}

	scanned := make([]contracts.ScannedAsset, 0, len(snapshots))
	for i := range snapshots {
		snapshot := snapshots[i]

		// Pre-filters: cheap rejection before scoring
		if filters.MinMarketCap > 0 && snapshot.MarketCap < filters.MinMarketCap {
			continue
		}
		if filters.MaxMarketCap > 0 && snapshot.MarketCap > filters.MaxMarketCap {
			continue
		}
		if filters.MinVolume > 0 && snapshot.Volume24h < filters.MinVolume {
			continue
		}

		asset, err := s.safeAnalyze(snapshot)
		if err != nil {
			s.logger.WithFields(map[string]interface{}{
				"asset": snapshot.ID,
				"error": err.Error(),
			}).Error("Asset scoring failed, falling back to basic analysis")
			// Degraded assets are always emitted; their low score must
			// not let the post-filters silently drop them.
			scanned = append(scanned, s.basicAnalysis(snapshot))
			continue
		}

		// Post-filters: need the momentum score first
		if filters.MinMomentumScore > 0 && asset.MomentumScore.OverallScore < filters.MinMomentumScore {
			continue
		}
		if len(filters.Signals) > 0 && !signalAllowed(asset.MomentumScore.Signal, filters.Signals) {
			continue
		}

		scanned = append(scanned, asset)
	}

	sortAssets(scanned, filters.SortBy)

	if len(scanned) > limit {
		scanned = scanned[:limit]
	}

	s.logger.WithFields(map[string]interface{}{
		"input":  len(snapshots),
		"output": len(scanned),
		"sort":   string(filters.SortBy),
	}).Info("Market scan completed")

	return scanned, nil
}

// safeAnalyze runs the scoring step, converting a panic from a
// malformed snapshot into an error so the caller can substitute the
// basic-analysis fallback.
func (s *Scanner) safeAnalyze(snapshot contracts.MarketSnapshot) (asset contracts.ScannedAsset, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scoring panicked for %s: %v", snapshot.ID, r)
		}
	}()
	return s.analyze(snapshot), nil
}

// analyzeSnapshot scores one asset from its sparkline
func (s *Scanner) analyzeSnapshot(snapshot contracts.MarketSnapshot) contracts.ScannedAsset {
	ta := s.technical.AnalyzeSparkline(snapshot.Sparkline, snapshot.Volume24h, snapshot.Volume24h*avgVolumeFactor)
	fa := s.fundamental.Analyze(snapshot, nil)
	ms := s.momentum.Calculate(ta, fa, snapshot.PriceChange30d)

	return buildAsset(snapshot, ta, fa, ms)
}

// basicAnalysis is the degraded scoring path: sparkline TA without
// volume context, no detail metadata, 30-day change assumed flat.
func (s *Scanner) basicAnalysis(snapshot contracts.MarketSnapshot) contracts.ScannedAsset {
	ta := s.technical.AnalyzeSparkline(snapshot.Sparkline, 0, 0)
	fa := s.fundamental.Analyze(snapshot, nil)
	ms := s.momentum.Calculate(ta, fa, 0)

	return buildAsset(snapshot, ta, fa, ms)
}

// DetailedAnalysis scores a single asset from its full OHLC history and
// detail metadata. The four upstream resources are fetched in parallel.
// OHLC-derived indicators win; volume analysis is borrowed from the
// sparkline pass since OHLC bars carry no volume.
func (s *Scanner) DetailedAnalysis(ctx context.Context, id string) (*contracts.AssetAnalysis, error) {
	var analysis contracts.AssetAnalysis

	_, err := s.cache.GetOrSet(ctx, redis.AnalysisKey(id), &analysis, redis.TTLAnalysis, func() (interface{}, error) {
		return s.detailedAnalysis(ctx, id)
	})
	if err != nil {
		return nil, err
	}
	return &analysis, nil
}

func (s *Scanner) detailedAnalysis(ctx context.Context, id string) (*contracts.AssetAnalysis, error) {
	var (
		snapshots []contracts.MarketSnapshot
		detail    *contracts.DetailMetadata
		ohlc      []contracts.OHLCBar
		chart     *contracts.ChartData
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		snapshots, err = s.source.GetMarkets(gctx, 1, 250, true)
		return err
	})
	g.Go(func() (err error) {
		detail, err = s.source.GetDetail(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		ohlc, err = s.source.GetOHLC(gctx, id, analysisDays)
		return err
	})
	g.Go(func() (err error) {
		chart, err = s.source.GetMarketChart(gctx, id, analysisDays)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("detailed analysis: failed to fetch data for %s: %w", id, err)
	}

	var snapshot *contracts.MarketSnapshot
	for i := range snapshots {
		if snapshots[i].ID == id {
			snapshot = &snapshots[i]
			break
		}
	}
	if snapshot == nil {
		return nil, fmt.Errorf("detailed analysis: asset %s not found in market data", id)
	}

	ta := s.technical.AnalyzeOHLC(ohlc)
	taSparkline := s.technical.AnalyzeSparkline(snapshot.Sparkline, snapshot.Volume24h, snapshot.Volume24h*avgVolumeFactor)
	ta.VolumeAnalysis = taSparkline.VolumeAnalysis

	fa := s.fundamental.Analyze(*snapshot, detail)
	ms := s.momentum.Calculate(ta, fa, snapshot.PriceChange30d)

	return &contracts.AssetAnalysis{
		ScannedAsset: buildAsset(*snapshot, ta, fa, ms),
		OHLC:         ohlc,
		Chart:        *chart,
	}, nil
}

// buildAsset assembles the scan output record for one asset
func buildAsset(
	snapshot contracts.MarketSnapshot,
	ta contracts.TechnicalIndicators,
	fa contracts.FundamentalAnalysis,
	ms contracts.MomentumScore,
) contracts.ScannedAsset {
	sparkline := snapshot.Sparkline
	if len(sparkline) > sparklineTail {
		sparkline = sparkline[len(sparkline)-sparklineTail:]
	}

	return contracts.ScannedAsset{
		ID:                  snapshot.ID,
		Symbol:              snapshot.Symbol,
		Name:                snapshot.Name,
		Image:               snapshot.Image,
		CurrentPrice:        snapshot.CurrentPrice,
		MarketCap:           snapshot.MarketCap,
		MarketCapRank:       snapshot.MarketCapRank,
		Volume24h:           snapshot.Volume24h,
		PriceChange24h:      snapshot.PriceChange24h,
		PriceChange7d:       snapshot.PriceChange7d,
		PriceChange30d:      snapshot.PriceChange30d,
		Sparkline:           sparkline,
		TechnicalIndicators: ta,
		FundamentalAnalysis: fa,
		MomentumScore:       ms,
		LastUpdated:         snapshot.LastUpdated,
	}
}

// sortAssets orders the scan output descending by the selected key.
// Ties keep snapshot order.
func sortAssets(assets []contracts.ScannedAsset, key contracts.SortKey) {
	sort.SliceStable(assets, func(i, j int) bool {
		switch key {
		case contracts.SortByPriceChange:
			return assets[i].PriceChange24h > assets[j].PriceChange24h
		case contracts.SortByVolume:
			return assets[i].Volume24h > assets[j].Volume24h
		case contracts.SortByMarketCap:
			return assets[i].MarketCap > assets[j].MarketCap
		default:
			return assets[i].MomentumScore.OverallScore > assets[j].MomentumScore.OverallScore
		}
	})
}

func signalAllowed(signal contracts.TradeSignal, allowed []contracts.TradeSignal) bool {
	for _, s := range allowed {
		if s == signal {
			return true
		}
	}
	return false
}

// scanKey derives a deterministic cache key from the filter set
func scanKey(filters contracts.ScanFilters) string {
	data, err := json.Marshal(filters)
	if err != nil {
		return "scan:default"
	}
	return fmt.Sprintf("scan:%s", data)
}
