package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/sony/gobreaker"

	"github.com/wonny/coinpulse/internal/contracts"
	"github.com/wonny/coinpulse/internal/telemetry"
	"github.com/wonny/coinpulse/pkg/config"
	"github.com/wonny/coinpulse/pkg/httputil"
	"github.com/wonny/coinpulse/pkg/logger"
	"github.com/wonny/coinpulse/pkg/redis"
)

// Client handles communication with the CoinGecko API
// SSOT: CoinGecko calls happen only through this client.
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cache      *redis.Cache
	breaker    *gobreaker.CircuitBreaker
	metrics    *telemetry.Metrics // optional, nil outside the API server
	baseURL    string
	apiKey     string
}

// NewClient creates a new CoinGecko client
func NewClient(cfg *config.Config, httpClient *httputil.Client, cache *redis.Cache, log *logger.Logger) *Client {
	settings := gobreaker.Settings{
		Name:     "coingecko",
		Interval: 60 * time.Second,
		Timeout:  60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.ConsecutiveFailures >= 3 {
				return true
			}
			total := counts.Requests
			if total >= 20 {
				return float64(counts.TotalFailures)/float64(total) > 0.05
			}
			return false
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.WithFields(map[string]interface{}{
				"breaker": name,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	}

	return &Client{
		httpClient: httpClient,
		logger:     log,
		cache:      cache,
		breaker:    gobreaker.NewCircuitBreaker(settings),
		baseURL:    cfg.CoinGecko.BaseURL,
		apiKey:     cfg.CoinGecko.APIKey,
	}
}

// WithMetrics attaches upstream and cache instrumentation
func (c *Client) WithMetrics(m *telemetry.Metrics) *Client {
	c.metrics = m
	return c
}

// fetchJSON fetches a JSON payload from a CoinGecko endpoint
func (c *Client) fetchJSON(ctx context.Context, path string, params url.Values, dest interface{}) error {
	fullURL := fmt.Sprintf("%s%s", c.baseURL, path)
	if len(params) > 0 {
		fullURL = fmt.Sprintf("%s?%s", fullURL, params.Encode())
	}

	headers := map[string]string{
		"Accept": "application/json",
	}
	if c.apiKey != "" {
		headers["x-cg-demo-api-key"] = c.apiKey
	}

	body, err := c.breaker.Execute(func() (interface{}, error) {
		resp, err := c.httpClient.GetWithHeaders(ctx, fullURL, headers)
		if err != nil {
			return nil, fmt.Errorf("HTTP request failed: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
		}

		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to read response body: %w", err)
		}
		return data, nil
	})
	if err != nil {
		c.metrics.ObserveUpstreamError(path)
		return err
	}

	if err := json.Unmarshal(body.([]byte), dest); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}

// GetMarkets fetches one page of market snapshots, ranked by market cap
func (c *Client) GetMarkets(ctx context.Context, page, perPage int, sparkline bool) ([]contracts.MarketSnapshot, error) {
	var snapshots []contracts.MarketSnapshot
	key := redis.MarketsKey(page, perPage, sparkline)

	hit, err := c.cache.GetOrSet(ctx, key, &snapshots, redis.TTLMarkets, func() (interface{}, error) {
		params := url.Values{}
		params.Set("vs_currency", "usd")
		params.Set("order", "market_cap_desc")
		params.Set("per_page", strconv.Itoa(perPage))
		params.Set("page", strconv.Itoa(page))
		params.Set("sparkline", strconv.FormatBool(sparkline))
		params.Set("price_change_percentage", "24h,7d,30d")

		var rows []marketRow
		if err := c.fetchJSON(ctx, "/coins/markets", params, &rows); err != nil {
			return nil, fmt.Errorf("failed to fetch markets page %d: %w", page, err)
		}

		result := make([]contracts.MarketSnapshot, 0, len(rows))
		for i := range rows {
			result = append(result, rows[i].toSnapshot())
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	c.metrics.ObserveCacheLookup("markets", hit)

	c.logger.WithFields(map[string]interface{}{
		"page":  page,
		"count": len(snapshots),
	}).Debug("Fetched market snapshots")

	return snapshots, nil
}

// GetDetail fetches community, developer and sentiment metadata for one asset
func (c *Client) GetDetail(ctx context.Context, id string) (*contracts.DetailMetadata, error) {
	var detail contracts.DetailMetadata

	hit, err := c.cache.GetOrSet(ctx, redis.DetailKey(id), &detail, redis.TTLDetail, func() (interface{}, error) {
		params := url.Values{}
		params.Set("localization", "false")
		params.Set("tickers", "false")
		params.Set("market_data", "false")
		params.Set("community_data", "true")
		params.Set("developer_data", "true")
		params.Set("sparkline", "false")

		var payload detailPayload
		if err := c.fetchJSON(ctx, "/coins/"+url.PathEscape(id), params, &payload); err != nil {
			return nil, fmt.Errorf("failed to fetch detail for %s: %w", id, err)
		}
		return payload.toDetail(), nil
	})
	if err != nil {
		return nil, err
	}
	c.metrics.ObserveCacheLookup("detail", hit)

	return &detail, nil
}

// GetOHLC fetches OHLC candles for an asset
func (c *Client) GetOHLC(ctx context.Context, id string, days int) ([]contracts.OHLCBar, error) {
	var bars []contracts.OHLCBar

	hit, err := c.cache.GetOrSet(ctx, redis.OHLCKey(id, days), &bars, redis.TTLOHLC, func() (interface{}, error) {
		params := url.Values{}
		params.Set("vs_currency", "usd")
		params.Set("days", strconv.Itoa(days))

		// Wire format: [[ts, open, high, low, close], ...]
		var raw [][]float64
		if err := c.fetchJSON(ctx, fmt.Sprintf("/coins/%s/ohlc", url.PathEscape(id)), params, &raw); err != nil {
			return nil, fmt.Errorf("failed to fetch OHLC for %s: %w", id, err)
		}

		result := make([]contracts.OHLCBar, 0, len(raw))
		for _, row := range raw {
			if len(row) < 5 {
				continue
			}
			result = append(result, contracts.OHLCBar{
				Timestamp: int64(row[0]),
				Open:      row[1],
				High:      row[2],
				Low:       row[3],
				Close:     row[4],
			})
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	c.metrics.ObserveCacheLookup("ohlc", hit)

	return bars, nil
}

// GetMarketChart fetches price, volume and market cap series for an asset
func (c *Client) GetMarketChart(ctx context.Context, id string, days int) (*contracts.ChartData, error) {
	var chart contracts.ChartData

	hit, err := c.cache.GetOrSet(ctx, redis.ChartKey(id, days), &chart, redis.TTLChart, func() (interface{}, error) {
		params := url.Values{}
		params.Set("vs_currency", "usd")
		params.Set("days", strconv.Itoa(days))

		var payload chartPayload
		if err := c.fetchJSON(ctx, fmt.Sprintf("/coins/%s/market_chart", url.PathEscape(id)), params, &payload); err != nil {
			return nil, fmt.Errorf("failed to fetch chart for %s: %w", id, err)
		}
		return &contracts.ChartData{
			Prices:     payload.Prices,
			Volumes:    payload.TotalVolumes,
			MarketCaps: payload.MarketCaps,
		}, nil
	})
	if err != nil {
		return nil, err
	}
	c.metrics.ObserveCacheLookup("chart", hit)

	return &chart, nil
}

// GetTrending fetches the trending coins list
func (c *Client) GetTrending(ctx context.Context) ([]TrendingCoin, error) {
	var coins []TrendingCoin

	hit, err := c.cache.GetOrSet(ctx, "trending", &coins, redis.TTLTrending, func() (interface{}, error) {
		var payload trendingPayload
		if err := c.fetchJSON(ctx, "/search/trending", nil, &payload); err != nil {
			return nil, fmt.Errorf("failed to fetch trending: %w", err)
		}

		result := make([]TrendingCoin, 0, len(payload.Coins))
		for _, entry := range payload.Coins {
			result = append(result, entry.Item)
		}
		return result, nil
	})
	if err != nil {
		return nil, err
	}
	c.metrics.ObserveCacheLookup("trending", hit)

	return coins, nil
}

// GetGlobal fetches global market statistics
func (c *Client) GetGlobal(ctx context.Context) (*GlobalData, error) {
	var global GlobalData

	hit, err := c.cache.GetOrSet(ctx, "global", &global, redis.TTLGlobal, func() (interface{}, error) {
		var payload globalPayload
		if err := c.fetchJSON(ctx, "/global", nil, &payload); err != nil {
			return nil, fmt.Errorf("failed to fetch global stats: %w", err)
		}
		return payload.Data, nil
	})
	if err != nil {
		return nil, err
	}
	c.metrics.ObserveCacheLookup("global", hit)

	return &global, nil
}
