package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/coinpulse/internal/api/handlers"
	"github.com/wonny/coinpulse/internal/contracts"
	"github.com/wonny/coinpulse/internal/external/coingecko"
	"github.com/wonny/coinpulse/internal/portfolio"
	"github.com/wonny/coinpulse/internal/scanner"
	"github.com/wonny/coinpulse/internal/telemetry"
	"github.com/wonny/coinpulse/pkg/config"
	"github.com/wonny/coinpulse/pkg/httputil"
	"github.com/wonny/coinpulse/pkg/logger"
	"github.com/wonny/coinpulse/pkg/redis"
)

type fakeSource struct {
	markets []contracts.MarketSnapshot
}

func (f *fakeSource) GetMarkets(ctx context.Context, page, perPage int, sparkline bool) ([]contracts.MarketSnapshot, error) {
	return f.markets, nil
}

func (f *fakeSource) GetDetail(ctx context.Context, id string) (*contracts.DetailMetadata, error) {
	return &contracts.DetailMetadata{}, nil
}

func (f *fakeSource) GetOHLC(ctx context.Context, id string, days int) ([]contracts.OHLCBar, error) {
	return nil, nil
}

func (f *fakeSource) GetMarketChart(ctx context.Context, id string, days int) (*contracts.ChartData, error) {
	return &contracts.ChartData{}, nil
}

func testRouter(t *testing.T, upstream http.Handler) http.Handler {
	t.Helper()

	log := logger.NewNop()

	redisClient, err := redis.New(&config.Config{})
	require.NoError(t, err)
	cache := redis.NewCache(redisClient, "coinpulse-test")

	prices := make([]float64, 168)
	price := 100.0
	for i := range prices {
		prices[i] = price
		price *= 1.005
	}

	source := &fakeSource{markets: []contracts.MarketSnapshot{
		{
			ID:            "bitcoin",
			Symbol:        "btc",
			Name:          "Bitcoin",
			CurrentPrice:  prices[len(prices)-1],
			MarketCap:     1_200_000_000_000,
			MarketCapRank: 1,
			Volume24h:     30_000_000_000,
			Sparkline:     prices,
		},
	}}

	scn := scanner.New(source, cache, log)
	sim := portfolio.NewSimulator(scn, log)

	var upstreamServer *httptest.Server
	if upstream != nil {
		upstreamServer = httptest.NewServer(upstream)
		t.Cleanup(upstreamServer.Close)
	} else {
		upstreamServer = httptest.NewServer(http.NotFoundHandler())
		t.Cleanup(upstreamServer.Close)
	}

	cfg := &config.Config{
		Env:       "development",
		CoinGecko: config.CoinGeckoConfig{BaseURL: upstreamServer.URL},
	}
	client := coingecko.NewClient(cfg, httputil.New(cfg, log).DisableRetry(), cache, log)

	metrics := telemetry.New()
	return NewRouter(
		handlers.NewScannerHandler(scn, metrics, log),
		handlers.NewPortfolioHandler(sim, log),
		handlers.NewMarketHandler(client, log),
		metrics,
		log,
	)
}

func TestRouter_Health(t *testing.T) {
	router := testRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/health", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestRouter_Scanner(t *testing.T) {
	router := testRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/scanner?limit=10&sortBy=momentum", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool                     `json:"success"`
		Count   int                      `json:"count"`
		Data    []contracts.ScannedAsset `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.True(t, body.Success)
	assert.Equal(t, 1, body.Count)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "bitcoin", body.Data[0].ID)
}

func TestRouter_Scanner_BadQuery(t *testing.T) {
	router := testRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/scanner?minMarketCap=abc", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Coin_NotFound(t *testing.T) {
	router := testRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/coin/no-such-coin", nil))

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_PortfolioSimulate(t *testing.T) {
	router := testRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/portfolio/simulate?initial=100&target=1000&riskProfile=medium", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool                          `json:"success"`
		Data    contracts.PortfolioSimulation `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.True(t, body.Success)
	assert.Equal(t, 100.0, body.Data.InitialInvestment)
	assert.Equal(t, contracts.ProfileMedium, body.Data.RiskProfile)
}

func TestRouter_PortfolioSimulate_InvalidProfile(t *testing.T) {
	router := testRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/portfolio/simulate?riskProfile=yolo", nil))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_Trending(t *testing.T) {
	upstream := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search/trending" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"coins": [{"item": {"id": "pepe", "name": "Pepe", "symbol": "PEPE"}}]}`))
	})

	router := testRouter(t, upstream)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/trending", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool                    `json:"success"`
		Data    []coingecko.TrendingCoin `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	require.Len(t, body.Data, 1)
	assert.Equal(t, "pepe", body.Data[0].ID)
}

func TestRouter_Trending_UpstreamDown(t *testing.T) {
	router := testRouter(t, nil) // upstream 404s everything

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/trending", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRouter_Stats(t *testing.T) {
	router := testRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest("GET", "/api/stats", nil))

	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Success bool                  `json:"success"`
		Data    handlers.ServiceStats `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.GreaterOrEqual(t, body.Data.Goroutines, 1)
}
