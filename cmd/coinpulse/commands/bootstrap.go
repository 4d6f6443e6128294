package commands

import (
	"fmt"

	"github.com/wonny/coinpulse/internal/external/coingecko"
	"github.com/wonny/coinpulse/internal/scanner"
	"github.com/wonny/coinpulse/pkg/config"
	"github.com/wonny/coinpulse/pkg/httputil"
	"github.com/wonny/coinpulse/pkg/logger"
	"github.com/wonny/coinpulse/pkg/redis"
)

// runtime bundles the shared service wiring every command needs
type runtime struct {
	cfg     *config.Config
	log     *logger.Logger
	redis   *redis.Client
	cache   *redis.Cache
	gecko   *coingecko.Client
	scanner *scanner.Scanner
}

// newRuntime loads config and wires the service graph
// SSOT: dependency wiring for all commands happens here only.
func newRuntime() (*runtime, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	log := logger.New(cfg)

	redisClient, err := redis.New(cfg)
	if err != nil {
		// Redis is an accelerator, not a dependency
		log.WithError(err).Warn("Redis unavailable, running without cache")
		redisClient, _ = redis.New(&config.Config{})
	}
	cache := redis.NewCache(redisClient, "coinpulse")

	httpClient := httputil.
		NewWithTimeout(cfg, log, cfg.CoinGecko.Timeout).
		WithMinInterval(cfg.CoinGecko.MinRequestInterval)
	if redisClient.Enabled() {
		httpClient = httpClient.WithRateLimiter(redis.NewRateLimiter(redisClient, "coinpulse"), redis.CoinGeckoRateLimit)
	}

	gecko := coingecko.NewClient(cfg, httpClient, cache, log)
	scn := scanner.New(gecko, cache, log)

	return &runtime{
		cfg:     cfg,
		log:     log,
		redis:   redisClient,
		cache:   cache,
		gecko:   gecko,
		scanner: scn,
	}, nil
}

// close releases runtime resources
func (r *runtime) close() {
	if r.redis != nil {
		_ = r.redis.Close()
	}
}
