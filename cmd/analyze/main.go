// Command analyze runs the screening pipeline for the assets named on the
// command line and prints the results as JSON.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"coinsift/internal/cache"
	"coinsift/internal/cascade"
	"coinsift/internal/config"
	"coinsift/internal/logging"
	"coinsift/internal/provider"
	"coinsift/internal/screener"
	"coinsift/pkg/tracing"
)

func main() {
	pretty := flag.Bool("pretty", false, "indent JSON output")
	flag.Parse()

	queries := flag.Args()
	if len(queries) == 0 {
		fmt.Fprintln(os.Stderr, "usage: analyze [-pretty] <asset> [asset...]")
		os.Exit(2)
	}

	godotenv.Load()
	cfg := config.Load()
	log := logging.New()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, tracer, err := tracing.InitTracer(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer tp.Shutdown(context.Background())

	ttls := cache.TTLTable{
		cache.CategoryAsset:     cfg.TTLAsset,
		cache.CategorySentiment: cfg.TTLSentiment,
		cache.CategorySocial:    cfg.TTLSocial,
		cache.CategoryResolve:   cfg.TTLResolve,
	}
	store := cache.NewMemory(ttls)

	limiter := provider.NewRateLimiter(cfg.RequestMinInterval, cfg.RequestJitterMax, cfg.MaxRequestsPerMinute)
	resolver := cascade.NewResolver(store, log, cfg.BackoffBase, cfg.BackoffCap, cfg.RetryMaxAttempts)

	gecko := provider.NewCoinGecko(tracer, limiter)
	analyzer := screener.NewAnalyzer(
		log,
		tracer,
		resolver,
		gecko,
		[]screener.AssetFetcher{gecko, provider.NewCryptoCompare(tracer, limiter)},
		[]screener.SentimentFetcher{provider.NewFearGreed(tracer, limiter)},
		[]screener.SocialFetcher{
			provider.NewLunarCrush(tracer, limiter, cfg.LunarCrushAPIKey),
			provider.NewReddit(tracer, limiter),
		},
		screener.Thresholds{
			MinMarketCap:      cfg.MinMarketCap,
			MinVolume24h:      cfg.MinVolume24h,
			MinAgeDays:        cfg.MinAgeDays,
			MinLiquidityRatio: cfg.MinLiquidityRatio,
		},
		cfg.BatchDelay,
	)

	results := analyzer.AnalyzeBatch(ctx, queries)

	enc := json.NewEncoder(os.Stdout)
	if *pretty {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(results); err != nil {
		log.Fatalf("failed to encode results: %v", err)
	}
	if len(results) < len(queries) {
		os.Exit(1)
	}
}
