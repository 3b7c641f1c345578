package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"coinsift/internal/cache"
	"coinsift/internal/cascade"
	"coinsift/internal/config"
	"coinsift/internal/handler"
	"coinsift/internal/logging"
	"coinsift/internal/provider"
	"coinsift/internal/screener"
	"coinsift/pkg/tracing"
)

func main() {
	godotenv.Load()

	cfg := config.Load()
	log := logging.New()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tp, tracer, err := tracing.InitTracer(ctx)
	if err != nil {
		log.Fatalf("failed to initialize tracer: %v", err)
	}
	defer func() {
		if err := tp.Shutdown(ctx); err != nil {
			log.Warnf("error shutting down tracer provider: %v", err)
		}
	}()

	ttls := cache.TTLTable{
		cache.CategoryAsset:     cfg.TTLAsset,
		cache.CategorySentiment: cfg.TTLSentiment,
		cache.CategorySocial:    cfg.TTLSocial,
		cache.CategoryResolve:   cfg.TTLResolve,
	}
	var store cache.Store = cache.NewMemory(ttls)
	if cfg.RedisURL != "" {
		redisStore, err := cache.NewRedis(ctx, cfg.RedisURL, ttls, log)
		if err != nil {
			log.Warnf("redis unavailable, falling back to memory cache: %v", err)
		} else {
			defer redisStore.Close()
			store = redisStore
		}
	}

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

	h := handler.New(tracer, analyzer)

	r := gin.Default()
	r.Use(otelgin.Middleware("coinsift"))
	h.RegisterRoutes(r, cfg.APIKey)

	srv := &http.Server{
		Addr:    cfg.HTTPBind,
		Handler: r,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()
	log.WithField("addr", cfg.HTTPBind).Info("server started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("shutting down server")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Info("server exiting")
}
