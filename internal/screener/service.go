package screener

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/trace"

	"coinsift/internal/cache"
	"coinsift/internal/cascade"
	"coinsift/internal/domain"
	"coinsift/internal/provider"
)

// IDResolver maps a raw user query onto a canonical asset id.
type IDResolver interface {
	ResolveID(ctx context.Context, query string) (string, error)
}

// AssetFetcher is a market data adapter in cascade order.
type AssetFetcher interface {
	Name() string
	FetchAsset(ctx context.Context, req provider.Request) (domain.AssetSnapshot, error)
}

// SentimentFetcher is a market-wide sentiment adapter.
type SentimentFetcher interface {
	Name() string
	FetchSentiment(ctx context.Context, req provider.Request) (domain.SentimentSnapshot, error)
}

// SocialFetcher is a per-asset social metrics adapter.
type SocialFetcher interface {
	Name() string
	FetchSocial(ctx context.Context, req provider.Request) (domain.SocialSnapshot, error)
}

// Analyzer runs the full pipeline for one query: resolve, cascade-fetch,
// eliminate, score, classify. The only error it ever reports is an empty or
// unresolvable query; provider trouble degrades into default payloads.
type Analyzer struct {
	log        *logrus.Logger
	tracer     trace.Tracer
	resolver   *cascade.Resolver
	ids        IDResolver
	markets    []AssetFetcher
	sentiments []SentimentFetcher
	socials    []SocialFetcher
	thresholds Thresholds
	batchDelay time.Duration

	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

func NewAnalyzer(
	log *logrus.Logger,
	tracer trace.Tracer,
	resolver *cascade.Resolver,
	ids IDResolver,
	markets []AssetFetcher,
	sentiments []SentimentFetcher,
	socials []SocialFetcher,
	thresholds Thresholds,
	batchDelay time.Duration,
) *Analyzer {
	return &Analyzer{
		log:        log,
		tracer:     tracer,
		resolver:   resolver,
		ids:        ids,
		markets:    markets,
		sentiments: sentiments,
		socials:    socials,
		thresholds: thresholds,
		batchDelay: batchDelay,
		now:        time.Now,
		sleep:      sleepCtx,
	}
}

// AnalyzeAsset runs the pipeline for one query. Score and Tier are only set
// when elimination passed; every other field is always populated.
func (a *Analyzer) AnalyzeAsset(ctx context.Context, query string) (*domain.AnalysisResult, error) {
	ctx, span := a.tracer.Start(ctx, "screener.analyze-asset")
	defer span.End()

	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil, fmt.Errorf("empty asset query")
	}

	req, err := a.resolveRequest(ctx, q)
	if err != nil {
		return nil, err
	}

	asset := a.fetchAsset(ctx, req)
	if asset.Symbol != "" {
		req.Symbol = asset.Symbol
	}
	if asset.Name != "" {
		req.Name = asset.Name
	}

	result := &domain.AnalysisResult{
		Query:       query,
		Asset:       asset,
		Elimination: Eliminate(asset, a.thresholds),
		Sentiment:   a.fetchSentiment(ctx, req),
		Social:      a.fetchSocial(ctx, req, asset),
		AnalyzedAt:  a.now().UTC(),
	}

	if result.Elimination.Passed {
		score := Score(asset)
		tier := Classify(asset, score.Total)
		result.Score = &score
		result.Tier = &tier
		result.Strengths = Strengths(asset, score, result.Social)
		result.Weaknesses = Weaknesses(asset, score, result.Social)
	}

	return result, nil
}

// AnalyzeBatch runs the pipeline sequentially with the configured inter-item
// delay. Cancelling ctx abandons the remaining queries and returns what was
// already produced; per-item query errors are logged and skipped.
func (a *Analyzer) AnalyzeBatch(ctx context.Context, queries []string) []*domain.AnalysisResult {
	results := make([]*domain.AnalysisResult, 0, len(queries))
	for i, query := range queries {
		if ctx.Err() != nil {
			a.log.WithField("remaining", len(queries)-i).Warn("batch abandoned")
			return results
		}
		if i > 0 {
			if err := a.sleep(ctx, a.batchDelay); err != nil {
				a.log.WithField("remaining", len(queries)-i).Warn("batch abandoned")
				return results
			}
		}

		result, err := a.AnalyzeAsset(ctx, query)
		if err != nil {
			a.log.WithFields(logrus.Fields{"query": query, "error": err}).Warn("skipping batch item")
			continue
		}
		results = append(results, result)
	}
	return results
}

// resolveRequest turns the query into a fetch request, caching successful id
// lookups. Only a definitive NotFound rejects the query; transient resolution
// trouble proceeds without an id so symbol-based adapters still get a chance.
func (a *Analyzer) resolveRequest(ctx context.Context, q string) (provider.Request, error) {
	req := provider.Request{Query: q, Symbol: strings.ToUpper(q)}

	key := cache.Key(cache.CategoryResolve, q)
	if raw, ok := a.resolver.Cache().Get(ctx, key); ok {
		req.CoinID = string(raw)
		return req, nil
	}

	id, err := a.ids.ResolveID(ctx, q)
	if err != nil {
		fe := provider.AsFetchError("resolve", err)
		if fe.Kind == provider.KindNotFound {
			return provider.Request{}, fmt.Errorf("unknown asset %q", q)
		}
		a.log.WithFields(logrus.Fields{"query": q, "kind": fe.Kind}).Warn("id resolution degraded")
		return req, nil
	}

	req.CoinID = id
	a.resolver.Cache().Put(ctx, key, []byte(id), cache.CategoryResolve)
	return req, nil
}

func (a *Analyzer) fetchAsset(ctx context.Context, req provider.Request) domain.AssetSnapshot {
	strategies := make([]cascade.Strategy[domain.AssetSnapshot], 0, len(a.markets))
	for _, m := range a.markets {
		m := m
		strategies = append(strategies, cascade.Strategy[domain.AssetSnapshot]{
			Name:  m.Name(),
			Fetch: func(ctx context.Context) (domain.AssetSnapshot, error) { return m.FetchAsset(ctx, req) },
		})
	}
	key := req.CoinID
	if key == "" {
		key = req.Query
	}
	return cascade.Resolve(ctx, a.resolver, cache.CategoryAsset, key, strategies, func() domain.AssetSnapshot {
		return domain.DefaultAssetSnapshot(req.Query, a.now().UTC())
	})
}

func (a *Analyzer) fetchSentiment(ctx context.Context, req provider.Request) domain.SentimentSnapshot {
	strategies := make([]cascade.Strategy[domain.SentimentSnapshot], 0, len(a.sentiments))
	for _, s := range a.sentiments {
		s := s
		strategies = append(strategies, cascade.Strategy[domain.SentimentSnapshot]{
			Name:  s.Name(),
			Fetch: func(ctx context.Context) (domain.SentimentSnapshot, error) { return s.FetchSentiment(ctx, req) },
		})
	}
	// Sentiment is market-wide, so every asset shares one cache slot.
	return cascade.Resolve(ctx, a.resolver, cache.CategorySentiment, "global", strategies, func() domain.SentimentSnapshot {
		return domain.DefaultSentimentSnapshot(a.now().UTC())
	})
}

func (a *Analyzer) fetchSocial(ctx context.Context, req provider.Request, asset domain.AssetSnapshot) domain.SocialSnapshot {
	strategies := make([]cascade.Strategy[domain.SocialSnapshot], 0, len(a.socials)+1)
	for _, s := range a.socials {
		s := s
		strategies = append(strategies, cascade.Strategy[domain.SocialSnapshot]{
			Name:  s.Name(),
			Fetch: func(ctx context.Context) (domain.SocialSnapshot, error) { return s.FetchSocial(ctx, req) },
		})
	}
	// Last tier before the degraded default: approximate social activity from
	// the asset's own community counters when they are present.
	strategies = append(strategies, cascade.Strategy[domain.SocialSnapshot]{
		Name: "community",
		Fetch: func(context.Context) (domain.SocialSnapshot, error) {
			if asset.TwitterFollowers == 0 && asset.RedditSubscribers == 0 {
				return domain.SocialSnapshot{}, &provider.FetchError{
					Kind: provider.KindNotFound, Provider: "community",
					Err: fmt.Errorf("no community counters for %s", req.Symbol),
				}
			}
			return domain.CommunitySocialSnapshot(asset, a.now().UTC()), nil
		},
	})
	return cascade.Resolve(ctx, a.resolver, cache.CategorySocial, strings.ToLower(req.Symbol), strategies, func() domain.SocialSnapshot {
		return domain.DefaultSocialSnapshot(req.Symbol, a.now().UTC())
	})
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
