package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"coinsift/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	lunarcrushBaseURL = "https://lunarcrush.com/api/v4"
	lunarcrushName    = "lunarcrush"
)

// LunarCrush is the primary social metrics adapter. It requires a bearer
// token; without one every fetch fails Unauthorized so the cascade moves on
// immediately instead of wasting a network round trip.
type LunarCrush struct {
	client  *http.Client
	baseURL string
	apiKey  string
	tracer  trace.Tracer
	limiter *RateLimiter
	now     func() time.Time
}

func NewLunarCrush(tracer trace.Tracer, limiter *RateLimiter, apiKey string) *LunarCrush {
	return &LunarCrush{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: lunarcrushBaseURL,
		apiKey:  strings.TrimSpace(apiKey),
		tracer:  tracer,
		limiter: limiter,
		now:     time.Now,
	}
}

func (p *LunarCrush) Name() string { return lunarcrushName }

func (p *LunarCrush) FetchSocial(ctx context.Context, req Request) (domain.SocialSnapshot, error) {
	ctx, span := p.tracer.Start(ctx, "lunarcrush.fetch-social")
	defer span.End()

	if p.apiKey == "" {
		return domain.SocialSnapshot{}, newFetchError(lunarcrushName, KindUnauthorized, fmt.Errorf("no API key configured"))
	}

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		return domain.SocialSnapshot{}, newFetchError(lunarcrushName, KindNotFound, fmt.Errorf("no symbol in request"))
	}

	u := fmt.Sprintf("%s/public/coins?symbols=%s&interval=1d", p.baseURL, url.QueryEscape(symbol))
	headers := map[string]string{"Authorization": "Bearer " + p.apiKey}
	body, err := doGet(ctx, p.limiter, p.client, lunarcrushName, u, headers)
	if err != nil {
		return domain.SocialSnapshot{}, err
	}

	var payload struct {
		Data []struct {
			SocialVolume    float64 `json:"social_volume"`
			Engagement      float64 `json:"social_engagement"`
			VolumeChange24h float64 `json:"social_volume_24h_change"`
			Sentiment       struct {
				Bullish float64 `json:"bullish"`
				Bearish float64 `json:"bearish"`
			} `json:"sentiment"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.SocialSnapshot{}, newFetchError(lunarcrushName, KindMalformed, err)
	}
	if len(payload.Data) == 0 {
		return domain.SocialSnapshot{}, newFetchError(lunarcrushName, KindNotFound, fmt.Errorf("no social rows for %s", symbol))
	}

	row := payload.Data[0]
	bullish := row.Sentiment.Bullish
	bearish := row.Sentiment.Bearish
	if bullish == 0 && bearish == 0 {
		bullish, bearish = 50, 50
	}

	return domain.SocialSnapshot{
		Symbol:           symbol,
		Engagement:       row.Engagement,
		SocialVolume:     row.SocialVolume,
		VolumeChangePct:  row.VolumeChange24h,
		SentimentBullish: bullish,
		SentimentBearish: bearish,
		Source:           domain.SourceLunarCrush,
		FetchedAt:        p.now().UTC(),
	}, nil
}
