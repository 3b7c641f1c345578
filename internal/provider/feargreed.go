package provider

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"coinsift/internal/domain"

	"go.opentelemetry.io/otel/trace"
)

const (
	fearGreedBaseURL = "https://api.alternative.me"
	fearGreedName    = "feargreed"
)

// FearGreed fetches the market-wide fear & greed index from alternative.me.
type FearGreed struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
	now     func() time.Time
}

func NewFearGreed(tracer trace.Tracer, limiter *RateLimiter) *FearGreed {
	return &FearGreed{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: fearGreedBaseURL,
		tracer:  tracer,
		limiter: limiter,
		now:     time.Now,
	}
}

func (p *FearGreed) Name() string { return fearGreedName }

func (p *FearGreed) FetchSentiment(ctx context.Context, _ Request) (domain.SentimentSnapshot, error) {
	ctx, span := p.tracer.Start(ctx, "feargreed.fetch-sentiment")
	defer span.End()

	u := strings.TrimRight(p.baseURL, "/") + "/fng/?limit=1"
	body, err := doGet(ctx, p.limiter, p.client, fearGreedName, u, nil)
	if err != nil {
		return domain.SentimentSnapshot{}, err
	}

	var payload struct {
		Data []struct {
			Value          string `json:"value"`
			Classification string `json:"value_classification"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.SentimentSnapshot{}, newFetchError(fearGreedName, KindMalformed, err)
	}
	if len(payload.Data) == 0 {
		return domain.SentimentSnapshot{}, newFetchError(fearGreedName, KindMalformed, fmt.Errorf("response has no rows"))
	}

	row := payload.Data[0]
	value, err := strconv.Atoi(strings.TrimSpace(row.Value))
	if err != nil || value < 0 || value > 100 {
		return domain.SentimentSnapshot{}, newFetchError(fearGreedName, KindMalformed, fmt.Errorf("bad index value %q", row.Value))
	}

	classification := strings.TrimSpace(row.Classification)
	if classification == "" {
		classification = ClassifyFearGreed(value)
	}

	return domain.SentimentSnapshot{
		Value:          value,
		Classification: classification,
		Source:         domain.SourceFearGreed,
		FetchedAt:      p.now().UTC(),
	}, nil
}

// ClassifyFearGreed maps an index value onto the standard qualitative bands.
func ClassifyFearGreed(value int) string {
	switch {
	case value < 25:
		return "Extreme Fear"
	case value < 45:
		return "Fear"
	case value < 55:
		return "Neutral"
	case value < 75:
		return "Greed"
	default:
		return "Extreme Greed"
	}
}
