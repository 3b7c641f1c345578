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
	redditBaseURL   = "https://www.reddit.com"
	redditName      = "reddit"
	redditUserAgent = "coinsift/1.0"
	redditPostLimit = 40
)

// Reddit is the degraded-tier social adapter: no credentials required. It
// approximates engagement from the hot posts of the asset's own subreddit,
// guessed from the asset name.
type Reddit struct {
	client    *http.Client
	baseURL   string
	userAgent string
	tracer    trace.Tracer
	limiter   *RateLimiter
	now       func() time.Time
}

func NewReddit(tracer trace.Tracer, limiter *RateLimiter) *Reddit {
	return &Reddit{
		client:    &http.Client{Timeout: 20 * time.Second},
		baseURL:   redditBaseURL,
		userAgent: redditUserAgent,
		tracer:    tracer,
		limiter:   limiter,
		now:       time.Now,
	}
}

func (p *Reddit) Name() string { return redditName }

func (p *Reddit) FetchSocial(ctx context.Context, req Request) (domain.SocialSnapshot, error) {
	ctx, span := p.tracer.Start(ctx, "reddit.fetch-social")
	defer span.End()

	subreddit := subredditFor(req)
	if subreddit == "" {
		return domain.SocialSnapshot{}, newFetchError(redditName, KindNotFound, fmt.Errorf("cannot derive subreddit from request"))
	}

	base := strings.TrimRight(p.baseURL, "/")
	u := fmt.Sprintf("%s/r/%s/hot.json?limit=%d", base, url.PathEscape(subreddit), redditPostLimit)
	headers := map[string]string{"User-Agent": p.userAgent}
	body, err := doGet(ctx, p.limiter, p.client, redditName, u, headers)
	if err != nil {
		return domain.SocialSnapshot{}, err
	}

	var payload struct {
		Data struct {
			Children []struct {
				Data struct {
					Score       float64 `json:"score"`
					NumComments float64 `json:"num_comments"`
					Ups         float64 `json:"ups"`
				} `json:"data"`
			} `json:"children"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return domain.SocialSnapshot{}, newFetchError(redditName, KindMalformed, err)
	}
	if len(payload.Data.Children) == 0 {
		return domain.SocialSnapshot{}, newFetchError(redditName, KindNotFound, fmt.Errorf("no posts in r/%s", subreddit))
	}

	var engagement float64
	for _, child := range payload.Data.Children {
		engagement += child.Data.Score + child.Data.NumComments
	}

	return domain.SocialSnapshot{
		Symbol:           strings.ToUpper(req.Symbol),
		Engagement:       engagement,
		SocialVolume:     float64(len(payload.Data.Children)),
		SentimentBullish: 50,
		SentimentBearish: 50,
		Source:           domain.SourceReddit,
		FetchedAt:        p.now().UTC(),
	}, nil
}

// subredditFor guesses the asset's subreddit from the resolved name, falling
// back to the coin id and then the raw query.
func subredditFor(req Request) string {
	for _, candidate := range []string{req.Name, req.CoinID, req.Query} {
		candidate = strings.ToLower(strings.TrimSpace(candidate))
		candidate = strings.ReplaceAll(candidate, " ", "")
		candidate = strings.ReplaceAll(candidate, "-", "")
		if candidate != "" {
			return candidate
		}
	}
	return ""
}
