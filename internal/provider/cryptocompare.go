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
	cryptocompareBaseURL = "https://min-api.cryptocompare.com/data"
	cryptocompareName    = "cryptocompare"
)

// CryptoCompare is the secondary market adapter. It knows nothing about
// CoinGecko ids and works from the plain symbol, deriving 7d/30d deltas from
// daily OHLC closes because the quote endpoint only carries a 24h change.
type CryptoCompare struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
	now     func() time.Time
}

func NewCryptoCompare(tracer trace.Tracer, limiter *RateLimiter) *CryptoCompare {
	return &CryptoCompare{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: cryptocompareBaseURL,
		tracer:  tracer,
		limiter: limiter,
		now:     time.Now,
	}
}

func (p *CryptoCompare) Name() string { return cryptocompareName }

func (p *CryptoCompare) FetchAsset(ctx context.Context, req Request) (domain.AssetSnapshot, error) {
	ctx, span := p.tracer.Start(ctx, "cryptocompare.fetch-asset")
	defer span.End()

	symbol := strings.ToUpper(strings.TrimSpace(req.Symbol))
	if symbol == "" {
		symbol = strings.ToUpper(strings.TrimSpace(req.Query))
	}
	if symbol == "" {
		return domain.AssetSnapshot{}, newFetchError(cryptocompareName, KindNotFound, fmt.Errorf("no symbol in request"))
	}

	quote, err := p.fetchQuote(ctx, symbol)
	if err != nil {
		return domain.AssetSnapshot{}, err
	}

	closes, err := p.fetchDailyCloses(ctx, symbol, 30)
	if err != nil {
		return domain.AssetSnapshot{}, err
	}

	snap := domain.AssetSnapshot{
		ID:           strings.ToLower(symbol),
		Name:         symbol,
		Symbol:       symbol,
		PriceUSD:     quote.price,
		MarketCap:    quote.marketCap,
		Volume24h:    quote.volume24h,
		Change24hPct: quote.change24hPct,
		Change7dPct:  pctChangeFromCloses(closes, 7),
		Change30dPct: pctChangeFromCloses(closes, 30),
		Source:       domain.SourceCryptoCompare,
		FetchedAt:    p.now().UTC(),
	}
	// Rank is not exposed by this provider; age falls back to the metric
	// estimate so elimination still sees a plausible value.
	snap.AgeDays = estimateAgeByMetrics(snap.MarketCap, 0)
	return snap, nil
}

type ccQuote struct {
	price        float64
	marketCap    float64
	volume24h    float64
	change24hPct float64
}

func (p *CryptoCompare) fetchQuote(ctx context.Context, symbol string) (ccQuote, error) {
	u := fmt.Sprintf("%s/pricemultifull?fsyms=%s&tsyms=USD", p.baseURL, url.QueryEscape(symbol))
	body, err := doGet(ctx, p.limiter, p.client, cryptocompareName, u, nil)
	if err != nil {
		return ccQuote{}, err
	}

	var raw struct {
		Raw map[string]map[string]struct {
			Price          float64 `json:"PRICE"`
			MktCap         float64 `json:"MKTCAP"`
			TotalVolume24h float64 `json:"TOTALVOLUME24HTO"`
			ChangePct24h   float64 `json:"CHANGEPCT24HOUR"`
		} `json:"RAW"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return ccQuote{}, newFetchError(cryptocompareName, KindMalformed, err)
	}

	usd, ok := raw.Raw[symbol]["USD"]
	if !ok {
		return ccQuote{}, newFetchError(cryptocompareName, KindNotFound, fmt.Errorf("no USD quote for %s", symbol))
	}
	return ccQuote{
		price:        usd.Price,
		marketCap:    usd.MktCap,
		volume24h:    usd.TotalVolume24h,
		change24hPct: usd.ChangePct24h,
	}, nil
}

// fetchDailyCloses returns daily closes oldest-first, days+1 points.
func (p *CryptoCompare) fetchDailyCloses(ctx context.Context, symbol string, days int) ([]float64, error) {
	u := fmt.Sprintf("%s/v2/histoday?fsym=%s&tsym=USD&limit=%d", p.baseURL, url.QueryEscape(symbol), days)
	body, err := doGet(ctx, p.limiter, p.client, cryptocompareName, u, nil)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Response string `json:"Response"`
		Data     struct {
			Data []struct {
				Close float64 `json:"close"`
			} `json:"Data"`
		} `json:"Data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, newFetchError(cryptocompareName, KindMalformed, err)
	}
	if strings.EqualFold(raw.Response, "Error") {
		return nil, newFetchError(cryptocompareName, KindNotFound, fmt.Errorf("histoday error for %s", symbol))
	}

	closes := make([]float64, 0, len(raw.Data.Data))
	for _, row := range raw.Data.Data {
		closes = append(closes, row.Close)
	}
	return closes, nil
}

// pctChangeFromCloses compares the latest close against the one daysBack
// before it. Degenerate history yields zero, not an error.
func pctChangeFromCloses(closes []float64, daysBack int) float64 {
	if len(closes) < 2 {
		return 0
	}
	last := closes[len(closes)-1]
	idx := len(closes) - 1 - daysBack
	if idx < 0 {
		idx = 0
	}
	base := closes[idx]
	if base == 0 {
		return 0
	}
	return (last/base - 1) * 100
}
