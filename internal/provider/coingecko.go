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
	coingeckoBaseURL = "https://api.coingecko.com/api/v3"
	coingeckoName    = "coingecko"
)

// directCoinIDs maps well-known symbols and names straight to CoinGecko ids
// so most lookups never touch the search API.
var directCoinIDs = map[string]string{
	"bitcoin": "bitcoin", "btc": "bitcoin",
	"ethereum": "ethereum", "eth": "ethereum",
	"binancecoin": "binancecoin", "bnb": "binancecoin",
	"cardano": "cardano", "ada": "cardano",
	"solana": "solana", "sol": "solana",
	"polygon": "matic-network", "matic": "matic-network",
	"chainlink": "chainlink", "link": "chainlink",
	"polkadot": "polkadot", "dot": "polkadot",
	"avalanche-2": "avalanche-2", "avax": "avalanche-2",
	"uniswap": "uniswap", "uni": "uniswap",
	"litecoin": "litecoin", "ltc": "litecoin",
	"dogecoin": "dogecoin", "doge": "dogecoin",
	"shiba-inu": "shiba-inu", "shib": "shiba-inu",
	"arbitrum": "arbitrum", "arb": "arbitrum",
	"optimism": "optimism", "op": "optimism",
	"ripple": "ripple", "xrp": "ripple",
	"stellar": "stellar", "xlm": "stellar",
	"cosmos": "cosmos", "atom": "cosmos",
	"algorand": "algorand", "algo": "algorand",
	"tezos": "tezos", "xtz": "tezos",
	"monero": "monero", "xmr": "monero",
	"tether": "tether", "usdt": "tether",
	"usd-coin": "usd-coin", "usdc": "usd-coin",
}

// CoinGecko is the primary market data adapter. It is stateless aside from
// the shared limiter it is handed at construction.
type CoinGecko struct {
	client  *http.Client
	baseURL string
	tracer  trace.Tracer
	limiter *RateLimiter
	now     func() time.Time
}

func NewCoinGecko(tracer trace.Tracer, limiter *RateLimiter) *CoinGecko {
	return &CoinGecko{
		client:  &http.Client{Timeout: 15 * time.Second},
		baseURL: coingeckoBaseURL,
		tracer:  tracer,
		limiter: limiter,
		now:     time.Now,
	}
}

func (p *CoinGecko) Name() string { return coingeckoName }

// ResolveID turns a user query into a CoinGecko id, trying the static map
// before falling back to the search endpoint.
func (p *CoinGecko) ResolveID(ctx context.Context, query string) (string, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.resolve-id")
	defer span.End()

	q := strings.ToLower(strings.TrimSpace(query))
	if id, ok := directCoinIDs[q]; ok {
		return id, nil
	}

	u := fmt.Sprintf("%s/search?query=%s", p.baseURL, url.QueryEscape(q))
	body, err := doGet(ctx, p.limiter, p.client, coingeckoName, u, nil)
	if err != nil {
		return "", err
	}

	var payload struct {
		Coins []struct {
			ID     string `json:"id"`
			Symbol string `json:"symbol"`
			Name   string `json:"name"`
		} `json:"coins"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", newFetchError(coingeckoName, KindMalformed, err)
	}
	if len(payload.Coins) == 0 {
		return "", newFetchError(coingeckoName, KindNotFound, fmt.Errorf("no search results for %q", query))
	}

	for _, coin := range payload.Coins {
		if strings.EqualFold(coin.Symbol, q) || strings.EqualFold(coin.Name, q) {
			return coin.ID, nil
		}
	}
	return payload.Coins[0].ID, nil
}

// FetchAsset normalizes /coins/{id} into an AssetSnapshot. Missing or null
// fields are treated as absent, never as failures.
func (p *CoinGecko) FetchAsset(ctx context.Context, req Request) (domain.AssetSnapshot, error) {
	ctx, span := p.tracer.Start(ctx, "coingecko.fetch-asset")
	defer span.End()

	if req.CoinID == "" {
		return domain.AssetSnapshot{}, newFetchError(coingeckoName, KindNotFound, fmt.Errorf("no coin id for %q", req.Query))
	}

	u := fmt.Sprintf("%s/coins/%s?localization=false&tickers=false&market_data=true&community_data=true&developer_data=true&sparkline=false",
		p.baseURL, url.PathEscape(req.CoinID))
	body, err := doGet(ctx, p.limiter, p.client, coingeckoName, u, nil)
	if err != nil {
		return domain.AssetSnapshot{}, err
	}

	var raw struct {
		ID          string   `json:"id"`
		Symbol      string   `json:"symbol"`
		Name        string   `json:"name"`
		GenesisDate string   `json:"genesis_date"`
		Categories  []string `json:"categories"`
		MarketData  struct {
			CurrentPrice  map[string]float64 `json:"current_price"`
			MarketCap     map[string]float64 `json:"market_cap"`
			TotalVolume   map[string]float64 `json:"total_volume"`
			Change24h     float64            `json:"price_change_percentage_24h"`
			Change7d      float64            `json:"price_change_percentage_7d"`
			Change30d     float64            `json:"price_change_percentage_30d"`
			MarketCapRank int                `json:"market_cap_rank"`
		} `json:"market_data"`
		CommunityData struct {
			TwitterFollowers  int `json:"twitter_followers"`
			RedditSubscribers int `json:"reddit_subscribers"`
		} `json:"community_data"`
		DeveloperData struct {
			CommitCount4Weeks int `json:"commit_count_4_weeks"`
			Stars             int `json:"stars"`
		} `json:"developer_data"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return domain.AssetSnapshot{}, newFetchError(coingeckoName, KindMalformed, err)
	}
	if raw.ID == "" {
		return domain.AssetSnapshot{}, newFetchError(coingeckoName, KindMalformed, fmt.Errorf("response missing coin id"))
	}

	category := ""
	if len(raw.Categories) > 0 {
		category = strings.ToLower(raw.Categories[0])
	}

	snap := domain.AssetSnapshot{
		ID:                raw.ID,
		Name:              raw.Name,
		Symbol:            strings.ToUpper(raw.Symbol),
		PriceUSD:          raw.MarketData.CurrentPrice["usd"],
		MarketCap:         raw.MarketData.MarketCap["usd"],
		Volume24h:         raw.MarketData.TotalVolume["usd"],
		Rank:              raw.MarketData.MarketCapRank,
		Change24hPct:      raw.MarketData.Change24h,
		Change7dPct:       raw.MarketData.Change7d,
		Change30dPct:      raw.MarketData.Change30d,
		Category:          category,
		CommitCount4w:     raw.DeveloperData.CommitCount4Weeks,
		Stars:             raw.DeveloperData.Stars,
		TwitterFollowers:  raw.CommunityData.TwitterFollowers,
		RedditSubscribers: raw.CommunityData.RedditSubscribers,
		Source:            domain.SourceCoinGecko,
		FetchedAt:         p.now().UTC(),
	}
	snap.AgeDays = p.ageDays(ctx, raw.ID, raw.GenesisDate, snap.MarketCap, snap.Rank)
	return snap, nil
}

// ageDays derives the asset's age using three strategies in order: genesis
// date, earliest market_chart point, metric-based estimate.
func (p *CoinGecko) ageDays(ctx context.Context, coinID, genesisDate string, marketCap float64, rank int) int {
	if days := ageFromGenesis(genesisDate, p.now()); days > 0 {
		return days
	}
	if days := p.ageFromHistory(ctx, coinID); days > 0 {
		return days
	}
	return estimateAgeByMetrics(marketCap, rank)
}

func ageFromGenesis(genesisDate string, now time.Time) int {
	genesisDate = strings.TrimSpace(genesisDate)
	if genesisDate == "" {
		return 0
	}
	for _, layout := range []string{"2006-01-02", "2006-01-02T15:04:05", time.RFC3339} {
		if ts, err := time.Parse(layout, genesisDate); err == nil {
			days := int(now.Sub(ts).Hours() / 24)
			if days > 0 {
				return days
			}
			return 0
		}
	}
	return 0
}

func (p *CoinGecko) ageFromHistory(ctx context.Context, coinID string) int {
	u := fmt.Sprintf("%s/coins/%s/market_chart?vs_currency=usd&days=max", p.baseURL, url.PathEscape(coinID))
	body, err := doGet(ctx, p.limiter, p.client, coingeckoName, u, nil)
	if err != nil {
		return 0
	}

	var raw struct {
		Prices [][]float64 `json:"prices"`
	}
	if err := json.Unmarshal(body, &raw); err != nil || len(raw.Prices) == 0 || len(raw.Prices[0]) < 1 {
		return 0
	}

	first := time.UnixMilli(int64(raw.Prices[0][0]))
	days := int(p.now().Sub(first).Hours() / 24)
	if days > 0 && days < 20000 {
		return days
	}
	return 0
}

// estimateAgeByMetrics is the last-resort age heuristic: established rank and
// cap imply an older asset.
func estimateAgeByMetrics(marketCap float64, rank int) int {
	if rank <= 0 {
		rank = 9999
	}
	switch {
	case rank <= 50 && marketCap > 1_000_000_000:
		return 1500
	case rank <= 100 && marketCap > 500_000_000:
		return 1000
	case rank <= 300 && marketCap > 100_000_000:
		return 730
	case marketCap > 10_000_000:
		return 365
	case marketCap > 1_000_000:
		return 200
	default:
		return 90
	}
}
