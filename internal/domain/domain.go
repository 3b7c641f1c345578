package domain

import "time"

// AssetSnapshot is the normalized market record for one asset at one point in
// time. It is produced fresh per request by a provider adapter and never
// mutated afterward.
type AssetSnapshot struct {
	ID                string    `json:"id"`
	Name              string    `json:"name"`
	Symbol            string    `json:"symbol"`
	PriceUSD          float64   `json:"price_usd"`
	MarketCap         float64   `json:"market_cap"`
	Volume24h         float64   `json:"volume_24h"`
	Rank              int       `json:"rank"`
	AgeDays           int       `json:"age_days"`
	Change24hPct      float64   `json:"change_24h_pct"`
	Change7dPct       float64   `json:"change_7d_pct"`
	Change30dPct      float64   `json:"change_30d_pct"`
	Category          string    `json:"category,omitempty"`
	CommitCount4w     int       `json:"commit_count_4w"`
	Stars             int       `json:"stars"`
	TwitterFollowers  int       `json:"twitter_followers"`
	RedditSubscribers int       `json:"reddit_subscribers"`
	Source            string    `json:"source"`
	FetchedAt         time.Time `json:"fetched_at"`
}

// SentimentSnapshot is the market-wide fear/greed reading. It is independent
// of any single asset.
type SentimentSnapshot struct {
	Value          int       `json:"value"`
	Classification string    `json:"classification"`
	Source         string    `json:"source"`
	FetchedAt      time.Time `json:"fetched_at"`
}

// SocialSnapshot holds per-asset social activity metrics plus the provenance
// tag of the provider tier that satisfied the request. The cascade resolver
// guarantees one is always present, possibly zeroed with Source "degraded".
type SocialSnapshot struct {
	Symbol           string    `json:"symbol"`
	Engagement       float64   `json:"engagement"`
	SocialVolume     float64   `json:"social_volume"`
	VolumeChangePct  float64   `json:"volume_change_pct"`
	SentimentBullish float64   `json:"sentiment_bullish"`
	SentimentBearish float64   `json:"sentiment_bearish"`
	Source           string    `json:"source"`
	FetchedAt        time.Time `json:"fetched_at"`
}

// Provenance values recorded on snapshots.
const (
	SourceCoinGecko     = "coingecko"
	SourceCryptoCompare = "cryptocompare"
	SourceFearGreed     = "alternative.me"
	SourceLunarCrush    = "lunarcrush"
	SourceReddit        = "reddit"
	SourceCommunity     = "community"
	SourceDegraded      = "degraded"
)

// EliminationResult reports every violated gate, not just the first.
type EliminationResult struct {
	Passed  bool     `json:"passed"`
	Reasons []string `json:"reasons,omitempty"`
}

// ScoreBreakdown holds the five sub-scores, each bounded to [0,2]. Total is
// the clamped sum, bounded to [0,10].
type ScoreBreakdown struct {
	MarketPosition float64 `json:"market_position"`
	Liquidity      float64 `json:"liquidity"`
	Development    float64 `json:"development"`
	Community      float64 `json:"community"`
	Performance    float64 `json:"performance"`
	Total          float64 `json:"total"`
}

type ClassificationTier string

const (
	TierFlagship     ClassificationTier = "flagship"
	TierLargeCap     ClassificationTier = "large-cap"
	TierMidCap       ClassificationTier = "mid-cap"
	TierSmallCap     ClassificationTier = "small-cap"
	TierMicroCap     ClassificationTier = "micro-cap"
	TierNanoCap      ClassificationTier = "nano-cap"
	TierMeme         ClassificationTier = "meme"
	TierStableValue  ClassificationTier = "stable-value"
	TierDeFiUtility  ClassificationTier = "defi-utility"
	TierLayerScaling ClassificationTier = "layer-scaling"
)

// TierInfo carries the fixed description and risk label for a tier, looked up
// from TierTable. Quality is the only computed field: classification fills it
// from the score total.
type TierInfo struct {
	Tier        ClassificationTier `json:"tier"`
	Description string             `json:"description"`
	RiskLabel   string             `json:"risk_label"`
	Quality     string             `json:"quality,omitempty"`
}

var TierTable = map[ClassificationTier]TierInfo{
	TierFlagship:     {Tier: TierFlagship, Description: "Principal market asset", RiskLabel: "established"},
	TierLargeCap:     {Tier: TierLargeCap, Description: "Top 10 by market cap", RiskLabel: "low-medium"},
	TierMidCap:       {Tier: TierMidCap, Description: "Established project", RiskLabel: "medium"},
	TierSmallCap:     {Tier: TierSmallCap, Description: "Smaller capitalization", RiskLabel: "medium-high"},
	TierMicroCap:     {Tier: TierMicroCap, Description: "Small project", RiskLabel: "high"},
	TierNanoCap:      {Tier: TierNanoCap, Description: "Very small project", RiskLabel: "very-high"},
	TierMeme:         {Tier: TierMeme, Description: "Meme/community token", RiskLabel: "speculative"},
	TierStableValue:  {Tier: TierStableValue, Description: "Stable-value coin", RiskLabel: "low"},
	TierDeFiUtility:  {Tier: TierDeFiUtility, Description: "DeFi protocol token", RiskLabel: "medium-high"},
	TierLayerScaling: {Tier: TierLayerScaling, Description: "Scaling solution", RiskLabel: "medium"},
}

// AnalysisResult is the sole artifact exposed to external collaborators.
// Score and Tier are present only when elimination passed.
type AnalysisResult struct {
	Query       string            `json:"query"`
	Asset       AssetSnapshot     `json:"asset"`
	Elimination EliminationResult `json:"elimination"`
	Score       *ScoreBreakdown   `json:"score,omitempty"`
	Tier        *TierInfo         `json:"tier,omitempty"`
	Sentiment   SentimentSnapshot `json:"sentiment"`
	Social      SocialSnapshot    `json:"social"`
	Strengths   []string          `json:"strengths,omitempty"`
	Weaknesses  []string          `json:"weaknesses,omitempty"`
	AnalyzedAt  time.Time         `json:"analyzed_at"`
}

// DefaultAssetSnapshot is the well-formed empty payload returned when every
// market adapter fails.
func DefaultAssetSnapshot(query string, now time.Time) AssetSnapshot {
	return AssetSnapshot{
		ID:        query,
		Symbol:    query,
		Source:    SourceDegraded,
		FetchedAt: now,
	}
}

// DefaultSentimentSnapshot is the neutral reading used when the sentiment
// provider is exhausted.
func DefaultSentimentSnapshot(now time.Time) SentimentSnapshot {
	return SentimentSnapshot{
		Value:          50,
		Classification: "Neutral",
		Source:         SourceDegraded,
		FetchedAt:      now,
	}
}

// CommunitySocialSnapshot approximates social activity from the asset's own
// community counters when no social provider can serve. Volume is scaled down
// from follower counts, and the volume delta is approximated from the 24h
// price move, clamped to [-50, 50]. Sentiment stays at the neutral split.
func CommunitySocialSnapshot(asset AssetSnapshot, now time.Time) SocialSnapshot {
	change := asset.Change24hPct
	if change > 50 {
		change = 50
	}
	if change < -50 {
		change = -50
	}
	return SocialSnapshot{
		Symbol:           asset.Symbol,
		Engagement:       float64(asset.RedditSubscribers / 100),
		SocialVolume:     float64(asset.TwitterFollowers / 1000),
		VolumeChangePct:  change,
		SentimentBullish: 50,
		SentimentBearish: 50,
		Source:           SourceCommunity,
		FetchedAt:        now,
	}
}

// DefaultSocialSnapshot is the zeroed payload with a balanced sentiment split
// used when every social adapter fails.
func DefaultSocialSnapshot(symbol string, now time.Time) SocialSnapshot {
	return SocialSnapshot{
		Symbol:           symbol,
		SentimentBullish: 50,
		SentimentBearish: 50,
		Source:           SourceDegraded,
		FetchedAt:        now,
	}
}
