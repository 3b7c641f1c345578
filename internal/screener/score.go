package screener

import "coinsift/internal/domain"

// Score computes the five sub-scores, each bounded to [0,2], and the clamped
// total. It assumes the snapshot already passed elimination but does not
// require it; any snapshot yields a bounded breakdown.
func Score(snap domain.AssetSnapshot) domain.ScoreBreakdown {
	b := domain.ScoreBreakdown{
		MarketPosition: marketPositionScore(snap.Rank, snap.MarketCap),
		Liquidity:      liquidityScore(snap.Volume24h, snap.MarketCap),
		Development:    developmentScore(snap.CommitCount4w, snap.Stars, snap.Rank),
		Community:      communityScore(snap.TwitterFollowers, snap.RedditSubscribers),
		Performance:    performanceScore(snap.Change24hPct, snap.Change7dPct, snap.Change30dPct),
	}
	b.Total = clamp(b.MarketPosition+b.Liquidity+b.Development+b.Community+b.Performance, 0, 10)
	return b
}

// marketPositionScore steps down with rank. Assets without a rank fall back to
// market-cap bands so secondary-provider snapshots still score.
func marketPositionScore(rank int, marketCap float64) float64 {
	if rank > 0 {
		switch {
		case rank <= 10:
			return 2.0
		case rank <= 25:
			return 1.75
		case rank <= 50:
			return 1.5
		case rank <= 100:
			return 1.25
		case rank <= 200:
			return 1.0
		case rank <= 500:
			return 0.5
		default:
			return 0.25
		}
	}
	switch {
	case marketCap >= 100_000_000_000:
		return 2.0
	case marketCap >= 10_000_000_000:
		return 1.75
	case marketCap >= 1_000_000_000:
		return 1.25
	case marketCap >= 100_000_000:
		return 0.75
	case marketCap >= 10_000_000:
		return 0.5
	default:
		return 0.25
	}
}

// liquidityScore steps with the daily turnover ratio. When market cap is
// degenerate the absolute-volume branch keeps the sub-score meaningful.
func liquidityScore(volume, marketCap float64) float64 {
	if marketCap > 0 {
		ratio := volume / marketCap
		switch {
		case ratio >= 0.25:
			return 2.0
		case ratio >= 0.10:
			return 1.5
		case ratio >= 0.05:
			return 1.0
		case ratio >= 0.01:
			return 0.5
		case ratio >= 0.001:
			return 0.25
		default:
			return 0
		}
	}
	switch {
	case volume >= 1_000_000_000:
		return 1.5
	case volume >= 100_000_000:
		return 1.0
	case volume >= 1_000_000:
		return 0.5
	default:
		return 0
	}
}

// developmentScore combines commit and star activity. Top-100 assets with no
// visible repository data still get partial credit: flagship development often
// happens across repositories the aggregator does not track.
func developmentScore(commits, stars, rank int) float64 {
	switch {
	case commits > 50 || stars > 1000:
		return 2.0
	case commits > 10 || stars > 100:
		return 1.0
	case rank > 0 && rank <= 100:
		return 1.0
	case commits > 0 || stars > 0:
		return 0.5
	default:
		return 0
	}
}

// communityScore scores each social channel on its own scale and keeps the
// higher branch.
func communityScore(twitter, reddit int) float64 {
	tw := stepInt(twitter, []intStep{
		{1_000_000, 2.0},
		{300_000, 1.5},
		{100_000, 1.0},
		{30_000, 0.5},
	})
	rd := stepInt(reddit, []intStep{
		{500_000, 2.0},
		{150_000, 1.5},
		{50_000, 1.0},
		{10_000, 0.5},
	})
	if tw > rd {
		return tw
	}
	return rd
}

// performanceScore rewards moderate positive 30d trends and penalizes
// volatility extremes on the shorter windows.
func performanceScore(change24h, change7d, change30d float64) float64 {
	var base float64
	switch {
	case change30d > 30:
		base = 1.0 // too hot to call healthy
	case change30d > 5:
		base = 2.0
	case change30d >= -10:
		base = 1.0
	case change30d >= -30:
		base = 0.5
	default:
		base = 0
	}

	if abs(change24h) > 20 {
		base -= 0.5
	}
	if abs(change7d) > 40 {
		base -= 0.5
	}
	return clamp(base, 0, 2)
}

type intStep struct {
	min   int
	score float64
}

func stepInt(value int, steps []intStep) float64 {
	for _, s := range steps {
		if value >= s.min {
			return s.score
		}
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
