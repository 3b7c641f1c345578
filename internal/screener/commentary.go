package screener

import (
	"fmt"

	"coinsift/internal/domain"
)

const (
	maxStrengths  = 5
	maxWeaknesses = 3
)

// Strengths lists the notable positives of a scored asset, capped at five.
func Strengths(snap domain.AssetSnapshot, score domain.ScoreBreakdown, social domain.SocialSnapshot) []string {
	var out []string

	if snap.Rank > 0 && snap.Rank <= 10 {
		out = append(out, fmt.Sprintf("top-10 market capitalization (rank #%d)", snap.Rank))
	}
	if score.Liquidity >= 1.5 {
		out = append(out, "deep trading liquidity")
	}
	if score.Development >= 2 {
		out = append(out, "active development")
	}
	if score.Community >= 2 {
		out = append(out, "large established community")
	}
	if snap.AgeDays > 1825 {
		out = append(out, fmt.Sprintf("long track record (%d days)", snap.AgeDays))
	}
	if snap.Change30dPct > 5 && snap.Change30dPct <= 30 {
		out = append(out, fmt.Sprintf("healthy 30d uptrend (%+.1f%%)", snap.Change30dPct))
	}
	if social.SentimentBullish > 60 && social.Source != domain.SourceDegraded {
		out = append(out, fmt.Sprintf("bullish social sentiment (%.0f%%)", social.SentimentBullish))
	}

	if len(out) > maxStrengths {
		out = out[:maxStrengths]
	}
	return out
}

// Weaknesses lists the notable negatives, capped at three.
func Weaknesses(snap domain.AssetSnapshot, score domain.ScoreBreakdown, social domain.SocialSnapshot) []string {
	var out []string

	if snap.MarketCap > 0 && snap.MarketCap < 100_000_000 {
		out = append(out, "small market capitalization")
	}
	if score.Liquidity < 1 {
		out = append(out, "thin trading liquidity")
	}
	if score.Development == 0 {
		out = append(out, "no visible development activity")
	}
	if snap.Change30dPct < -10 {
		out = append(out, fmt.Sprintf("30d downtrend (%+.1f%%)", snap.Change30dPct))
	}
	if v := snap.Change24hPct; v > 20 || v < -20 {
		out = append(out, fmt.Sprintf("high 24h volatility (%+.1f%%)", v))
	}
	if social.Source == domain.SourceDegraded {
		out = append(out, "no social data available")
	}

	if len(out) > maxWeaknesses {
		out = out[:maxWeaknesses]
	}
	return out
}
