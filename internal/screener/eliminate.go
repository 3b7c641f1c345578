// Package screener turns a normalized asset snapshot into an elimination
// verdict, a bounded score, and a classification tier. Everything in this
// package is pure: identical inputs always yield identical outputs.
package screener

import (
	"fmt"
	"strconv"
	"strings"

	"coinsift/internal/domain"
)

// Thresholds are the elimination gates. All four are evaluated independently
// so the result names every violated criterion, not just the first.
type Thresholds struct {
	MinMarketCap      float64
	MinVolume24h      float64
	MinAgeDays        int
	MinLiquidityRatio float64
}

func DefaultThresholds() Thresholds {
	return Thresholds{
		MinMarketCap:      1_000_000,
		MinVolume24h:      100_000,
		MinAgeDays:        180,
		MinLiquidityRatio: 0.001,
	}
}

// Eliminate checks the snapshot against every gate. The liquidity ratio gate
// only applies when market cap is positive; a zero cap already fails the cap
// gate and a ratio over zero is meaningless.
func Eliminate(snap domain.AssetSnapshot, th Thresholds) domain.EliminationResult {
	var reasons []string

	if snap.MarketCap < th.MinMarketCap {
		reasons = append(reasons, fmt.Sprintf("market cap $%s below $%s minimum",
			formatUSD(snap.MarketCap), formatUSD(th.MinMarketCap)))
	}
	if snap.Volume24h < th.MinVolume24h {
		reasons = append(reasons, fmt.Sprintf("24h volume $%s below $%s minimum",
			formatUSD(snap.Volume24h), formatUSD(th.MinVolume24h)))
	}
	if snap.AgeDays < th.MinAgeDays {
		reasons = append(reasons, fmt.Sprintf("age %d days below %d day minimum",
			snap.AgeDays, th.MinAgeDays))
	}
	if snap.MarketCap > 0 {
		if ratio := snap.Volume24h / snap.MarketCap; ratio < th.MinLiquidityRatio {
			reasons = append(reasons, fmt.Sprintf("liquidity ratio %.4f below %.4f minimum",
				ratio, th.MinLiquidityRatio))
		}
	}

	return domain.EliminationResult{Passed: len(reasons) == 0, Reasons: reasons}
}

// formatUSD renders a dollar amount with thousands separators, no cents.
func formatUSD(v float64) string {
	if v < 0 {
		v = 0
	}
	digits := strconv.FormatFloat(v, 'f', 0, 64)
	var b strings.Builder
	for i, d := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}
	return b.String()
}
