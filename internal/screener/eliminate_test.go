package screener

import (
	"strings"
	"testing"

	"coinsift/internal/domain"
)

func TestEliminatePassesEstablishedAsset(t *testing.T) {
	snap := domain.AssetSnapshot{
		Symbol:    "BTC",
		MarketCap: 2_250_000_000_000,
		Volume24h: 47_100_000_000,
		AgeDays:   5847,
	}

	result := Eliminate(snap, DefaultThresholds())
	if !result.Passed {
		t.Fatalf("expected pass, got reasons %v", result.Reasons)
	}
	if len(result.Reasons) != 0 {
		t.Fatalf("passing result must carry no reasons, got %v", result.Reasons)
	}
}

func TestEliminateCitesMarketCapMinimum(t *testing.T) {
	snap := domain.AssetSnapshot{
		MarketCap: 500_000,
		Volume24h: 200_000,
		AgeDays:   400,
	}

	result := Eliminate(snap, DefaultThresholds())
	if result.Passed {
		t.Fatal("expected failure")
	}
	found := false
	for _, r := range result.Reasons {
		if strings.Contains(r, "$1,000,000") {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a reason citing the $1,000,000 minimum, got %v", result.Reasons)
	}
}

func TestEliminateReportsEveryFailedGate(t *testing.T) {
	snap := domain.AssetSnapshot{
		MarketCap: 500_000,
		Volume24h: 100, // fails volume and (100/500000=0.0002) liquidity
		AgeDays:   30,
	}

	result := Eliminate(snap, DefaultThresholds())
	if result.Passed {
		t.Fatal("expected failure")
	}
	if len(result.Reasons) != 4 {
		t.Fatalf("expected all four gates reported, got %d: %v", len(result.Reasons), result.Reasons)
	}
}

func TestEliminateSkipsLiquidityGateOnZeroCap(t *testing.T) {
	snap := domain.AssetSnapshot{
		MarketCap: 0,
		Volume24h: 500_000,
		AgeDays:   400,
	}

	result := Eliminate(snap, DefaultThresholds())
	for _, r := range result.Reasons {
		if strings.Contains(r, "liquidity ratio") {
			t.Fatalf("liquidity gate must not fire on zero cap, got %v", result.Reasons)
		}
	}
}

func TestEliminateBoundaryValuesPass(t *testing.T) {
	th := DefaultThresholds()
	snap := domain.AssetSnapshot{
		MarketCap: th.MinMarketCap,
		Volume24h: th.MinVolume24h,
		AgeDays:   th.MinAgeDays,
	}

	// ratio = 100k/1M = 0.1, well above 0.001.
	result := Eliminate(snap, th)
	if !result.Passed {
		t.Fatalf("thresholds are inclusive, got reasons %v", result.Reasons)
	}
}

func TestFormatUSD(t *testing.T) {
	cases := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1_000, "1,000"},
		{1_000_000, "1,000,000"},
		{2_250_000_000_000, "2,250,000,000,000"},
	}
	for _, tc := range cases {
		if got := formatUSD(tc.in); got != tc.want {
			t.Fatalf("formatUSD(%g): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}
