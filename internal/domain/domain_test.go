package domain

import (
	"testing"
	"time"
)

func TestCommunitySocialSnapshotClampsVolumeDelta(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		change24h float64
		want      float64
	}{
		{80, 50},
		{50, 50},
		{12.5, 12.5},
		{0, 0},
		{-33, -33},
		{-90, -50},
	}
	for _, tc := range cases {
		asset := AssetSnapshot{Symbol: "BTC", Change24hPct: tc.change24h, TwitterFollowers: 4200, RedditSubscribers: 950}
		got := CommunitySocialSnapshot(asset, now)
		if got.VolumeChangePct != tc.want {
			t.Fatalf("change %v: expected delta %v, got %v", tc.change24h, tc.want, got.VolumeChangePct)
		}
		if got.SocialVolume != 4 || got.Engagement != 9 {
			t.Fatalf("expected counters scaled by 1000/100, got %+v", got)
		}
		if got.Source != SourceCommunity {
			t.Fatalf("unexpected source %q", got.Source)
		}
	}
}
