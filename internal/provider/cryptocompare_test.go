package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"
	"time"
)

func newTestCryptoCompare(rt roundTripFunc) *CryptoCompare {
	p := NewCryptoCompare(testTracer(), testLimiter())
	p.client = &http.Client{Transport: rt}
	p.now = func() time.Time { return time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC) }
	return p
}

func ccHistodayBody(closes []float64) string {
	var rows []string
	for _, c := range closes {
		rows = append(rows, fmt.Sprintf(`{"close":%g}`, c))
	}
	return `{"Response":"Success","Data":{"Data":[` + strings.Join(rows, ",") + `]}}`
}

func TestCryptoCompareFetchAsset(t *testing.T) {
	closes := make([]float64, 31)
	for i := range closes {
		closes[i] = 100 + float64(i) // steady climb: +7% over 7d, +30% over 30d at the end
	}
	closes[30] = 130

	p := newTestCryptoCompare(func(req *http.Request) (*http.Response, error) {
		switch {
		case strings.Contains(req.URL.Path, "pricemultifull"):
			return jsonResponse(http.StatusOK, `{"RAW":{"LTC":{"USD":{
				"PRICE":130,"MKTCAP":9000000000,"TOTALVOLUME24HTO":600000000,"CHANGEPCT24HOUR":2.5}}}}`), nil
		case strings.Contains(req.URL.Path, "histoday"):
			return jsonResponse(http.StatusOK, ccHistodayBody(closes)), nil
		default:
			t.Fatalf("unexpected path %s", req.URL.Path)
			return nil, nil
		}
	})

	snap, err := p.FetchAsset(context.Background(), Request{Query: "ltc", Symbol: "LTC"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Symbol != "LTC" || snap.PriceUSD != 130 || snap.MarketCap != 9_000_000_000 {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.Change24hPct != 2.5 {
		t.Fatalf("expected 24h change from quote, got %v", snap.Change24hPct)
	}
	// 130 vs close 7 days back (123): ~5.69%.
	if snap.Change7dPct < 5 || snap.Change7dPct > 6 {
		t.Fatalf("unexpected 7d change %v", snap.Change7dPct)
	}
	if snap.Change30dPct != 30 {
		t.Fatalf("expected 30%% over 30d, got %v", snap.Change30dPct)
	}
	if snap.AgeDays <= 0 {
		t.Fatalf("expected estimated age, got %d", snap.AgeDays)
	}
	if snap.Source != "cryptocompare" {
		t.Fatalf("expected cryptocompare source, got %q", snap.Source)
	}
}

func TestCryptoCompareUnknownSymbol(t *testing.T) {
	p := newTestCryptoCompare(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"RAW":{}}`), nil
	})

	_, err := p.FetchAsset(context.Background(), Request{Symbol: "ZZZZ"})
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Kind != KindNotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestCryptoCompareHistodayError(t *testing.T) {
	p := newTestCryptoCompare(func(req *http.Request) (*http.Response, error) {
		if strings.Contains(req.URL.Path, "pricemultifull") {
			return jsonResponse(http.StatusOK, `{"RAW":{"LTC":{"USD":{"PRICE":130,"MKTCAP":1,"TOTALVOLUME24HTO":1,"CHANGEPCT24HOUR":0}}}}`), nil
		}
		return jsonResponse(http.StatusOK, `{"Response":"Error","Message":"no data"}`), nil
	})

	_, err := p.FetchAsset(context.Background(), Request{Symbol: "LTC"})
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Kind != KindNotFound {
		t.Fatalf("expected NotFound, got %v", err)
	}
}

func TestPctChangeFromCloses(t *testing.T) {
	if got := pctChangeFromCloses(nil, 7); got != 0 {
		t.Fatalf("empty closes: expected 0, got %v", got)
	}
	if got := pctChangeFromCloses([]float64{100, 110}, 30); got != 10 {
		t.Fatalf("short history clamps to oldest: expected 10, got %v", got)
	}
	if got := pctChangeFromCloses([]float64{0, 50}, 1); got != 0 {
		t.Fatalf("zero base: expected 0, got %v", got)
	}
}
