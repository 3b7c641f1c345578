package provider

import (
	"context"
	"errors"
	"net/http"
	"testing"
)

func TestFearGreedFetchSentiment(t *testing.T) {
	p := NewFearGreed(testTracer(), testLimiter())
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":[{"value":"72","value_classification":"Greed"}]}`), nil
	})}

	snap, err := p.FetchSentiment(context.Background(), Request{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if snap.Value != 72 || snap.Classification != "Greed" {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
	if snap.Source != "alternative.me" {
		t.Fatalf("unexpected source %q", snap.Source)
	}
}

func TestFearGreedRejectsOutOfRangeValue(t *testing.T) {
	p := NewFearGreed(testTracer(), testLimiter())
	p.client = &http.Client{Transport: roundTripFunc(func(req *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, `{"data":[{"value":"250","value_classification":""}]}`), nil
	})}

	_, err := p.FetchSentiment(context.Background(), Request{})
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Kind != KindMalformed {
		t.Fatalf("expected Malformed, got %v", err)
	}
}

func TestClassifyFearGreedBands(t *testing.T) {
	cases := []struct {
		value int
		want  string
	}{
		{0, "Extreme Fear"},
		{24, "Extreme Fear"},
		{25, "Fear"},
		{44, "Fear"},
		{45, "Neutral"},
		{54, "Neutral"},
		{55, "Greed"},
		{74, "Greed"},
		{75, "Extreme Greed"},
		{100, "Extreme Greed"},
	}
	for _, tc := range cases {
		if got := ClassifyFearGreed(tc.value); got != tc.want {
			t.Fatalf("value %d: expected %q, got %q", tc.value, tc.want, got)
		}
	}
}
