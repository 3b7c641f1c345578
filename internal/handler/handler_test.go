package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"coinsift/internal/domain"
)

type stubAnalyzer struct {
	result *domain.AnalysisResult
	err    error
}

func (s stubAnalyzer) AnalyzeAsset(_ context.Context, query string) (*domain.AnalysisResult, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := *s.result
	out.Query = query
	return &out, nil
}

func (s stubAnalyzer) AnalyzeBatch(ctx context.Context, queries []string) []*domain.AnalysisResult {
	var results []*domain.AnalysisResult
	for _, q := range queries {
		if r, err := s.AnalyzeAsset(ctx, q); err == nil {
			results = append(results, r)
		}
	}
	return results
}

func newTestRouter(a Analyzer, apiKey string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := New(trace.NewNoopTracerProvider().Tracer("test"), a)
	h.RegisterRoutes(r, apiKey)
	return r
}

func analysisFixture() *domain.AnalysisResult {
	return &domain.AnalysisResult{
		Asset:       domain.AssetSnapshot{Symbol: "BTC", Source: domain.SourceCoinGecko},
		Elimination: domain.EliminationResult{Passed: true},
	}
}

func TestHealth(t *testing.T) {
	r := newTestRouter(stubAnalyzer{result: analysisFixture()}, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if body != "{\"status\":\"healthy\"}\n" && body != "{\"status\":\"healthy\"}" {
		t.Errorf("unexpected body: %s", body)
	}
}

func TestAnalyzeAsset(t *testing.T) {
	r := newTestRouter(stubAnalyzer{result: analysisFixture()}, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/analyze/btc", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var result domain.AnalysisResult
	if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
		t.Fatalf("undecodable body: %v", err)
	}
	if result.Query != "btc" || result.Asset.Symbol != "BTC" {
		t.Fatalf("unexpected result: %+v", result)
	}
}

func TestAnalyzeAssetBadQuery(t *testing.T) {
	r := newTestRouter(stubAnalyzer{err: fmt.Errorf("unknown asset")}, "")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/analyze/zzz", nil)
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", w.Code)
	}
}

func TestAnalyzeBatch(t *testing.T) {
	r := newTestRouter(stubAnalyzer{result: analysisFixture()}, "")

	payload, _ := json.Marshal(map[string][]string{"queries": {"btc", "eth"}})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", w.Code, w.Body.String())
	}
	var resp struct {
		Requested int                      `json:"requested"`
		Completed int                      `json:"completed"`
		Results   []*domain.AnalysisResult `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("undecodable body: %v", err)
	}
	if resp.Requested != 2 || resp.Completed != 2 || len(resp.Results) != 2 {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAnalyzeBatchRejectsEmptyAndOversized(t *testing.T) {
	r := newTestRouter(stubAnalyzer{result: analysisFixture()}, "")

	for _, body := range []string{`{}`, `{"queries":[]}`} {
		w := httptest.NewRecorder()
		req, _ := http.NewRequest("POST", "/api/analyze", bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
		r.ServeHTTP(w, req)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("body %s: expected 400, got %d", body, w.Code)
		}
	}

	big := make([]string, maxBatchSize+1)
	for i := range big {
		big[i] = "btc"
	}
	payload, _ := json.Marshal(map[string][]string{"queries": big})
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("POST", "/api/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("oversized batch: expected 400, got %d", w.Code)
	}
}

func TestAPIKeyGuardsAnalyzeRoutes(t *testing.T) {
	r := newTestRouter(stubAnalyzer{result: analysisFixture()}, "sekrit")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", "/api/analyze/btc", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("missing key: expected 401, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/analyze/btc", nil)
	req.Header.Set("X-API-Key", "sekrit-but-wrong")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusForbidden {
		t.Fatalf("wrong key: expected 403, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/api/analyze/btc", nil)
	req.Header.Set("X-API-Key", "sekrit")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("valid key: expected 200, got %d", w.Code)
	}

	// Health stays open.
	w = httptest.NewRecorder()
	req, _ = http.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("health must not require a key, got %d", w.Code)
	}
}
