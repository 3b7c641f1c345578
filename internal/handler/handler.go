package handler

import (
	"context"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/trace"

	"coinsift/internal/domain"
)

// Analyzer is the pipeline surface the HTTP layer consumes.
type Analyzer interface {
	AnalyzeAsset(ctx context.Context, query string) (*domain.AnalysisResult, error)
	AnalyzeBatch(ctx context.Context, queries []string) []*domain.AnalysisResult
}

type Handler struct {
	tracer   trace.Tracer
	analyzer Analyzer
}

func New(tracer trace.Tracer, analyzer Analyzer) *Handler {
	return &Handler{tracer: tracer, analyzer: analyzer}
}

func (h *Handler) RegisterRoutes(r *gin.Engine, apiKey string) {
	r.GET("/health", h.Health)

	api := r.Group("/api", APIKeyAuth(apiKey))
	api.GET("/analyze/:query", h.AnalyzeAsset)
	api.POST("/analyze", h.AnalyzeBatch)
}
