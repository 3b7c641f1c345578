package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

const maxBatchSize = 25

// AnalyzeAsset runs the full pipeline for a single query. The analyzer only
// errors on an empty or unresolvable query; everything else degrades inside
// the result itself.
func (h *Handler) AnalyzeAsset(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.analyze-asset")
	defer span.End()

	query := c.Param("query")
	span.SetAttributes(attribute.String("query", query))

	result, err := h.analyzer.AnalyzeAsset(ctx, query)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

type batchRequest struct {
	Queries []string `json:"queries" binding:"required"`
}

// AnalyzeBatch runs the pipeline sequentially over the posted queries.
// Individual bad queries are skipped, so the response may hold fewer results
// than requested.
func (h *Handler) AnalyzeBatch(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.analyze-batch")
	defer span.End()

	var req batchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "body must be {\"queries\": [...]}"})
		return
	}
	if len(req.Queries) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "queries must not be empty"})
		return
	}
	if len(req.Queries) > maxBatchSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "too many queries", "max": maxBatchSize})
		return
	}
	span.SetAttributes(attribute.Int("batch.size", len(req.Queries)))

	results := h.analyzer.AnalyzeBatch(ctx, req.Queries)
	c.JSON(http.StatusOK, gin.H{
		"requested": len(req.Queries),
		"completed": len(results),
		"results":   results,
	})
}
