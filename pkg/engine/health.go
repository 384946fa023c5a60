package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulsespark/engram/pkg/memory"
	"github.com/pulsespark/engram/pkg/storage"
)

// Health is the engine's health report.
type Health struct {
	Status                string    `json:"status"`
	DatabaseConnected     bool      `json:"database_connected"`
	VectorSearchAvailable bool      `json:"vector_search_available"`
	Timestamp             time.Time `json:"timestamp"`
	Version               string    `json:"version"`
}

// Healthy reports whether the store is reachable at all. Vector search being
// down degrades search quality but the engine still serves.
func (h *Health) Healthy() bool {
	return h.DatabaseConnected
}

// Health checks store connectivity and probes the similarity path with a
// zero vector scoped to a throwaway owner. The probe exercises the vector
// machinery end to end without touching real data.
func (e *Engine) Health(ctx context.Context, version string) *Health {
	h := &Health{
		Timestamp: time.Now().UTC(),
		Version:   version,
	}

	if err := e.store.Ping(ctx); err != nil {
		e.logger.Warn("health check: store ping failed", zap.Error(err))
		h.Status = "unhealthy"
		return h
	}
	h.DatabaseConnected = true

	probe := make([]float32, memory.EmbeddingDim)
	_, err := e.store.SimilaritySearch(ctx, probe, 0, 1, storage.Filters{UserID: uuid.NewString()})
	if err != nil {
		e.logger.Warn("health check: similarity probe failed", zap.Error(err))
		h.Status = "degraded"
		return h
	}
	h.VectorSearchAvailable = true
	h.Status = "healthy"

	return h
}
