// Package engine implements the memory retrieval and mutation engine: field
// validation and ownership enforcement for CRUD, search strategy selection
// with degraded-mode fallback, concurrent bulk-delete admission, and usage
// statistics. The engine never sees HTTP; the api package owns the mapping
// from the error taxonomy here onto status codes.
package engine

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pulsespark/engram/pkg/embeddings"
	"github.com/pulsespark/engram/pkg/eventstream"
	"github.com/pulsespark/engram/pkg/storage"
)

// Engine orchestrates memory item operations against injected collaborators.
type Engine struct {
	store    storage.Store
	embedder embeddings.Embedder
	events   eventstream.Publisher
	logger   *zap.Logger
}

// NewEngine creates an engine. All collaborators are required; pass the nop
// publisher when event streaming is disabled.
func NewEngine(store storage.Store, embedder embeddings.Embedder, events eventstream.Publisher, logger *zap.Logger) *Engine {
	return &Engine{
		store:    store,
		embedder: embedder,
		events:   events,
		logger:   logger,
	}
}

// publishMutation emits a mutation event. Publishing is best effort and never
// fails the request that triggered it.
func (e *Engine) publishMutation(ctx context.Context, eventType, userID, projectID string, itemIDs []string) {
	event := &eventstream.MutationEvent{
		SchemaVersion: eventstream.SchemaVersionV1,
		EventType:     eventType,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		UserID:        userID,
		ItemIDs:       itemIDs,
		ProjectID:     projectID,
	}

	if err := e.events.PublishMutation(ctx, event); err != nil {
		e.logger.Warn("failed to publish mutation event",
			zap.String("event_type", eventType),
			zap.Error(err),
		)
	}
}

// validItemID reports whether the id is a syntactically valid identifier.
func validItemID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
