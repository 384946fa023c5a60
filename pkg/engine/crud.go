package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pulsespark/engram/pkg/eventstream"
	"github.com/pulsespark/engram/pkg/memory"
	"github.com/pulsespark/engram/pkg/storage"
	"github.com/pulsespark/engram/pkg/utils"
)

// CreateInput carries the fields of a create request. Metadata nil means the
// caller omitted the object entirely and defaults apply.
type CreateInput struct {
	UserID    string
	ProjectID string
	Text      string
	Embedding []float32
	Metadata  *memory.Metadata
	Tags      []string
}

// UpdateInput is the partial field set of an update request. Nil fields were
// not supplied and stay untouched; a non-nil empty Tags slice clears tags.
type UpdateInput struct {
	Text      *string
	Embedding []float32
	Metadata  *memory.Metadata
	Tags      []string
}

// Create validates and stores a new memory item owned by the caller.
func (e *Engine) Create(ctx context.Context, callerID string, in CreateInput) (*memory.Item, error) {
	if !validItemID(in.UserID) {
		return nil, ValidationError{Reason: fmt.Sprintf("invalid user id %q", in.UserID)}
	}
	if in.ProjectID != "" && !validItemID(in.ProjectID) {
		return nil, ValidationError{Reason: fmt.Sprintf("invalid project id %q", in.ProjectID)}
	}

	text, err := validateText(in.Text)
	if err != nil {
		return nil, err
	}
	if len(in.Embedding) != memory.EmbeddingDim {
		return nil, ValidationError{Reason: fmt.Sprintf("embedding must have exactly %d dimensions, got %d", memory.EmbeddingDim, len(in.Embedding))}
	}

	tags, err := memory.NormalizeTags(in.Tags)
	if err != nil {
		return nil, ValidationError{Reason: err.Error()}
	}

	meta := memory.DefaultMetadata()
	if in.Metadata != nil {
		if err := in.Metadata.Validate(); err != nil {
			return nil, ValidationError{Reason: err.Error()}
		}
		meta = *in.Metadata
		if meta.Type == "" {
			meta.Type = memory.TypeNote
		}
		if meta.Importance == 0 {
			meta.Importance = 1
		}
	}

	if in.UserID != callerID {
		return nil, ForbiddenError{Reason: "cannot create memory items for another user"}
	}

	item := &memory.Item{
		UserID:    in.UserID,
		ProjectID: in.ProjectID,
		Text:      text,
		Embedding: in.Embedding,
		Metadata:  meta,
		Tags:      tags,
	}

	stored, err := e.store.Insert(ctx, item)
	if err != nil {
		return nil, fmt.Errorf("inserting memory item: %w", err)
	}

	e.logger.Debug("created memory item",
		zap.String("id", stored.ID),
		zap.String("text", utils.Truncate(stored.Text, 80)),
	)
	e.publishMutation(ctx, eventstream.EventTypeCreated, stored.UserID, stored.ProjectID, []string{stored.ID})

	return stored, nil
}

// Get retrieves a single item after verifying the caller owns it. Ownership
// failures collapse absent and foreign items into one forbidden outcome.
func (e *Engine) Get(ctx context.Context, callerID, id string) (*memory.Item, error) {
	if !validItemID(id) {
		return nil, ValidationError{Reason: fmt.Sprintf("invalid memory item id %q", id)}
	}

	owned, err := e.verifyOwnership(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ForbiddenError{}
	}

	item, err := e.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	return item, nil
}

// Update applies a partial field set to an owned item.
func (e *Engine) Update(ctx context.Context, callerID, id string, in UpdateInput) (*memory.Item, error) {
	if !validItemID(id) {
		return nil, ValidationError{Reason: fmt.Sprintf("invalid memory item id %q", id)}
	}

	fields := storage.UpdateFields{
		Embedding: in.Embedding,
		Metadata:  in.Metadata,
	}

	if in.Text != nil {
		text, err := validateText(*in.Text)
		if err != nil {
			return nil, err
		}
		fields.Text = &text
	}
	if in.Embedding != nil && len(in.Embedding) != memory.EmbeddingDim {
		return nil, ValidationError{Reason: fmt.Sprintf("embedding must have exactly %d dimensions, got %d", memory.EmbeddingDim, len(in.Embedding))}
	}
	if in.Metadata != nil {
		if err := in.Metadata.Validate(); err != nil {
			return nil, ValidationError{Reason: err.Error()}
		}
	}
	if in.Tags != nil {
		tags, err := memory.NormalizeTags(in.Tags)
		if err != nil {
			return nil, ValidationError{Reason: err.Error()}
		}
		fields.Tags = tags
	}

	if fields.Empty() {
		return nil, ValidationError{Reason: "no fields supplied to update"}
	}

	owned, err := e.verifyOwnership(ctx, id, callerID)
	if err != nil {
		return nil, err
	}
	if !owned {
		return nil, ForbiddenError{}
	}

	// Text changes without a fresh embedding leave the stored vector
	// describing the old text. Observed behavior, kept as is.
	if fields.Text != nil && fields.Embedding == nil {
		e.logger.Warn("memory item text updated without a new embedding",
			zap.String("id", id),
		)
	}

	item, err := e.store.Update(ctx, id, fields)
	if err != nil {
		return nil, err
	}

	e.publishMutation(ctx, eventstream.EventTypeUpdated, item.UserID, item.ProjectID, []string{item.ID})

	return item, nil
}

// Delete removes an owned item. Absence after a verified-ownership pass is a
// raced deletion and reported as not found.
func (e *Engine) Delete(ctx context.Context, callerID, id string) error {
	if !validItemID(id) {
		return ValidationError{Reason: fmt.Sprintf("invalid memory item id %q", id)}
	}

	owned, err := e.verifyOwnership(ctx, id, callerID)
	if err != nil {
		return err
	}
	if !owned {
		return ForbiddenError{}
	}

	deleted, err := e.store.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("deleting memory item %s: %w", id, err)
	}
	if !deleted {
		return storage.NotFoundError{ID: id}
	}

	e.publishMutation(ctx, eventstream.EventTypeDeleted, callerID, "", []string{id})

	return nil
}

// validateText enforces the text field rules shared by create and update.
func validateText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ValidationError{Reason: "text must not be empty"}
	}
	if len(trimmed) > memory.MaxTextLength {
		return "", ValidationError{Reason: fmt.Sprintf("text exceeds the maximum length of %d", memory.MaxTextLength)}
	}
	return trimmed, nil
}
