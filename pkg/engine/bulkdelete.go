package engine

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/pulsespark/engram/pkg/eventstream"
	"github.com/pulsespark/engram/pkg/memory"
)

// bulkVerifyConcurrency bounds the ownership-check fan-out.
const bulkVerifyConcurrency = 8

// BulkDeleteResult reports how a bulk delete went. Deleted may be lower than
// Requested when the store itself removed fewer rows; that shortfall is
// best-effort completion, not an error.
type BulkDeleteResult struct {
	Deleted   int
	Requested int
}

// BulkDelete removes a batch of up to MaxBulkDelete owned items. Admission is
// all or nothing: ownership of every member is verified concurrently, and any
// member failing its check rejects the whole batch with no deletion. The
// reported offending id is the first in request order.
func (e *Engine) BulkDelete(ctx context.Context, callerID string, ids []string) (*BulkDeleteResult, error) {
	if len(ids) == 0 {
		return nil, ValidationError{Reason: "no memory item ids supplied"}
	}
	if len(ids) > memory.MaxBulkDelete {
		return nil, ValidationError{Reason: fmt.Sprintf("cannot delete more than %d memory items at once, got %d", memory.MaxBulkDelete, len(ids))}
	}
	for _, id := range ids {
		if !validItemID(id) {
			return nil, ValidationError{Reason: fmt.Sprintf("invalid memory item id %q", id)}
		}
	}

	// Fan out the ownership checks, recording outcomes per index so the
	// first failure in request order wins regardless of completion order.
	// The group context cancels in-flight checks on the first failure.
	failed := make([]bool, len(ids))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bulkVerifyConcurrency)
	for i, id := range ids {
		i, id := i, id
		g.Go(func() error {
			owned, err := e.verifyOwnership(gctx, id, callerID)
			if err != nil || !owned {
				failed[i] = true
				return fmt.Errorf("ownership check failed for %s", id)
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("bulk delete aborted: %w", ctx.Err())
		}
		for i, id := range ids {
			if failed[i] {
				return nil, ForbiddenError{Reason: fmt.Sprintf("memory item %s not found or access denied", id)}
			}
		}
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("bulk delete aborted: %w", err)
	}

	deleted, err := e.store.BulkDelete(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("bulk deleting memory items: %w", err)
	}

	e.publishMutation(ctx, eventstream.EventTypeBulkDeleted, callerID, "", ids)

	return &BulkDeleteResult{Deleted: deleted, Requested: len(ids)}, nil
}
