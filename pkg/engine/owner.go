package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/pulsespark/engram/pkg/storage"
)

// verifyOwnership confirms the item exists and belongs to the claimed owner.
// It loads only the owner column. An absent item and an item owned by someone
// else are indistinguishable to the caller, so ownership failures never leak
// whether another user's record exists.
func (e *Engine) verifyOwnership(ctx context.Context, itemID, claimedOwner string) (bool, error) {
	owner, err := e.store.OwnerOf(ctx, itemID)
	if err != nil {
		var notFound storage.NotFoundError
		if errors.As(err, &notFound) {
			return false, nil
		}
		return false, fmt.Errorf("verifying ownership of %s: %w", itemID, err)
	}

	return owner == claimedOwner, nil
}
