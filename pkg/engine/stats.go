package engine

import (
	"context"
	"fmt"

	"github.com/pulsespark/engram/pkg/memory"
	"github.com/pulsespark/engram/pkg/storage"
)

// StatsInput scopes a statistics request. DaysBack zero selects the default
// lookback window.
type StatsInput struct {
	UserID    string
	ProjectID string
	DaysBack  int
}

// Stats aggregates usage counts for the caller's own items over the lookback
// window. An owner with nothing stored gets an explicit all-zero summary.
func (e *Engine) Stats(ctx context.Context, callerID string, in StatsInput) (*memory.Stats, error) {
	if !validItemID(in.UserID) {
		return nil, ValidationError{Reason: fmt.Sprintf("invalid user id %q", in.UserID)}
	}
	if in.UserID != callerID {
		return nil, ForbiddenError{Reason: "cannot access statistics of another user"}
	}

	days := in.DaysBack
	if days == 0 {
		days = memory.DefaultStatsDays
	}
	if days < 1 || days > memory.MaxStatsDays {
		return nil, ValidationError{Reason: fmt.Sprintf("days_back must be between 1 and %d, got %d", memory.MaxStatsDays, days)}
	}

	filters := storage.Filters{UserID: in.UserID, ProjectID: in.ProjectID}
	stats, err := e.store.AggregateStats(ctx, filters, days)
	if err != nil {
		return nil, fmt.Errorf("aggregating statistics: %w", err)
	}
	if stats == nil {
		return memory.EmptyStats(), nil
	}

	return stats, nil
}
