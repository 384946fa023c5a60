// Package storage defines the record store contract for memory items.
// Implementations own their own concurrency control; the engine treats every
// operation as atomic at the granularity it requests.
package storage

import (
	"context"

	"github.com/pulsespark/engram/pkg/memory"
)

// Filters scopes a read or aggregation to one owner and, optionally, one
// project. UserID is mandatory on every engine path.
type Filters struct {
	UserID    string
	ProjectID string
}

// UpdateFields is the partial field set applied by an update. Nil fields are
// left untouched in the store.
type UpdateFields struct {
	Text      *string
	Embedding []float32
	Metadata  *memory.Metadata
	Tags      []string
}

// Empty reports whether no field was supplied at all.
func (u UpdateFields) Empty() bool {
	return u.Text == nil && u.Embedding == nil && u.Metadata == nil && u.Tags == nil
}

// Store persists and retrieves memory items.
type Store interface {
	// Insert stores a new item. The store assigns id and timestamps and
	// returns the full stored record.
	Insert(ctx context.Context, item *memory.Item) (*memory.Item, error)

	// GetByID retrieves an item. Returns NotFoundError when absent.
	GetByID(ctx context.Context, id string) (*memory.Item, error)

	// OwnerOf returns only the owner of an item. Returns NotFoundError
	// when absent. Used by ownership verification so the full record is
	// never loaded for an authorization decision.
	OwnerOf(ctx context.Context, id string) (string, error)

	// Update applies a partial field set and advances updated_at.
	// Returns NotFoundError when the item is absent.
	Update(ctx context.Context, id string, fields UpdateFields) (*memory.Item, error)

	// Delete removes an item, reporting whether a row was removed.
	Delete(ctx context.Context, id string) (bool, error)

	// BulkDelete removes a batch of items and reports how many rows were
	// actually removed, which may be fewer than requested.
	BulkDelete(ctx context.Context, ids []string) (int, error)

	// Scan returns a page of items ordered by creation time descending,
	// along with the exact total row count for the filters.
	Scan(ctx context.Context, f Filters, offset, limit int) ([]memory.Item, int, error)

	// TextSearch applies a lexical match on item text, then the same
	// ordering, pagination, and exact count as Scan.
	TextSearch(ctx context.Context, f Filters, query string, offset, limit int) ([]memory.Item, int, error)

	// SimilaritySearch ranks items by vector similarity to the given
	// embedding, filtered by the threshold and capped at limit. Each
	// returned item carries a Similarity score in [0,1].
	SimilaritySearch(ctx context.Context, embedding []float32, threshold float64, limit int, f Filters) ([]memory.Item, error)

	// AggregateStats computes usage counts and the recent-activity series
	// over the lookback window. Returns nil (not an error) when the owner
	// has nothing stored.
	AggregateStats(ctx context.Context, f Filters, lookbackDays int) (*memory.Stats, error)

	// Ping verifies store connectivity.
	Ping(ctx context.Context) error

	// Close releases resources held by the store.
	Close() error
}
