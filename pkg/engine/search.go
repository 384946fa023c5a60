package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/pulsespark/engram/pkg/memory"
	"github.com/pulsespark/engram/pkg/storage"
	"github.com/pulsespark/engram/pkg/utils"
)

// maxSimilarityResults caps how many rows a similarity search pulls from the
// store. total_count on vector-served pages is the size of this capped set.
const maxSimilarityResults = 1000

// SearchInput carries a validated list/search request.
type SearchInput struct {
	UserID              string
	ProjectID           string
	Query               string
	Mode                memory.SearchMode
	SimilarityThreshold *float64
	Page                memory.Page
}

// SearchOutput is the page envelope returned by every list/search request.
type SearchOutput struct {
	Items      []memory.Item `json:"items"`
	TotalCount int           `json:"total_count"`
	Page       int           `json:"page"`
	PageSize   int           `json:"page_size"`
	HasNext    bool          `json:"has_next"`
}

// Search lists or searches the caller's items. Without a query it is a plain
// most-recent-first scan. Vector and hybrid modes embed the query and rank by
// similarity; any failure on that path downgrades the request to lexical text
// matching and is never surfaced to the caller.
func (e *Engine) Search(ctx context.Context, callerID string, in SearchInput) (*SearchOutput, error) {
	if !validItemID(in.UserID) {
		return nil, ValidationError{Reason: fmt.Sprintf("invalid user id %q", in.UserID)}
	}
	if in.UserID != callerID {
		return nil, ForbiddenError{Reason: "cannot access memory items of another user"}
	}

	threshold := memory.DefaultSimilarityThreshold
	if in.SimilarityThreshold != nil {
		threshold = *in.SimilarityThreshold
		if threshold < 0 || threshold > 1 {
			return nil, ValidationError{Reason: fmt.Sprintf("similarity_threshold must be between 0 and 1, got %g", threshold)}
		}
	}

	filters := storage.Filters{UserID: in.UserID, ProjectID: in.ProjectID}
	page := in.Page

	query := strings.TrimSpace(in.Query)
	if query == "" {
		items, total, err := e.store.Scan(ctx, filters, page.Offset(), page.Size)
		if err != nil {
			return nil, fmt.Errorf("listing memory items: %w", err)
		}
		return envelope(items, total, page), nil
	}

	if in.Mode == memory.ModeVector || in.Mode == memory.ModeHybrid {
		out, ok := e.similaritySearch(ctx, query, threshold, filters, page)
		if ok {
			return out, nil
		}
		// Degraded mode: continue as a text search for this request only.
	}

	items, total, err := e.store.TextSearch(ctx, filters, query, page.Offset(), page.Size)
	if err != nil {
		return nil, fmt.Errorf("searching memory items: %w", err)
	}
	return envelope(items, total, page), nil
}

// similaritySearch runs the embed-then-rank path. It reports ok=false on any
// failure so the caller can downgrade to text matching.
func (e *Engine) similaritySearch(ctx context.Context, query string, threshold float64, filters storage.Filters, page memory.Page) (*SearchOutput, bool) {
	embedding, err := e.embedder.Embed(ctx, query)
	if err != nil {
		e.logger.Warn("embedding failed, downgrading to text search",
			zap.String("query", utils.Truncate(query, 80)),
			zap.Error(err),
		)
		return nil, false
	}

	results, err := e.store.SimilaritySearch(ctx, embedding, threshold, maxSimilarityResults, filters)
	if err != nil {
		e.logger.Warn("similarity search failed, downgrading to text search",
			zap.String("query", utils.Truncate(query, 80)),
			zap.Error(err),
		)
		return nil, false
	}

	total := len(results)
	start := page.Offset()
	if start > total {
		start = total
	}
	end := start + page.Size
	if end > total {
		end = total
	}

	return envelope(results[start:end], total, page), true
}

func envelope(items []memory.Item, total int, page memory.Page) *SearchOutput {
	if items == nil {
		items = []memory.Item{}
	}
	return &SearchOutput{
		Items:      items,
		TotalCount: total,
		Page:       page.Number,
		PageSize:   page.Size,
		HasNext:    page.HasNext(total),
	}
}
