// Package inmemory provides a mutex-guarded map implementation of
// storage.Store. Similarity ranking and lexical matching run in-process,
// which makes the driver the substitute of choice in tests and the default
// backend in dev mode.
package inmemory

import (
	"context"
	"errors"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/pulsespark/engram/pkg/memory"
	"github.com/pulsespark/engram/pkg/storage"
)

// record wraps a stored item with an insertion sequence number so ordering
// stays stable when two items share a creation timestamp.
type record struct {
	item memory.Item
	seq  uint64
}

// Store implements storage.Store using an in-memory map.
type Store struct {
	mu    sync.RWMutex
	items map[string]record
	seq   uint64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		items: make(map[string]record),
	}
}

var _ storage.Store = (*Store)(nil)

// Insert stores a new item, assigning id and timestamps.
func (s *Store) Insert(_ context.Context, item *memory.Item) (*memory.Item, error) {
	if item == nil {
		return nil, errors.New("cannot insert nil item")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	stored := cloneItem(*item)
	stored.ID = uuid.NewString()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	stored.Similarity = nil

	s.seq++
	s.items[stored.ID] = record{item: stored, seq: s.seq}

	out := cloneItem(stored)
	return &out, nil
}

// GetByID retrieves an item by id.
func (s *Store) GetByID(_ context.Context, id string) (*memory.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.items[id]
	if !ok {
		return nil, storage.NotFoundError{ID: id}
	}

	out := cloneItem(rec.item)
	return &out, nil
}

// OwnerOf returns only the owner of an item.
func (s *Store) OwnerOf(_ context.Context, id string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rec, ok := s.items[id]
	if !ok {
		return "", storage.NotFoundError{ID: id}
	}

	return rec.item.UserID, nil
}

// Update applies a partial field set and advances updated_at.
func (s *Store) Update(_ context.Context, id string, fields storage.UpdateFields) (*memory.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.items[id]
	if !ok {
		return nil, storage.NotFoundError{ID: id}
	}

	item := rec.item
	if fields.Text != nil {
		item.Text = *fields.Text
	}
	if fields.Embedding != nil {
		item.Embedding = append([]float32(nil), fields.Embedding...)
	}
	if fields.Metadata != nil {
		item.Metadata = *fields.Metadata
	}
	if fields.Tags != nil {
		item.Tags = append([]string(nil), fields.Tags...)
	}
	item.UpdatedAt = time.Now().UTC()

	rec.item = item
	s.items[id] = rec

	out := cloneItem(item)
	return &out, nil
}

// Delete removes an item, reporting whether a row was removed.
func (s *Store) Delete(_ context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.items[id]; !ok {
		return false, nil
	}

	delete(s.items, id)
	return true, nil
}

// BulkDelete removes a batch and reports the actual removal count.
func (s *Store) BulkDelete(_ context.Context, ids []string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	deleted := 0
	for _, id := range ids {
		if _, ok := s.items[id]; ok {
			delete(s.items, id)
			deleted++
		}
	}
	return deleted, nil
}

// Scan returns a page ordered by creation time descending plus the exact
// total count for the filters.
func (s *Store) Scan(_ context.Context, f storage.Filters, offset, limit int) ([]memory.Item, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.filtered(f)
	total := len(matched)
	return window(matched, offset, limit), total, nil
}

// TextSearch applies a case-insensitive lexical match on item text, then the
// same ordering and pagination as Scan.
func (s *Store) TextSearch(_ context.Context, f storage.Filters, query string, offset, limit int) ([]memory.Item, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(strings.TrimSpace(query))
	matched := make([]record, 0)
	for _, rec := range s.filteredRecords(f) {
		if strings.Contains(strings.ToLower(rec.item.Text), needle) {
			matched = append(matched, rec)
		}
	}
	sortRecords(matched)

	items := make([]memory.Item, len(matched))
	for i, rec := range matched {
		items[i] = cloneItem(rec.item)
	}
	total := len(items)
	return window(items, offset, limit), total, nil
}

// SimilaritySearch ranks items by cosine similarity to the given embedding.
func (s *Store) SimilaritySearch(_ context.Context, embedding []float32, threshold float64, limit int, f storage.Filters) ([]memory.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	type scored struct {
		item  memory.Item
		score float64
	}

	results := make([]scored, 0)
	for _, rec := range s.filteredRecords(f) {
		score := cosineSimilarity(embedding, rec.item.Embedding)
		if score < threshold {
			continue
		}
		results = append(results, scored{item: rec.item, score: score})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].score > results[j].score
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	items := make([]memory.Item, len(results))
	for i, r := range results {
		item := cloneItem(r.item)
		score := r.score
		item.Similarity = &score
		items[i] = item
	}
	return items, nil
}

// AggregateStats computes counts and the recent-activity series in-process.
// Returns nil when the owner has nothing stored, matching the store-side
// aggregation's absent result.
func (s *Store) AggregateStats(_ context.Context, f storage.Filters, lookbackDays int) (*memory.Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	matched := s.filtered(f)
	if len(matched) == 0 {
		return nil, nil
	}

	stats := memory.EmptyStats()
	stats.TotalMemories = len(matched)

	cutoff := time.Now().UTC().AddDate(0, 0, -lookbackDays)
	activity := make(map[string]int)
	for _, item := range matched {
		itemType := string(item.Metadata.Type)
		if itemType == "" {
			itemType = string(memory.TypeNote)
		}
		stats.MemoriesByType[itemType]++

		if item.ProjectID != "" {
			stats.MemoriesByProject[item.ProjectID]++
		}

		stats.StorageUsage.TotalItems++
		stats.StorageUsage.TotalTextLength += len(item.Text)

		if item.CreatedAt.After(cutoff) {
			activity[item.CreatedAt.Format("2006-01-02")]++
		}
	}

	days := make([]string, 0, len(activity))
	for day := range activity {
		days = append(days, day)
	}
	sort.Sort(sort.Reverse(sort.StringSlice(days)))
	for _, day := range days {
		stats.RecentActivity = append(stats.RecentActivity, memory.ActivityBucket{
			Date:  day,
			Count: activity[day],
		})
	}

	return stats, nil
}

// Ping always succeeds for the in-memory store.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

// Close releases nothing; the map is garbage collected.
func (s *Store) Close() error {
	return nil
}

// filteredRecords returns the records matching the filters, unsorted.
// Callers must hold at least a read lock.
func (s *Store) filteredRecords(f storage.Filters) []record {
	matched := make([]record, 0)
	for _, rec := range s.items {
		if f.UserID != "" && rec.item.UserID != f.UserID {
			continue
		}
		if f.ProjectID != "" && rec.item.ProjectID != f.ProjectID {
			continue
		}
		matched = append(matched, rec)
	}
	return matched
}

// filtered returns matching items sorted most-recent-first.
func (s *Store) filtered(f storage.Filters) []memory.Item {
	records := s.filteredRecords(f)
	sortRecords(records)

	items := make([]memory.Item, len(records))
	for i, rec := range records {
		items[i] = cloneItem(rec.item)
	}
	return items
}

func sortRecords(records []record) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].item.CreatedAt.Equal(records[j].item.CreatedAt) {
			return records[i].item.CreatedAt.After(records[j].item.CreatedAt)
		}
		return records[i].seq > records[j].seq
	})
}

func window(items []memory.Item, offset, limit int) []memory.Item {
	if offset >= len(items) {
		return []memory.Item{}
	}
	end := offset + limit
	if limit <= 0 || end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

func cloneItem(item memory.Item) memory.Item {
	item.Embedding = append([]float32(nil), item.Embedding...)
	item.Tags = append([]string(nil), item.Tags...)
	if item.Metadata.Extra != nil {
		extra := make(map[string]any, len(item.Metadata.Extra))
		for k, v := range item.Metadata.Extra {
			extra[k] = v
		}
		item.Metadata.Extra = extra
	}
	if item.Similarity != nil {
		score := *item.Similarity
		item.Similarity = &score
	}
	return item
}

func cosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
