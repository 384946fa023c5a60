// Package memory defines the domain model for stored memory items: the item
// record itself, its metadata envelope, search modes, tag normalization, and
// pagination windows. The package has no storage or transport dependencies so
// every layer of the system can share the same types.
package memory

import "time"

const (
	// EmbeddingDim is the required length of every stored embedding vector.
	EmbeddingDim = 1536

	// MaxTextLength bounds the text content of a single item.
	MaxTextLength = 10000

	// MaxTags is the ceiling on the number of tags per item, enforced
	// before normalization.
	MaxTags = 20

	// MaxPageSize bounds page_size on list and search requests.
	MaxPageSize = 100

	// DefaultPageSize applies when a request does not specify page_size.
	DefaultPageSize = 20

	// MaxBulkDelete bounds the number of ids accepted by a single
	// bulk-delete request.
	MaxBulkDelete = 100

	// DefaultSimilarityThreshold applies when a search request does not
	// specify one.
	DefaultSimilarityThreshold = 0.7

	// DefaultStatsDays is the default statistics lookback window.
	DefaultStatsDays = 30

	// MaxStatsDays bounds the statistics lookback window.
	MaxStatsDays = 365
)

// Item is a single memory record owned by one user.
//
// Embedding is never serialized into responses. Similarity is transient: it
// is populated only on items produced by a vector or hybrid search and is
// never persisted.
type Item struct {
	ID         string    `json:"id"`
	UserID     string    `json:"user_id"`
	ProjectID  string    `json:"project_id,omitempty"`
	Text       string    `json:"text"`
	Embedding  []float32 `json:"-"`
	Metadata   Metadata  `json:"metadata"`
	Tags       []string  `json:"tags"`
	Similarity *float64  `json:"similarity,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
