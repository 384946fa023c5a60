// Package embeddings defines the embedding-service contract used by the
// search path.
package embeddings

import (
	"context"
	"errors"
)

// ErrEmbedding is returned when embedding generation fails. Search treats
// any error wrapping it as a signal to downgrade to lexical matching.
var ErrEmbedding = errors.New("embedding failed")

// Embedder converts free text into a fixed-length numeric vector.
type Embedder interface {
	// Embed converts text into a vector embedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Close releases any resources held by the embedder.
	Close() error
}
