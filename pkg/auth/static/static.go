// Package static implements pkg/auth's Resolver from a fixed token-to-identity
// table. Used by tests and dev mode, where no identity provider runs.
package static

import (
	"context"
	"sync"

	"github.com/pulsespark/engram/pkg/auth"
)

// Resolver resolves credentials from a fixed in-process table.
type Resolver struct {
	mu         sync.RWMutex
	identities map[string]auth.Identity
}

// NewResolver creates an empty static resolver.
func NewResolver() *Resolver {
	return &Resolver{
		identities: make(map[string]auth.Identity),
	}
}

// Register maps a credential to an identity.
func (r *Resolver) Register(credential string, identity auth.Identity) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.identities[credential] = identity
}

// Resolve validates the credential against the table.
func (r *Resolver) Resolve(_ context.Context, credential string) (*auth.Identity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	identity, ok := r.identities[credential]
	if !ok {
		return nil, auth.ErrUnauthenticated
	}
	return &identity, nil
}

// Close releases nothing.
func (r *Resolver) Close() error {
	return nil
}

var _ auth.Resolver = (*Resolver)(nil)
