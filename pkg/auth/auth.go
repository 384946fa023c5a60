// Package auth defines the identity-resolution contract. Every request maps
// its bearer credential onto a resolved identity before any claimed user id
// is trusted; the engine then fails closed on any mismatch rather than
// substituting the resolved identity.
package auth

import (
	"context"
	"errors"
)

// ErrUnauthenticated is returned when a credential is missing, malformed,
// expired, or rejected by the identity provider.
var ErrUnauthenticated = errors.New("invalid or expired credential")

// Identity is a resolved caller.
type Identity struct {
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

// Resolver turns a bearer credential into an identity.
type Resolver interface {
	// Resolve validates the credential and returns the caller's identity.
	// Failures of any kind wrap ErrUnauthenticated.
	Resolve(ctx context.Context, credential string) (*Identity, error)

	// Close releases any resources held by the resolver.
	Close() error
}
