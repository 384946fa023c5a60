// Package gotrue implements pkg/auth's Resolver against a GoTrue-style
// identity provider's user endpoint.
package gotrue

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/pulsespark/engram/pkg/auth"
)

// Resolver validates bearer tokens by fetching the authenticated user from
// the identity provider.
type Resolver struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Config holds settings for the GoTrue resolver.
type Config struct {
	// BaseURL is the identity provider root, e.g. "https://auth.example.com".
	BaseURL string

	// APIKey is the provider's project key sent alongside user tokens.
	APIKey string
}

type userResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// NewResolver creates a resolver against the provider's /auth/v1/user endpoint.
func NewResolver(cfg Config) (*Resolver, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("gotrue resolver requires a base URL")
	}

	return &Resolver{
		baseURL: cfg.BaseURL,
		apiKey:  cfg.APIKey,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}, nil
}

// Resolve validates the credential and returns the caller's identity.
func (r *Resolver) Resolve(ctx context.Context, credential string) (*auth.Identity, error) {
	if credential == "" {
		return nil, auth.ErrUnauthenticated
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, fmt.Errorf("%w: creating request: %v", auth.ErrUnauthenticated, err)
	}
	req.Header.Set("Authorization", "Bearer "+credential)
	if r.apiKey != "" {
		req.Header.Set("apikey", r.apiKey)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: contacting identity provider: %v", auth.ErrUnauthenticated, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: identity provider returned status %d", auth.ErrUnauthenticated, resp.StatusCode)
	}

	var user userResponse
	if err := json.NewDecoder(resp.Body).Decode(&user); err != nil {
		return nil, fmt.Errorf("%w: decoding identity response: %v", auth.ErrUnauthenticated, err)
	}

	if user.ID == "" {
		return nil, auth.ErrUnauthenticated
	}

	return &auth.Identity{UserID: user.ID, Email: user.Email}, nil
}

// Close releases resources held by the resolver.
func (r *Resolver) Close() error {
	return nil
}

var _ auth.Resolver = (*Resolver)(nil)
