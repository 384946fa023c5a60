// Package api provides the HTTP surface of the memory engine: bearer auth
// middleware, request parsing, and the mapping from engine errors onto
// status codes.
package api

// Config is the API server configuration.
type Config struct {
	// ListenAddr is the address to listen on (e.g., ":8090")
	ListenAddr string

	// Version is reported by the health endpoint.
	Version string
}
