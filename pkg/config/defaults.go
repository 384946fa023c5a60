package config

const (
	defaultListen = ":8090"

	defaultDatabaseDriver = "memory"

	defaultEmbeddingProvider = "openai"
	defaultEmbeddingModel    = "text-embedding-ada-002"

	defaultAuthProvider = "gotrue"

	defaultEventsTopic = "engram.mutations"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Listen: defaultListen,
		},
		Database: DatabaseConfig{
			Driver: defaultDatabaseDriver,
		},
		Embedding: EmbeddingConfig{
			Provider: defaultEmbeddingProvider,
			Model:    defaultEmbeddingModel,
		},
		Auth: AuthConfig{
			Provider: defaultAuthProvider,
		},
		Events: EventsConfig{
			Enabled: false,
			Topic:   defaultEventsTopic,
		},
	}
}
