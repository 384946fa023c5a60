// Package servecmder provides the serve command for running the memory API
// server.
package servecmder

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/pulsespark/engram/api"
	"github.com/pulsespark/engram/pkg/auth"
	"github.com/pulsespark/engram/pkg/auth/gotrue"
	"github.com/pulsespark/engram/pkg/auth/static"
	"github.com/pulsespark/engram/pkg/config"
	"github.com/pulsespark/engram/pkg/embeddings"
	"github.com/pulsespark/engram/pkg/embeddings/ollama"
	"github.com/pulsespark/engram/pkg/embeddings/openai"
	"github.com/pulsespark/engram/pkg/engine"
	"github.com/pulsespark/engram/pkg/eventstream"
	"github.com/pulsespark/engram/pkg/eventstream/kafka"
	"github.com/pulsespark/engram/pkg/eventstream/nop"
	"github.com/pulsespark/engram/pkg/logger"
	"github.com/pulsespark/engram/pkg/storage"
	"github.com/pulsespark/engram/pkg/storage/inmemory"
	"github.com/pulsespark/engram/pkg/storage/postgres"
	"github.com/pulsespark/engram/pkg/utils"
)

type ServeCommander struct {
	configDir string
	listen    string
	debug     bool
	logger    *zap.Logger
}

const serveLongDesc string = `Run the Engram memory API server.

Configuration is read from .engram/config.toml (local directory first, then
home) and ENGRAM_-prefixed environment variables. Flags override both.

Examples:
  engram serve
  engram serve --listen :9000
  ENGRAM_DATABASE_DRIVER=postgres ENGRAM_DATABASE_URL=postgres://... engram serve`

const serveShortDesc string = "Run the Engram memory API server"

func NewServeCmd() *cobra.Command {
	cmder := &ServeCommander{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: serveShortDesc,
		Long:  serveLongDesc,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var err error
			cmder.debug, err = cmd.Flags().GetBool("debug")
			if err != nil {
				return fmt.Errorf("could not get debug flag: %v", err)
			}
			return cmder.run()
		},
	}

	cmd.Flags().StringVarP(&cmder.listen, "listen", "l", "", "Address for the API server to listen on (overrides config)")
	cmd.Flags().StringVarP(&cmder.configDir, "config-dir", "c", "", "Config directory override (default: .engram/ discovery)")

	return cmd
}

func (c *ServeCommander) run() error {
	cfg, err := config.Load(c.configDir)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if c.listen != "" {
		cfg.Server.Listen = c.listen
	}

	c.logger = logger.NewLogger(c.debug || cfg.Debug)
	defer c.logger.Sync()

	store, err := c.newStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	embedder, err := c.newEmbedder(cfg)
	if err != nil {
		return err
	}
	defer embedder.Close()

	resolver, err := c.newResolver(cfg)
	if err != nil {
		return err
	}
	defer resolver.Close()

	publisher, err := c.newPublisher(cfg)
	if err != nil {
		return err
	}
	defer publisher.Close()

	eng := engine.NewEngine(store, embedder, publisher, c.logger)

	server := api.NewServer(api.Config{
		ListenAddr: cfg.Server.Listen,
		Version:    utils.Version,
	}, eng, resolver, c.logger)

	errChan := make(chan error, 1)
	go func() {
		if err := server.Run(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return err
	case sig := <-sigChan:
		c.logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
		return server.Shutdown()
	}
}

func (c *ServeCommander) newStore(cfg *config.Config) (storage.Store, error) {
	switch cfg.Database.Driver {
	case "postgres":
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		store, err := postgres.New(ctx, cfg.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("creating postgres store: %w", err)
		}
		c.logger.Info("using postgres storage")
		return store, nil

	case "", "memory":
		c.logger.Info("using in-memory storage")
		return inmemory.NewStore(), nil

	default:
		return nil, fmt.Errorf("unknown database driver %q", cfg.Database.Driver)
	}
}

func (c *ServeCommander) newEmbedder(cfg *config.Config) (embeddings.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "", "openai":
		embedder, err := openai.NewEmbedder(openai.Config{
			APIKey:  cfg.Embedding.APIKey,
			BaseURL: cfg.Embedding.Target,
			Model:   cfg.Embedding.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("creating openai embedder: %w", err)
		}
		return embedder, nil

	case "ollama":
		embedder, err := ollama.NewEmbedder(ollama.Config{
			BaseURL: cfg.Embedding.Target,
			Model:   cfg.Embedding.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("creating ollama embedder: %w", err)
		}
		return embedder, nil

	default:
		return nil, fmt.Errorf("unknown embedding provider %q", cfg.Embedding.Provider)
	}
}

func (c *ServeCommander) newResolver(cfg *config.Config) (auth.Resolver, error) {
	switch cfg.Auth.Provider {
	case "", "gotrue":
		resolver, err := gotrue.NewResolver(gotrue.Config{
			BaseURL: cfg.Auth.Target,
			APIKey:  cfg.Auth.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("creating gotrue resolver: %w", err)
		}
		return resolver, nil

	case "static":
		if cfg.Auth.Token == "" || cfg.Auth.UserID == "" {
			return nil, fmt.Errorf("static auth requires auth.token and auth.user_id")
		}
		resolver := static.NewResolver()
		resolver.Register(cfg.Auth.Token, auth.Identity{UserID: cfg.Auth.UserID})
		c.logger.Warn("using static auth, do not use in production")
		return resolver, nil

	default:
		return nil, fmt.Errorf("unknown auth provider %q", cfg.Auth.Provider)
	}
}

func (c *ServeCommander) newPublisher(cfg *config.Config) (eventstream.Publisher, error) {
	if !cfg.Events.Enabled {
		return nop.NewPublisher(), nil
	}

	publisher, err := kafka.NewPublisher(kafka.Config{
		Brokers: cfg.Events.Brokers,
		Topic:   cfg.Events.Topic,
	})
	if err != nil {
		return nil, fmt.Errorf("creating kafka publisher: %w", err)
	}

	c.logger.Info("publishing mutation events",
		zap.Strings("brokers", cfg.Events.Brokers),
		zap.String("topic", cfg.Events.Topic),
	)
	return publisher, nil
}
