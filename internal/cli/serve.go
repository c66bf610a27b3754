package cli

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/visionspec/visionspec/internal/config"
	"github.com/visionspec/visionspec/pkg/api"
	"github.com/visionspec/visionspec/pkg/cache"
	"github.com/visionspec/visionspec/pkg/study"
)

const (
	// shutdownTimeout bounds graceful shutdown of in-flight requests.
	shutdownTimeout = 10 * time.Second

	// backendTimeout bounds connecting to MongoDB and Redis at startup.
	backendTimeout = 10 * time.Second
)

// serveCommand creates the serve command for the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the VisionSpec HTTP API.

Studies are stored in MongoDB when mongo.uri is configured and in memory
otherwise. Rendered reports are cached in Redis when redis.addr is configured
and in memory otherwise.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			return c.runServe(cmd.Context(), cfg, nil)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")

	return cmd
}

// runServe serves the API until ctx is cancelled. When ready is non-nil it
// receives the bound listener address once the server accepts connections.
func (c *CLI) runServe(ctx context.Context, cfg config.Config, ready chan<- string) error {
	logger := loggerFromContext(ctx)

	engine, err := c.newEngine(cfg)
	if err != nil {
		return err
	}
	window, err := cfg.RateWindowDuration()
	if err != nil {
		return err
	}

	store, err := openStore(ctx, cfg)
	if err != nil {
		return err
	}
	artifacts, err := openCache(ctx, cfg)
	if err != nil {
		store.Close()
		return err
	}

	opts := []api.Option{
		api.WithStore(store),
		api.WithCache(artifacts),
		api.WithKeyer(cacheKeyer(cfg)),
		api.WithLogger(logger),
		api.WithReportOptions(c.reportOptions(cfg)),
	}
	if cfg.Server.RateLimit > 0 {
		opts = append(opts, api.WithRateLimit(cfg.Server.RateLimit, window))
	}
	srv, err := api.New(engine, opts...)
	if err != nil {
		store.Close()
		artifacts.Close()
		return err
	}
	defer srv.Close()

	ln, err := net.Listen("tcp", cfg.Server.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.Server.Addr, err)
	}

	httpSrv := &http.Server{
		Handler:           srv.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpSrv.Serve(ln)
	}()

	printSuccess("API listening on %s", StyleLink.Render("http://"+ln.Addr().String()))
	printDetail("catalog: %s (%d sizes)", engine.Catalog().Source(), engine.Catalog().Len())
	if ready != nil {
		ready <- ln.Addr().String()
	}

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	printInfo("Server stopped")
	return nil
}

// openStore returns the MongoDB store when configured, otherwise a memory store.
func openStore(ctx context.Context, cfg config.Config) (study.Store, error) {
	if cfg.Mongo.URI == "" {
		printWarning("mongo.uri not set; studies are kept in memory")
		return study.NewMemoryStore(), nil
	}
	ctx, cancel := context.WithTimeout(ctx, backendTimeout)
	defer cancel()
	return study.NewMongoStore(ctx, study.MongoConfig{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
		Timeout:  backendTimeout,
	})
}

// openCache returns the Redis cache when configured, otherwise a memory cache.
func openCache(ctx context.Context, cfg config.Config) (cache.Cache, error) {
	if cfg.Redis.Addr == "" {
		return cache.NewMemoryCache(), nil
	}
	ctx, cancel := context.WithTimeout(ctx, backendTimeout)
	defer cancel()
	rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err != nil {
		return nil, err
	}
	return rc, nil
}

// cacheKeyer scopes API cache keys by redis.key_prefix when one is set.
func cacheKeyer(cfg config.Config) cache.Keyer {
	if cfg.Redis.KeyPrefix == "" {
		return cache.NewDefaultKeyer()
	}
	return cache.NewScopedKeyer(cache.NewDefaultKeyer(), cfg.Redis.KeyPrefix)
}
