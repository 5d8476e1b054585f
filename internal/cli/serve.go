package cli

import (
	"context"
	"encoding/hex"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	backend "github.com/redis/go-redis/v9"

	httpAdapter "github.com/aretw0/voyant/internal/adapters/http"
	"github.com/aretw0/voyant/internal/service"
	"github.com/aretw0/voyant/pkg/adapters/memory"
	"github.com/aretw0/voyant/pkg/adapters/redis"
	"github.com/aretw0/voyant/pkg/persistence/middleware"
	"github.com/aretw0/voyant/pkg/ports"
)

// ServeOptions contains all the configuration for the serve command.
type ServeOptions struct {
	Addr      string
	RedisURL  string
	RedisTTL  time.Duration
	StepDelay time.Duration
	Fixtures  string
	StoreKey  string
	MaskKeys  []string
	Debug     bool
}

// Serve starts the development planning service.
func Serve(opts ServeOptions) error {
	logger := createLogger(opts.Debug)

	store, closeStore, err := buildStore(opts, logger)
	if err != nil {
		return err
	}
	defer closeStore()

	fixtures, err := service.LoadFixtures(opts.Fixtures)
	if err != nil {
		return err
	}
	if len(fixtures) > 0 {
		logger.Info("Route fixtures loaded", "path", opts.Fixtures, "count", len(fixtures))
	}

	srv := httpAdapter.NewServer(nil, httpAdapter.WithLogger(logger))
	exec := service.NewExecutor(store, &service.StaticProvider{Fixtures: fixtures},
		service.WithStepDelay(opts.StepDelay),
		service.WithLogger(logger),
		service.WithNotify(srv.BroadcastState),
	)
	srv.Service = exec

	httpServer := &http.Server{
		Addr:    opts.Addr,
		Handler: srv.Handler(),
	}

	serverErrors := make(chan error, 1)
	go func() {
		fmt.Printf("Starting Voyant planning service on %s\n", opts.Addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	sc := NewSignalContext(context.Background())
	defer sc.Cancel()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case <-sc.Done():
		fmt.Printf("\nStart shutdown... Signal: %v\n", sc.Signal())

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := httpServer.Shutdown(ctx); err != nil {
			if cerr := httpServer.Close(); cerr != nil {
				return fmt.Errorf("error killing server: %w", cerr)
			}
			return fmt.Errorf("graceful shutdown did not complete: %w", err)
		}
		fmt.Println("Voyant planning service stopped gracefully")
		return nil
	}
}

// buildStore picks the plan store backend: Redis when a URL is given,
// otherwise in-process memory. Encryption and masking middleware apply to
// either backend.
func buildStore(opts ServeOptions, logger *slog.Logger) (ports.PlanStore, func(), error) {
	var (
		store      ports.PlanStore
		closeStore = func() {}
	)

	if opts.RedisURL == "" {
		store = memory.NewStore()
	} else {
		redisOpts, err := backend.ParseURL(opts.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid redis URL: %w", err)
		}

		rstore := redis.NewFromClient(backend.NewClient(redisOpts), redis.WithTTL(opts.RedisTTL))
		logger.Info("Using Redis plan store", "addr", redisOpts.Addr)
		store = rstore
		closeStore = func() { _ = rstore.Close() }
	}

	if opts.StoreKey != "" {
		key, err := hex.DecodeString(opts.StoreKey)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid store key: %w", err)
		}
		if len(key) != 32 {
			return nil, nil, fmt.Errorf("store key must be 32 bytes (64 hex characters), got %d", len(key))
		}
		store = middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: key})(store)
		logger.Info("Plan store encryption enabled")
	}

	// Masking wraps last so it sees the plaintext snapshot before any sealing.
	if len(opts.MaskKeys) > 0 {
		store = middleware.NewPIIMiddleware(opts.MaskKeys)(store)
		logger.Info("Masking stored output keys", "patterns", len(opts.MaskKeys))
	}

	return store, closeStore, nil
}
