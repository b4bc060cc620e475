package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cartribe/backend/config"
	httpDelivery "github.com/cartribe/backend/internal/delivery/http"
	"github.com/cartribe/backend/internal/domain"
	"github.com/cartribe/backend/internal/infrastructure/cache"
	"github.com/cartribe/backend/internal/infrastructure/marketcheck"
	"github.com/cartribe/backend/internal/infrastructure/metrics"
	"github.com/cartribe/backend/internal/infrastructure/postgres"
	"github.com/cartribe/backend/internal/logging"
	"github.com/cartribe/backend/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	logger := logging.New(cfg.Log.Level, cfg.IsProduction())
	logger.Info().
		Str("version", httpDelivery.Version).
		Str("environment", cfg.Server.Environment).
		Str("port", cfg.Server.Port).
		Str("cache_type", cfg.Cache.Type).
		Dur("cache_ttl", cfg.Cache.TTL).
		Msg("starting Car Tribe backend")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	reg := metrics.NewRegistry()

	listingCache, err := newListingCache(ctx, cfg, reg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize cache")
	}

	client, err := marketcheck.NewClient(marketcheck.ClientConfig{
		APIKey:            cfg.MarketCheck.APIKey,
		BaseURL:           cfg.MarketCheck.BaseURL,
		Timeout:           cfg.MarketCheck.Timeout,
		Rows:              cfg.MarketCheck.Rows,
		DefaultPostalCode: cfg.MarketCheck.DefaultZip,
		DefaultRadius:     cfg.MarketCheck.DefaultRadius,
		RetryMax:          cfg.MarketCheck.RetryMax,
		RequestsPerSecond: cfg.MarketCheck.RequestsPerSecond,
		Burst:             cfg.MarketCheck.Burst,
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create MarketCheck client")
	}
	logger.Info().Str("base_url", cfg.MarketCheck.BaseURL).Msg("MarketCheck API configured")

	var internal domain.InternalListingRepository
	if cfg.Database.URL != "" {
		store, err := openListingStore(ctx, cfg.Database.URL)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to open internal listing store")
		}
		defer store.Close()
		internal = store
		logger.Info().Msg("internal listing store enabled")
	} else {
		logger.Warn().Msg("database.url not set, serving dealer listings only")
	}

	listingService := usecase.NewListingService(
		listingCache,
		client,
		internal,
		reg,
		logger,
		usecase.ListingServiceConfig{EnableDebugLogging: !cfg.IsProduction()},
	)

	var limiter *httpDelivery.IPRateLimiter
	if cfg.RateLimit.PerIP > 0 {
		limiter = httpDelivery.NewIPRateLimiter(cfg.RateLimit.PerIP)
		go sweepLimiter(ctx, limiter)
	}

	handler := httpDelivery.NewHandler(listingService)
	router := httpDelivery.SetupRouter(cfg, handler, limiter, reg.Handler(), logger)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info().Str("addr", srv.Addr).Msg("server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()
	logger.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}
}

func newListingCache(ctx context.Context, cfg *config.Config, reg *metrics.Registry) (domain.ListingCache, error) {
	switch cfg.Cache.Type {
	case "redis":
		rdb, err := cache.NewRedisClient(cfg.Cache.RedisURL)
		if err != nil {
			return nil, err
		}
		rc, err := cache.NewRedisCache(rdb, cfg.Cache.TTL)
		if err != nil {
			return nil, err
		}
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rc.Ping(pingCtx); err != nil {
			return nil, err
		}
		return rc, nil
	default:
		mc, err := cache.NewMemoryCache(cfg.Cache.Capacity, cfg.Cache.TTL)
		if err != nil {
			return nil, err
		}
		reg.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: "cartribe_cache_entries",
			Help: "Listings held in the in-memory lookup cache, stale entries included.",
		}, func() float64 { return float64(mc.Len()) }))
		return mc, nil
	}
}

func openListingStore(ctx context.Context, url string) (*postgres.ListingStore, error) {
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	store, err := postgres.Open(connectCtx, url)
	if err != nil {
		return nil, err
	}
	if err := store.EnsureSchema(connectCtx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func sweepLimiter(ctx context.Context, limiter *httpDelivery.IPRateLimiter) {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			limiter.Cleanup()
		}
	}
}

