package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/shopspring/decimal"

	"deal-desk/config"
	httpLayer "deal-desk/http"
	"deal-desk/logging"
	"deal-desk/render"
	"deal-desk/repository"
	"deal-desk/service"
)

func main() {
	cfg := config.Load()
	logger := logging.Init(cfg.Log.Level, cfg.Log.Format)

	// The UI expects amounts as JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true

	cache := newCache(cfg, logger)
	if closer, ok := cache.(interface{ Close() error }); ok {
		defer closer.Close()
	}

	settingsRepo := repository.NewSettingsRepositoryMemory()
	lenderRepo := repository.NewCachedLenderRepository(repository.NewLenderRepositoryMemory(), cache, logger)
	snapshotRepo := repository.NewSnapshotRepositoryMemory()

	dealService := service.NewDealService(settingsRepo, lenderRepo, snapshotRepo, logger)

	dealHandler := httpLayer.NewDealHandler(dealService, render.NewDealSheet(render.DefaultSheetOptions()))
	dealerHandler := httpLayer.NewDealerHandler(settingsRepo, lenderRepo)

	rateLimiter := httpLayer.NewRateLimiter(cfg.RateLimit.Capacity, cfg.RateLimit.Refill)
	defer rateLimiter.Stop()

	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      httpLayer.NewRouter(dealHandler, dealerHandler, rateLimiter),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("deal desk API listening", "addr", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		logger.Error("error starting server", "error", err)
		return
	case <-quit:
		logger.Info("shutting down server")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Error("error during server shutdown", "error", err)
	}

	logger.Info("server exited")
}

// newCache uses Redis when configured and reachable, and the in-process cache
// otherwise.
func newCache(cfg config.Config, logger *slog.Logger) repository.CacheRepository {
	if cfg.RedisAddr == "" {
		return repository.NewMemoryCache()
	}

	redisCache := repository.NewRedisCache(cfg.RedisAddr, cfg.CacheTTL)

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()
	if err := redisCache.Ping(ctx); err != nil {
		logger.Warn("redis unavailable, using in-process cache", "addr", cfg.RedisAddr, "error", err)
		_ = redisCache.Close()
		return repository.NewMemoryCache()
	}

	logger.Info("lender catalog cache on redis", "addr", cfg.RedisAddr, "ttl", cfg.CacheTTL)
	return redisCache
}
