package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pagelens/internal/config"
	"pagelens/internal/domain"
	pagehttp "pagelens/internal/http"
	"pagelens/internal/pkg/logger"
	"pagelens/internal/repository/cache"
	"pagelens/internal/service/enrich"
	"pagelens/internal/service/extractor"
	"pagelens/internal/service/pipeline"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Setup logging
	log := logger.New(cfg.LogLevel)
	log.Info("Starting metadata API service...")

	// Pick the cache backend: Redis when configured, in-memory otherwise
	var (
		cacheRepo     domain.CacheRepository
		healthChecker *cache.RedisCache
	)
	if cfg.RedisURL != "" {
		client, err := cache.NewRedisClient(cfg.RedisURL, log)
		if err != nil {
			log.Error("Failed to connect to Redis", "error", err)
			os.Exit(1)
		}
		defer client.Close()

		redisCache := cache.NewRedisCache(client, log)
		cacheRepo = redisCache
		healthChecker = redisCache
		log.Info("Using Redis cache backend")
	} else {
		memCache := cache.NewMemoryCache()
		defer memCache.Close()
		cacheRepo = memCache
		log.Info("Using in-memory cache backend")
	}

	// Headless browser pool for rendered extraction, launched lazily
	browser := extractor.NewBrowser(log, cfg.BrowserMaxPages)
	defer browser.Close()

	svc := pipeline.New(
		log,
		cacheRepo,
		extractor.NewStaticExtractor(log),
		extractor.NewRenderedExtractor(log, browser),
		enrich.NewEngine(log),
	)

	// Server-wide baseline fetch options, overridable per request
	defaults := domain.DefaultFetchOptions()
	defaults.Timeout = cfg.FetchTimeout
	defaults.WaitForTimeout = cfg.WaitForTimeout
	defaults.CacheMaxAge = cfg.CacheTTL

	router := pagehttp.NewRouter(log, svc, defaults)
	if healthChecker != nil {
		router.AddHealthChecker("redis", healthChecker)
	}

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router.SetupRoutes(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Create a channel to track shutdown completion
	done := make(chan struct{})

	go func() {
		defer close(done)
		log.Info("API server listening", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("API server failed", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
		log.Info("Shutdown signal received, stopping API server...")
	case <-done:
		log.Info("API server stopped")
	}

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error("Error stopping API server", "error", err)
	}

	log.Info("API service shutdown complete")
}
