package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/rs/zerolog"

	"github.com/mediagrab/mediagrab/internal/cache"
	"github.com/mediagrab/mediagrab/internal/config"
	"github.com/mediagrab/mediagrab/internal/extractor"
	"github.com/mediagrab/mediagrab/internal/metrics"
	"github.com/mediagrab/mediagrab/internal/models"
	"github.com/mediagrab/mediagrab/internal/server"
	"github.com/mediagrab/mediagrab/internal/service"
)

func main() {
	cfg := config.GetConfig()
	logger := config.GetLogger()

	logger.Info().
		Str("temp_dir", cfg.TempDir).
		Str("extractor_binary", cfg.Extractor.Binary).
		Int("server_port", cfg.Server.Port).
		Str("server_address", cfg.Server.Address).
		Msg("Application started with configuration")

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: cfg.SentryDSN, Release: server.Version}); err != nil {
			logger.Warn().Err(err).Msg("Failed to initialize Sentry, continuing without it")
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	timeout, err := time.ParseDuration(cfg.Extractor.Timeout)
	if err != nil {
		logger.Fatal().Err(err).Str("timeout", cfg.Extractor.Timeout).Msg("Invalid extractor timeout")
	}

	cookieFiles := map[models.Platform]string{
		models.PlatformYouTube:   cfg.Cookies.YouTube,
		models.PlatformInstagram: cfg.Cookies.Instagram,
	}

	downloader := service.NewDownloader(
		extractor.NewYtdlpExtractor(cfg.Extractor.Binary),
		service.Options{
			TempDir:       cfg.TempDir,
			CookieFiles:   cookieFiles,
			UserAgent:     cfg.UserAgent,
			Timeout:       timeout,
			MaxConcurrent: cfg.Extractor.MaxConcurrent,
			Cache:         buildCache(cfg, logger),
		})

	srv := server.New(downloader, cookieFiles)

	// Start Prometheus metrics HTTP server
	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewHTTPServer(cfg.Server.Address, cfg.Metrics.Port)
		go func() {
			logger.Info().Str("address", metricsServer.Addr).Msg("Starting Prometheus metrics HTTP server")
			if err := metricsServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Fatal().Err(err).Msg("Failed to serve metrics")
			}
		}()
		defer func() {
			if err := metricsServer.Shutdown(context.Background()); err != nil {
				logger.Error().Err(err).Msg("Failed to shutdown metrics server")
			}
		}()
	}

	address := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	httpServer := &http.Server{
		Addr:              address,
		Handler:           srv.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		sig := <-sigChan
		logger.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

		// In-flight extractions get a grace period to finish writing.
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error().Err(err).Msg("Failed to shutdown HTTP server")
		}
	}()

	logger.Info().Str("address", address).Msg("Starting HTTP server")
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal().Err(err).Msg("Failed to serve HTTP")
	}

	logger.Info().Msg("Server stopped gracefully")
}

// buildCache creates the response cache named by the configuration, or nil
// when caching is disabled. A broken cache configuration is fatal; silently
// running uncached would mask an operator mistake.
func buildCache(cfg *config.Config, logger zerolog.Logger) cache.Cache {
	if cfg.Cache.Provider == "" {
		return nil
	}

	ttl, err := time.ParseDuration(cfg.Cache.TTL)
	if err != nil {
		logger.Fatal().Err(err).Str("ttl", cfg.Cache.TTL).Msg("Invalid cache TTL")
	}

	c, err := cache.New(cfg.Cache.Provider, cache.ProviderConfig{
		Size:          cfg.Cache.Size,
		MaxBytes:      cfg.Cache.MaxBytes,
		TTL:           ttl,
		Logger:        cacheLogger{logger},
		RedisAddress:  cfg.Cache.RedisAddress,
		RedisPassword: cfg.Cache.RedisPassword,
		RedisDB:       cfg.Cache.RedisDB,
		Group:         "downloads",
	})
	if err != nil {
		logger.Fatal().Err(err).Str("provider", cfg.Cache.Provider).Msg("Failed to create cache")
	}

	logger.Info().
		Str("provider", cfg.Cache.Provider).
		Dur("ttl", ttl).
		Msg("Response cache enabled")
	return c
}

// cacheLogger adapts zerolog to the cache package's logging interface.
type cacheLogger struct {
	logger zerolog.Logger
}

func (l cacheLogger) Error(msg string, err error) {
	l.logger.Error().Err(err).Msg(msg)
}
