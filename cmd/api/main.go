// Copyright (c) 2026 Lumina. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Lumina portfolio API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Build the key-value storage chain (Redis / file / memory fallback).
//  4. Build the blob backend (S3-compatible bucket or local disk).
//  5. Wire domain services and HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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

	goredis "github.com/redis/go-redis/v9"

	"github.com/taibuivan/lumina/internal/album"
	"github.com/taibuivan/lumina/internal/api"
	"github.com/taibuivan/lumina/internal/auth"
	"github.com/taibuivan/lumina/internal/blob"
	"github.com/taibuivan/lumina/internal/cover"
	"github.com/taibuivan/lumina/internal/gallery"
	"github.com/taibuivan/lumina/internal/metrics"
	"github.com/taibuivan/lumina/internal/platform/config"
	"github.com/taibuivan/lumina/internal/platform/constants"
	redisstore "github.com/taibuivan/lumina/internal/platform/redis"
	"github.com/taibuivan/lumina/internal/platform/sec"
	"github.com/taibuivan/lumina/internal/platform/storage"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", "lumina"))
	slog.SetDefault(log)

	log.Info("[Lumina] service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", "lumina"))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.String("storage_mode", cfg.StorageMode),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Key-Value Storage Chain ────────────────────────────────────────
	// The primary tier depends on STORAGE_MODE; every lower tier mirrors
	// writes and absorbs reads when a higher tier is unreachable.
	var (
		tiers       []storage.Store
		redisClient *goredis.Client
		fileTier    *storage.FileStore
	)

	switch cfg.StorageMode {
	case config.StorageModeRedis:
		redisClient, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing redis client")
			if cerr := redisClient.Close(); cerr != nil {
				log.Error("redis close error", slog.Any("error", cerr))
			}
		}()
		tiers = append(tiers, storage.NewRedisStore(redisClient, "lumina:"))
		fallthrough

	case config.StorageModeFile:
		fileTier, err = storage.NewFileStore(cfg.DataDir)
		must(log, err, "open data directory")
		tiers = append(tiers, fileTier)
		fallthrough

	default:
		tiers = append(tiers, storage.NewMemoryStore())
	}

	kv := storage.NewFallbackStore(log, tiers...)

	// ── 4. Blob Backend ───────────────────────────────────────────────────
	var (
		blobs      blob.Store
		uploadsDir string
	)

	if cfg.S3Bucket != "" {
		blobs, err = blob.NewS3Store(startupCtx, blob.S3Config{
			Bucket:        cfg.S3Bucket,
			Region:        cfg.S3Region,
			Endpoint:      cfg.S3Endpoint,
			AccessKey:     cfg.S3AccessKey,
			SecretKey:     cfg.S3SecretKey,
			PublicBaseURL: cfg.S3PublicBaseURL,
		})
		must(log, err, "initialize s3 blob store")
	} else {
		localStore, lerr := blob.NewLocalStore(cfg.UploadsDir)
		must(log, lerr, "open uploads directory")
		blobs = localStore
		uploadsDir = localStore.Dir()
	}

	log.Info("blob_backend_selected", slog.String("backend", blobs.Name()))

	existence := blob.NewExistence(blobs, kv)

	// ── 5. Session Tokens ─────────────────────────────────────────────────
	tokens, err := sec.NewTokenService(cfg.SessionSecret, constants.AuthIssuer, constants.SessionTTL)
	must(log, err, "initialize token service")

	// ── 6. Health handlers (wired with real dependency checkers) ──────────
	liveness, readiness := api.NewHealthHandlers(api.HealthDependencies{
		CheckStorage: storageProbe(redisClient, fileTier),
		CheckBlobs: func() error {
			_, lerr := blobs.List(context.Background())
			return lerr
		},
	}, log)

	// ── 7. Domain Wiring ──────────────────────────────────────────────────
	albumRepository := album.NewRepository(kv)
	albumService := album.NewService(albumRepository, existence, true, log)
	albumHandler := album.NewHandler(albumService)

	coverService := cover.NewService(kv, existence, albumService, log)
	coverHandler := cover.NewHandler(coverService, blobs)

	galleryService := gallery.NewService(kv, blobs, existence, albumService, coverService, log)
	galleryHandler := gallery.NewHandler(galleryService)

	metricsService := metrics.NewService(kv, log)
	metricsHandler := metrics.NewHandler(metricsService)

	authService := auth.NewService(cfg.AdminUsername, cfg.AdminPasswordHash, tokens, log)
	authHandler := auth.NewHandler(authService, !cfg.IsDevelopment())

	// ── 8. HTTP Server ────────────────────────────────────────────────────
	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		Album:     albumHandler,
		Cover:     coverHandler,
		Gallery:   galleryHandler,
		Metrics:   metricsHandler,
	}

	server := api.NewServer(context.Background(), cfg, log, tokens, uploadsDir, handlers)

	// ── 9. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// storageProbe returns the readiness probe for the primary key-value tier:
// a Redis ping when Redis is primary, a data-directory write check when
// file storage is primary, nil (no probe) for pure in-memory mode.
func storageProbe(redisClient *goredis.Client, fileTier *storage.FileStore) func() error {
	switch {
	case redisClient != nil:
		return func() error {
			return redisstore.Ping(context.Background(), redisClient)
		}
	case fileTier != nil:
		return func() error {
			probe := []byte(`"ok"`)
			return fileTier.Set(context.Background(), "health_probe", probe)
		}
	default:
		return nil
	}
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
