// Package main is the entry point for the awards voting server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"nordicos/internal/auth"
	"nordicos/internal/awards"
	"nordicos/internal/cache"
	"nordicos/internal/config"
	"nordicos/internal/database"
	"nordicos/internal/handlers"
	"nordicos/internal/metrics"
	"nordicos/internal/middleware"
	"nordicos/internal/router"
	"nordicos/internal/storage"
	"nordicos/internal/store"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	var handler slog.Handler
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
	)

	// Connect to PostgreSQL.
	db, err := database.Connect(cfg.DSN())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run pending migrations.
	if err := database.Migrate(db); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	// Make sure an administrator exists (no-op if the account is present).
	if err := database.EnsureAdmin(db, database.AdminSeed{
		Username: cfg.AdminUsername,
		Email:    cfg.AdminEmail,
		Password: cfg.AdminPassword,
	}); err != nil {
		slog.Error("failed to ensure admin user", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey for the results cache. Results are still correct
	// without it, only slower.
	var results awards.ResultsCache
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Warn("valkey unavailable, results cache disabled", "error", err)
	} else {
		defer valkeyClient.Close()
		results = cache.NewResultsCache(valkeyClient, cfg.ResultsCacheTTL)
	}

	// Object storage when configured, local disk otherwise.
	var files awards.FileStore
	var disk *storage.DiskStore
	if cfg.UseS3() {
		s3Store, err := storage.NewS3(
			cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey,
			cfg.S3Bucket, cfg.S3PublicURL,
		)
		if err != nil {
			slog.Error("failed to initialize S3 storage", "error", err)
			os.Exit(1)
		}
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", s3Store.Bucket())
		files = s3Store
	} else {
		disk, err = storage.NewDisk(cfg.UploadDir, cfg.PublicUploadPrefix)
		if err != nil {
			slog.Error("failed to initialize upload directory", "error", err)
			os.Exit(1)
		}
		slog.Info("s3 storage not configured, storing uploads on disk", "dir", disk.Dir())
		files = disk
	}

	// Initialize data stores.
	userStore := store.NewUserStore(db)

	svc := awards.New(awards.Deps{
		Categories: store.NewCategoryStore(db),
		Nominees:   store.NewNomineeStore(db),
		Media:      store.NewMediaStore(db),
		Votes:      store.NewVoteStore(db),
		Files:      files,
		Results:    results,
	})

	// Metrics registry with runtime collectors plus the service's own.
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	if err := metrics.Register(reg, db); err != nil {
		slog.Error("failed to register metrics", "error", err)
		os.Exit(1)
	}

	tokens := auth.NewTokens(cfg.JWTSecret, cfg.JWTTTL)
	limiter := middleware.NewRateLimiter(cfg.RateLimit, cfg.RateWindow)
	defer limiter.Stop()

	routes := router.Config{
		Auth:    handlers.NewAuth(userStore, tokens),
		API:     handlers.NewAPI(svc),
		Tokens:  tokens,
		Users:   userStore,
		Limiter: limiter,
		Metrics: metrics.Handler(reg),
	}
	if disk != nil {
		routes.Uploads = http.Dir(disk.Dir())
		routes.UploadPrefix = disk.PublicPrefix()
	}

	// Create the HTTP server with sensible timeouts. ReadTimeout leaves room
	// for 50 MB uploads on slow links.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router.New(routes),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       2 * time.Minute,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutdown signal received", "signal", sig)

	// Give active requests up to 30 seconds to complete.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}
