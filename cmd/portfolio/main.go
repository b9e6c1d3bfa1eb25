// Package main is the entry point for the portfolio API server.
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

	"portfolio/internal/auth"
	"portfolio/internal/cache"
	"portfolio/internal/config"
	"portfolio/internal/database"
	"portfolio/internal/handlers"
	"portfolio/internal/identity"
	"portfolio/internal/mailer"
	"portfolio/internal/router"
	"portfolio/internal/session"
	"portfolio/internal/storage"
	"portfolio/internal/store"
)

func main() {
	// Load configuration from .env and environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON everywhere else.
	opts := &slog.HandlerOptions{Level: cfg.LogLevel}
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, opts)
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, opts)
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

	// Create the operator account on first start (no-op afterwards).
	if err := database.Seed(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		slog.Error("failed to seed database", "error", err)
		os.Exit(1)
	}

	// Connect to Valkey (session store + public response cache).
	valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
	if err != nil {
		slog.Error("failed to connect to valkey", "error", err)
		os.Exit(1)
	}
	defer valkeyClient.Close()

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	sessionStore := session.NewStore(valkeyClient, cfg.SessionTTL, secureCookies)
	responses := cache.NewResponses(valkeyClient, cache.DefaultResponseTTL)
	// Migrations may have changed stored rows under a previous process's cache.
	responses.InvalidateAll(context.Background())

	// Initialize data stores.
	userStore := store.NewUserStore(db)
	stores := handlers.Stores{
		Singletons: store.NewSingletonStore(db),
		Projects:   store.NewProjectStore(db),
		Skills:     store.NewSkillStore(db),
		Filters:    store.NewFilterStore(db),
		Contacts:   store.NewContactStore(db),
		Audit:      store.NewAuditStore(db),
	}

	// Identity provider and the auth gate: bearer first, then cookie.
	provider, err := identity.NewProvider(userStore, cfg.JWTSecret, cfg.JWTTTL, "Portfolio")
	if err != nil {
		slog.Error("failed to initialize identity provider", "error", err)
		os.Exit(1)
	}
	gate := auth.NewGate(
		auth.NewBearerResolver(provider),
		auth.NewCookieResolver(sessionStore),
	)

	// Connect to S3-compatible object storage (optional, uploads answer
	// 503 without it).
	var objects handlers.ObjectStore
	storageClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
	if err != nil {
		slog.Error("failed to initialize S3 storage", "error", err)
		os.Exit(1)
	}
	if storageClient != nil {
		objects = storageClient
		slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
	} else {
		slog.Warn("s3 storage not configured, image uploads disabled")
	}

	// Contact notifications (optional, submissions are still stored).
	var notifier handlers.ContactNotifier
	if m := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		User:     cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.SMTPFrom,
		FromName: cfg.SMTPFromName,
		Timeout:  cfg.SMTPTimeout,
	}); m != nil {
		notifier = m
		slog.Info("smtp mailer configured", "host", cfg.SMTPHost, "port", cfg.SMTPPort)
	} else {
		slog.Warn("smtp not configured, contact notifications disabled")
	}

	// Create handler groups with their dependencies.
	publicHandlers := handlers.NewPublic(stores, responses, notifier, cfg.ContactEmail).
		WithNotifyTimeout(cfg.SMTPTimeout)
	adminHandlers := handlers.NewAdmin(stores, responses, objects)
	authHandlers := handlers.NewAuth(provider, sessionStore, secureCookies)

	// Set up the Chi router with all middleware and routes.
	r := router.New(router.Options{
		Gate:             gate,
		Public:           publicHandlers,
		Admin:            adminHandlers,
		Auth:             authHandlers,
		AllowedOrigins:   cfg.AllowedOrigins,
		Secure:           secureCookies,
		ContactRateLimit: cfg.ContactRateLimit,
		LoginRateLimit:   cfg.LoginRateLimit,
	})

	// Create the HTTP server with sensible timeouts. ReadTimeout leaves
	// room for a full image upload.
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      config.WriteTimeout,
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
