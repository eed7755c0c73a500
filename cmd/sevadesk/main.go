// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"sevadesk/internal/config"
	"sevadesk/internal/handler"
	"sevadesk/internal/handler/api"
	"sevadesk/internal/logging"
	"sevadesk/internal/middleware"
	"sevadesk/internal/session"
	"sevadesk/internal/store"
	"sevadesk/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "SevaDesk - community service admin dashboard\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SEVADESK_SESSION_SECRET       Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SEVADESK_DB_PATH              SQLite database path (default: ./data/sevadesk.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SEVADESK_SERVER_PORT          Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SEVADESK_ENV                  Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SEVADESK_CORS_ALLOWED_ORIGIN  Allowed CORS origin for /api (default: *)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  SEVADESK_DO_SEED              Create default admin on startup (default: true)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		info := version.Info{Version: appVersion, GitCommit: appGitCommit, BuildTime: appBuildTime}
		_, _ = fmt.Println(info.String())
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Initialize database
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the audit log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewAuditLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("audit log integration enabled", "min_level", "warn")

	// Seed default admin
	if cfg.DoSeed {
		if err := store.Seed(context.Background(), db); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
	}

	// Initialize session manager
	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Login protection and rate limiters
	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	loginRateLimiter := middleware.NewGlobalRateLimiter(10, 20)
	apiRateLimiter := middleware.NewGlobalRateLimiter(100, 200)

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment()))

	// Handlers
	authHandler := handler.NewAuthHandler(db, sessionManager, loginProtection)
	healthHandler := handler.NewHealthHandler(db, versionInfo)
	apiHandler := api.NewHandler(db, versionInfo)

	r := chi.NewRouter()

	// Base middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(sessionManager.LoadAndSave)

	// Health checks
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// Login surface
	r.Group(func(r chi.Router) {
		r.Use(loginRateLimiter.HTMLMiddleware())
		r.Use(csrfMiddleware)

		r.With(middleware.RedirectAuthenticated(sessionManager)).Get("/", authHandler.LoginForm)
		r.With(loginProtection.Middleware()).Post("/login", authHandler.Login)
		r.Post("/logout", authHandler.Logout)
		r.Get("/logout", authHandler.Logout)
	})

	// Dashboard (browser, session required)
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, db))

		r.Get("/dashboard", handler.Dashboard)
	})

	// JSON API
	r.Route("/api", func(r chi.Router) {
		r.Use(middleware.CORS(middleware.CORSConfig{AllowedOrigin: cfg.CORSAllowedOrigin}))
		r.Use(apiRateLimiter.Middleware())
		r.Use(middleware.LoadUser(sessionManager, db))

		// Public endpoints
		r.Get("/status", apiHandler.Status)
		r.Post("/contact", apiHandler.CreateContact)
		r.Post("/blood-donation", apiHandler.CreateDonor)
		r.Get("/blood-donation", apiHandler.ListDonors)
		r.Get("/events", apiHandler.ListEvents)
		r.Post("/register", apiHandler.Register)

		// Session-required endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(sessionManager))

			r.Get("/contact", apiHandler.ListContacts)
			r.Patch("/contact", apiHandler.UpdateContact)
			r.Delete("/contact", apiHandler.DeleteContact)
			r.Patch("/blood-donation", apiHandler.UpdateDonor)
			r.Delete("/blood-donation", apiHandler.DeleteDonor)
			r.Post("/events", apiHandler.CreateEvent)
			r.Patch("/events", apiHandler.RefreshEvent)
			r.Delete("/events/{id}", apiHandler.DeleteEvent)
			r.Get("/profile", apiHandler.Profile)
			r.Get("/dashboard", apiHandler.Dashboard)
		})

		// Admin-only endpoints
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession(sessionManager))
			r.Use(middleware.RequireAdmin())

			r.Get("/users", apiHandler.ListUsers)
			r.Post("/users", apiHandler.CreateUser)
			r.Get("/logs", apiHandler.ListLogs)
		})
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
