// Command sekolahku runs the multi-tenant school platform core:
// tenant resolution, identity sessions, and the guarded management
// consoles, behind one HTTP server.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/sekolahku/platform/internal/adapter/directorycache"
	skhttp "github.com/sekolahku/platform/internal/adapter/http"
	sknats "github.com/sekolahku/platform/internal/adapter/nats"
	skotel "github.com/sekolahku/platform/internal/adapter/otel"
	"github.com/sekolahku/platform/internal/adapter/postgres"
	"github.com/sekolahku/platform/internal/adapter/ws"
	"github.com/sekolahku/platform/internal/config"
	"github.com/sekolahku/platform/internal/logger"
	"github.com/sekolahku/platform/internal/middleware"
	"github.com/sekolahku/platform/internal/port/events"
	"github.com/sekolahku/platform/internal/resilience"
	"github.com/sekolahku/platform/internal/service"
	"github.com/sekolahku/platform/internal/session"
	"github.com/sekolahku/platform/internal/tenancy"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "admin" {
		if err := runAdmin(os.Args[2:]); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(); err != nil {
		slog.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	slog.SetDefault(logger.New(cfg.Logging))
	slog.Info("config loaded",
		"port", cfg.Server.Port,
		"platform_domain", cfg.Platform.Domain,
		"dev_mode", cfg.Platform.DevMode,
	)

	ctx := context.Background()

	shutdownOtel, err := skotel.Setup(ctx, cfg.Otel, cfg.Logging.Service)
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownOtel(shutdownCtx)
	}()

	metrics, err := skotel.NewMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	// --- Infrastructure ---

	pool, err := postgres.NewPool(ctx, cfg.Postgres)
	if err != nil {
		return fmt.Errorf("postgres: %w", err)
	}
	defer pool.Close()
	slog.Info("postgres connected")

	if err := postgres.RunMigrations(ctx, cfg.Postgres.DSN); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}
	slog.Info("migrations applied")

	var pub events.Publisher
	if cfg.NATS.Enabled {
		queue, err := sknats.Connect(ctx, cfg.NATS.URL)
		if err != nil {
			return fmt.Errorf("nats: %w", err)
		}
		defer func() { _ = queue.Close() }()
		pub = queue
		slog.Info("audit stream connected", "url", cfg.NATS.URL)
	}

	// --- Core ---

	store := postgres.NewStore(pool)

	dirCache, err := directorycache.New(store,
		cfg.Cache.DirectoryMaxSizeMB*1024*1024, cfg.Cache.DirectoryTTL)
	if err != nil {
		return fmt.Errorf("directory cache: %w", err)
	}
	defer dirCache.Close()

	// Separate breakers: a flapping directory must not lock out logins
	// and vice versa.
	dirBreaker := resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout)
	credBreaker := resilience.NewBreaker(cfg.Breaker.MaxFailures, cfg.Breaker.Timeout)

	resolver := tenancy.NewResolver(dirCache, dirBreaker, cfg.Platform)
	verifier := postgres.NewCredentialService(store)

	hub := ws.NewHub()
	sessions := session.NewManager(verifier, credBreaker, pub, hub, cfg.Auth.SessionTTL)
	tenantSvc := service.NewTenantService(store, dirCache)
	accountSvc := service.NewAccountService(store, cfg.Auth)

	if err := accountSvc.SeedSuperAdmin(ctx); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	// --- HTTP ---

	handlers := skhttp.NewHandlers(sessions, tenantSvc, resolver, hub, pub, metrics)
	loginLimit := middleware.NewRateLimiter(cfg.Rate.LoginPerSecond, cfg.Rate.LoginBurst)
	stopCleanup := loginLimit.StartCleanup(time.Minute, 10*time.Minute)
	defer stopCleanup()

	r := chi.NewRouter()

	r.Use(skhttp.CORS(cfg.Server.CORSOrigin))
	r.Use(skhttp.SecurityHeaders)
	r.Use(skhttp.Logger)
	r.Use(middleware.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Timeout(30 * time.Second))
	if cfg.Otel.Enabled {
		r.Use(skotel.HTTPMiddleware(cfg.Logging.Service))
	}
	r.Use(middleware.SessionID)
	r.Use(middleware.ResolveTenant(resolver))

	r.Get("/ws", hub.HandleWS)
	skhttp.MountRoutes(r, handlers, resolver, loginLimit)

	addr := ":" + cfg.Server.Port

	srv := &http.Server{
		Addr:              addr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server failed", "error", err)
		}
	}()

	<-done
	slog.Info("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return srv.Shutdown(shutdownCtx)
}
