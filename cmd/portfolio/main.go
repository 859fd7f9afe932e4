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

	_ "golang.org/x/crypto/x509roots/fallback" // Embed CA certs for scratch container

	httphandler "github.com/techxplorers/portfolio/internal/adapter/driving/http"
	webhandler "github.com/techxplorers/portfolio/internal/adapter/driving/web"
	"github.com/techxplorers/portfolio/internal/application"
	"github.com/techxplorers/portfolio/internal/assets"
	"github.com/techxplorers/portfolio/internal/bootstrap"
	"github.com/techxplorers/portfolio/internal/config"
)

const sessionPurgeInterval = time.Hour

func main() {
	if err := run(); err != nil {
		slog.Error("fatal error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// 1. Load configuration (fail fast on invalid env vars).
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	slog.Info("config loaded",
		"listen_addr", cfg.ListenAddr,
		"db_path", cfg.DBPath,
		"store", cfg.Store,
		"auth", cfg.Auth,
		"unknown_category", cfg.CategoryPolicy,
	)

	// 2. Setup signal-based context (SIGINT, SIGTERM).
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	key, err := bootstrap.SecretKey(cfg, slog.Default())
	if err != nil {
		return err
	}

	// 3. Open database, run migrations and pick the catalog backend.
	stores, err := bootstrap.OpenStores(ctx, cfg, key, slog.Default())
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := stores.Close(); closeErr != nil {
			slog.Error("error closing database", "error", closeErr)
		}
	}()
	slog.Info("stores opened", "path", stores.DB.Path(), "catalog", cfg.Store)

	provider, err := bootstrap.NewAuthProvider(cfg)
	if err != nil {
		return err
	}

	registry, err := assets.Scan(webhandler.StaticFS, webhandler.AssetsDir, webhandler.AssetsURLPrefix)
	if err != nil {
		return err
	}
	slog.Info("assets indexed", "images", len(registry.Names()))

	// 4. Application services.
	catalog := application.NewCatalogService(stores.Catalog, cfg.CategoryPolicy, slog.Default())
	gate := application.NewSessionGate(provider, stores.Sessions, cfg.SessionTTL, slog.Default())

	// 5. Live feed. Pages fall back to one-shot reads when it cannot start.
	feed := application.NewCatalogFeed(slog.Default())
	if err := feed.Start(ctx, catalog); err != nil {
		slog.Warn("catalog feed not started, serving one-shot reads", "error", err)
		feed = nil
	} else {
		defer feed.Close()
	}
	reader := application.NewCatalogReader(feed, catalog)

	go purgeSessions(ctx, gate)

	// 6. HTTP handlers.
	mux := http.NewServeMux()
	apiHandler := httphandler.NewHandler(reader, registry, cfg.Store, slog.Default())
	httphandler.RegisterAPIRoutes(mux, apiHandler)

	webHandler := webhandler.NewHandler(reader, catalog, gate, registry, webhandler.Options{
		WhatsAppNumber: cfg.WhatsAppNumber,
		CookieKey:      key,
		CookieSecure:   cfg.CookieSecure,
	}, slog.Default())
	webhandler.RegisterRoutes(mux, webHandler)

	handler := httphandler.ApplyMiddleware(mux, slog.Default())

	// /events clears the write deadline for its own stream.
	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.Info("http server starting", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("http server error", "error", err)
			stop()
		}
	}()

	slog.Info("portfolio started", "listen_addr", cfg.ListenAddr, "auth_provider", provider.Name())

	// 7. Wait for shutdown signal.
	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("http server shutdown error", "error", err)
	}

	slog.Info("shutdown complete")
	return nil
}

// purgeSessions deletes expired operator sessions until ctx is done.
func purgeSessions(ctx context.Context, gate *application.SessionGate) {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := gate.PurgeExpired(ctx)
			if err != nil {
				slog.Warn("session purge failed", "error", err)
				continue
			}
			if n > 0 {
				slog.Info("expired sessions purged", "count", n)
			}
		}
	}
}
