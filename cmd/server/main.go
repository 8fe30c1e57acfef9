package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/rentalconnect/rentalconnect/internal/featureflags"
	"github.com/rentalconnect/rentalconnect/internal/handler"
	"github.com/rentalconnect/rentalconnect/internal/infrastructure/logger"
	"github.com/rentalconnect/rentalconnect/internal/observability/tracing"
	"github.com/rentalconnect/rentalconnect/internal/security"
	"github.com/rentalconnect/rentalconnect/internal/security/audit"
	"github.com/rentalconnect/rentalconnect/internal/security/auth"
	"github.com/rentalconnect/rentalconnect/internal/security/ratelimit"
	"github.com/rentalconnect/rentalconnect/internal/service"
	"github.com/rentalconnect/rentalconnect/pkg/config"
)

func main() {
	// 1. Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// 2. Initialize structured logger
	log := logger.NewLogger(cfg.LogLevel)
	log.Info("starting RentalConnect server",
		slog.String("environment", cfg.Environment),
		slog.String("store", cfg.StoreDriver),
		slog.String("bookmark_store", cfg.BookmarkStore),
		slog.Any("flags", featureflags.Snapshot()),
	)

	if err := run(cfg, log); err != nil {
		log.Error("server exited with error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}

func run(cfg *config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 3. Tracing (no-op without an OTLP endpoint)
	shutdownTracing, err := tracing.Init(ctx, log, cfg.OTLPEndpoint, "rentalconnect-api", cfg.Environment)
	if err != nil {
		return fmt.Errorf("init tracing: %w", err)
	}
	defer func() {
		tctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = shutdownTracing(tctx)
	}()

	// 4. Storage
	st, err := openStores(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer st.Close()

	if st.sweeper != nil {
		// the sweeper must finish before the stores close
		sweepDone := make(chan struct{})
		go func() {
			defer close(sweepDone)
			st.sweeper.Start(ctx)
		}()
		defer func() {
			stop()
			<-sweepDone
		}()
	}

	// 5. Security components
	hasher, err := auth.NewHasher(cfg.BcryptCost)
	if err != nil {
		return err
	}
	tokens, err := auth.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.TokenTTL)
	if err != nil {
		return err
	}
	authz := security.NewAuthorizationService(log)
	auditLog := audit.NewLogger(log)
	authLimiter := ratelimit.NewLimiter(cfg.AuthRateLimit, time.Minute)
	defer authLimiter.Stop()

	// 6. Services
	accounts := service.NewAccountService(st.accounts, authz, cfg.OwnerCacheTTL, log)
	listings := service.NewListingService(st.listings, accounts, authz, auditLog, log)
	bookmarks := service.NewBookmarkService(st.bookmarks, st.listings, listings, authz, auditLog, log)
	messages := service.NewMessageService(st.messages, st.listings, accounts, authz, auditLog, log,
		service.WithPermissiveSend(cfg.PermissiveMessages))
	if cfg.PermissiveMessages {
		log.Warn("permissive messaging enabled: receiver and property ids are not checked")
	}

	// 7. HTTP
	router := handler.NewRouter(handler.RouterConfig{
		Auth:        service.NewAuthService(st.accounts, hasher, tokens, log),
		Accounts:    accounts,
		Listings:    listings,
		Bookmarks:   bookmarks,
		Messages:    messages,
		Tokens:      tokens,
		Audit:       auditLog,
		AuthLimiter: authLimiter,
		Health:      st.checks,
		CORSOrigins: cfg.CORSAllowedOrigins,
		Logger:      log,
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           otelhttp.NewHandler(router, "rentalconnect-api"),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Info("server starting",
		slog.Int("port", cfg.ServerPort),
		slog.Int("auth_rate_limit", cfg.AuthRateLimit),
		slog.Duration("token_ttl", cfg.TokenTTL),
	)

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown error", slog.String("error", err.Error()))
	}
	log.Info("server stopped")
	return nil
}
