// Package main запускает локальный JSON API витрины поверх удалённого REST API магазина.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/mmeshcher/storefront/internal/api"
	"github.com/mmeshcher/storefront/internal/cart"
	"github.com/mmeshcher/storefront/internal/config"
	"github.com/mmeshcher/storefront/internal/credentials"
	"github.com/mmeshcher/storefront/internal/handler"
	"github.com/mmeshcher/storefront/internal/session"
	"github.com/mmeshcher/storefront/internal/transport"
)

func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = lvl
	return cfg.Build()
}

func newCredentialStore(cfg *config.Config) (credentials.Store, func(), error) {
	if cfg.DatabaseURI == "" {
		return credentials.NewMemoryStore(), func() {}, nil
	}

	store, err := credentials.NewPostgresStore(cfg.DatabaseURI)
	if err != nil {
		return nil, nil, err
	}
	return store, func() { _ = store.Close() }, nil
}

func main() {
	cfg, err := config.Parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "configuration error: %v\n", err)
		os.Exit(1)
	}

	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	sugar := logger.Sugar()

	ordering, err := cart.ParseOrdering(cfg.CartOrdering)
	if err != nil {
		sugar.Fatalw("configuration error", "error", err.Error())
	}

	creds, closeCreds, err := newCredentialStore(cfg)
	if err != nil {
		sugar.Fatalw("credential storage initialization error", "error", err.Error())
	}
	defer closeCreds()

	client := transport.NewClient(cfg.APIBaseURL, creds,
		transport.WithTimeout(cfg.RequestTimeout),
		transport.WithLogger(logger))

	authAPI := api.NewAuthClient(client)
	productAPI := api.NewProductClient(client)
	cartAPI := api.NewCartClient(client)
	orderAPI := api.NewOrderClient(client)

	sessions := session.NewStore(authAPI, creds, logger)
	carts := cart.NewStore(cartAPI, cart.WithOrdering(ordering), cart.WithLogger(logger))
	sessions.Subscribe(carts.OnAuthChange)

	h := handler.NewHandler(sessions, carts, authAPI, productAPI, orderAPI, logger)

	server := &http.Server{
		Addr:    cfg.RunAddress,
		Handler: h.SetupRouter(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)

	// Восстановление сохранённой сессии; до его завершения закрытые маршруты отвечают 503
	g.Go(func() error {
		if err := sessions.Initialize(ctx); err != nil {
			sugar.Errorw("session initialization error", "error", err)
		}
		sugar.Infow("session ready", "status", sessions.State().Status.String())
		return nil
	})

	g.Go(func() error {
		sugar.Infow("starting storefront server",
			"addr", cfg.RunAddress,
			"api", cfg.APIBaseURL,
			"cartOrdering", ordering.String())
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		sugar.Info("shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown error: %w", err)
		}
		sugar.Info("server stopped gracefully")
		return nil
	})

	if err := g.Wait(); err != nil {
		sugar.Fatalw("application terminated with error", "error", err)
	}
}
