// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

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

	"github.com/spf13/cobra"

	"storefront/internal/cache"
	"storefront/internal/catalog"
	"storefront/internal/database"
	"storefront/internal/handlers"
	"storefront/internal/identity"
	"storefront/internal/render"
	"storefront/internal/router"
	"storefront/internal/session"
	"storefront/internal/storage"
	"storefront/internal/store"
	"storefront/internal/webhook"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run migrations and start the HTTP server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup()
		if err != nil {
			return err
		}

		db, err := database.Connect(cfg.DSN())
		if err != nil {
			return fmt.Errorf("connect database: %w", err)
		}
		defer db.Close()

		if err := database.Migrate(db); err != nil {
			return fmt.Errorf("run migrations: %w", err)
		}

		// Development accounts, no-op once any user exists.
		if cfg.IsDev() {
			if err := database.Seed(db); err != nil {
				return fmt.Errorf("seed database: %w", err)
			}
		}

		valkeyClient, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			return fmt.Errorf("connect valkey: %w", err)
		}
		defer valkeyClient.Close()

		// Session cookies are Secure everywhere but development.
		secureCookies := !cfg.IsDev()
		sessionStore := session.NewStore(valkeyClient, secureCookies)

		renderer, err := render.New(cfg.IsDev())
		if err != nil {
			return fmt.Errorf("init renderer: %w", err)
		}

		userStore := store.NewUserStore(db)
		productStore := store.NewProductStore(db)
		cacheLogStore := store.NewCacheLogStore(db)
		pageCache := cache.NewPageCache(valkeyClient, cfg.PageCacheTTL)

		svc := catalog.New(catalog.Repos{
			Categories:    store.NewCategoryStore(db),
			SubCategories: store.NewSubCategoryStore(db),
			Stores:        store.NewStoreStore(db),
			Products:      productStore,
		}, productStore, cache.NewInvalidator(pageCache, cacheLogStore))

		h := &router.Handlers{
			Admin:  handlers.NewAdmin(renderer, svc, cacheLogStore),
			Seller: handlers.NewSeller(renderer, svc),
			Auth:   handlers.NewAuth(renderer, sessionStore, userStore),
			Public: handlers.NewPublic(renderer, svc, pageCache),
		}

		h.Media = handlers.NewMedia(renderer, nil)
		if cfg.StorageEnabled() {
			storageClient, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3PublicURL)
			if err != nil {
				return fmt.Errorf("init storage: %w", err)
			}
			slog.Info("s3 storage connected", "endpoint", cfg.S3Endpoint, "bucket", cfg.S3Bucket)
			h.Media = handlers.NewMedia(renderer, storageClient)
		} else {
			slog.Warn("s3 storage not configured, image uploads disabled")
		}

		if cfg.WebhookSecret != "" {
			verifier, err := webhook.NewVerifier(cfg.WebhookSecret)
			if err != nil {
				return err
			}
			var metadata identity.MetadataUpdater = identity.NopUpdater{}
			if cfg.IdentitySecretKey != "" {
				metadata = identity.NewClient(cfg.IdentityAPIURL, cfg.IdentitySecretKey)
			}
			h.Webhook = handlers.NewWebhook(verifier, userStore, metadata)
		} else {
			slog.Warn("webhook signing secret not set, user sync disabled")
		}

		srv := &http.Server{
			Addr:         cfg.Addr(),
			Handler:      router.New(sessionStore, h, secureCookies),
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 30 * time.Second,
			IdleTimeout:  120 * time.Second,
		}

		errCh := make(chan error, 1)
		go func() {
			slog.Info("server starting", "addr", cfg.Addr())
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
		}()

		// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case sig := <-quit:
			slog.Info("shutdown signal received", "signal", sig)
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}

		slog.Info("server stopped gracefully")
		return nil
	},
}
