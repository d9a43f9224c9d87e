// Package app boots the usage hub: it wires config, database, the Anthropic
// Admin API client, the snapshot store, and the HTTP surface.
package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	log "github.com/sirupsen/logrus"

	"github.com/caiqy/claude-usage-hub/internal/anthropic"
	"github.com/caiqy/claude-usage-hub/internal/config"
	"github.com/caiqy/claude-usage-hub/internal/db"
	internalhttp "github.com/caiqy/claude-usage-hub/internal/http"
	"github.com/caiqy/claude-usage-hub/internal/report"
	"github.com/caiqy/claude-usage-hub/internal/store"
)

const shutdownTimeout = 10 * time.Second

// Migrate opens the database and runs migrations, then exits.
func Migrate(cfg *config.Config) error {
	conn, errOpen := db.Open(cfg.Database)
	if errOpen != nil {
		return errOpen
	}
	return db.Migrate(conn)
}

// RunServer boots the HTTP server and blocks until ctx is cancelled.
func RunServer(ctx context.Context, cfg *config.Config) error {
	conn, errOpen := db.Open(cfg.Database)
	if errOpen != nil {
		return errOpen
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}

	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = redisClient.Close() }()
	}

	snapshots := store.NewStatusStore(conn, redisClient)
	client := anthropic.NewClient(
		cfg.Anthropic.APIKey,
		anthropic.WithBaseURL(cfg.Anthropic.BaseURL),
		anthropic.WithTimeout(time.Duration(cfg.Anthropic.TimeoutSeconds)*time.Second),
	)
	fetcher := report.NewFetcher(client, snapshots)

	handler := internalhttp.NewUsageHandler(fetcher, snapshots)
	router := internalhttp.NewRouter(handler, conn, cfg.AccessToken)

	server := &http.Server{
		Addr:              cfg.Listen,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("usage hub listening on %s (key=%s)", cfg.Listen, config.MaskSecret(cfg.Anthropic.APIKey))
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
			return errShutdown
		}
		return nil
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return errServe
	}
}
