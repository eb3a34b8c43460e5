// Package server initializes and runs the application server: it wires the
// storage backends, the session store, and the HTTP endpoint, and handles
// graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/akarpovs/filedepot/internal/logging"
	"github.com/akarpovs/filedepot/internal/server/blob"
	"github.com/akarpovs/filedepot/internal/server/config"
	"github.com/akarpovs/filedepot/internal/server/httpapi"
	"github.com/akarpovs/filedepot/internal/server/repositories/repomanager"
	"github.com/akarpovs/filedepot/internal/server/services"
	"github.com/akarpovs/filedepot/internal/server/sessions"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config *config.Config
	logger logging.Logger
	repos  repomanager.Manager
	api    *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {
	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	repos, err := newRepoManager(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		repos.Close()
		return nil, fmt.Errorf("blob init error: %w", err)
	}

	sess := sessions.New(cfg.SessionCapacity, cfg.SessionTTL)
	userService := services.NewUserService(repos.Users(), sess, logger)
	nodeService := services.NewNodeService(repos.Nodes(), blobs, logger)

	return &App{
		config: cfg,
		logger: logger,
		repos:  repos,
		api:    httpapi.NewServer(userService, nodeService, logger),
	}, nil
}

func newRepoManager(ctx context.Context, cfg *config.Config) (repomanager.Manager, error) {
	if cfg.DatabaseDSN == "memory" {
		return repomanager.NewMemoryManager(), nil
	}
	return repomanager.NewPostgresManager(ctx, cfg.DatabaseDSN)
}

func newBlobStore(ctx context.Context, cfg *config.Config) (blob.Store, error) {
	switch cfg.BlobBackend {
	case "s3":
		return blob.NewS3Store(ctx, blob.S3Config{
			User:         cfg.S3RootUser,
			Password:     cfg.S3RootPassword,
			Bucket:       cfg.S3Bucket,
			Region:       cfg.S3Region,
			BaseEndpoint: cfg.S3BaseEndpoint,
		})
	case "memory":
		return blob.NewMemoryStore(), nil
	default:
		return blob.NewDiskStore(cfg.BlobDir)
	}
}

// Run serves HTTP until the context is canceled or a termination signal
// arrives, then drains in-flight requests.
func (app *App) Run(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer cancel()

	srv := &http.Server{
		Addr:    app.config.EndpointAddr,
		Handler: app.api.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info(ctx, "starting server", "addr", app.config.EndpointAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		app.repos.Close()
		return err
	case <-ctx.Done():
	}

	app.logger.Info(ctx, "shutting down")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		app.logger.Error(ctx, "shutdown error", "err", err)
	}
	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "err", err)
	}
	return nil
}
