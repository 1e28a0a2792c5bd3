package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/yigit/stallhub/internal/bootstrap"
	"github.com/yigit/stallhub/internal/config"
)

const shutdownTimeout = 15 * time.Second

// Server owns the HTTP listener and everything it must release on exit
type Server struct {
	cfg    *config.Config
	pool   *pgxpool.Pool
	deps   *bootstrap.Dependencies
	logger zerolog.Logger
	http   *http.Server
}

// NewServer loads configuration, connects to the database and wires the
// application. Partially built resources are released on failure.
func NewServer() (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger()
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	pool, err := bootstrap.SetupDatabase(cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	deps, err := bootstrap.BuildDependencies(cfg, pool, lgr)
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	router := bootstrap.SetupRouter(cfg, deps, lgr)
	if err := serveUploads(router, cfg.Server.StoragePath); err != nil {
		lgr.Warn().Err(err).Str("path", cfg.Server.StoragePath).Msg("Uploaded documents will not be served")
	}

	return &Server{
		cfg:    cfg,
		pool:   pool,
		deps:   deps,
		logger: lgr,
		http: &http.Server{
			Addr:              ":" + cfg.Server.Port,
			Handler:           router,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}, nil
}

// serveUploads exposes locally stored exhibitor documents under /uploads
func serveUploads(router *gin.Engine, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	router.Static("/uploads", dir)
	return nil
}

// Run serves until the listener fails or SIGINT/SIGTERM arrives, then shuts down
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		errCh <- s.http.ListenAndServe()
	}()

	var runErr error
	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			runErr = fmt.Errorf("http server: %w", err)
		}
	case <-ctx.Done():
		s.logger.Info().Msg("Shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return errors.Join(runErr, s.Shutdown(shutdownCtx))
}

// Shutdown drains HTTP traffic, stops background work and closes the pool.
// Background work writes notifications, so it stops before the pool closes.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	if s.http != nil {
		if herr := s.http.Shutdown(ctx); herr != nil {
			s.logger.Error().Err(herr).Msg("HTTP server shutdown error")
			err = fmt.Errorf("http shutdown: %w", herr)
		}
	}

	if s.deps != nil {
		s.deps.Close(ctx)
	}

	if s.pool != nil {
		s.pool.Close()
	}

	s.logger.Info().Bool("clean", err == nil).Msg("Server stopped")
	return err
}
