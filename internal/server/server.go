package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/yigit/elearning/internal/bootstrap"
	"github.com/yigit/elearning/internal/config"
	"github.com/yigit/elearning/internal/db"
)

// Server holds the state for the HTTP server.
type Server struct {
	config   *config.Config
	router   *gin.Engine
	database *db.PostgresDB
	deps     *bootstrap.Dependencies
	cron     *cron.Cron
	logger   zerolog.Logger
	http     *http.Server
}

// Options selects the startup steps run by NewServer
type Options struct {
	ConfigPath string
	// Migrate applies pending migrations before serving
	Migrate bool
	// Seed creates default data before serving
	Seed bool
}

// NewServer creates and initializes a new server instance by calling bootstrap functions.
func NewServer(ctx context.Context, opts Options) (*Server, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config or setup logger: %w", err)
	}

	database, err := bootstrap.ConnectDatabase(ctx, cfg, lgr)
	if err != nil {
		return nil, fmt.Errorf("failed to setup database: %w", err)
	}

	if opts.Migrate {
		if err := bootstrap.RunMigrations(ctx, cfg, database, lgr); err != nil {
			database.Close()
			return nil, err
		}
	}

	deps, err := bootstrap.BuildDependencies(ctx, cfg, database, lgr)
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to setup dependencies: %w", err)
	}

	if opts.Seed {
		if err := bootstrap.SeedDefaults(ctx, cfg, deps.Repos, lgr); err != nil {
			lgr.Error().Err(err).Msg("Failed to create default data, proceeding anyway...")
		}
	}

	scheduler, err := bootstrap.StartClusterSchedule(cfg.Cluster.Schedule, deps.Services.Recommendation, lgr)
	if err != nil {
		database.Close()
		return nil, err
	}

	return &Server{
		config:   cfg,
		router:   bootstrap.SetupRouter(cfg, deps, lgr),
		database: database,
		deps:     deps,
		cron:     scheduler,
		logger:   lgr,
	}, nil
}

// Run starts the HTTP server and handles graceful shutdown.
func (s *Server) Run() error {
	s.logger.Info().Str("port", s.config.Server.Port).Msg("Starting server...")

	s.http = &http.Server{
		Addr:         ":" + s.config.Server.Port,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info().Str("addr", s.http.Addr).Msg("HTTP server listening")
		serverErrors <- s.http.ListenAndServe()
	}()

	osSignals := make(chan os.Signal, 1)
	signal.Notify(osSignals, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("error starting server: %w", err)
		}
	case sig := <-osSignals:
		s.logger.Info().Str("signal", sig.String()).Msg("Received OS signal, initiating shutdown...")
	}

	return s.Shutdown(context.Background())
}

// Shutdown gracefully stops the server and closes resources.
func (s *Server) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	shutdownError := false

	if s.http != nil {
		s.logger.Info().Msg("Shutting down HTTP server...")
		if err := s.http.Shutdown(ctx); err != nil {
			s.logger.Error().Err(err).Msg("HTTP server shutdown error")
			shutdownError = true
		} else {
			s.logger.Info().Msg("HTTP server gracefully stopped.")
		}
	}

	if s.cron != nil {
		// wait for a running recompute before the pool goes away
		select {
		case <-s.cron.Stop().Done():
		case <-ctx.Done():
			s.logger.Warn().Msg("Cluster job still running at shutdown")
		}
	}

	if closer, ok := s.deps.Cache.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			s.logger.Error().Err(err).Msg("Cache close error")
			shutdownError = true
		}
	}

	if s.database != nil {
		s.logger.Info().Msg("Closing database connection pool...")
		s.database.Close()
		s.logger.Info().Msg("Database connection pool closed.")
	}

	s.logger.Info().Msg("Server shutdown process complete.")
	if shutdownError {
		return errors.New("server shutdown completed with errors")
	}
	return nil
}
