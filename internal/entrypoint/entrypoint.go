package entrypoint

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
	"github.com/rs/zerolog"

	"github.com/mrlokans/bookcatalog/internal/audit"
	"github.com/mrlokans/bookcatalog/internal/config"
	"github.com/mrlokans/bookcatalog/internal/database"
	auditRepo "github.com/mrlokans/bookcatalog/internal/database/audit"
	"github.com/mrlokans/bookcatalog/internal/database/books"
	http_controllers "github.com/mrlokans/bookcatalog/internal/http"
	"github.com/mrlokans/bookcatalog/internal/logger"
	"github.com/mrlokans/bookcatalog/internal/scheduler"
	"github.com/mrlokans/bookcatalog/internal/validation"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts it down
// within the configured timeout.
func Serve(router http.Handler, cfg *config.Config, log zerolog.Logger, onShutdown ShutdownFunc) error {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	// kill (no param) default sends syscall.SIGTERM
	// kill -2 is syscall.SIGINT
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	serveErr := make(chan error, 1)
	go func() {
		log.Info().Str("addr", srv.Addr).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if onShutdown != nil {
			ctx, cancel := context.WithTimeout(context.Background(), timeout)
			defer cancel()
			onShutdown(ctx)
		}
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-quit:
	}
	log.Info().Dur("timeout", timeout).Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	log.Info().Msg("server exiting")
	return nil
}

// Run wires the application from cfg and serves it.
func Run(cfg *config.Config, version string) error {
	log := logger.New(cfg.Logging)
	log.Info().Str("version", version).Msg("starting book catalog")

	gin.SetMode(cfg.HTTP.GinMode)

	db, err := database.NewDatabase(cfg.Database.Path,
		database.WithLogLevel(cfg.Database.LogLevel),
		database.WithBusyTimeout(cfg.Database.BusyTimeout),
	)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("error closing database")
		}
	}()
	log.Info().Str("path", cfg.Database.Path).Msg("database ready")

	routerCfg := http_controllers.RouterConfig{
		Books:        books.NewRepository(db.DB),
		Validator:    validation.New(cfg.Pagination.MaxLimit),
		Database:     db,
		Logger:       log,
		DefaultLimit: cfg.Pagination.DefaultLimit,
		Version:      version,
	}

	var cleanup *scheduler.AuditCleanupScheduler
	if cfg.Audit.Enabled {
		auditService := audit.NewService(auditRepo.NewRepository(db.DB), log)
		routerCfg.Audit = auditService

		cleanup = scheduler.NewAuditCleanupScheduler(auditService, cfg.Audit.CleanupSchedule, cfg.Audit.RetentionDays, log)
		if err := cleanup.Start(context.Background()); err != nil {
			return fmt.Errorf("failed to start audit cleanup: %w", err)
		}
		// Stop before the deferred db.Close runs, whichever way Serve returns.
		defer cleanup.Stop()
	} else {
		log.Info().Msg("audit trail disabled")
	}

	router := http_controllers.NewRouter(routerCfg)

	onShutdown := func(ctx context.Context) {
		if cleanup != nil {
			cleanup.Stop()
		}
	}

	return Serve(router, cfg, log, onShutdown)
}
