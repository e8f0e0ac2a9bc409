// Package server wires configuration, storage, services and the HTTP and
// gRPC endpoints into a runnable application with graceful shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/globetrotter/internal/logging"
	"github.com/dmitrijs2005/globetrotter/internal/server/config"
	"github.com/dmitrijs2005/globetrotter/internal/server/httpapi"
	"github.com/dmitrijs2005/globetrotter/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/globetrotter/internal/server/services"

	gs "github.com/dmitrijs2005/globetrotter/internal/server/grpc"
)

const tokenPurgeInterval = time.Hour

// openDB is a seam for tests.
var openDB = func(dsn string) (*sql.DB, error) {
	return sql.Open("pgx", dsn)
}

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	userService *services.UserService
	httpServer  *httpapi.Server
	grpcServer  *gs.HealthServer
}

func NewApp(c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	db, err := openDB(c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	us := services.NewUserService(db, rm, c)
	ts := services.NewTripService(db, rm)

	httpServer := httpapi.NewServer(c.EndpointAddrHTTP, logger, c.SecretKey, c.AllowedOrigins, httpapi.Services{
		Users:   us,
		Catalog: services.NewCatalogService(db, rm),
		Trips:   ts,
		Exports: services.NewExportService(ts),
		Images:  services.NewImageService(db, rm, c),
		Admin:   services.NewAdminService(db, rm),
	})

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		repomanager: rm,
		userService: us,
		httpServer:  httpServer,
		grpcServer:  gs.NewHealthServer(c.EndpointAddrGRPC, logger, db),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// purgeTokens deletes expired refresh tokens once.
func (app *App) purgeTokens(ctx context.Context) {
	n, err := app.userService.PurgeExpiredTokens(ctx)
	if err != nil {
		app.logger.Error(ctx, "refresh token purge failed", "error", err)
		return
	}
	if n > 0 {
		app.logger.Info(ctx, "purged expired refresh tokens", "count", n)
	}
}

func (app *App) runTokenJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			app.purgeTokens(ctx)
		}
	}
}

// Run migrates the schema, then serves HTTP and gRPC until a signal
// arrives or either server fails.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...")

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup
	errs := make(chan error, 2)

	serve := func(name string, run func(context.Context) error) {
		defer wg.Done()
		if err := run(ctx); err != nil {
			app.logger.Error(ctx, name+" server failed", "error", err)
			errs <- err
			cancelFunc()
		}
	}

	wg.Add(3)
	go serve("http", app.httpServer.Run)
	go serve("grpc", app.grpcServer.Run)
	go func() {
		defer wg.Done()
		app.runTokenJanitor(ctx, tokenPurgeInterval)
	}()

	wg.Wait()
	close(errs)

	app.logger.Info(ctx, "App stopped")
	return <-errs
}
