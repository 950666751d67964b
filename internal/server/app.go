// Package server wires configuration, logging, the database pool,
// migrations, services and the HTTP API into a runnable application.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dmitrijs2005/storefront/internal/logging"
	"github.com/dmitrijs2005/storefront/internal/server/config"
	"github.com/dmitrijs2005/storefront/internal/server/httpapi"
	"github.com/dmitrijs2005/storefront/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/storefront/internal/server/services"
	"golang.org/x/sync/errgroup"

	_ "github.com/jackc/pgx/v5/stdlib"
)

type App struct {
	config      *config.Config
	logger      logging.Logger
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

// NewApp opens the database pool. No connection is made until Run.
func NewApp(c *config.Config) (*App, error) {

	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)
	// goose and net/http write through the standard log package
	slog.SetDefault(logger.Slog())

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	db.SetMaxOpenConns(c.MaxOpenConns)

	return &App{
		config:      c,
		logger:      logger,
		db:          db,
		repomanager: repomanager.NewPostgresRepositoryManager(),
	}, nil
}

// Run migrates the schema and serves HTTP until ctx is cancelled, the
// process receives SIGINT, SIGTERM or SIGQUIT, or the database health check
// gives up. The pool is closed on return.
func (app *App) Run(ctx context.Context) error {

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer stop()
	defer app.db.Close()

	app.logger.Info(ctx, "Starting app...")

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	srv := httpapi.NewHTTPServer(
		app.config.EndpointAddrHTTP,
		app.logger,
		services.NewUserService(app.db, app.repomanager),
		services.NewProductService(app.db, app.repomanager),
		services.NewOrderService(app.db, app.repomanager),
		app.db,
		httpapi.WithReadHeaderTimeout(app.config.ReadHeaderTimeout),
		httpapi.WithShutdownTimeout(app.config.ShutdownTimeout),
	)

	// a failing task cancels ctx, which shuts the other one down
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return srv.Run(ctx)
	})
	if app.config.DBPingInterval > 0 {
		g.Go(func() error {
			return watchDatabase(ctx, app.db, app.logger, app.config.DBPingInterval, app.config.DBMaxPingFailures)
		})
	}

	err := g.Wait()
	app.logger.Info(context.Background(), "App stopped")
	return err
}
