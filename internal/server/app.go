// Package server wires and runs the ExamKeeper intake server: the REST API
// that accepts exam PDFs and the gRPC health endpoint probed by clients.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/hashicorp/go-multierror"

	"github.com/dmitrijs2005/examkeeper/internal/client/validator"
	"github.com/dmitrijs2005/examkeeper/internal/logging"
	"github.com/dmitrijs2005/examkeeper/internal/server/api"
	"github.com/dmitrijs2005/examkeeper/internal/server/config"
	"github.com/dmitrijs2005/examkeeper/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/examkeeper/internal/server/services"
	"github.com/dmitrijs2005/examkeeper/internal/server/storage"

	gs "github.com/dmitrijs2005/examkeeper/internal/server/grpc"
)

// runner is a server that blocks until its context is cancelled.
type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config  *config.Config
	logger  logging.Logger
	http    runner
	grpc    runner
	closers []io.Closer
}

// Seams for tests.
var (
	openDatabase   = repomanager.OpenDatabase
	newRepoManager = repomanager.NewPostgresRepositoryManager
	newStore       = storage.New
)

// NewLogger builds the logger selected by cfg.LogBackend.
func NewLogger(cfg *config.Config) (logging.Logger, io.Closer, error) {
	if cfg.LogBackend == config.LogZap {
		z, err := logging.NewProductionZapLogger(false)
		if err != nil {
			return nil, nil, err
		}
		return z, closerFunc(func() error { _ = z.Sync(); return nil }), nil
	}
	return logging.NewJSONLogger(os.Stdout, slog.LevelInfo), nil, nil
}

type closerFunc func() error

func (f closerFunc) Close() error { return f() }

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger, logCloser, err := NewLogger(c)
	if err != nil {
		return nil, fmt.Errorf("logger init error: %w", err)
	}

	app := &App{config: c, logger: logger}
	if logCloser != nil {
		app.closers = append(app.closers, logCloser)
	}

	db, err := openDatabase(ctx, c.DatabaseDSN)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("db init error: %w", err)
	}
	app.closers = append(app.closers, db)

	rm := newRepoManager()
	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	store, err := newStore(ctx, c)
	if err != nil {
		_ = app.Close()
		return nil, fmt.Errorf("storage init error: %w", err)
	}
	if cl, ok := store.(io.Closer); ok {
		app.closers = append(app.closers, cl)
	}

	app.wire(db, rm, store)
	return app, nil
}

func (app *App) wire(db *sql.DB, rm repomanager.RepositoryManager, store storage.BlobStore) {
	exams := services.NewExamService(db, rm, store, validator.LimitsFromMegabytes(app.config.MaxUploadMB), app.logger)
	handler := api.NewHandler(exams, app.logger)

	app.http = api.NewHTTPServer(app.config.HTTPAddr, handler, []byte(app.config.SecretKey), app.config.MaxUploadBytes(), app.logger)
	app.grpc = gs.NewGRPCServer(app.config.GRPCAddr, app.logger)
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) start(ctx context.Context, cancelFunc context.CancelFunc, name string, r runner) {
	if err := r.Run(ctx); err != nil {
		app.logger.Error(ctx, "server failed", "server", name, "error", err)
		cancelFunc()
	}
}

// Run serves HTTP and gRPC until ctx is cancelled, a signal arrives or
// either server fails, then releases resources.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup
	for name, r := range map[string]runner{"http": app.http, "grpc": app.grpc} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.start(ctx, cancelFunc, name, r)
		}()
	}

	wg.Wait()

	app.logger.Info(context.WithoutCancel(ctx), "App stopped")
	if err := app.Close(); err != nil {
		app.logger.Warn(context.WithoutCancel(ctx), "shutdown", "error", err)
	}
}

// Close releases resources in reverse order of acquisition.
func (app *App) Close() error {
	var result *multierror.Error
	for i := len(app.closers) - 1; i >= 0; i-- {
		if err := app.closers[i].Close(); err != nil {
			result = multierror.Append(result, err)
		}
	}
	app.closers = nil
	return result.ErrorOrNil()
}
