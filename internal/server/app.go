// Package server wires the prompt server together: it selects the storage
// backend, builds the services and runs the HTTP API, the gRPC health
// service and the optional trash sweeper until shutdown.
package server

import (
	"context"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/dmitrijs2005/promptvault/internal/logging"
	"github.com/dmitrijs2005/promptvault/internal/server/config"
	"github.com/dmitrijs2005/promptvault/internal/server/httpapi"
	"github.com/dmitrijs2005/promptvault/internal/server/services"
	"github.com/dmitrijs2005/promptvault/internal/server/storage"

	gs "github.com/dmitrijs2005/promptvault/internal/server/grpc"
)

// logOutput is where the application logger writes.
var logOutput io.Writer = os.Stdout

type App struct {
	config          *config.Config
	logger          logging.Logger
	store           storage.Storage
	promptService   *services.PromptService
	userService     *services.UserService
	settingsService *services.SettingsService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(logOutput, slog.LevelInfo)

	store := storage.New(ctx, c, logger)

	return &App{
		config:          c,
		logger:          logger,
		store:           store,
		promptService:   services.NewPromptService(store, c, logger),
		userService:     services.NewUserService(store, c, logger),
		settingsService: services.NewSettingsService(store, logger),
	}, nil
}

// initSignalHandler cancels the app on SIGINT, SIGTERM or SIGQUIT.
func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case sig := <-sigs:
			app.logger.Info(ctx, "Signal received", "signal", sig.String())
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.store.Name())

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := httpapi.NewServer(app.config.EndpointAddrHTTP, app.logger, app.promptService, app.userService, app.settingsService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// startTrashSweeper purges expired trash entries every interval.
func (app *App) startTrashSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	app.logger.Info(ctx, "Trash sweeper started", "interval", interval.String())
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			app.promptService.SweepExpiredTrash(ctx, now)
		}
	}
}

// Run blocks until ctx is cancelled, a signal arrives or a server fails.
func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...", "storage", app.store.Name())

	app.initSignalHandler(ctx, cancelFunc)

	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	if interval := app.config.TrashSweepInterval; interval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startTrashSweeper(ctx, interval)
		}()
	}

	wg.Wait()

	app.logger.Info(context.WithoutCancel(ctx), "App stopped")
}
