// Package server initializes and runs the application server. It wires the
// database, the services, and the HTTP API, and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/conlangforge/conlangforge/internal/logging"
	"github.com/conlangforge/conlangforge/internal/server/config"
	"github.com/conlangforge/conlangforge/internal/server/httpapi"
	"github.com/conlangforge/conlangforge/internal/server/repositories/repomanager"
	"github.com/conlangforge/conlangforge/internal/server/services"
)

type App struct {
	config *config.Config
	logger logging.Logger
	server *httpapi.HTTPServer
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	rm, err := repomanager.NewPostgresRepositoryManager(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}
	db := rm.Conn()

	us := services.NewUserService(db, rm, cfg)
	cs := services.NewConlangService(db, rm)
	ws := services.NewWordService(db, rm)
	ss := services.NewSectionService(db, rm)
	cats := services.NewCategoryService(db, rm)
	ts := services.NewTagService(db, rm)
	up := services.NewUploadService(cfg)
	health := services.NewHealthCache(cfg.HealthCacheTTL, up.HealthProbe())

	srv := httpapi.NewHTTPServer(cfg.EndpointAddr, logger, us, cs, ws, ss, cats, ts, up, health)

	return &App{config: cfg, logger: logger, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()
}
