package app

import (
	"context"
	"net/http"

	"eventboard-go/internal/config"
	"eventboard-go/internal/db"
	calendardomain "eventboard-go/internal/domain/calendar"
	eventsdomain "eventboard-go/internal/domain/events"
	"eventboard-go/internal/repository/inmemory"
	eventsrepo "eventboard-go/internal/repository/postgres/events"
	"eventboard-go/internal/transport/httpserver"
	"eventboard-go/internal/transport/httpserver/handler"
	calendarhandler "eventboard-go/internal/transport/httpserver/handler/calendar"
	commonhandler "eventboard-go/internal/transport/httpserver/handler/common"
	eventshandler "eventboard-go/internal/transport/httpserver/handler/events"
	"eventboard-go/pkg/logger"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	router     http.Handler
	db         *gorm.DB
}

func New(ctx context.Context, log logger.Logger) (*App, error) {
	log.Info("app: loading config")
	cfg, err := config.Load(log)
	if err != nil {
		return nil, err
	}
	return NewWithConfig(ctx, cfg, log)
}

// NewWithConfig opens and migrates the database and wires the HTTP stack.
func NewWithConfig(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	log.Info("app: initializing database", "driver", cfg.DB.Driver)
	dbConn, err := db.Open(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	if err := db.Migrate(ctx, dbConn, cfg.DB.Driver, log); err != nil {
		closeDB(dbConn)
		return nil, err
	}

	eventsService := eventsdomain.NewServiceWithCache(
		eventsrepo.NewPostgres(dbConn),
		inmemory.NewCatalogCache(),
		cfg.Calendar.CatalogCacheTTL,
	).ExpandBoundedRepeats(cfg.Calendar.ExpandBoundedRepeats)

	calendarService := calendardomain.NewService(eventsService, calendardomain.Config{
		WeekStartsOnMonday: cfg.Calendar.WeekStartsOnMonday,
		Resolver: calendardomain.ResolverConfig{
			InstanceLookupConcurrency: cfg.Calendar.InstanceLookupConcurrency,
			ExpandBoundedRepeats:      cfg.Calendar.ExpandBoundedRepeats,
		},
	}, log)

	handlers := handler.New(
		commonhandler.New(log),
		calendarhandler.New(calendarService, calendardomain.NewBoards(calendarService), log),
		eventshandler.New(eventsService, log),
	)

	log.Info("app: initializing router")
	router := httpserver.NewRouter(cfg, handlers, log)

	return &App{
		cfg:        cfg,
		httpServer: httpserver.New(cfg, router),
		router:     router,
		db:         dbConn,
	}, nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Router() http.Handler {
	return a.router
}

func (a *App) DB() *gorm.DB {
	return a.db
}

func (a *App) Close() error {
	if a.db == nil {
		return nil
	}
	sqlDB, err := a.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func closeDB(dbConn *gorm.DB) {
	if sqlDB, err := dbConn.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
