package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"rssreader/internal/adapter/cache"
	"rssreader/internal/adapter/fetcher"
	"rssreader/internal/adapter/parser"
	"rssreader/internal/config"
	"rssreader/internal/logger"
	"rssreader/internal/migrations"
	server "rssreader/internal/transport/http"
	"rssreader/internal/usecase"
	"rssreader/internal/worker"
	"rssreader/storage"

	"github.com/jackc/pgx/v5/pgxpool"
)

// App представляет основное приложение RSS-ридера.
// Координирует работу HTTP-сервера, воркера обновления ленты,
// базы данных и системы логирования.
type App struct {
	config   *config.Config
	logger   *slog.Logger
	server   *http.Server
	worker   *worker.Worker
	storage  storage.Storage
	stopChan chan os.Signal
	wg       sync.WaitGroup
}

// New создает и инициализирует приложение: логгер, подключение к базе данных,
// миграции, кэш ленты, парсер, сценарии использования, воркер и HTTP-сервер.
func New(cfg *config.Config) (*App, error) {
	appLogger, err := logger.New(cfg.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to setup logger: %w", err)
	}
	slog.SetDefault(appLogger)
	dbPool, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := dbPool.Ping(context.Background()); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("database ping failed: %w", err)
	}
	if err := migrations.Apply(context.Background(), appLogger, dbPool); err != nil {
		dbPool.Close()
		return nil, fmt.Errorf("migrations failed: %w", err)
	}
	dbStorage := storage.NewPostgresNewsDB(dbPool, cfg.App, appLogger)

	cacheDir := cfg.App.CacheDir
	if cacheDir == "" {
		if cacheDir, err = cache.DefaultDir(); err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("failed to resolve cache dir: %w", err)
		}
	}
	feedCache := cache.NewFileCache(cacheDir, appLogger)

	httpFetcher := fetcher.NewHTTPFetcher(appLogger, cfg.App.FetchTimeoutDuration())

	xmlParser := parser.NewXMLParser(appLogger, ParserOptions(cfg.App)...)

	feedProcessor := usecase.NewFeedProcessingUseCase(
		httpFetcher,
		xmlParser,
		feedCache,
		dbStorage,
		appLogger,
		cfg.App.FeedURL,
		cfg.App.CacheTTLDuration(),
	)

	newsGetter := usecase.NewNewsGetterUseCase(dbStorage)

	handler := server.NewHandler(appLogger, newsGetter, feedProcessor, dbStorage)

	router := server.NewServer(appLogger, handler)

	refreshWorker := worker.New(feedProcessor, cfg.App.RefreshIntervalDuration(), appLogger)

	httpServer := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return &App{
		config:   cfg,
		logger:   appLogger,
		server:   httpServer,
		worker:   refreshWorker,
		storage:  dbStorage,
		stopChan: make(chan os.Signal, 1),
	}, nil
}

// ParserOptions переводит настройки приложения в опции парсера ленты.
func ParserOptions(cfg config.AppConfig) []parser.Option {
	opts := []parser.Option{
		parser.WithThumbnailFilter(parser.WidthEquals(cfg.ThumbnailWidth)),
	}
	if cfg.LenientDates {
		opts = append(opts, parser.WithLenientDates())
	}
	return opts
}

// Run запускает воркер и HTTP-сервер и блокируется до получения SIGINT или SIGTERM.
func (a *App) Run() error {
	a.logger.Info("Starting RSS reader",
		slog.String("component", "app"),
		slog.String("feed_url", a.config.App.FeedURL),
		slog.String("refresh_interval", a.worker.GetInterval().String()),
	)
	listener, err := net.Listen("tcp", a.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}
	a.worker.Start()
	a.logger.Info("HTTP server ready",
		slog.String("component", "server"),
		slog.String("address", listener.Addr().String()),
	)
	serveErr := make(chan error, 1)
	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		if err := a.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("HTTP server failed", slog.Any("error", err))
			serveErr <- err
		}
	}()
	signal.Notify(a.stopChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(a.stopChan)
	select {
	case sig := <-a.stopChan:
		a.logger.Info("Shutdown signal received",
			slog.String("component", "app"),
			slog.String("signal", sig.String()),
		)
	case err := <-serveErr:
		_ = a.Shutdown()
		return fmt.Errorf("http server: %w", err)
	}
	return a.Shutdown()
}

// Shutdown останавливает воркер, завершает HTTP-сервер с таймаутом 10 секунд
// и закрывает соединение с БД.
func (a *App) Shutdown() error {
	a.logger.Info("Starting graceful shutdown", slog.String("component", "app"))
	if a.worker != nil {
		a.worker.Stop()
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	var shutdownErr error
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("HTTP server shutdown failed", slog.Any("error", err))
		shutdownErr = err
	}
	if a.storage != nil {
		a.storage.Close()
	}
	a.wg.Wait()
	a.logger.Info("Application stopped gracefully", slog.String("component", "app"))
	return shutdownErr
}
