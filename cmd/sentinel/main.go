package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sentinel-denylist/internal/analytics"
	"sentinel-denylist/internal/bot"
	"sentinel-denylist/internal/config"
	"sentinel-denylist/internal/denylist"
	"sentinel-denylist/internal/health"
	"sentinel-denylist/internal/modules/audit"
	"sentinel-denylist/internal/storage"

	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger, err := config.BuildLogger(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	store, err := storage.Open(context.Background(), cfg.DatabaseURL, cfg.DatabasePath)
	if err != nil {
		logger.Fatal("storage init failed", zap.Error(err))
	}
	if store != nil {
		defer store.Close()
		if err := store.Migrate(); err != nil {
			logger.Fatal("migrations failed", zap.Error(err))
		}
	} else {
		logger.Info("no database configured, audit entries are not persisted")
	}

	auditLogger := audit.NewLogger(store, logger)
	analyticsService := analytics.New(store)

	fetcher := denylist.NewHTTPFetcher(cfg.Denylist.URL, denylist.HTTPOptions{
		Timeout:    time.Duration(cfg.Denylist.TimeoutSeconds) * time.Second,
		MaxRetries: cfg.Denylist.MaxRetries,
		MaxBytes:   cfg.Denylist.MaxBytes,
		ExpandIDN:  cfg.Denylist.ExpandIDN,
	}, logger)
	cache := denylist.NewCache(fetcher, denylist.Options{
		Interval:       time.Duration(cfg.Denylist.RefreshSeconds) * time.Second,
		MatchCacheSize: cfg.Denylist.MatchCacheSize,
	}, logger)
	cache.SetFailureNotifier(func(ctx context.Context, err error) {
		auditLogger.Log(ctx, audit.LevelWarn, "", "", audit.EventDenylistRefresh, err.Error())
	})

	botSvc, err := bot.New(cfg, logger, store, auditLogger, analyticsService, cache)
	if err != nil {
		logger.Fatal("bot init failed", zap.Error(err))
	}

	if err := botSvc.Start(); err != nil {
		logger.Fatal("bot start failed", zap.Error(err))
	}
	logger.Info("bot started", zap.String("mode", cfg.Mode), zap.String("denylist_url", cfg.Denylist.URL))

	var server *http.Server
	if cfg.Health.Enabled {
		server = &http.Server{
			Addr:              cfg.Health.Addr,
			Handler:           health.NewRouter(cache),
			ReadHeaderTimeout: 5 * time.Second,
		}
		go func() {
			logger.Info("health endpoint enabled", zap.String("addr", cfg.Health.Addr))
			if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("health server error", zap.Error(err))
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	logger.Info("shutdown requested")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if server != nil {
		_ = server.Shutdown(ctx)
	}
	botSvc.Close(ctx)
}
