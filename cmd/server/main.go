package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/muhammadmukaram23/spotify-stream/internal/library"
	"github.com/muhammadmukaram23/spotify-stream/internal/provider"
)

func main() {
	cfg, err := loadConfigFromEnv()
	if err != nil {
		log.Fatal("load config", "err", err)
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "spotify-stream",
	})
	if level, err := log.ParseLevel(cfg.LogLevel); err == nil {
		logger.SetLevel(level)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	persist, closePersist, err := newPersistence(ctx, cfg)
	if err != nil {
		logger.Fatal("init persistence", "err", err)
	}
	defer closePersist()

	store := library.NewStore(ctx, persist, logger)

	var rdb *redis.Client
	if cfg.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Fatal("parse redis url", "err", err)
		}
		rdb = redis.NewClient(opt)
		defer rdb.Close()
	}
	events := library.NewPublisher(rdb, logger)

	downloader, err := provider.NewYouTubeDownloader(logger)
	if err != nil {
		logger.Fatal("init downloader", "err", err)
	}
	defer downloader.Cleanup()

	libSrv := library.NewServer(store, events)
	provSrv := provider.NewServer(
		provider.NewYouTubeClient(cfg.YouTubeAPIKey, cfg.YouTubeBaseURL, logger),
		provider.NewYouTubeResolver(),
		downloader,
		provider.NewStreamProxy(),
		logger,
	)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: setupRouter(cfg, logger, libSrv, provSrv),
	}

	go func() {
		logger.Info("listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("serve", "err", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown", "err", err)
	}
}

func newPersistence(ctx context.Context, cfg Config) (library.Persistence, func(), error) {
	if cfg.DatabaseURL == "" {
		return library.NewFileStore(cfg.DataFile), func() {}, nil
	}
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, err
	}
	pg, err := library.NewPGStore(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, nil, err
	}
	return pg, pool.Close, nil
}
