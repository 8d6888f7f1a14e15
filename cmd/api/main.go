package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"jobhive/cmd/api/router"
	"jobhive/internal/config"
	cacheAdapter "jobhive/internal/infrastructure/cache/adapter"
	"jobhive/internal/infrastructure/database"
	pubsubAdapter "jobhive/internal/infrastructure/pubsub/adapter"
	queueAdapter "jobhive/internal/infrastructure/queue/adapter"
	"jobhive/internal/infrastructure/realtime"
	dirAdapter "jobhive/internal/pkg/directory/adapter"
	"jobhive/internal/pkg/messaging/application/task"
	httpHandler "jobhive/internal/pkg/messaging/presentation/http"
	repoAdapter "jobhive/internal/pkg/messaging/persistence/repository/adapter"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		slog.Warn(".env file not found or could not be loaded", "error", err)
	}

	cfg := config.Load()

	logger, cleanupLog := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
	defer func() { _ = cleanupLog() }()
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Connect to the database on startup
	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	pool, err := database.Connect(connectCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()

	cache, err := cacheAdapter.NewRedisAdapter(cfg.RedisURL)
	if err != nil {
		logger.Error("failed to connect to redis cache", "error", err)
		os.Exit(1)
	}
	defer cache.Close()

	bus, err := pubsubAdapter.NewRedisBus(cfg.RedisURL)
	if err != nil {
		logger.Error("failed to connect to redis pub/sub", "error", err)
		os.Exit(1)
	}
	defer bus.Close()

	queueClient, err := queueAdapter.NewAsynqClient(cfg.RedisURL)
	if err != nil {
		logger.Error("failed to create queue client", "error", err)
		os.Exit(1)
	}
	defer queueClient.Close()

	hub := realtime.NewHub()
	defer hub.Close()

	relay := realtime.NewRelay(bus, hub, cfg.EventChannel, logger)
	if err := relay.Start(ctx); err != nil {
		logger.Error("failed to start realtime relay", "error", err)
		os.Exit(1)
	}
	defer func() { _ = relay.Stop() }()

	// In-process worker: consumes delivery tasks and publishes them to the bus.
	qsrv, err := queueAdapter.NewAsynqServer(cfg.RedisURL)
	if err != nil {
		logger.Error("failed to create queue server", "error", err)
		os.Exit(1)
	}
	task.RegisterDeliverMessageTask(qsrv, bus, cache, cfg.EventChannel, logger)
	go func() {
		if err := qsrv.Run(ctx); err != nil {
			logger.Error("queue server stopped", "error", err)
		}
	}()

	r := gin.Default()
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	router.RegisterRoutes(r, httpHandler.Deps{
		Messages:   repoAdapter.NewPgMessageRepository(pool),
		Directory:  dirAdapter.NewPgDirectory(pool),
		Queue:      queueClient,
		Cache:      cache,
		Hub:        hub,
		SummaryTTL: time.Duration(cfg.SummaryCacheTTLSeconds) * time.Second,
		Logger:     logger,
	})

	srv := &http.Server{Addr: cfg.ListenAddr, Handler: r}
	go func() {
		logger.Info("messaging API listening", "addr", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("http shutdown failed", "error", err)
	}
}
