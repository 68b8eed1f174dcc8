package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/NiklavsD/Tikodea/internal/analysis"
	"github.com/NiklavsD/Tikodea/internal/api"
	"github.com/NiklavsD/Tikodea/internal/api/handler"
	"github.com/NiklavsD/Tikodea/internal/config"
	"github.com/NiklavsD/Tikodea/internal/queue"
	"github.com/NiklavsD/Tikodea/internal/quota"
	"github.com/NiklavsD/Tikodea/internal/repository"
	"github.com/NiklavsD/Tikodea/internal/scrape"
	"github.com/NiklavsD/Tikodea/internal/service"
	"github.com/NiklavsD/Tikodea/internal/worker"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	// Parse flags
	configPath := flag.String("config", "", "Path to config file")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("tikodea %s (built %s)\n", Version, BuildTime)
		os.Exit(0)
	}

	// Setup logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	logger.Info("starting tikodea",
		"version", Version,
		"build_time", BuildTime,
	)

	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Open database
	db, err := repository.Open(cfg.Database.Path)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Initialize repositories
	videoRepo := repository.NewSQLiteVideoRepository(db)
	chatRepo := repository.NewSQLiteChatRepository(db)
	quotaStore := repository.NewSQLiteQuotaStore(db)

	// Quota tracker for the metered scraping source
	tracker := quota.NewTracker(quotaStore)

	// Metadata source adapters, in priority order
	resolver := scrape.NewResolver(
		scrape.NewSupadataClient(cfg.Scrape),
		scrape.NewScrapTikClient(cfg.Scrape),
		scrape.NewYtdlpAdapter(cfg.Scrape),
		scrape.NewOembedClient(cfg.Scrape),
		scrape.NewURLFallback(),
		tracker,
		cfg.Scrape.ScrapTikMonthlyLimit,
		logger,
	)

	// Gemini analyzer
	ctx := context.Background()
	analyzer, err := analysis.NewGemini(ctx, cfg.Gemini)
	if err != nil {
		logger.Error("failed to initialize analyzer", "error", err)
		os.Exit(1)
	}
	defer analyzer.Close()

	// Submission queue. A missing Redis is not fatal: submissions fall
	// back to synchronous in-process handling.
	var q queue.Queue
	redisQueue, err := queue.NewRedisQueue(cfg.Redis)
	if err != nil {
		logger.Warn("redis unavailable, videos will be processed synchronously", "error", err)
	} else {
		q = redisQueue
		defer redisQueue.Close()
	}

	// Initialize service
	videoSvc := service.NewVideoService(
		videoRepo,
		chatRepo,
		resolver,
		analyzer,
		q,
		tracker,
		cfg.Scrape.ScrapTikMonthlyLimit,
		logger,
	)

	// Initialize handlers
	videoHandler := handler.NewVideoHandler(videoSvc, logger)
	chatHandler := handler.NewChatHandler(videoSvc, logger)
	healthHandler := handler.NewHealthHandler(videoSvc, logger)
	quotaHandler := handler.NewQuotaHandler(videoSvc, logger)

	// Setup router
	router := api.NewRouter(videoHandler, chatHandler, healthHandler, quotaHandler, cfg.Server.CORSOrigins)

	// Worker pool only makes sense when a queue is available.
	var pool *worker.Pool
	if q != nil {
		// Requeue tasks a previous run left in flight.
		if recovered, err := redisQueue.Recover(context.Background()); err != nil {
			logger.Error("failed to recover in-flight tasks", "error", err)
		} else if recovered > 0 {
			logger.Info("recovered in-flight tasks", "count", recovered)
		}

		pool = worker.NewPool(
			worker.Config{
				Workers:        cfg.Worker.Count,
				DequeueTimeout: cfg.Redis.DequeueTimeout,
			},
			q,
			videoSvc,
			logger,
		)
		pool.Start()
	}

	// Setup HTTP server
	srv := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("starting HTTP server", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Stop accepting new requests
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	// Stop workers (allow in-flight tasks to complete)
	if pool != nil {
		if err := pool.Stop(25 * time.Second); err != nil {
			logger.Error("worker pool shutdown error", "error", err)
		}
	}

	logger.Info("shutdown complete")
}
