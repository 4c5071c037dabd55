package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"github.com/lingohq/lingo/internal/api"
	"github.com/lingohq/lingo/internal/api/middleware"
	"github.com/lingohq/lingo/internal/config"
	"github.com/lingohq/lingo/internal/logger"
	"github.com/lingohq/lingo/internal/queue"
	"github.com/lingohq/lingo/internal/repository"
	"github.com/redis/go-redis/v9"
)

func main() {
	// Load configuration
	// Support CONFIG_PATH environment variable for production deployments
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	// Initialize logger
	appLog := logger.NewDefault()
	logger.SetDefaultLogger(appLog)
	defer logger.Sync()

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize database")
	}
	appLog.WithField("driver", cfg.Database.Driver()).Info("Database initialized")

	// Initialize repositories
	jobRepo := repository.NewJobRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)

	// Initialize queue client and inspector
	redisOpt, err := asynq.ParseRedisURI(cfg.Redis.URL)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to parse Redis URL")
	}
	queueClient := queue.NewClient(redisOpt)
	defer queueClient.Close()
	inspector := queue.NewInspector(redisOpt)
	defer inspector.Close()

	// Initialize progress store
	redisCfg, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to parse Redis URL")
	}
	redisClient := redis.NewClient(redisCfg)
	defer redisClient.Close()
	progressStore := queue.NewProgressStore(redisClient)

	// Setup router
	router := api.SetupRouter(&api.Deps{
		Enqueuer: queueClient,
		Lookup:   inspector,
		Progress: progressStore,
		Jobs:     jobRepo,
		Feedback: feedbackRepo,
		Log:      appLog,
		CORS: middleware.CORSConfig{
			AllowedOrigins:  cfg.Server.CORS.AllowedOrigins,
			AllowAllOrigins: cfg.Server.CORS.AllowAllOrigins,
		},
	}, cfg.Server.Mode)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		appLog.WithFields(logger.Fields{
			"port": cfg.Server.Port,
			"mode": cfg.Server.Mode,
		}).Info("Starting API server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.WithError(err).Fatal("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLog.WithError(err).Fatal("Server forced to shutdown")
	}

	appLog.Info("Server exited")
}
