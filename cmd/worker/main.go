package main

import (
	"log"
	"os"

	"github.com/hibiken/asynq"
	"github.com/lingohq/lingo/internal/config"
	"github.com/lingohq/lingo/internal/logger"
	"github.com/lingohq/lingo/internal/queue"
	"github.com/lingohq/lingo/internal/repository"
	"github.com/lingohq/lingo/internal/service"
	"github.com/lingohq/lingo/internal/worker"
	"github.com/redis/go-redis/v9"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	appLog := logger.NewDefault()
	logger.SetDefaultLogger(appLog)
	defer logger.Sync()

	// Initialize database
	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to initialize database")
	}
	jobRepo := repository.NewJobRepository(db)

	// Initialize progress store
	redisCfg, err := redis.ParseURL(cfg.Redis.URL)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to parse Redis URL")
	}
	redisClient := redis.NewClient(redisCfg)
	defer redisClient.Close()
	progressStore := queue.NewProgressStore(redisClient)

	// Initialize reformat service
	reformatService := service.NewReformatService(&service.ReformatConfig{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Model:   cfg.LLM.Model,
	})

	w := worker.New(reformatService, jobRepo, progressStore, appLog)

	// Queue server: retry/backoff and cross-job concurrency stay at the
	// library's behavior; only the concurrency knob is exposed.
	redisOpt, err := asynq.ParseRedisURI(cfg.Redis.URL)
	if err != nil {
		appLog.WithError(err).Fatal("Failed to parse Redis URL")
	}
	srv := asynq.NewServer(redisOpt, asynq.Config{
		Concurrency: cfg.Worker.Concurrency,
		Queues: map[string]int{
			queue.QueueSync: 1,
		},
	})

	mux := asynq.NewServeMux()
	mux.HandleFunc(queue.TypeSyncContent, w.HandleSyncContent)

	appLog.WithFields(logger.Fields{
		"concurrency": cfg.Worker.Concurrency,
		"model":       reformatService.GetModel(),
	}).Info("Sync worker started")

	// Run blocks until SIGINT/SIGTERM and drains in-flight jobs
	if err := srv.Run(mux); err != nil {
		appLog.WithError(err).Fatal("Worker server stopped")
	}
}
