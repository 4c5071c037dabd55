package api

import (
	"github.com/gin-gonic/gin"
	"github.com/lingohq/lingo/internal/api/handler"
	"github.com/lingohq/lingo/internal/api/middleware"
	"github.com/lingohq/lingo/internal/logger"
)

// Deps holds the collaborators the HTTP surface is wired with.
type Deps struct {
	Enqueuer handler.Enqueuer
	Lookup   handler.JobLookup
	Progress handler.ProgressGetter
	Jobs     interface {
		handler.JobReader
		handler.HistoryLister
	}
	Feedback handler.FeedbackWriter
	Log      *logger.Logger
	CORS     middleware.CORSConfig
}

// SetupRouter configures the Gin router with all routes
func SetupRouter(deps *Deps, mode string) *gin.Engine {
	// Set Gin mode
	switch mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	r := gin.New()

	log := deps.Log
	if log == nil {
		log = logger.GetDefault()
	}

	// Add middleware
	r.Use(gin.Recovery())
	r.Use(middleware.LoggerMiddleware(log))
	r.Use(middleware.CORS(deps.CORS))

	// Create handlers
	healthHandler := handler.NewHealthHandler()
	syncHandler := handler.NewSyncHandler(deps.Enqueuer, deps.Lookup, deps.Progress, deps.Jobs)
	historyHandler := handler.NewHistoryHandler(deps.Jobs)
	feedbackHandler := handler.NewFeedbackHandler(deps.Feedback)
	linkedInHandler := handler.NewLinkedInHandler()

	// Health check
	r.GET("/health", healthHandler.Health)

	api := r.Group("/api")
	{
		api.POST("/sync", syncHandler.Submit)
		api.GET("/sync/:jobId", syncHandler.Status)
		api.GET("/history/:userId", historyHandler.List)
		api.POST("/feedback", feedbackHandler.Submit)
		api.POST("/post/linkedin", linkedInHandler.Post)
	}

	return r
}
