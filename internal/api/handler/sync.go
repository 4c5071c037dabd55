package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lingohq/lingo/internal/domain"
	"github.com/lingohq/lingo/internal/queue"
	"gorm.io/gorm"
)

// MaxContentLength bounds the source content accepted on submission.
const MaxContentLength = 10000

// Enqueuer submits sync jobs to the queue.
type Enqueuer interface {
	Enqueue(ctx context.Context, payload *queue.SyncPayload) (string, error)
}

// JobLookup reads the queue's view of a job.
type JobLookup interface {
	GetJob(ctx context.Context, jobID string) (*queue.JobSnapshot, error)
}

// ProgressGetter reads a job's incremental progress.
type ProgressGetter interface {
	Get(ctx context.Context, jobID string) (*queue.Progress, error)
}

// JobReader retrieves persisted job records.
type JobReader interface {
	GetByID(ctx context.Context, id string) (*domain.Job, error)
}

// SyncHandler handles job submission and status polling.
type SyncHandler struct {
	enqueuer Enqueuer
	lookup   JobLookup
	progress ProgressGetter
	jobs     JobReader
}

// NewSyncHandler creates a new sync handler.
// Parameters:
//   - enqueuer: queue client used on submission.
//   - lookup: queue inspector used on polling.
//   - progress: progress store used on polling.
//   - jobs: persisted-job reader used as the polling fallback.
// Returns:
//   - *SyncHandler: initialized handler.
func NewSyncHandler(enqueuer Enqueuer, lookup JobLookup, progress ProgressGetter, jobs JobReader) *SyncHandler {
	return &SyncHandler{
		enqueuer: enqueuer,
		lookup:   lookup,
		progress: progress,
		jobs:     jobs,
	}
}

type syncRequest struct {
	Content       string   `json:"content"`
	Platforms     []string `json:"platforms"`
	TargetDialect string   `json:"targetDialect"`
	UserID        string   `json:"userId"`
}

// validate returns the first validation failure message, or "".
func (r *syncRequest) validate() string {
	if strings.TrimSpace(r.Content) == "" {
		return "Missing content or platforms"
	}
	if len(r.Content) > MaxContentLength {
		return "Content exceeds maximum length of 10000 characters"
	}
	if len(r.Platforms) == 0 {
		return "Missing content or platforms"
	}
	return ""
}

// Submit handles POST /api/sync.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *SyncHandler) Submit(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	jobID, err := h.enqueuer.Enqueue(c.Request.Context(), &queue.SyncPayload{
		Content:   req.Content,
		Platforms: req.Platforms,
		Dialect:   req.TargetDialect,
		UserID:    req.UserID,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to queue sync job: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"jobId":   jobID,
		"message": "Sync job queued",
	})
}

// Status handles GET /api/sync/:jobId. When the queue no longer holds the
// job it falls back to the persisted record with progress forced to 100.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *SyncHandler) Status(c *gin.Context) {
	jobID := c.Param("jobId")
	ctx := c.Request.Context()

	snap, err := h.lookup.GetJob(ctx, jobID)
	if err != nil {
		if errors.Is(err, queue.ErrJobNotFound) {
			h.statusFromStore(c, jobID)
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to look up job: " + err.Error(),
		})
		return
	}

	percent := 0
	if prog, perr := h.progress.Get(ctx, jobID); perr == nil {
		percent = prog.Percent
	}
	if snap.State.Terminal() {
		percent = 100
	}

	var results domain.ResultMap
	if snap.Result != nil {
		results = snap.Result.Results
	}

	c.JSON(http.StatusOK, gin.H{
		"jobId":    jobID,
		"state":    snap.State,
		"progress": percent,
		"results":  results,
		"error":    nilIfEmpty(snap.LastError),
	})
}

// statusFromStore synthesizes a status response from the persisted record.
func (h *SyncHandler) statusFromStore(c *gin.Context, jobID string) {
	job, err := h.jobs.GetByID(c.Request.Context(), jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to look up job: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"jobId":    job.ID,
		"state":    job.Status,
		"progress": 100,
		"results":  job.Results,
		"error":    nil,
	})
}

func nilIfEmpty(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}
