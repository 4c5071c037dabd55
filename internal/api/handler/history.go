package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/lingohq/lingo/internal/domain"
)

// HistoryLister retrieves a user's persisted jobs, newest first.
type HistoryLister interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]domain.Job, error)
}

// HistoryHandler handles job history retrieval.
type HistoryHandler struct {
	jobs HistoryLister
}

// NewHistoryHandler creates a new history handler.
// Parameters:
//   - jobs: persisted-job lister.
// Returns:
//   - *HistoryHandler: initialized handler.
func NewHistoryHandler(jobs HistoryLister) *HistoryHandler {
	return &HistoryHandler{jobs: jobs}
}

// List handles GET /api/history/:userId. An unknown user yields an empty
// array, never an error.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *HistoryHandler) List(c *gin.Context) {
	userID := c.Param("userId")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}

	jobs, err := h.jobs.ListByUser(c.Request.Context(), userID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to get history: " + err.Error(),
		})
		return
	}

	if jobs == nil {
		jobs = []domain.Job{}
	}
	c.JSON(http.StatusOK, jobs)
}
