package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lingohq/lingo/internal/domain"
)

// FeedbackWriter appends feedback records.
type FeedbackWriter interface {
	Create(ctx context.Context, fb *domain.Feedback) error
}

// FeedbackHandler handles feedback recording.
type FeedbackHandler struct {
	feedback FeedbackWriter
}

// NewFeedbackHandler creates a new feedback handler.
// Parameters:
//   - feedback: feedback persistence collaborator.
// Returns:
//   - *FeedbackHandler: initialized handler.
func NewFeedbackHandler(feedback FeedbackWriter) *FeedbackHandler {
	return &FeedbackHandler{feedback: feedback}
}

type feedbackRequest struct {
	JobID    string `json:"jobId"`
	Platform string `json:"platform"`
	Rating   *int   `json:"rating"`
}

// Submit handles POST /api/feedback.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *FeedbackHandler) Submit(c *gin.Context) {
	var req feedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Invalid request: " + err.Error(),
		})
		return
	}

	if strings.TrimSpace(req.JobID) == "" || strings.TrimSpace(req.Platform) == "" || req.Rating == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing jobId, platform, or rating"})
		return
	}

	fb := &domain.Feedback{
		JobID:    req.JobID,
		Platform: req.Platform,
		Rating:   *req.Rating,
	}
	if err := h.feedback.Create(c.Request.Context(), fb); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to save feedback: " + err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "success"})
}
