package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// LinkedInHandler is the direct-posting stub. It performs no external call;
// real posting against the ugcPosts API is a later integration.
type LinkedInHandler struct{}

// NewLinkedInHandler creates a new LinkedIn handler.
func NewLinkedInHandler() *LinkedInHandler {
	return &LinkedInHandler{}
}

type linkedInPostRequest struct {
	Content     string `json:"content"`
	AccessToken string `json:"accessToken"`
}

// Post handles POST /api/post/linkedin.
// Parameters:
//   - c: Gin request context.
// Returns: none (writes JSON response).
func (h *LinkedInHandler) Post(c *gin.Context) {
	var req linkedInPostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	if req.Content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Content required"})
		return
	}
	if req.AccessToken == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "LinkedIn Access Token required"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"message":  "LinkedIn post queued!",
		"platform": "LinkedIn",
		"note":     "This is a stub for direct posting integration.",
	})
}
