package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/lingohq/lingo/internal/prompts"
)

// requestTimeout bounds a single generation call.
const requestTimeout = 30 * time.Second

// retryCount is the automatic retry budget delegated to the HTTP client.
const retryCount = 2

// Reformatter produces platform-specific text from source content.
type Reformatter interface {
	Reformat(ctx context.Context, content, platform, dialect string) (string, error)
}

// ReformatService calls an OpenAI-compatible chat-completions endpoint to
// reformat content for a target platform and dialect.
type ReformatService struct {
	client   *resty.Client
	model    string
	endpoint string
}

// ReformatConfig holds configuration for the reformat service.
type ReformatConfig struct {
	APIKey  string
	BaseURL string
	Model   string
}

// NewReformatService creates a new reformat service.
// Parameters:
//   - cfg: LLM configuration including API key, base URL, and model.
// Returns:
//   - *ReformatService: initialized client wrapper.
func NewReformatService(cfg *ReformatConfig) *ReformatService {
	client := resty.New()
	client.SetHeader("Authorization", "Bearer "+cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	// Timeout and retry are delegated to the client; the worker adds none of its own
	client.SetTimeout(requestTimeout)
	client.SetRetryCount(retryCount)

	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = "https://api.openai.com/v1"
	}

	return &ReformatService{
		client:   client,
		model:    cfg.Model,
		endpoint: baseURL + "/chat/completions",
	}
}

// GetModel returns the model name being used.
// Parameters: none.
// Returns:
//   - string: model identifier.
func (s *ReformatService) GetModel() string {
	return s.model
}

// OpenAI-compatible Chat Completion API request/response structures
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// Reformat transforms content for one platform in the requested dialect.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - content: source content; must be non-empty after trimming.
//   - platform: target platform name.
//   - dialect: target dialect; empty uses the default.
// Returns:
//   - string: generated text, returned exactly as produced.
//   - error: non-nil if the content is empty, the call fails, or the
//     response carries no text; always annotated with the platform.
func (s *ReformatService) Reformat(ctx context.Context, content, platform, dialect string) (string, error) {
	if strings.TrimSpace(content) == "" {
		return "", fmt.Errorf("reformat for %s: source content is empty", platform)
	}

	req := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{
				Role:    "user",
				Content: prompts.BuildReformatPrompt(content, platform, dialect),
			},
		},
		Temperature: 0.7,
	}

	var resp chatResponse
	httpResp, err := s.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&resp).
		Post(s.endpoint)

	if err != nil {
		return "", fmt.Errorf("reformat for %s: failed to call generation API: %w", platform, err)
	}

	if httpResp.StatusCode() < 200 || httpResp.StatusCode() >= 300 {
		errorMsg := fmt.Sprintf("HTTP %d", httpResp.StatusCode())
		if resp.Error != nil {
			errorMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), resp.Error.Message)
		} else if len(httpResp.Body()) > 0 {
			errorMsg = fmt.Sprintf("HTTP %d: %s", httpResp.StatusCode(), string(httpResp.Body()))
		}
		return "", fmt.Errorf("reformat for %s: generation API returned error: %s", platform, errorMsg)
	}

	if resp.Error != nil {
		return "", fmt.Errorf("reformat for %s: generation API error: %s", platform, resp.Error.Message)
	}

	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", fmt.Errorf("reformat for %s: generation API returned empty result", platform)
	}

	return resp.Choices[0].Message.Content, nil
}
