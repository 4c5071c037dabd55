package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
)

func newTestService(t *testing.T, handler http.HandlerFunc) (*ReformatService, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		handler(w, r)
	}))
	t.Cleanup(ts.Close)

	svc := NewReformatService(&ReformatConfig{
		APIKey:  "test-key",
		BaseURL: ts.URL,
		Model:   "gpt-4o",
	})
	return svc, ts
}

func completionResponse(text string) map[string]interface{} {
	return map[string]interface{}{
		"choices": []map[string]interface{}{
			{"message": map[string]interface{}{"content": text}},
		},
	}
}

func TestReformatSuccess(t *testing.T) {
	var gotBody chatRequest
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("unexpected auth header %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("failed to decode request: %v", err)
		}
		json.NewEncoder(w).Encode(completionResponse("reformatted for X"))
	})

	text, err := svc.Reformat(context.Background(), "Launching v2 today", "X", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if text != "reformatted for X" {
		t.Errorf("expected generated text returned verbatim, got %q", text)
	}

	if gotBody.Model != "gpt-4o" {
		t.Errorf("expected model gpt-4o, got %q", gotBody.Model)
	}
	if gotBody.Temperature != 0.7 {
		t.Errorf("expected temperature 0.7, got %v", gotBody.Temperature)
	}
	if len(gotBody.Messages) != 1 {
		t.Fatalf("expected 1 message, got %d", len(gotBody.Messages))
	}
	prompt := gotBody.Messages[0].Content
	if !strings.Contains(prompt, "Transform the following content for X.") {
		t.Error("prompt missing platform")
	}
	if !strings.Contains(prompt, "Target Dialect: Standard English.") {
		t.Error("prompt missing default dialect")
	}
}

func TestReformatEmptyContentFailsFast(t *testing.T) {
	var calls int64
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt64(&calls, 1)
		json.NewEncoder(w).Encode(completionResponse("unused"))
	})

	tests := []string{"", "   ", "\n\t"}
	for _, content := range tests {
		_, err := svc.Reformat(context.Background(), content, "LinkedIn", "")
		if err == nil {
			t.Errorf("content %q: expected error, got nil", content)
			continue
		}
		if !strings.Contains(err.Error(), "LinkedIn") {
			t.Errorf("error not annotated with platform: %v", err)
		}
		if !strings.Contains(err.Error(), "empty") {
			t.Errorf("error does not indicate empty content: %v", err)
		}
	}

	if n := atomic.LoadInt64(&calls); n != 0 {
		t.Errorf("expected no API calls for empty content, got %d", n)
	}
}

func TestReformatEmptyResult(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]interface{}{
			"choices": []map[string]interface{}{},
		})
	})

	_, err := svc.Reformat(context.Background(), "content", "TikTok", "")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "TikTok") {
		t.Errorf("error not annotated with platform: %v", err)
	}
	if !strings.Contains(err.Error(), "empty result") {
		t.Errorf("error does not indicate empty result: %v", err)
	}
}

func TestReformatAPIError(t *testing.T) {
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		json.NewEncoder(w).Encode(map[string]interface{}{
			"error": map[string]interface{}{
				"message": "rate limit exceeded",
				"type":    "rate_limit_error",
			},
		})
	})

	_, err := svc.Reformat(context.Background(), "content", "X", "")
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if !strings.Contains(err.Error(), "X") {
		t.Errorf("error not annotated with platform: %v", err)
	}
	if !strings.Contains(err.Error(), "429") {
		t.Errorf("error missing status code: %v", err)
	}
}

func TestReformatDialectClause(t *testing.T) {
	var prompt string
	svc, _ := newTestService(t, func(w http.ResponseWriter, r *http.Request) {
		var req chatRequest
		json.NewDecoder(r.Body).Decode(&req)
		if len(req.Messages) > 0 {
			prompt = req.Messages[0].Content
		}
		json.NewEncoder(w).Encode(completionResponse("abeg, we don launch v2"))
	})

	if _, err := svc.Reformat(context.Background(), "Launching v2 today", "X", "Pidgin"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(prompt, "Target Dialect: Pidgin.") {
		t.Errorf("prompt missing requested dialect: %q", prompt)
	}
}
