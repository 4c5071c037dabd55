package queue

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/lingohq/lingo/internal/domain"
)

func TestMapTaskState(t *testing.T) {
	tests := []struct {
		state asynq.TaskState
		want  domain.JobStatus
	}{
		{asynq.TaskStatePending, domain.JobStatusQueued},
		{asynq.TaskStateScheduled, domain.JobStatusQueued},
		{asynq.TaskStateActive, domain.JobStatusActive},
		{asynq.TaskStateRetry, domain.JobStatusActive},
		{asynq.TaskStateCompleted, domain.JobStatusCompleted},
		{asynq.TaskStateArchived, domain.JobStatusFailed},
	}

	for _, tt := range tests {
		if got := mapTaskState(tt.state); got != tt.want {
			t.Errorf("state %v: expected %s, got %s", tt.state, tt.want, got)
		}
	}
}

func TestSyncPayloadWireFormat(t *testing.T) {
	payload := SyncPayload{
		JobID:     "job-1",
		Content:   "Launching v2 today",
		Platforms: []string{"X", "LinkedIn"},
		UserID:    "anonymous",
	}

	data, err := json.Marshal(&payload)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	s := string(data)
	for _, field := range []string{`"jobId"`, `"content"`, `"platforms"`, `"userId"`} {
		if !strings.Contains(s, field) {
			t.Errorf("payload missing field %s: %s", field, s)
		}
	}
	// Empty dialect is omitted; the worker applies the default
	if strings.Contains(s, "targetDialect") {
		t.Errorf("empty dialect should be omitted: %s", s)
	}
}

func TestPercentDone(t *testing.T) {
	tests := []struct {
		name  string
		done  int
		total int
		want  int
	}{
		{"zero total", 0, 0, 100},
		{"none done", 0, 3, 0},
		{"one of three", 1, 3, 33},
		{"two of three", 2, 3, 66},
		{"all done", 3, 3, 100},
		{"overshoot clamps", 4, 3, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PercentDone(tt.done, tt.total); got != tt.want {
				t.Errorf("expected %d, got %d", tt.want, got)
			}
		})
	}
}

func TestDecodeProgress(t *testing.T) {
	fields := map[string]string{
		"percent":    "66",
		"p:X":        PlatformCompleted,
		"p:LinkedIn": PlatformFailed,
		"e:LinkedIn": "generation API returned empty result",
	}

	p := decodeProgress(fields)

	if p.Percent != 66 {
		t.Errorf("expected percent 66, got %d", p.Percent)
	}
	if p.Platforms["X"] != PlatformCompleted {
		t.Errorf("expected X completed, got %q", p.Platforms["X"])
	}
	if p.Platforms["LinkedIn"] != PlatformFailed {
		t.Errorf("expected LinkedIn failed, got %q", p.Platforms["LinkedIn"])
	}
	if p.Errors["LinkedIn"] != "generation API returned empty result" {
		t.Errorf("unexpected error detail: %q", p.Errors["LinkedIn"])
	}
}

func TestDecodeProgressEmpty(t *testing.T) {
	p := decodeProgress(map[string]string{})

	if p.Percent != 0 {
		t.Errorf("expected percent 0, got %d", p.Percent)
	}
	if len(p.Platforms) != 0 {
		t.Errorf("expected no platform marks, got %v", p.Platforms)
	}
	if p.Errors != nil {
		t.Errorf("expected nil errors, got %v", p.Errors)
	}
}
