package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/lingohq/lingo/internal/domain"
)

// TypeSyncContent is the task type for a content sync job.
const TypeSyncContent = "sync:content"

// QueueSync is the queue all sync jobs go through.
const QueueSync = "sync"

// resultRetention keeps completed tasks (and their result payload) visible
// to status polling for this long before the queue drops them.
const resultRetention = 24 * time.Hour

// ErrJobNotFound indicates the job is no longer known to the queue.
var ErrJobNotFound = errors.New("job not found in queue")

// SyncPayload is the unit of work for one submission fanning out to N platforms.
type SyncPayload struct {
	JobID     string   `json:"jobId"`
	Content   string   `json:"content"`
	Platforms []string `json:"platforms"`
	Dialect   string   `json:"targetDialect,omitempty"`
	UserID    string   `json:"userId"`
}

// SyncResult is the return value a worker records once a job is terminal.
type SyncResult struct {
	Results domain.ResultMap `json:"results"`
	Failed  int              `json:"failed"`
}

// JobSnapshot is the queue's view of a job for status polling.
type JobSnapshot struct {
	ID        string
	State     domain.JobStatus
	Result    *SyncResult
	LastError string
}

// Client enqueues sync jobs.
type Client struct {
	client *asynq.Client
}

// NewClient creates a queue client.
// Parameters:
//   - redisOpt: Redis connection options shared with the worker.
// Returns:
//   - *Client: initialized queue client.
func NewClient(redisOpt asynq.RedisConnOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpt)}
}

// Close releases the underlying Redis connections.
// Parameters: none.
// Returns:
//   - error: non-nil if closing fails.
func (c *Client) Close() error {
	return c.client.Close()
}

// Enqueue stores one sync job and returns its identifier. Retry and
// backoff for the job as a whole are left at the queue's defaults; a
// single platform failure never fails the job (the worker isolates it),
// so the outer job rarely needs its own retry.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - payload: unit of work to enqueue; a zero JobID is filled with a new UUID.
// Returns:
//   - string: job identifier for status polling.
//   - error: non-nil if marshaling or the enqueue fails.
func (c *Client) Enqueue(ctx context.Context, payload *SyncPayload) (string, error) {
	if payload.JobID == "" {
		payload.JobID = uuid.New().String()
	}
	if payload.UserID == "" {
		payload.UserID = domain.DefaultUserID
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal sync payload: %w", err)
	}

	task := asynq.NewTask(TypeSyncContent, data)
	_, err = c.client.EnqueueContext(ctx, task,
		asynq.TaskID(payload.JobID),
		asynq.Queue(QueueSync),
		asynq.Retention(resultRetention),
	)
	if err != nil {
		return "", fmt.Errorf("failed to enqueue sync job: %w", err)
	}

	return payload.JobID, nil
}

// Inspector looks up job state in the queue.
type Inspector struct {
	inspector *asynq.Inspector
}

// NewInspector creates a queue inspector.
// Parameters:
//   - redisOpt: Redis connection options shared with the client and worker.
// Returns:
//   - *Inspector: initialized inspector.
func NewInspector(redisOpt asynq.RedisConnOpt) *Inspector {
	return &Inspector{inspector: asynq.NewInspector(redisOpt)}
}

// Close releases the underlying Redis connections.
// Parameters: none.
// Returns:
//   - error: non-nil if closing fails.
func (i *Inspector) Close() error {
	return i.inspector.Close()
}

// GetJob retrieves the queue's view of a job.
// Parameters:
//   - ctx: context for cancellation and deadlines (lookup itself is synchronous).
//   - jobID: job identifier returned by Enqueue.
// Returns:
//   - *JobSnapshot: coarse state and, once terminal, the recorded result.
//   - error: ErrJobNotFound when the queue no longer knows the job.
func (i *Inspector) GetJob(ctx context.Context, jobID string) (*JobSnapshot, error) {
	info, err := i.inspector.GetTaskInfo(QueueSync, jobID)
	if err != nil {
		if errors.Is(err, asynq.ErrTaskNotFound) || errors.Is(err, asynq.ErrQueueNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, fmt.Errorf("failed to look up job %s: %w", jobID, err)
	}

	snap := &JobSnapshot{
		ID:        jobID,
		State:     mapTaskState(info.State),
		LastError: info.LastErr,
	}

	if len(info.Result) > 0 {
		var result SyncResult
		if err := json.Unmarshal(info.Result, &result); err == nil {
			snap.Result = &result
		}
	}

	return snap, nil
}

// mapTaskState collapses the queue's task states into the coarse job lifecycle.
func mapTaskState(state asynq.TaskState) domain.JobStatus {
	switch state {
	case asynq.TaskStateActive, asynq.TaskStateRetry:
		return domain.JobStatusActive
	case asynq.TaskStateCompleted:
		return domain.JobStatusCompleted
	case asynq.TaskStateArchived:
		return domain.JobStatusFailed
	default:
		// pending, scheduled, aggregating
		return domain.JobStatusQueued
	}
}
