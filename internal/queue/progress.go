package queue

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

// progressKeyPrefix namespaces per-job progress hashes in Redis.
const progressKeyPrefix = "lingo:progress:"

// progressTTL matches the queue's result retention so progress never
// outlives the job it describes.
const progressTTL = 24 * time.Hour

// Hash field prefixes: "p:<platform>" holds the platform mark,
// "e:<platform>" holds the failure detail.
const (
	platformFieldPrefix = "p:"
	errorFieldPrefix    = "e:"
	percentField        = "percent"
)

// Platform marks recorded as a job advances.
const (
	PlatformCompleted = "completed"
	PlatformFailed    = "failed"
)

// Progress is the incremental state of a running job.
type Progress struct {
	Percent   int               `json:"percent"`
	Platforms map[string]string `json:"platforms"`
	Errors    map[string]string `json:"errors,omitempty"`
}

// ProgressStore records per-platform progress in Redis hashes, keyed by
// job ID, for the status endpoint to read while a job is in flight.
type ProgressStore struct {
	client *redis.Client
}

// NewProgressStore creates a progress store.
// Parameters:
//   - client: Redis client shared with the process.
// Returns:
//   - *ProgressStore: initialized store.
func NewProgressStore(client *redis.Client) *ProgressStore {
	return &ProgressStore{client: client}
}

func progressKey(jobID string) string {
	return progressKeyPrefix + jobID
}

// MarkPlatform records one platform's outcome and the overall percent.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - jobID: job being processed.
//   - platform: platform that finished.
//   - mark: PlatformCompleted or PlatformFailed.
//   - detail: failure detail; empty for success.
//   - percent: overall completion percentage after this platform.
// Returns:
//   - error: non-nil if the Redis write fails.
func (s *ProgressStore) MarkPlatform(ctx context.Context, jobID, platform, mark, detail string, percent int) error {
	key := progressKey(jobID)

	pipe := s.client.Pipeline()
	pipe.HSet(ctx, key, platformFieldPrefix+platform, mark)
	if detail != "" {
		pipe.HSet(ctx, key, errorFieldPrefix+platform, detail)
	}
	pipe.HSet(ctx, key, percentField, percent)
	pipe.Expire(ctx, key, progressTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record progress for job %s: %w", jobID, err)
	}
	return nil
}

// SetPercent records only the overall completion percentage.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - jobID: job being processed.
//   - percent: overall completion percentage.
// Returns:
//   - error: non-nil if the Redis write fails.
func (s *ProgressStore) SetPercent(ctx context.Context, jobID string, percent int) error {
	key := progressKey(jobID)

	pipe := s.client.Pipeline()
	pipe.HSet(ctx, key, percentField, percent)
	pipe.Expire(ctx, key, progressTTL)

	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to record progress for job %s: %w", jobID, err)
	}
	return nil
}

// Get reads a job's progress.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - jobID: job to look up.
// Returns:
//   - *Progress: decoded progress; zero-valued when nothing was recorded yet.
//   - error: non-nil if the Redis read fails.
func (s *ProgressStore) Get(ctx context.Context, jobID string) (*Progress, error) {
	fields, err := s.client.HGetAll(ctx, progressKey(jobID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to read progress for job %s: %w", jobID, err)
	}
	return decodeProgress(fields), nil
}

// decodeProgress turns raw hash fields back into a Progress value.
func decodeProgress(fields map[string]string) *Progress {
	p := &Progress{
		Platforms: make(map[string]string),
	}
	for field, value := range fields {
		switch {
		case field == percentField:
			if n, err := strconv.Atoi(value); err == nil {
				p.Percent = n
			}
		case strings.HasPrefix(field, platformFieldPrefix):
			p.Platforms[strings.TrimPrefix(field, platformFieldPrefix)] = value
		case strings.HasPrefix(field, errorFieldPrefix):
			if p.Errors == nil {
				p.Errors = make(map[string]string)
			}
			p.Errors[strings.TrimPrefix(field, errorFieldPrefix)] = value
		}
	}
	return p
}

// PercentDone computes the overall percentage after done of total platforms.
// Parameters:
//   - done: platforms attempted so far.
//   - total: platforms requested.
// Returns:
//   - int: percentage in 0..100; 100 when total is zero.
func PercentDone(done, total int) int {
	if total <= 0 {
		return 100
	}
	if done >= total {
		return 100
	}
	return done * 100 / total
}
