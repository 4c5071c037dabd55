package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	"github.com/lingohq/lingo/internal/domain"
	"github.com/lingohq/lingo/internal/logger"
	"github.com/lingohq/lingo/internal/prompts"
	"github.com/lingohq/lingo/internal/queue"
	"github.com/lingohq/lingo/internal/service"
)

// JobSaver persists the aggregated job record once processing finishes.
type JobSaver interface {
	Upsert(ctx context.Context, job *domain.Job) error
}

// ProgressReporter records per-platform progress while a job runs.
type ProgressReporter interface {
	MarkPlatform(ctx context.Context, jobID, platform, mark, detail string, percent int) error
	SetPercent(ctx context.Context, jobID string, percent int) error
}

// Worker consumes sync jobs and fans each one out across its requested
// platforms, one reformat call at a time.
type Worker struct {
	reformatter service.Reformatter
	jobs        JobSaver
	progress    ProgressReporter
	log         *logger.Logger
}

// New creates a worker.
// Parameters:
//   - reformatter: reformatting collaborator invoked per platform.
//   - jobs: persistence collaborator for the final job record.
//   - progress: progress reporter for incremental updates.
//   - log: base logger.
// Returns:
//   - *Worker: initialized worker.
func New(reformatter service.Reformatter, jobs JobSaver, progress ProgressReporter, log *logger.Logger) *Worker {
	return &Worker{
		reformatter: reformatter,
		jobs:        jobs,
		progress:    progress,
		log:         log,
	}
}

// HandleSyncContent processes one sync job. Platforms are attempted in
// request order; a platform failure is recorded in the result map and never
// aborts the remaining platforms. The job ends completed once every
// platform has an entry, even when every entry is an error. A persistence
// failure after that point is logged and swallowed.
// Parameters:
//   - ctx: task context supplied by the queue server.
//   - t: queued task carrying a SyncPayload.
// Returns:
//   - error: non-nil only for a malformed payload; processing itself never
//     fails the task.
func (w *Worker) HandleSyncContent(ctx context.Context, t *asynq.Task) error {
	var payload queue.SyncPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to decode sync payload: %w", err)
	}

	base := w.log
	if base == nil {
		base = logger.GetDefault()
	}
	ctx = base.WithFields(logger.Fields{
		logger.FieldJobID:     payload.JobID,
		logger.FieldUserID:    payload.UserID,
		logger.FieldComponent: "worker",
	}).WithContext(ctx)

	start := time.Now()
	logger.CtxInfo(ctx, "Processing job: platforms=%d, content=%q",
		len(payload.Platforms), truncate(payload.Content, 50))

	if err := w.progress.SetPercent(ctx, payload.JobID, 0); err != nil {
		logger.CtxWarn(ctx, "Failed to reset progress: %v", err)
	}

	results := make(domain.ResultMap, len(payload.Platforms))
	failed := 0

	for i, platform := range payload.Platforms {
		percent := queue.PercentDone(i+1, len(payload.Platforms))

		text, err := w.reformatter.Reformat(ctx, payload.Content, platform, payload.Dialect)
		if err != nil {
			failed++
			results[platform] = domain.ErrorResultPrefix + err.Error()
			logger.FromContext(ctx).
				WithField(logger.FieldPlatform, platform).
				WithError(err).
				Error("Reformat failed")
			if perr := w.progress.MarkPlatform(ctx, payload.JobID, platform, queue.PlatformFailed, err.Error(), percent); perr != nil {
				logger.CtxWarn(ctx, "Failed to record progress: %v", perr)
			}
			continue
		}

		results[platform] = text
		logger.FromContext(ctx).
			WithField(logger.FieldPlatform, platform).
			Info("Shadow-draft generated")
		if perr := w.progress.MarkPlatform(ctx, payload.JobID, platform, queue.PlatformCompleted, "", percent); perr != nil {
			logger.CtxWarn(ctx, "Failed to record progress: %v", perr)
		}
	}

	result := queue.SyncResult{Results: results, Failed: failed}
	if rw := t.ResultWriter(); rw != nil {
		if data, err := json.Marshal(&result); err == nil {
			if _, err := rw.Write(data); err != nil {
				logger.CtxWarn(ctx, "Failed to write task result: %v", err)
			}
		}
	}

	if failed == len(payload.Platforms) && failed > 0 {
		// Still marked completed: every platform has an entry. Callers see
		// the Error: prefixes; flipping the terminal state is a product call.
		logger.FromContext(ctx).
			WithField(logger.FieldCount, failed).
			Warn("Every platform failed; job completes with all-error results")
	}

	job := &domain.Job{
		ID:        payload.JobID,
		UserID:    payload.UserID,
		Content:   payload.Content,
		Platforms: payload.Platforms,
		Dialect:   dialectOrDefault(payload.Dialect),
		Results:   results,
		Status:    domain.JobStatusCompleted,
	}
	if err := w.jobs.Upsert(ctx, job); err != nil {
		// Durability gap kept on purpose: the queue already holds the
		// result, so a failed save must not fail the job.
		logger.CtxError(ctx, "Failed to persist completed job: %v", err)
	}

	logger.FromContext(ctx).WithFields(logger.Fields{
		logger.FieldCount:      len(payload.Platforms),
		logger.FieldStatus:     string(domain.JobStatusCompleted),
		logger.FieldDurationMs: time.Since(start).Milliseconds(),
	}).Infof("Job completed: failed_platforms=%d", failed)

	return nil
}

func dialectOrDefault(dialect string) string {
	if dialect == "" {
		return prompts.DefaultDialect
	}
	return dialect
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
