package repository

import (
	"context"
	"fmt"

	"github.com/lingohq/lingo/internal/domain"
	"gorm.io/gorm"
)

// FeedbackRepository handles feedback rating persistence.
type FeedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository creates a new FeedbackRepository.
// Parameters:
//   - db: GORM database handle used for queries.
// Returns:
//   - *FeedbackRepository: repository instance bound to db.
func NewFeedbackRepository(db *gorm.DB) *FeedbackRepository {
	return &FeedbackRepository{db: db}
}

// Create appends a feedback record.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - fb: feedback record to insert.
// Returns:
//   - error: non-nil if the insert fails.
func (r *FeedbackRepository) Create(ctx context.Context, fb *domain.Feedback) error {
	return r.db.WithContext(ctx).Create(fb).Error
}

// ListByJob retrieves all feedback recorded for a job.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - jobID: job ID the feedback references.
// Returns:
//   - []domain.Feedback: matching feedback records, oldest first.
//   - error: non-nil if the query fails.
func (r *FeedbackRepository) ListByJob(ctx context.Context, jobID string) ([]domain.Feedback, error) {
	var out []domain.Feedback
	if err := r.db.WithContext(ctx).
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, fmt.Errorf("failed to list feedback for job %s: %w", jobID, err)
	}
	return out, nil
}
