package domain

import "time"

// Feedback is a user rating for one platform's output of a job.
// Append-only; the job reference is not enforced by the schema.
type Feedback struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	JobID     string    `gorm:"type:text;not null;index:idx_feedback_job" json:"job_id"`
	Platform  string    `gorm:"type:text;not null" json:"platform"`
	Rating    int       `json:"rating"`
	CreatedAt time.Time `json:"created_at"`
}

// TableName returns the database table name for Feedback.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (Feedback) TableName() string {
	return "feedback"
}
