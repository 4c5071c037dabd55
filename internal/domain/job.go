package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"
)

// JobStatus represents the coarse state of a sync job.
// Values include JobStatusQueued, JobStatusActive, JobStatusCompleted, and JobStatusFailed.
type JobStatus string

const (
	JobStatusQueued    JobStatus = "queued"
	JobStatusActive    JobStatus = "active"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
)

// Terminal reports whether the status is a terminal state.
// Parameters: none.
// Returns:
//   - bool: true for completed or failed.
func (s JobStatus) Terminal() bool {
	return s == JobStatusCompleted || s == JobStatusFailed
}

// ErrorResultPrefix marks a per-platform entry that records a reformat
// failure instead of generated text.
const ErrorResultPrefix = "Error: "

// DefaultUserID is recorded when a submission carries no user identity.
const DefaultUserID = "anonymous"

// StringArray is a custom type for storing string arrays as JSON in the database.
type StringArray []string

// Value implements the driver.Valuer interface for database serialization.
// Parameters: none.
// Returns:
//   - driver.Value: JSON-encoded string representation of the slice.
//   - error: non-nil if marshaling fails.
func (a StringArray) Value() (driver.Value, error) {
	if a == nil {
		return "[]", nil
	}
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
// Parameters:
//   - value: raw database value to decode.
// Returns:
//   - error: non-nil if decoding fails or the type is unexpected.
func (a *StringArray) Scan(value interface{}) error {
	if value == nil {
		*a = StringArray{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan StringArray")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, a)
}

// ResultMap stores per-platform reformatting output (generated text or an
// "Error: ..." entry) as JSON in the database.
type ResultMap map[string]string

// Value implements the driver.Valuer interface for database serialization.
// Parameters: none.
// Returns:
//   - driver.Value: JSON-encoded string representation of the map.
//   - error: non-nil if marshaling fails.
func (m ResultMap) Value() (driver.Value, error) {
	if m == nil {
		return "{}", nil
	}
	b, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements the sql.Scanner interface for database deserialization.
// Parameters:
//   - value: raw database value to decode.
// Returns:
//   - error: non-nil if decoding fails or the type is unexpected.
func (m *ResultMap) Scan(value interface{}) error {
	if value == nil {
		*m = ResultMap{}
		return nil
	}
	bytes, ok := value.([]byte)
	if !ok {
		str, ok := value.(string)
		if !ok {
			return errors.New("failed to scan ResultMap")
		}
		bytes = []byte(str)
	}
	return json.Unmarshal(bytes, m)
}

// Job represents one content-reformatting request spanning one or more
// target platforms. The result map only ever holds keys from Platforms;
// a job is completed once every requested platform has an entry.
type Job struct {
	ID        string      `gorm:"type:text;primaryKey" json:"id"`
	UserID    string      `gorm:"type:text;index:idx_jobs_user" json:"user_id"`
	Content   string      `gorm:"type:text;not null" json:"content"`
	Platforms StringArray `gorm:"type:text" json:"platforms"`
	Dialect   string      `gorm:"type:text" json:"dialect"`
	Results   ResultMap   `gorm:"type:text" json:"results"`
	Status    JobStatus   `gorm:"type:text;index:idx_jobs_status;default:queued" json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// TableName returns the database table name for Job.
// Parameters: none.
// Returns:
//   - string: table name for GORM mapping.
func (Job) TableName() string {
	return "jobs"
}
