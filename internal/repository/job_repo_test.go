package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/lingohq/lingo/internal/domain"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// A named in-memory database with a shared cache keeps the schema
	// visible across gorm's pooled connections; the name isolates tests.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(&domain.Job{}, &domain.Feedback{}); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

func TestJobRepositoryRoundTrip(t *testing.T) {
	repo := NewJobRepository(newTestDB(t))
	ctx := context.Background()

	in := &domain.Job{
		ID:        "job-1",
		UserID:    "anonymous",
		Content:   "Launching v2 today",
		Platforms: domain.StringArray{"X", "LinkedIn"},
		Dialect:   "Standard English",
		Results: domain.ResultMap{
			"X":        "launch thread",
			"LinkedIn": "professional launch post",
		},
		Status: domain.JobStatusCompleted,
	}
	if err := repo.Upsert(ctx, in); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := repo.GetByID(ctx, "job-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(out.Platforms) != 2 || out.Platforms[0] != "X" || out.Platforms[1] != "LinkedIn" {
		t.Errorf("platform list did not round-trip: %v", out.Platforms)
	}
	if len(out.Results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(out.Results))
	}
	if out.Results["X"] != "launch thread" {
		t.Errorf("result map did not round-trip: %v", out.Results)
	}
	if out.Status != domain.JobStatusCompleted {
		t.Errorf("expected status completed, got %s", out.Status)
	}
}

func TestJobRepositoryUpsertConflictKeepsOriginalContent(t *testing.T) {
	repo := NewJobRepository(newTestDB(t))
	ctx := context.Background()

	first := &domain.Job{
		ID:        "job-1",
		UserID:    "user-a",
		Content:   "original content",
		Platforms: domain.StringArray{"X"},
		Status:    domain.JobStatusQueued,
	}
	if err := repo.Upsert(ctx, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Second write simulates the worker's completion upsert carrying
	// different content; only results/status/dialect may change.
	second := &domain.Job{
		ID:        "job-1",
		UserID:    "someone-else",
		Content:   "tampered content",
		Platforms: domain.StringArray{"TikTok"},
		Dialect:   "Pidgin",
		Results:   domain.ResultMap{"X": "done"},
		Status:    domain.JobStatusCompleted,
	}
	if err := repo.Upsert(ctx, second); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	out, err := repo.GetByID(ctx, "job-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.Content != "original content" {
		t.Errorf("content was overwritten: %q", out.Content)
	}
	if len(out.Platforms) != 1 || out.Platforms[0] != "X" {
		t.Errorf("platform list was overwritten: %v", out.Platforms)
	}
	if out.Status != domain.JobStatusCompleted {
		t.Errorf("expected status completed, got %s", out.Status)
	}
	if out.Dialect != "Pidgin" {
		t.Errorf("expected dialect updated, got %q", out.Dialect)
	}
	if out.Results["X"] != "done" {
		t.Errorf("expected results updated, got %v", out.Results)
	}
}

func TestJobRepositoryGetByIDNotFound(t *testing.T) {
	repo := NewJobRepository(newTestDB(t))

	_, err := repo.GetByID(context.Background(), "missing")
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestJobRepositoryListByUserOrderAndLimit(t *testing.T) {
	repo := NewJobRepository(newTestDB(t))
	ctx := context.Background()

	base := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	for i := 0; i < 15; i++ {
		job := &domain.Job{
			ID:        fmt.Sprintf("job-%02d", i),
			UserID:    "user-a",
			Content:   "content",
			Platforms: domain.StringArray{"X"},
			Status:    domain.JobStatusCompleted,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := repo.Upsert(ctx, job); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	// Another user's job must not appear
	other := &domain.Job{
		ID:        "job-other",
		UserID:    "user-b",
		Content:   "content",
		Platforms: domain.StringArray{"X"},
		Status:    domain.JobStatusCompleted,
		CreatedAt: base.Add(time.Hour),
	}
	if err := repo.Upsert(ctx, other); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	jobs, err := repo.ListByUser(ctx, "user-a", 0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(jobs) != DefaultHistoryLimit {
		t.Fatalf("expected %d jobs, got %d", DefaultHistoryLimit, len(jobs))
	}
	if jobs[0].ID != "job-14" {
		t.Errorf("expected newest job first, got %s", jobs[0].ID)
	}
	for i := 1; i < len(jobs); i++ {
		if jobs[i].CreatedAt.After(jobs[i-1].CreatedAt) {
			t.Errorf("jobs not ordered by descending creation time at index %d", i)
		}
	}

	limited, err := repo.ListByUser(ctx, "user-a", 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(limited) != 3 {
		t.Errorf("expected 3 jobs, got %d", len(limited))
	}
}

func TestFeedbackRepositoryAppend(t *testing.T) {
	repo := NewFeedbackRepository(newTestDB(t))
	ctx := context.Background()

	ratings := []int{1, 0}
	for i, rating := range ratings {
		fb := &domain.Feedback{
			JobID:    "job-1",
			Platform: "X",
			Rating:   rating,
		}
		if err := repo.Create(ctx, fb); err != nil {
			t.Fatalf("unexpected error on insert %d: %v", i, err)
		}
	}

	out, err := repo.ListByJob(ctx, "job-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(out) != 2 {
		t.Fatalf("expected 2 feedback rows, got %d", len(out))
	}
	if out[0].Rating != 1 || out[1].Rating != 0 {
		t.Errorf("unexpected ratings: %v, %v", out[0].Rating, out[1].Rating)
	}
}
