package repository

import (
	"context"
	"time"

	"habitloop-backend/internal/task/domain"
)

// TaskFilter selects tasks for queries and bulk writes. Zero-valued and
// nil fields are ignored. Deleted rows are excluded unless
// IncludeDeleted is set.
type TaskFilter struct {
	UserID      string
	ActivityID  *string
	ActivityIDs []string
	ProgramID   *string

	// Due-date window, all calendar-date comparisons.
	DueOn     *time.Time
	DueFrom   *time.Time // due_date >= DueFrom
	DueAfter  *time.Time // due_date >  DueAfter
	DueBefore *time.Time // due_date <  DueBefore

	IsCompleted    *bool
	IsSticky       *bool
	IncludeDeleted bool
}

// TaskPatch is a partial update applied by UpdateTasks. Nil fields are
// left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	DueDate     *time.Time
	IsSticky    *bool
	IsDeleted   *bool
}

// TaskRepository is the task store the engine writes through. The
// store must guarantee a unique constraint on (user_id, activity_id,
// due_date); UpsertTask relies on it to stay race-safe.
type TaskRepository interface {
	// Create inserts a task unconditionally (ad-hoc task path).
	Create(ctx context.Context, task *domain.Task) error

	// FindByID returns the task or nil when no row exists.
	FindByID(ctx context.Context, id string) (*domain.Task, error)

	// Update saves the full task row.
	Update(ctx context.Context, task *domain.Task) error

	// Delete hard-deletes a single row.
	Delete(ctx context.Context, id string) error

	// FindTasks returns tasks matching the filter.
	FindTasks(ctx context.Context, filter TaskFilter) ([]*domain.Task, error)

	// UpsertTask inserts the task unless a row already occupies its
	// (user_id, activity_id, due_date) cell. When the insert loses,
	// the existing winner is returned with created=false.
	UpsertTask(ctx context.Context, task *domain.Task) (*domain.Task, bool, error)

	// UpdateTasks applies the patch to every matching row and returns
	// the affected count.
	UpdateTasks(ctx context.Context, filter TaskFilter, patch TaskPatch) (int64, error)

	// DeleteTasks hard-deletes every matching row and returns the
	// affected count.
	DeleteTasks(ctx context.Context, filter TaskFilter) (int64, error)
}
