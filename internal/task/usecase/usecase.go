package usecase

import (
	"context"
	"errors"
	"time"

	"habitloop-backend/internal/task/domain"
	"habitloop-backend/internal/task/repository"
	"habitloop-backend/pkg/recurrence"
)

// BackfillHorizonDays bounds the forward window materialized on
// subscribe. A fixed design constant, never caller-supplied.
const BackfillHorizonDays = 30

var (
	ErrTaskNotFound = errors.New("task not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrInvalidDay   = errors.New("invalid day, expected YYYY-MM-DD")

	// ErrActivityNotFound surfaces directory-level missing entities;
	// the engine never synthesizes them.
	ErrActivityNotFound = errors.New("activity not found")
)

// ActivitySnapshot is the directory's view of a schedulable activity.
type ActivitySnapshot struct {
	ID          string
	ProgramID   string
	Title       string
	Description string
	IsSticky    bool
	Schedule    recurrence.Spec
}

// ProgramDirectory resolves which activities can generate tasks for a
// user. Soft-deleted activities are excluded by the implementation.
type ProgramDirectory interface {
	ActivitiesForUser(ctx context.Context, userID string) ([]ActivitySnapshot, error)
	ActivitiesForProgram(ctx context.Context, programID string) ([]ActivitySnapshot, error)

	// ActivityByID returns nil when the activity does not exist.
	ActivityByID(ctx context.Context, activityID string) (*ActivitySnapshot, error)
}

// PopulateResult summarizes one day-population run.
type PopulateResult struct {
	Created int `json:"created"`
}

// BackfillResult summarizes a subscribe backfill. Failed counts
// occurrences whose write was skipped after an error; the backfill as a
// whole still succeeds (best-effort, per-item recovery).
type BackfillResult struct {
	Created int `json:"created"`
	Failed  int `json:"failed"`
}

// CreateTaskInput is the payload for an ad-hoc (non-generated) task.
type CreateTaskInput struct {
	Title       string
	Description string
	DueDate     string // YYYY-MM-DD
	IsSticky    bool
}

// TaskUsecase is the materialization engine plus the user-facing task
// operations. Lifecycle hooks (OnSubscribe and friends) are invoked by
// the program feature after its own persistence succeeds.
type TaskUsecase interface {
	// PopulateDay materializes the user's tasks for one calendar day:
	// sticky carry-forward (for today or past days), schedule
	// evaluation, and idempotent reconciliation against the store.
	PopulateDay(ctx context.Context, userID, day string) (*PopulateResult, error)

	// GetDayTasks returns the user's non-deleted tasks due on the day.
	GetDayTasks(ctx context.Context, userID, day string) ([]*domain.Task, error)

	// OnSubscribe backfills generated tasks over the fixed horizon.
	OnSubscribe(ctx context.Context, userID, programID string) (*BackfillResult, error)

	// OnUnsubscribe soft-deletes the user's future tasks generated from
	// the program's activities. Past tasks are never touched.
	OnUnsubscribe(ctx context.Context, userID, programID string) (int64, error)

	// OnActivityEdited re-evaluates every future task of the activity
	// against its current schedule: still-matching tasks are refreshed,
	// no-longer-matching ones are hard-deleted as stale occurrences.
	OnActivityEdited(ctx context.Context, activityID string) error

	// OnActivityDeleted soft-deletes the activity's future tasks for
	// all users.
	OnActivityDeleted(ctx context.Context, activityID string) (int64, error)

	CreateTask(ctx context.Context, userID string, input CreateTaskInput) (*domain.Task, error)
	SetCompletion(ctx context.Context, userID, taskID string, completed bool) (*domain.Task, error)

	// DeleteTask soft-deletes generated tasks (so population never
	// resurrects them) and hard-deletes ad-hoc tasks.
	DeleteTask(ctx context.Context, userID, taskID string) error
}

// taskUsecase implements TaskUsecase.
type taskUsecase struct {
	taskRepo  repository.TaskRepository
	directory ProgramDirectory
	now       func() time.Time
}

// NewTaskUsecase creates a new instance of taskUsecase.
func NewTaskUsecase(taskRepo repository.TaskRepository, directory ProgramDirectory) TaskUsecase {
	return &taskUsecase{
		taskRepo:  taskRepo,
		directory: directory,
		now:       time.Now,
	}
}

// today returns the current calendar date at UTC midnight.
func (u *taskUsecase) today() time.Time {
	return domain.DayOf(u.now())
}
