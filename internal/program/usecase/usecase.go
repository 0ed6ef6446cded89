package usecase

import (
	"context"
	"errors"

	"habitloop-backend/internal/program/domain"
)

var (
	ErrProgramNotFound   = errors.New("program not found")
	ErrActivityNotFound  = errors.New("activity not found")
	ErrNotCreator        = errors.New("only the program creator may do this")
	ErrPersonalProgram   = errors.New("personal programs cannot be subscribed or unsubscribed")
	ErrAlreadySubscribed = errors.New("already subscribed")
	ErrNotSubscribed     = errors.New("not subscribed")
	ErrInvalidSchedule   = errors.New("invalid schedule")
)

// ActivityInput carries the writable activity fields. An update replaces
// every field with the supplied values; title is always required.
// Schedule fields left empty are treated as wildcards; a fully empty
// schedule is rejected.
type ActivityInput struct {
	Title       string
	Description string
	IsSticky    bool
	Minute      string
	Hour        string
	DayOfMonth  string
	DayOfWeek   string
	Month       string
}

// TaskLifecycle receives subscription and activity change events after
// the program feature has persisted its own state. Implemented by the
// task engine; hook failures are logged, never rolled back into the
// triggering operation.
type TaskLifecycle interface {
	HandleSubscribed(ctx context.Context, userID, programID string) error
	HandleUnsubscribed(ctx context.Context, userID, programID string) error
	HandleActivityEdited(ctx context.Context, activityID string) error
	HandleActivityDeleted(ctx context.Context, activityID string) error
}

// ProgramUsecase defines the interface for program business logic.
type ProgramUsecase interface {
	CreateProgram(ctx context.Context, creatorID, title string, isPrivate bool) (*domain.Program, error)

	// CreatePersonalProgram creates the auto program owned by a new
	// user. Called once per user at registration.
	CreatePersonalProgram(ctx context.Context, userID string) (*domain.Program, error)

	GetProgram(ctx context.Context, programID string) (*domain.Program, error)
	ListPrograms(ctx context.Context, creatorID string) ([]*domain.Program, error)

	CreateActivity(ctx context.Context, userID, programID string, input ActivityInput) (*domain.Activity, error)
	UpdateActivity(ctx context.Context, userID, activityID string, input ActivityInput) (*domain.Activity, error)
	DeleteActivity(ctx context.Context, userID, activityID string) error
	ListActivities(ctx context.Context, programID string) ([]*domain.Activity, error)

	Subscribe(ctx context.Context, userID, programID string) error
	Unsubscribe(ctx context.Context, userID, programID string) error

	// SetTaskLifecycle wires the task engine's event hooks.
	SetTaskLifecycle(hooks TaskLifecycle)
}
