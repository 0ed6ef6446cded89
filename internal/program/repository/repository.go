package repository

import (
	"context"

	"habitloop-backend/internal/program/domain"
)

// ProgramRepository defines data access for programs, activities and
// subscriptions.
type ProgramRepository interface {
	CreateProgram(ctx context.Context, program *domain.Program) error

	// FindProgramByID returns the program or nil when no row exists.
	FindProgramByID(ctx context.Context, id string) (*domain.Program, error)

	ListProgramsByCreator(ctx context.Context, creatorID string) ([]*domain.Program, error)

	// FindPersonalProgram returns the user's personal program, nil if
	// none exists yet.
	FindPersonalProgram(ctx context.Context, userID string) (*domain.Program, error)

	CreateActivity(ctx context.Context, activity *domain.Activity) error

	// FindActivityByID returns the activity or nil when no row exists.
	// Soft-deleted activities are still returned; callers decide.
	FindActivityByID(ctx context.Context, id string) (*domain.Activity, error)

	UpdateActivity(ctx context.Context, activity *domain.Activity) error

	// ListActivitiesByProgram returns the program's non-deleted activities.
	ListActivitiesByProgram(ctx context.Context, programID string) ([]*domain.Activity, error)

	// ListActivitiesForUser returns every non-deleted activity reachable
	// from the user: subscribed programs plus the personal program.
	ListActivitiesForUser(ctx context.Context, userID string) ([]*domain.Activity, error)

	CreateSubscription(ctx context.Context, sub *domain.Subscription) error

	// FindSubscription returns the subscription or nil when none exists.
	FindSubscription(ctx context.Context, userID, programID string) (*domain.Subscription, error)

	DeleteSubscription(ctx context.Context, userID, programID string) (int64, error)

	ListSubscriptionsByUser(ctx context.Context, userID string) ([]*domain.Subscription, error)
}
