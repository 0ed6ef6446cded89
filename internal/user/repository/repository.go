package repository

import (
	"context"

	"habitloop-backend/internal/user/domain"
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error

	// FindByID returns the user or nil when no row exists.
	FindByID(ctx context.Context, id string) (*domain.User, error)

	// FindByEmail returns the user or nil when no row exists.
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	Update(ctx context.Context, user *domain.User) error

	// ListIDs returns every user ID; the daily population job iterates it.
	ListIDs(ctx context.Context) ([]string, error)
}
